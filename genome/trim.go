// Copyright 2026 Genome View Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package genome

// A sequence shorter than 1/smallSequenceDivisor of the running average
// of the accepted sequences is excluded from the whole genome view.
const smallSequenceDivisor = 100

// trimSmallSequences selects the sequences shown in the whole genome
// view, excluding minor scaffolds and contigs so the view is not
// dominated by thousands of tiny fragments.  The input order is
// preserved and the first sequence is always accepted.  The running
// average is computed over accepted sequences only, so a skipped
// fragment does not drag the threshold down.
func trimSmallSequences(chromosomes []*Chromosome) []string {
	if len(chromosomes) == 0 {
		return nil
	}

	names := []string{chromosomes[0].Name}
	average := float64(chromosomes[0].Length)

	for _, chromosome := range chromosomes[1:] {
		if float64(chromosome.Length) < average/smallSequenceDivisor {
			continue
		}
		count := float64(len(names) + 1)
		average = ((count-1)*average + float64(chromosome.Length)) / count
		names = append(names, chromosome.Name)
	}
	return names
}
