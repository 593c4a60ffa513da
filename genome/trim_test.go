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

import "testing"

func chromosomesOf(lengths ...int64) []*Chromosome {
	chromosomes := make([]*Chromosome, len(lengths))
	for i, length := range lengths {
		chromosomes[i] = &Chromosome{Name: name(i), Length: length}
	}
	return chromosomes
}

func name(i int) string {
	return string(rune('a' + i))
}

func TestTrimSmallSequences(t *testing.T) {
	testCases := []struct {
		name    string
		lengths []int64
		want    []int
	}{
		// The second sequence is rejected (5 < 1000/100), the third
		// accepted moving the average to 950, the fourth rejected
		// (2 < 9.5).
		{"mixed", []int64{1000, 5, 900, 2}, []int{0, 2}},
		{"empty", nil, nil},
		{"single", []int64{7}, []int{0}},
		{"single tiny", []int64{0}, []int{0}},
		// The first sequence is always accepted, however small, and
		// seeds the running average.
		{"tiny first", []int64{1, 500}, []int{0, 1}},
		{"all equal", []int64{100, 100, 100}, []int{0, 1, 2}},
		// Rejected sequences do not drag the average down: 9 is
		// compared against 1000, not against any skipped fragment.
		{"skipped do not affect average", []int64{1000, 5, 9, 1000}, []int{0, 3}},
		// Strictly less than: exactly 1/100 of the average survives.
		{"exact threshold", []int64{1000, 10}, []int{0, 1}},
		{"below threshold", []int64{1000, 9}, []int{0}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			chromosomes := chromosomesOf(tc.lengths...)
			got := trimSmallSequences(chromosomes)

			if len(got) != len(tc.want) {
				t.Fatalf("Wrong accepted names: got %v, want indexes %v", got, tc.want)
			}
			for i, index := range tc.want {
				if got[i] != chromosomes[index].Name {
					t.Fatalf("Wrong accepted names: got %v, want indexes %v", got, tc.want)
				}
			}
		})
	}
}

func TestTrimSmallSequences_Deterministic(t *testing.T) {
	lengths := []int64{100000, 90000, 50, 80000, 3, 3, 70000, 1}
	first := trimSmallSequences(chromosomesOf(lengths...))
	second := trimSmallSequences(chromosomesOf(lengths...))

	if len(first) != len(second) {
		t.Fatalf("Trimming not deterministic: %v != %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("Trimming not deterministic: %v != %v", first, second)
		}
	}
}
