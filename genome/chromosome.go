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

import "fmt"

// Chromosome describes a single named sequence of an assembly.  Start is
// always zero in this model; coordinates within a chromosome are local
// to it.  Chromosomes are immutable after discovery.
type Chromosome struct {
	Name   string `json:"name"`
	Start  int64  `json:"start"`
	Length int64  `json:"length"`
}

func (c *Chromosome) String() string {
	return fmt.Sprintf("[chromosome:%s, length:%d]", c.Name, c.Length)
}
