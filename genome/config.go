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

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/genomeview/assembly/genomics"
)

// Config describes an assembly and the sources it is loaded from.  It is
// consumed by Initialize; the zero value of every optional field means
// the corresponding capability is not configured.
type Config struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name,omitempty"`
	NameSet string `json:"nameSet,omitempty"`

	// Sequence source.  Exactly one family must be configured; the
	// indexed binary format wins when both are.  FastaIndexPath defaults
	// to FastaPath + ".fai".
	FastaPath      string `json:"fasta,omitempty"`
	FastaIndexPath string `json:"fastaIndex,omitempty"`
	TwoBitPath     string `json:"twoBit,omitempty"`

	// ChromSizesPath names an ordered "name<tab>length" list that
	// overrides the backend's own enumeration.  Needed for backends that
	// cannot enumerate cheaply.
	ChromSizesPath string `json:"chromSizes,omitempty"`

	// Alias and cytoband sources.  The bigBed variant wins when both are
	// configured.
	AliasPath      string `json:"chromAlias,omitempty"`
	AliasBBPath    string `json:"chromAliasBB,omitempty"`
	CytobandPath   string `json:"cytoband,omitempty"`
	CytobandBBPath string `json:"cytobandBB,omitempty"`

	// WholeGenomeView disables the concatenated whole genome coordinate
	// space when set to false.  Nil means enabled.
	WholeGenomeView *bool `json:"wholeGenomeView,omitempty"`

	// ChromosomeOrder overrides the whole genome sequence list,
	// bypassing the small sequence trimming heuristic.
	ChromosomeOrder NameList `json:"chromosomeOrder,omitempty"`

	// Backend, Alias and Cytoband inject sources directly, overriding
	// the path based selection above.  Intended for embedding and tests.
	Backend  genomics.SequenceBackend `json:"-"`
	Alias    genomics.AliasResolver   `json:"-"`
	Cytoband genomics.CytobandSource  `json:"-"`

	// Opener resolves the configured paths.  Defaults to the local
	// filesystem.
	Opener genomics.Opener `json:"-"`

	// Rand is the randomness source for identifier generation.  Defaults
	// to crypto/rand.
	Rand io.Reader `json:"-"`
}

// wholeGenomeEnabled reports whether the configuration permits the whole
// genome view.
func (c *Config) wholeGenomeEnabled() bool {
	return c.WholeGenomeView == nil || *c.WholeGenomeView
}

// NameList is an ordered list of sequence names.  It unmarshals from
// either a JSON array of names or a single comma delimited string, with
// surrounding whitespace trimmed either way.
type NameList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *NameList) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		var joined string
		if err := json.Unmarshal(data, &joined); err != nil {
			return fmt.Errorf("name list must be an array or a delimited string: %v", err)
		}
		names = strings.Split(joined, ",")
	}
	*l = ParseNameList(names...)
	return nil
}

// ParseNameList builds a NameList from names, trimming whitespace and
// dropping empty entries.
func ParseNameList(names ...string) NameList {
	list := make(NameList, 0, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			list = append(list, name)
		}
	}
	return list
}

// GenerateID derives an assembly identifier from the randomness in r.
func GenerateID(r io.Reader) (string, error) {
	id, err := uuid.NewRandomFromReader(r)
	if err != nil {
		return "", fmt.Errorf("generating identifier: %v", err)
	}
	return id.String(), nil
}

// parseChromSizes parses an ordered "name<tab>length" list.  Order is
// preserved: it doubles as the declaration order of the assembly.
func parseChromSizes(data []byte) ([]genomics.SequenceRecord, error) {
	var records []genomics.SequenceRecord

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("malformed sizes line %q", line)
		}
		length, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing sizes line %q: %v", line, err)
		}
		records = append(records, genomics.SequenceRecord{Name: fields[0], Length: length})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading sizes data: %v", err)
	}
	return records, nil
}
