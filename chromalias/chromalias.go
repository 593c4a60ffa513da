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

// Package chromalias implements alias resolvers that map sequence names
// across naming conventions (for example "chr1", "1" and a RefSeq
// accession).  Two interchangeable variants are provided: File reads a
// UCSC chromAlias text file and BigBed reads a chromAlias.bb.  Both
// defer all I/O until the first query, so a resolver can be constructed
// for an unreachable source and only queries against it will fail.
package chromalias

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/genomeview/assembly/genomics"
)

// table is the in-memory alias lookup shared by both variants.
type table struct {
	records map[string]*genomics.AliasRecord
}

func newTable() *table {
	return &table{records: make(map[string]*genomics.AliasRecord)}
}

// add registers a record under each of its spellings.  The first
// spelling wins on conflicts.
func (t *table) add(record *genomics.AliasRecord) {
	for _, name := range record.Aliases {
		if name == "" {
			continue
		}
		if _, ok := t.records[name]; !ok {
			t.records[name] = record
		}
	}
}

func (t *table) canonical(name string) string {
	if record, ok := t.records[name]; ok {
		return record.Canonical
	}
	return name
}

// File resolves aliases from a chromAlias text file.  Each line lists
// the equivalent names of one sequence, tab separated; the first column
// is the canonical name.  An optional header line of the form
// "#ucsc<tab>ensembl<tab>refseq" names the convention of each column.
type File struct {
	opener genomics.Opener
	path   string

	mu     sync.Mutex
	loaded bool
	table  *table
	err    error
}

// NewFile returns a resolver reading path through opener.  No I/O is
// performed until the first query.
func NewFile(opener genomics.Opener, path string) *File {
	return &File{opener: opener, path: path}
}

func (f *File) load(ctx context.Context) (*table, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loaded {
		return f.table, f.err
	}
	f.loaded = true

	data, err := genomics.ReadAll(ctx, f.opener, f.path)
	if err != nil {
		f.err = fmt.Errorf("loading alias file: %v", err)
		return nil, f.err
	}
	f.table, f.err = parseAliasFile(data)
	return f.table, f.err
}

// CanonicalName implements genomics.AliasResolver.
func (f *File) CanonicalName(ctx context.Context, name string) (string, error) {
	table, err := f.load(ctx)
	if err != nil {
		return name, err
	}
	return table.canonical(name), nil
}

// Search implements genomics.AliasResolver.
func (f *File) Search(ctx context.Context, name string) (*genomics.AliasRecord, error) {
	table, err := f.load(ctx)
	if err != nil {
		return nil, err
	}
	return table.records[name], nil
}

// AliasFor implements genomics.AliasResolver.
func (f *File) AliasFor(ctx context.Context, name, nameSet string) (string, bool, error) {
	table, err := f.load(ctx)
	if err != nil {
		return "", false, err
	}
	record, ok := table.records[name]
	if !ok {
		return "", false, nil
	}
	alias, ok := record.NameSets[nameSet]
	return alias, ok, nil
}

func parseAliasFile(data []byte) (*table, error) {
	table := newTable()

	var nameSets []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			if nameSets == nil {
				nameSets = strings.Split(strings.TrimPrefix(line, "#"), "\t")
			}
			continue
		}

		fields := strings.Split(line, "\t")
		record := &genomics.AliasRecord{Canonical: fields[0]}
		for i, field := range fields {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			record.Aliases = append(record.Aliases, field)
			if i < len(nameSets) {
				if record.NameSets == nil {
					record.NameSets = make(map[string]string)
				}
				record.NameSets[nameSets[i]] = field
			}
		}
		if record.Canonical == "" {
			return nil, fmt.Errorf("alias line %q has no canonical name", line)
		}
		table.add(record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading alias data: %v", err)
	}
	return table, nil
}
