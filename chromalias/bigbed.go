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

package chromalias

import (
	"context"
	"fmt"
	"sync"

	"github.com/genomeview/assembly/bigbed"
	"github.com/genomeview/assembly/genomics"
)

// BigBed resolves aliases from an indexed chromAlias.bb file.  The
// canonical name of each sequence is its chromosome tree key; the extra
// BED fields carry the aliases, named by the embedded autoSql
// definition.  Like File, all I/O is deferred until the first query.
type BigBed struct {
	opener genomics.Opener
	path   string

	mu     sync.Mutex
	loaded bool
	table  *table
	err    error
}

// NewBigBed returns a resolver reading path through opener.  No I/O is
// performed until the first query.
func NewBigBed(opener genomics.Opener, path string) *BigBed {
	return &BigBed{opener: opener, path: path}
}

func (b *BigBed) load(ctx context.Context) (*table, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.loaded {
		return b.table, b.err
	}
	b.loaded = true

	b.table, b.err = b.read(ctx)
	if b.err != nil {
		b.err = fmt.Errorf("loading alias data: %v", b.err)
	}
	return b.table, b.err
}

func (b *BigBed) read(ctx context.Context) (*table, error) {
	data, _, err := b.opener.Open(ctx, b.path)
	if err != nil {
		return nil, err
	}
	defer data.Close()

	reader, err := bigbed.NewReader(data)
	if err != nil {
		return nil, err
	}

	// Field names past chrom, start and end name the alias columns.
	var nameSets []string
	if fields := reader.FieldNames(); len(fields) > 3 {
		nameSets = fields[3:]
	}

	table := newTable()
	for _, chrom := range reader.Chroms() {
		records, err := reader.Query(chrom.Name, 0, chrom.Size)
		if err != nil {
			return nil, fmt.Errorf("reading aliases of %q: %v", chrom.Name, err)
		}
		for _, rec := range records {
			record := &genomics.AliasRecord{
				Canonical: rec.Chrom,
				Aliases:   []string{rec.Chrom},
			}
			for i, alias := range rec.Rest {
				if alias == "" {
					continue
				}
				record.Aliases = append(record.Aliases, alias)
				if i < len(nameSets) {
					if record.NameSets == nil {
						record.NameSets = make(map[string]string)
					}
					record.NameSets[nameSets[i]] = alias
				}
			}
			table.add(record)
		}
	}
	return table, nil
}

// CanonicalName implements genomics.AliasResolver.
func (b *BigBed) CanonicalName(ctx context.Context, name string) (string, error) {
	table, err := b.load(ctx)
	if err != nil {
		return name, err
	}
	return table.canonical(name), nil
}

// Search implements genomics.AliasResolver.
func (b *BigBed) Search(ctx context.Context, name string) (*genomics.AliasRecord, error) {
	table, err := b.load(ctx)
	if err != nil {
		return nil, err
	}
	return table.records[name], nil
}

// AliasFor implements genomics.AliasResolver.
func (b *BigBed) AliasFor(ctx context.Context, name, nameSet string) (string, bool, error) {
	table, err := b.load(ctx)
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
