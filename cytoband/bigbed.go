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

package cytoband

import (
	"context"
	"fmt"
	"sync"

	"github.com/genomeview/assembly/bigbed"
	"github.com/genomeview/assembly/genomics"
)

// BigBed serves bands from an indexed cytoband bigBed file.  Band name
// and stain are the first two extra BED fields of each record.
type BigBed struct {
	opener genomics.Opener
	path   string

	mu     sync.Mutex
	loaded bool
	reader *bigbed.Reader
	err    error
}

// NewBigBed returns a source reading path through opener.  No I/O is
// performed until the first query.
func NewBigBed(opener genomics.Opener, path string) *BigBed {
	return &BigBed{opener: opener, path: path}
}

func (b *BigBed) load(ctx context.Context) (*bigbed.Reader, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.loaded {
		return b.reader, b.err
	}
	b.loaded = true

	data, _, err := b.opener.Open(ctx, b.path)
	if err != nil {
		b.err = fmt.Errorf("loading cytoband data: %v", err)
		return nil, b.err
	}
	if b.reader, err = bigbed.NewReader(data); err != nil {
		data.Close()
		b.err = fmt.Errorf("loading cytoband data: %v", err)
	}
	return b.reader, b.err
}

// BandsFor implements genomics.CytobandSource.
func (b *BigBed) BandsFor(ctx context.Context, name string) ([]genomics.Band, error) {
	reader, err := b.load(ctx)
	if err != nil {
		return nil, err
	}

	records, err := reader.Query(name, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("reading bands of %q: %v", name, err)
	}

	bands := make([]genomics.Band, 0, len(records))
	for _, rec := range records {
		band := genomics.Band{Start: int64(rec.Start), End: int64(rec.End)}
		if len(rec.Rest) > 0 {
			band.Name = rec.Rest[0]
		}
		if len(rec.Rest) > 1 {
			band.Stain = rec.Rest[1]
		}
		bands = append(bands, band)
	}
	return bands, nil
}
