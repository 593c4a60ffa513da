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

// Package cytoband implements ideogram band sources.  Two
// interchangeable variants are provided: File reads a UCSC
// cytoBandIdeo text file and BigBed reads a cytoband bigBed.  Both
// defer all I/O until the first query.
package cytoband

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/genomeview/assembly/genomics"
)

// File serves bands from a cytoBandIdeo text file.  Each line is tab
// separated: sequence name, band start, band end, band name and Giemsa
// stain.
type File struct {
	opener genomics.Opener
	path   string

	mu     sync.Mutex
	loaded bool
	bands  map[string][]genomics.Band
	err    error
}

// NewFile returns a source reading path through opener.  No I/O is
// performed until the first query.
func NewFile(opener genomics.Opener, path string) *File {
	return &File{opener: opener, path: path}
}

// BandsFor implements genomics.CytobandSource.
func (f *File) BandsFor(ctx context.Context, name string) ([]genomics.Band, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.loaded {
		f.loaded = true
		data, err := genomics.ReadAll(ctx, f.opener, f.path)
		if err != nil {
			f.err = fmt.Errorf("loading cytoband file: %v", err)
		} else {
			f.bands, f.err = parseBandFile(data)
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.bands[name], nil
}

func parseBandFile(data []byte) (map[string][]genomics.Band, error) {
	bands := make(map[string][]genomics.Band)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 5 {
			return nil, fmt.Errorf("malformed cytoband line %q", line)
		}
		start, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing cytoband line %q: %v", line, err)
		}
		end, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing cytoband line %q: %v", line, err)
		}

		bands[fields[0]] = append(bands[fields[0]], genomics.Band{
			Name:  fields[3],
			Start: start,
			End:   end,
			Stain: fields[4],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading cytoband data: %v", err)
	}
	return bands, nil
}
