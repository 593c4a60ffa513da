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

// Package fasta implements a sequence backend over an indexed FASTA
// file.  The companion .fai index (see http://www.htslib.org/doc/faidx.html)
// carries one tab separated line per sequence: name, length, byte offset
// of the first base, bases per line and bytes per line.  Subsequence
// reads are served with ranged reads of the FASTA data; the sequence
// itself is never loaded whole.
package fasta

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/genomeview/assembly/genomics"
)

// Record is the index entry for a single sequence.
type Record struct {
	Name         string
	Length       int64
	Offset       int64
	BasesPerLine int64
	BytesPerLine int64
}

// Index is a parsed .fai index.  Records preserve the order of the index
// file, which matches the order of sequences in the FASTA data.
type Index struct {
	records []Record
	byName  map[string]int
}

// ReadIndex parses .fai index data from r.
func ReadIndex(r io.Reader) (*Index, error) {
	index := &Index{byName: make(map[string]int)}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 5 {
			return nil, errors.Errorf("malformed index line %q", line)
		}

		var numbers [4]int64
		for i, field := range fields[1:] {
			n, err := strconv.ParseInt(field, 10, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "parsing index line %q", line)
			}
			numbers[i] = n
		}

		record := Record{
			Name:         fields[0],
			Length:       numbers[0],
			Offset:       numbers[1],
			BasesPerLine: numbers[2],
			BytesPerLine: numbers[3],
		}
		if record.Name == "" || record.Length < 0 || record.BasesPerLine < 1 {
			return nil, errors.Errorf("invalid index line %q", line)
		}
		if _, ok := index.byName[record.Name]; ok {
			return nil, errors.Errorf("duplicate sequence %q", record.Name)
		}

		index.byName[record.Name] = len(index.records)
		index.records = append(index.records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading index")
	}
	return index, nil
}

// Records returns the index entries in index file order.
func (idx *Index) Records() []Record {
	return idx.records
}

// Reader serves sequence data described by an Index from random access
// FASTA data.
type Reader struct {
	data  io.ReaderAt
	index *Index
}

// NewReader returns a Reader that reads bases from data as described by
// index.
func NewReader(data io.ReaderAt, index *Index) *Reader {
	return &Reader{data: data, index: index}
}

// Enumerate implements genomics.SequenceBackend.
func (r *Reader) Enumerate(_ context.Context) ([]genomics.SequenceRecord, error) {
	records := make([]genomics.SequenceRecord, len(r.index.records))
	for i, rec := range r.index.records {
		records[i] = genomics.SequenceRecord{Name: rec.Name, Length: rec.Length}
	}
	return records, nil
}

// Lookup implements genomics.SequenceBackend.
func (r *Reader) Lookup(_ context.Context, name string) (int64, bool, error) {
	i, ok := r.index.byName[name]
	if !ok {
		return 0, false, nil
	}
	return r.index.records[i].Length, true, nil
}

// FetchRegion implements genomics.SequenceBackend.  Coordinates outside
// the sequence are clamped to it.
func (r *Reader) FetchRegion(_ context.Context, name string, start, end int64) ([]byte, error) {
	i, ok := r.index.byName[name]
	if !ok {
		return nil, errors.Errorf("unknown sequence %q", name)
	}
	rec := r.index.records[i]

	if start < 0 {
		start = 0
	}
	if end > rec.Length {
		end = rec.Length
	}
	if end <= start {
		return nil, errors.Errorf("invalid range %d-%d for sequence %q", start, end, name)
	}

	// Byte offsets of the first and last requested base, accounting for
	// the line terminators between them.
	first := rec.Offset + start/rec.BasesPerLine*rec.BytesPerLine + start%rec.BasesPerLine
	last := rec.Offset + (end-1)/rec.BasesPerLine*rec.BytesPerLine + (end-1)%rec.BasesPerLine

	raw := make([]byte, last-first+1)
	if _, err := r.data.ReadAt(raw, first); err != nil {
		return nil, errors.Wrapf(err, "reading sequence %q", name)
	}

	seq := make([]byte, 0, end-start)
	for _, b := range raw {
		if b == '\n' || b == '\r' {
			continue
		}
		seq = append(seq, b)
	}
	if int64(len(seq)) != end-start {
		return nil, errors.Errorf("sequence %q: got %d bases, want %d", name, len(seq), end-start)
	}
	return seq, nil
}
