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

// Package twobit implements a sequence backend over the UCSC 2bit
// compact randomly accessible sequence format.
package twobit

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/genomeview/assembly/genomics"
	xbinary "github.com/genomeview/assembly/internal/binary"
)

const (
	// magic identifies a 2bit file.  The byte order of the file is
	// whichever order makes the first four bytes read as this value.
	magic = 0x1A412743

	// Packed bases, two bits each, high bits first within a byte.
	basesPerByte = 4
)

// bitBases maps a two bit code to its base letter.
var bitBases = [basesPerByte]byte{'T', 'C', 'A', 'G'}

type block struct {
	start uint32
	count uint32
}

type record struct {
	size       uint32
	nBlocks    []block
	maskBlocks []block
	// dataOffset is the absolute file offset of the packed bases.
	dataOffset int64
}

// Reader reads sequences from 2bit data.  It parses the header and the
// name index eagerly and individual sequence records on demand.
type Reader struct {
	r      io.ReadSeeker
	order  binary.ByteOrder
	names  []string
	offset map[string]uint32
}

// NewReader returns a Reader for the 2bit data in r.
func NewReader(r io.ReadSeeker) (*Reader, error) {
	reader := &Reader{r: r, offset: make(map[string]uint32)}

	var hdr struct {
		Magic    uint32
		Version  uint32
		Count    uint32
		Reserved uint32
	}
	if err := xbinary.Read(r, &hdr); err != nil {
		return nil, fmt.Errorf("reading header: %v", err)
	}
	switch hdr.Magic {
	case magic:
		reader.order = binary.LittleEndian
	default:
		// Re-read the header fields in big endian order.
		var swapped [4]byte
		binary.LittleEndian.PutUint32(swapped[:], hdr.Magic)
		if binary.BigEndian.Uint32(swapped[:]) != magic {
			return nil, fmt.Errorf("wrong magic %#x", hdr.Magic)
		}
		reader.order = binary.BigEndian
		for _, v := range []*uint32{&hdr.Version, &hdr.Count, &hdr.Reserved} {
			binary.LittleEndian.PutUint32(swapped[:], *v)
			*v = binary.BigEndian.Uint32(swapped[:])
		}
	}
	if hdr.Version != 0 {
		return nil, fmt.Errorf("unsupported version %d", hdr.Version)
	}
	if hdr.Reserved != 0 {
		return nil, fmt.Errorf("invalid reserved field %d", hdr.Reserved)
	}

	if err := reader.parseIndex(int(hdr.Count)); err != nil {
		return nil, err
	}
	return reader, nil
}

// parseIndex reads count index entries, preserving file order.
func (r *Reader) parseIndex(count int) error {
	for i := 0; i < count; i++ {
		var size uint8
		if err := xbinary.Read(r.r, &size); err != nil {
			return fmt.Errorf("reading index entry %d: %v", i, err)
		}
		name := make([]byte, size)
		if _, err := io.ReadFull(r.r, name); err != nil {
			return fmt.Errorf("reading index entry %d: %v", i, err)
		}
		var offset uint32
		if err := xbinary.ReadOrder(r.r, r.order, &offset); err != nil {
			return fmt.Errorf("reading index entry %d: %v", i, err)
		}
		if _, ok := r.offset[string(name)]; ok {
			return fmt.Errorf("duplicate sequence %q", name)
		}
		r.names = append(r.names, string(name))
		r.offset[string(name)] = offset
	}
	return nil
}

// Names returns the sequence names in file order.
func (r *Reader) Names() []string {
	return r.names
}

// Length returns the length of the named sequence in base pairs.
func (r *Reader) Length(name string) (int64, error) {
	rec, err := r.parseRecord(name, false)
	if err != nil {
		return 0, err
	}
	return int64(rec.size), nil
}

func (r *Reader) parseRecord(name string, blocks bool) (*record, error) {
	offset, ok := r.offset[name]
	if !ok {
		return nil, fmt.Errorf("unknown sequence %q", name)
	}
	if _, err := r.r.Seek(int64(offset), io.SeekStart); err != nil {
		return nil, fmt.Errorf("seeking to sequence %q: %v", name, err)
	}

	rec := new(record)
	if err := xbinary.ReadOrder(r.r, r.order, &rec.size); err != nil {
		return nil, fmt.Errorf("reading size of %q: %v", name, err)
	}
	if !blocks {
		return rec, nil
	}

	var err error
	if rec.nBlocks, err = r.parseBlocks(); err != nil {
		return nil, fmt.Errorf("reading N blocks of %q: %v", name, err)
	}
	if rec.maskBlocks, err = r.parseBlocks(); err != nil {
		return nil, fmt.Errorf("reading mask blocks of %q: %v", name, err)
	}

	var reserved uint32
	if err := xbinary.ReadOrder(r.r, r.order, &reserved); err != nil {
		return nil, fmt.Errorf("reading reserved field of %q: %v", name, err)
	}
	if reserved != 0 {
		return nil, fmt.Errorf("invalid reserved field %d in %q", reserved, name)
	}

	if rec.dataOffset, err = r.r.Seek(0, io.SeekCurrent); err != nil {
		return nil, fmt.Errorf("locating bases of %q: %v", name, err)
	}
	return rec, nil
}

func (r *Reader) parseBlocks() ([]block, error) {
	var count uint32
	if err := xbinary.ReadOrder(r.r, r.order, &count); err != nil {
		return nil, fmt.Errorf("reading block count: %v", err)
	}

	starts := make([]uint32, count)
	if err := xbinary.ReadOrder(r.r, r.order, &starts); err != nil {
		return nil, fmt.Errorf("reading block starts: %v", err)
	}
	sizes := make([]uint32, count)
	if err := xbinary.ReadOrder(r.r, r.order, &sizes); err != nil {
		return nil, fmt.Errorf("reading block sizes: %v", err)
	}

	blocks := make([]block, count)
	for i := range blocks {
		blocks[i] = block{start: starts[i], count: sizes[i]}
	}
	return blocks, nil
}

// ReadRange returns the bases of the half open interval [start, end) of
// the named sequence.  Coordinates outside the sequence are clamped; an
// end of zero means the end of the sequence.  Bases inside N blocks are
// reported as 'N' and masked bases in lower case.
func (r *Reader) ReadRange(name string, start, end int64) ([]byte, error) {
	rec, err := r.parseRecord(name, true)
	if err != nil {
		return nil, err
	}

	size := int64(rec.size)
	if start < 0 {
		start = 0
	}
	if end <= 0 || end > size {
		end = size
	}
	if end <= start {
		return nil, fmt.Errorf("invalid range %d-%d for sequence %q", start, end, name)
	}

	firstByte := start / basesPerByte
	lastByte := (end - 1) / basesPerByte
	packed := make([]byte, lastByte-firstByte+1)
	if _, err := r.r.Seek(rec.dataOffset+firstByte, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seeking to bases of %q: %v", name, err)
	}
	if _, err := io.ReadFull(r.r, packed); err != nil {
		return nil, fmt.Errorf("reading bases of %q: %v", name, err)
	}

	bases := make([]byte, len(packed)*basesPerByte)
	for i, b := range packed {
		for j := basesPerByte - 1; j >= 0; j-- {
			bases[i*basesPerByte+j] = bitBases[b&0x3]
			b >>= 2
		}
	}
	seq := bases[start%basesPerByte : start%basesPerByte+end-start]

	for _, b := range rec.nBlocks {
		for i := overlapStart(b, start); i < overlapEnd(b, end); i++ {
			seq[i-start] = 'N'
		}
	}
	for _, b := range rec.maskBlocks {
		for i := overlapStart(b, start); i < overlapEnd(b, end); i++ {
			seq[i-start] |= 0x20
		}
	}
	return seq, nil
}

func overlapStart(b block, start int64) int64 {
	if s := int64(b.start); s > start {
		return s
	}
	return start
}

func overlapEnd(b block, end int64) int64 {
	if e := int64(b.start) + int64(b.count); e < end {
		return e
	}
	return end
}

// Enumerate implements genomics.SequenceBackend.
func (r *Reader) Enumerate(_ context.Context) ([]genomics.SequenceRecord, error) {
	records := make([]genomics.SequenceRecord, len(r.names))
	for i, name := range r.names {
		length, err := r.Length(name)
		if err != nil {
			return nil, err
		}
		records[i] = genomics.SequenceRecord{Name: name, Length: length}
	}
	return records, nil
}

// Lookup implements genomics.SequenceBackend.
func (r *Reader) Lookup(_ context.Context, name string) (int64, bool, error) {
	if _, ok := r.offset[name]; !ok {
		return 0, false, nil
	}
	length, err := r.Length(name)
	if err != nil {
		return 0, false, err
	}
	return length, true, nil
}

// FetchRegion implements genomics.SequenceBackend.
func (r *Reader) FetchRegion(_ context.Context, name string, start, end int64) ([]byte, error) {
	return r.ReadRange(name, start, end)
}
