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

// Package bigbed provides support for reading bigBed files
// (https://genome.ucsc.edu/goldenPath/help/bigBed.html).  It implements
// the subset of the format needed to serve interval metadata: the fixed
// header, the chromosome B+ tree, the R-tree data index and BED record
// blocks.  Zoom levels and summaries are not read.
package bigbed

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"io/ioutil"
	"strings"

	xbinary "github.com/genomeview/assembly/internal/binary"
)

const (
	bigBedMagic    = 0x8789F2EB
	chromTreeMagic = 0x78CA8C91
	rTreeMagic     = 0x2468ACE0

	// This is just to prevent arbitrarily long allocations due to
	// malformed data.
	maximumAutoSqlLength = 1 << 16
)

// Chrom is one sequence declared by the chromosome B+ tree.
type Chrom struct {
	Name string
	ID   uint32
	Size uint32
}

// Record is a single BED record.  Rest holds the tab separated fields
// after the mandatory chrom, start and end, in declaration order.
type Record struct {
	Chrom string
	Start uint32
	End   uint32
	Rest  []string
}

type header struct {
	Version           uint16
	ZoomLevels        uint16
	ChromTreeOffset   uint64
	FullDataOffset    uint64
	FullIndexOffset   uint64
	FieldCount        uint16
	DefinedFieldCount uint16
	AutoSqlOffset     uint64
	SummaryOffset     uint64
	UncompressBufSize uint32
	Reserved          uint64
}

// Reader reads interval records from bigBed data.  The header and the
// chromosome tree are parsed eagerly, record blocks on demand.
type Reader struct {
	r      io.ReaderAt
	order  binary.ByteOrder
	hdr    header
	chroms []Chrom
	byName map[string]*Chrom
	byID   map[uint32]*Chrom
	fields []string
}

// NewReader returns a Reader for the bigBed data in r.
func NewReader(r io.ReaderAt) (*Reader, error) {
	reader := &Reader{
		r:      r,
		byName: make(map[string]*Chrom),
		byID:   make(map[uint32]*Chrom),
	}

	var rawMagic [4]byte
	if _, err := r.ReadAt(rawMagic[:], 0); err != nil {
		return nil, fmt.Errorf("reading magic: %v", err)
	}
	switch {
	case binary.LittleEndian.Uint32(rawMagic[:]) == bigBedMagic:
		reader.order = binary.LittleEndian
	case binary.BigEndian.Uint32(rawMagic[:]) == bigBedMagic:
		reader.order = binary.BigEndian
	default:
		return nil, fmt.Errorf("wrong magic %v", rawMagic)
	}

	if err := xbinary.ReadOrder(reader.section(4, 60), reader.order, &reader.hdr); err != nil {
		return nil, fmt.Errorf("reading header: %v", err)
	}

	if err := reader.parseChromTree(); err != nil {
		return nil, fmt.Errorf("reading chromosome tree: %v", err)
	}
	if err := reader.parseAutoSql(); err != nil {
		return nil, fmt.Errorf("reading autoSql: %v", err)
	}
	return reader, nil
}

func (r *Reader) section(offset, length int64) io.Reader {
	return io.NewSectionReader(r.r, offset, length)
}

// Chroms returns the declared sequences in tree key order.
func (r *Reader) Chroms() []Chrom {
	return r.chroms
}

// Chrom returns the declared sequence with the given name.
func (r *Reader) Chrom(name string) (Chrom, bool) {
	if c := r.byName[name]; c != nil {
		return *c, true
	}
	return Chrom{}, false
}

// FieldNames returns the record field names declared by the embedded
// autoSql definition, or nil if the file carries none.  The first three
// names describe the mandatory chrom, start and end fields.
func (r *Reader) FieldNames() []string {
	return r.fields
}

func (r *Reader) parseChromTree() error {
	var hdr struct {
		Magic     uint32
		BlockSize uint32
		KeySize   uint32
		ValSize   uint32
		ItemCount uint64
		Reserved  uint64
	}
	offset := int64(r.hdr.ChromTreeOffset)
	if err := xbinary.ReadOrder(r.section(offset, 32), r.order, &hdr); err != nil {
		return fmt.Errorf("reading tree header: %v", err)
	}
	if hdr.Magic != chromTreeMagic {
		return fmt.Errorf("wrong tree magic %#x", hdr.Magic)
	}
	if hdr.ValSize != 8 {
		return fmt.Errorf("unexpected value size %d", hdr.ValSize)
	}
	return r.parseChromTreeNode(offset+32, int64(hdr.KeySize))
}

func (r *Reader) parseChromTreeNode(offset, keySize int64) error {
	var node struct {
		IsLeaf   uint8
		Reserved uint8
		Count    uint16
	}
	if err := xbinary.ReadOrder(r.section(offset, 4), r.order, &node); err != nil {
		return fmt.Errorf("reading node header: %v", err)
	}

	itemSize := keySize + 8
	body := r.section(offset+4, int64(node.Count)*itemSize)
	for i := uint16(0); i < node.Count; i++ {
		key := make([]byte, keySize)
		if _, err := io.ReadFull(body, key); err != nil {
			return fmt.Errorf("reading node key: %v", err)
		}

		if node.IsLeaf == 0 {
			var child uint64
			if err := xbinary.ReadOrder(body, r.order, &child); err != nil {
				return fmt.Errorf("reading child offset: %v", err)
			}
			if err := r.parseChromTreeNode(int64(child), keySize); err != nil {
				return err
			}
			continue
		}

		var value struct {
			ID   uint32
			Size uint32
		}
		if err := xbinary.ReadOrder(body, r.order, &value); err != nil {
			return fmt.Errorf("reading node value: %v", err)
		}
		chrom := Chrom{
			Name: string(bytes.TrimRight(key, "\x00")),
			ID:   value.ID,
			Size: value.Size,
		}
		r.chroms = append(r.chroms, chrom)
		r.byName[chrom.Name] = &r.chroms[len(r.chroms)-1]
		r.byID[chrom.ID] = &r.chroms[len(r.chroms)-1]
	}
	return nil
}

func (r *Reader) parseAutoSql() error {
	if r.hdr.AutoSqlOffset == 0 {
		return nil
	}
	raw, err := ioutil.ReadAll(r.section(int64(r.hdr.AutoSqlOffset), maximumAutoSqlLength))
	if err != nil && err != io.ErrUnexpectedEOF {
		return err
	}
	end := bytes.IndexByte(raw, 0)
	if end < 0 {
		return fmt.Errorf("unterminated definition")
	}
	r.fields = parseAutoSqlFields(string(raw[:end]))
	return nil
}

// parseAutoSqlFields extracts the field names from an autoSql table
// definition.  Field declarations are "type name;" pairs between the
// opening and closing parentheses.
func parseAutoSqlFields(def string) []string {
	open := strings.Index(def, "(")
	closing := strings.LastIndex(def, ")")
	if open < 0 || closing < open {
		return nil
	}

	var names []string
	for _, decl := range strings.Split(def[open+1:closing], ";") {
		// Drop the quoted comment that may follow the declaration.
		if i := strings.Index(decl, `"`); i >= 0 {
			decl = decl[:i]
		}
		fields := strings.Fields(decl)
		if len(fields) < 2 {
			continue
		}
		names = append(names, fields[len(fields)-1])
	}
	return names
}
