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

package bigbed

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io/ioutil"
	"strings"

	xbinary "github.com/genomeview/assembly/internal/binary"
)

// dataBlock locates one compressed or raw block of BED records.
type dataBlock struct {
	offset uint64
	size   uint64
}

// Query returns the records of the named sequence overlapping the half
// open interval [start, end).  An unknown sequence yields no records and
// a nil error.
func (r *Reader) Query(name string, start, end uint32) ([]Record, error) {
	chrom := r.byName[name]
	if chrom == nil {
		return nil, nil
	}
	if end == 0 || end > chrom.Size {
		end = chrom.Size
	}

	blocks, err := r.overlappingBlocks(chrom.ID, start, end)
	if err != nil {
		return nil, fmt.Errorf("searching index: %v", err)
	}

	var records []Record
	for _, block := range blocks {
		data, err := r.blockData(block)
		if err != nil {
			return nil, fmt.Errorf("reading data block: %v", err)
		}
		records, err = r.appendRecords(records, data, chrom, start, end)
		if err != nil {
			return nil, fmt.Errorf("decoding data block: %v", err)
		}
	}
	return records, nil
}

func (r *Reader) overlappingBlocks(id, start, end uint32) ([]dataBlock, error) {
	offset := int64(r.hdr.FullIndexOffset)

	var hdr struct {
		Magic         uint32
		BlockSize     uint32
		ItemCount     uint64
		StartChromIx  uint32
		StartBase     uint32
		EndChromIx    uint32
		EndBase       uint32
		EndFileOffset uint64
		ItemsPerSlot  uint32
		Reserved      uint32
	}
	if err := xbinary.ReadOrder(r.section(offset, 48), r.order, &hdr); err != nil {
		return nil, fmt.Errorf("reading index header: %v", err)
	}
	if hdr.Magic != rTreeMagic {
		return nil, fmt.Errorf("wrong index magic %#x", hdr.Magic)
	}

	return r.searchRTreeNode(offset+48, id, start, end, nil)
}

func (r *Reader) searchRTreeNode(offset int64, id, start, end uint32, blocks []dataBlock) ([]dataBlock, error) {
	var node struct {
		IsLeaf   uint8
		Reserved uint8
		Count    uint16
	}
	if err := xbinary.ReadOrder(r.section(offset, 4), r.order, &node); err != nil {
		return nil, fmt.Errorf("reading index node: %v", err)
	}

	itemSize := int64(24)
	if node.IsLeaf != 0 {
		itemSize = 32
	}
	body := r.section(offset+4, int64(node.Count)*itemSize)

	for i := uint16(0); i < node.Count; i++ {
		var span struct {
			StartChromIx uint32
			StartBase    uint32
			EndChromIx   uint32
			EndBase      uint32
		}
		if err := xbinary.ReadOrder(body, r.order, &span); err != nil {
			return nil, fmt.Errorf("reading index item: %v", err)
		}

		overlaps := positionLess(span.StartChromIx, span.StartBase, id, end) &&
			positionLess(id, start, span.EndChromIx, span.EndBase)

		if node.IsLeaf != 0 {
			var block dataBlock
			if err := xbinary.ReadOrder(body, r.order, &block.offset); err != nil {
				return nil, fmt.Errorf("reading block offset: %v", err)
			}
			if err := xbinary.ReadOrder(body, r.order, &block.size); err != nil {
				return nil, fmt.Errorf("reading block size: %v", err)
			}
			if overlaps {
				blocks = append(blocks, block)
			}
			continue
		}

		var child uint64
		if err := xbinary.ReadOrder(body, r.order, &child); err != nil {
			return nil, fmt.Errorf("reading child offset: %v", err)
		}
		if !overlaps {
			continue
		}
		var err error
		if blocks, err = r.searchRTreeNode(int64(child), id, start, end, blocks); err != nil {
			return nil, err
		}
	}
	return blocks, nil
}

// positionLess reports whether genomic position (aIx, aBase) sorts
// strictly before (bIx, bBase).
func positionLess(aIx, aBase, bIx, bBase uint32) bool {
	if aIx != bIx {
		return aIx < bIx
	}
	return aBase < bBase
}

func (r *Reader) blockData(block dataBlock) ([]byte, error) {
	raw := make([]byte, block.size)
	if _, err := r.r.ReadAt(raw, int64(block.offset)); err != nil {
		return nil, fmt.Errorf("reading %d bytes: %v", block.size, err)
	}
	if r.hdr.UncompressBufSize == 0 {
		return raw, nil
	}

	z, err := zlib.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("initializing zlib reader: %v", err)
	}
	defer z.Close()
	data, err := ioutil.ReadAll(z)
	if err != nil {
		return nil, fmt.Errorf("uncompressing block: %v", err)
	}
	return data, nil
}

func (r *Reader) appendRecords(records []Record, data []byte, chrom *Chrom, start, end uint32) ([]Record, error) {
	buf := bytes.NewBuffer(data)
	for buf.Len() > 0 {
		var fixed struct {
			ChromID uint32
			Start   uint32
			End     uint32
		}
		if err := xbinary.ReadOrder(buf, r.order, &fixed); err != nil {
			return nil, fmt.Errorf("reading record header: %v", err)
		}
		rest, err := buf.ReadString(0)
		if err != nil {
			return nil, fmt.Errorf("reading record fields: %v", err)
		}
		rest = strings.TrimSuffix(rest, "\x00")

		if fixed.ChromID != chrom.ID || fixed.Start >= end || fixed.End <= start {
			continue
		}
		record := Record{Chrom: chrom.Name, Start: fixed.Start, End: fixed.End}
		if rest != "" {
			record.Rest = strings.Split(rest, "\t")
		}
		records = append(records, record)
	}
	return records, nil
}
