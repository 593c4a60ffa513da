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
	"bytes"
	"context"
	"encoding/binary"
	"testing"
)

const aliasAutoSql = "table chromAlias\n" +
	"\"chromosome aliases\"\n" +
	"(\n" +
	"string chrom;\n" +
	"uint chromStart;\n" +
	"uint chromEnd;\n" +
	"string ensembl;\n" +
	"string refseq;\n" +
	")\n\x00"

// buildAliasBigBed assembles a single chromosome chromAlias.bb fixture:
// chr1 of size 1000 with one record carrying its ensembl and refseq
// spellings.
func buildAliasBigBed(t *testing.T) []byte {
	t.Helper()

	var block bytes.Buffer
	binary.Write(&block, binary.LittleEndian, uint32(0))    // chrom ID
	binary.Write(&block, binary.LittleEndian, uint32(0))    // start
	binary.Write(&block, binary.LittleEndian, uint32(1000)) // end
	block.WriteString("1\tNC_000001.11")
	block.WriteByte(0)

	chromTreeOffset := uint64(64)
	autoSqlOffset := chromTreeOffset + 48
	fullDataOffset := autoSqlOffset + uint64(len(aliasAutoSql))
	blockOffset := fullDataOffset + 8
	fullIndexOffset := blockOffset + uint64(block.Len())

	var file bytes.Buffer
	write := func(values ...interface{}) {
		for _, v := range values {
			if err := binary.Write(&file, binary.LittleEndian, v); err != nil {
				t.Fatalf("Writing fixture: %v", err)
			}
		}
	}

	write(uint32(0x8789F2EB))
	write(uint16(4), uint16(0)) // version, zoom levels
	write(chromTreeOffset, fullDataOffset, fullIndexOffset)
	write(uint16(5), uint16(3)) // field counts
	write(autoSqlOffset, uint64(0))
	write(uint32(0), uint64(0)) // uncompressed, reserved

	write(uint32(0x78CA8C91), uint32(1), uint32(4), uint32(8), uint64(1), uint64(0))
	write(uint8(1), uint8(0), uint16(1))
	file.WriteString("chr1")
	write(uint32(0), uint32(1000))

	file.WriteString(aliasAutoSql)

	write(uint64(1))
	file.Write(block.Bytes())

	write(uint32(0x2468ACE0), uint32(1), uint64(1),
		uint32(0), uint32(0), uint32(0), uint32(1000),
		fullIndexOffset, uint32(1), uint32(0))
	write(uint8(1), uint8(0), uint16(1))
	write(uint32(0), uint32(0), uint32(0), uint32(1000),
		blockOffset, uint64(block.Len()))

	return file.Bytes()
}

func TestBigBedResolver(t *testing.T) {
	opener := &mapOpener{files: map[string][]byte{
		"chromAlias.bb": buildAliasBigBed(t),
	}}
	resolver := NewBigBed(opener, "chromAlias.bb")
	ctx := context.Background()

	for _, input := range []string{"chr1", "1", "NC_000001.11"} {
		got, err := resolver.CanonicalName(ctx, input)
		if err != nil {
			t.Fatalf("CanonicalName(%q) returned error: %v", input, err)
		}
		if got != "chr1" {
			t.Fatalf("CanonicalName(%q) = %q, want %q", input, got, "chr1")
		}
	}

	record, err := resolver.Search(ctx, "NC_000001.11")
	if err != nil {
		t.Fatalf("Search() returned error: %v", err)
	}
	if record == nil || record.Canonical != "chr1" || len(record.Aliases) != 3 {
		t.Fatalf("Wrong record: %+v", record)
	}

	alias, ok, err := resolver.AliasFor(ctx, "chr1", "ensembl")
	if err != nil || !ok || alias != "1" {
		t.Fatalf("Wrong ensembl alias: %q, %v, %v", alias, ok, err)
	}
	alias, ok, err = resolver.AliasFor(ctx, "1", "refseq")
	if err != nil || !ok || alias != "NC_000001.11" {
		t.Fatalf("Wrong refseq alias: %q, %v, %v", alias, ok, err)
	}
}

func TestBigBedErrorSurfacesOnQuery(t *testing.T) {
	opener := &mapOpener{files: map[string][]byte{
		"bad.bb": []byte("this is not a bigBed file"),
	}}
	resolver := NewBigBed(opener, "bad.bb")
	ctx := context.Background()

	if opener.opens != 0 {
		t.Fatalf("Constructor performed I/O: %d opens", opener.opens)
	}
	if _, err := resolver.Search(ctx, "chr1"); err == nil {
		t.Fatal("Search() succeeded against malformed data")
	}
	if _, err := resolver.Search(ctx, "chr1"); err == nil {
		t.Fatal("Search() succeeded against malformed data")
	}
	if opener.opens != 1 {
		t.Fatalf("Wrong open count: got %d, want 1", opener.opens)
	}
}
