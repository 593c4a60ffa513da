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
	"bytes"
	"context"
	"encoding/binary"
	"reflect"
	"testing"

	"github.com/genomeview/assembly/genomics"
)

// buildBandBigBed assembles a single chromosome cytoband bigBed fixture:
// chr1 of size 5300000 with two bands in one data block.
func buildBandBigBed(t *testing.T) []byte {
	t.Helper()

	var block bytes.Buffer
	writeRecord := func(start, end uint32, rest string) {
		binary.Write(&block, binary.LittleEndian, uint32(0))
		binary.Write(&block, binary.LittleEndian, start)
		binary.Write(&block, binary.LittleEndian, end)
		block.WriteString(rest)
		block.WriteByte(0)
	}
	writeRecord(0, 2300000, "p36.33\tgneg")
	writeRecord(2300000, 5300000, "p36.32\tgpos25")

	chromTreeOffset := uint64(64)
	fullDataOffset := chromTreeOffset + 48
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
	write(uint16(5), uint16(4)) // field counts
	write(uint64(0), uint64(0)) // no autoSql, no summary
	write(uint32(0), uint64(0)) // uncompressed, reserved

	write(uint32(0x78CA8C91), uint32(1), uint32(4), uint32(8), uint64(1), uint64(0))
	write(uint8(1), uint8(0), uint16(1))
	file.WriteString("chr1")
	write(uint32(0), uint32(5300000))

	write(uint64(2))
	file.Write(block.Bytes())

	write(uint32(0x2468ACE0), uint32(1), uint64(1),
		uint32(0), uint32(0), uint32(0), uint32(5300000),
		fullIndexOffset, uint32(1), uint32(0))
	write(uint8(1), uint8(0), uint16(1))
	write(uint32(0), uint32(0), uint32(0), uint32(5300000),
		blockOffset, uint64(block.Len()))

	return file.Bytes()
}

func TestBigBedBandsFor(t *testing.T) {
	opener := &mapOpener{files: map[string][]byte{
		"cytoBand.bb": buildBandBigBed(t),
	}}
	source := NewBigBed(opener, "cytoBand.bb")
	ctx := context.Background()

	bands, err := source.BandsFor(ctx, "chr1")
	if err != nil {
		t.Fatalf("BandsFor() returned error: %v", err)
	}
	want := []genomics.Band{
		{Name: "p36.33", Start: 0, End: 2300000, Stain: "gneg"},
		{Name: "p36.32", Start: 2300000, End: 5300000, Stain: "gpos25"},
	}
	if !reflect.DeepEqual(bands, want) {
		t.Fatalf("Wrong bands: got %v, want %v", bands, want)
	}

	bands, err = source.BandsFor(ctx, "chrM")
	if err != nil {
		t.Fatalf("BandsFor() returned error: %v", err)
	}
	if len(bands) != 0 {
		t.Fatalf("BandsFor() returned bands for an unknown sequence: %v", bands)
	}
	if opener.opens != 1 {
		t.Fatalf("Wrong open count: got %d, want 1", opener.opens)
	}
}

func TestBigBedBandsFor_ErrorSurfacesOnQuery(t *testing.T) {
	opener := &mapOpener{files: map[string][]byte{
		"bad.bb": []byte("this is not a bigBed file"),
	}}
	source := NewBigBed(opener, "bad.bb")
	ctx := context.Background()

	if opener.opens != 0 {
		t.Fatalf("Constructor performed I/O: %d opens", opener.opens)
	}
	if _, err := source.BandsFor(ctx, "chr1"); err == nil {
		t.Fatal("BandsFor() succeeded against malformed data")
	}
	if _, err := source.BandsFor(ctx, "chr1"); err == nil {
		t.Fatal("BandsFor() succeeded against malformed data")
	}
	if opener.opens != 1 {
		t.Fatalf("Wrong open count: got %d, want 1", opener.opens)
	}
}
