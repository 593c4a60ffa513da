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
	"fmt"
	"reflect"
	"testing"

	"github.com/genomeview/assembly/genomics"
)

// mapOpener serves configured paths from memory and counts opens.
type mapOpener struct {
	files map[string][]byte
	opens int
}

type nopCloserAt struct{ *bytes.Reader }

func (nopCloserAt) Close() error { return nil }

func (o *mapOpener) Open(_ context.Context, path string) (genomics.ReaderAtCloser, int64, error) {
	o.opens++
	data, ok := o.files[path]
	if !ok {
		return nil, 0, fmt.Errorf("no such path %q", path)
	}
	return nopCloserAt{bytes.NewReader(data)}, int64(len(data)), nil
}

const testBandFile = "chr1\t0\t2300000\tp36.33\tgneg\n" +
	"chr1\t2300000\t5300000\tp36.32\tgpos25\n" +
	"chr2\t0\t4400000\tp25.3\tgneg\n"

func TestBandsFor(t *testing.T) {
	opener := &mapOpener{files: map[string][]byte{
		"cytoBand.txt": []byte(testBandFile),
	}}
	source := NewFile(opener, "cytoBand.txt")
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
	if bands != nil {
		t.Fatalf("BandsFor() returned bands for an unknown sequence: %v", bands)
	}
	if opener.opens != 1 {
		t.Fatalf("Wrong open count: got %d, want 1", opener.opens)
	}
}

func TestBandsFor_ErrorSurfacesOnQuery(t *testing.T) {
	opener := &mapOpener{files: nil}
	source := NewFile(opener, "missing.txt")

	if opener.opens != 0 {
		t.Fatalf("Constructor performed I/O: %d opens", opener.opens)
	}
	if _, err := source.BandsFor(context.Background(), "chr1"); err == nil {
		t.Fatal("BandsFor() succeeded against a missing file")
	}
}

func TestParseBandFile(t *testing.T) {
	bands, err := parseBandFile([]byte("# comment\n\n" + testBandFile))
	if err != nil {
		t.Fatalf("parseBandFile() returned error: %v", err)
	}
	if len(bands) != 2 {
		t.Fatalf("Wrong sequence count: got %d, want 2", len(bands))
	}
	if len(bands["chr1"]) != 2 || len(bands["chr2"]) != 1 {
		t.Fatalf("Wrong band counts: %v", bands)
	}
}

func TestParseBandFile_Malformed(t *testing.T) {
	testCases := []struct {
		name string
		data string
	}{
		{"too few fields", "chr1\t0\t100\tp1\n"},
		{"non numeric start", "chr1\tzero\t100\tp1\tgneg\n"},
		{"non numeric end", "chr1\t0\thundred\tp1\tgneg\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := parseBandFile([]byte(tc.data)); err == nil {
				t.Fatalf("parseBandFile(%q) accepted malformed input", tc.data)
			}
		})
	}
}
