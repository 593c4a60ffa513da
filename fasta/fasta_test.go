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

package fasta

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

// testFasta holds two sequences with chr1 wrapped at six bases per line.
// Byte offsets: ">chr1\n" puts the first chr1 base at 6, ">chr2\n"
// spans bytes 23-28 so chr2's bases begin at 29.
const testFasta = ">chr1\n" +
	"ACGTAC\n" +
	"GTACGT\n" +
	"AC\n" +
	">chr2\n" +
	"GGGG\n"

const testIndex = "chr1\t14\t6\t6\t7\n" +
	"chr2\t4\t29\t4\t5\n"

func testReader(t *testing.T) *Reader {
	t.Helper()
	index, err := ReadIndex(strings.NewReader(testIndex))
	if err != nil {
		t.Fatalf("ReadIndex() returned error: %v", err)
	}
	return NewReader(bytes.NewReader([]byte(testFasta)), index)
}

func TestReadIndex(t *testing.T) {
	index, err := ReadIndex(strings.NewReader(testIndex))
	if err != nil {
		t.Fatalf("ReadIndex() returned error: %v", err)
	}

	records := index.Records()
	if len(records) != 2 {
		t.Fatalf("Wrong record count: got %d, want 2", len(records))
	}
	want := Record{Name: "chr1", Length: 14, Offset: 6, BasesPerLine: 6, BytesPerLine: 7}
	if records[0] != want {
		t.Fatalf("Wrong first record: got %+v, want %+v", records[0], want)
	}
	if records[1].Name != "chr2" || records[1].Length != 4 {
		t.Fatalf("Wrong second record: %+v", records[1])
	}
}

func TestReadIndex_Malformed(t *testing.T) {
	testCases := []struct {
		name string
		data string
	}{
		{"too few fields", "chr1\t14\t6\t6\n"},
		{"non numeric field", "chr1\tfourteen\t6\t6\t7\n"},
		{"zero bases per line", "chr1\t14\t6\t0\t1\n"},
		{"duplicate sequence", "chr1\t14\t6\t6\t7\nchr1\t14\t6\t6\t7\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ReadIndex(strings.NewReader(tc.data)); err == nil {
				t.Fatalf("ReadIndex(%q) accepted malformed input", tc.data)
			}
		})
	}
}

func TestEnumerate(t *testing.T) {
	reader := testReader(t)

	records, err := reader.Enumerate(context.Background())
	if err != nil {
		t.Fatalf("Enumerate() returned error: %v", err)
	}
	if len(records) != 2 || records[0].Name != "chr1" || records[1].Name != "chr2" {
		t.Fatalf("Wrong enumeration: %v", records)
	}
	if records[0].Length != 14 || records[1].Length != 4 {
		t.Fatalf("Wrong enumerated lengths: %v", records)
	}
}

func TestLookup(t *testing.T) {
	reader := testReader(t)
	ctx := context.Background()

	length, ok, err := reader.Lookup(ctx, "chr2")
	if err != nil || !ok || length != 4 {
		t.Fatalf("Wrong chr2 lookup: %d, %v, %v", length, ok, err)
	}
	if _, ok, err := reader.Lookup(ctx, "chrM"); err != nil || ok {
		t.Fatalf("Lookup resolved a missing sequence: %v, %v", ok, err)
	}
}

func TestFetchRegion(t *testing.T) {
	reader := testReader(t)

	testCases := []struct {
		name       string
		sequence   string
		start, end int64
		want       string
	}{
		{"whole sequence", "chr1", 0, 14, "ACGTACGTACGTAC"},
		{"within line", "chr1", 1, 4, "CGT"},
		{"across lines", "chr1", 4, 9, "ACGTA"},
		{"last partial line", "chr1", 12, 14, "AC"},
		{"clamped end", "chr1", 10, 100, "GTAC"},
		{"clamped start", "chr1", -5, 3, "ACG"},
		{"second sequence", "chr2", 0, 4, "GGGG"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := reader.FetchRegion(context.Background(), tc.sequence, tc.start, tc.end)
			if err != nil {
				t.Fatalf("FetchRegion(%q, %d, %d) returned error: %v",
					tc.sequence, tc.start, tc.end, err)
			}
			if string(got) != tc.want {
				t.Fatalf("FetchRegion(%q, %d, %d) = %q, want %q",
					tc.sequence, tc.start, tc.end, got, tc.want)
			}
		})
	}
}

func TestFetchRegion_Errors(t *testing.T) {
	reader := testReader(t)
	ctx := context.Background()

	if _, err := reader.FetchRegion(ctx, "chrM", 0, 10); err == nil {
		t.Fatal("FetchRegion accepted an unknown sequence")
	}
	if _, err := reader.FetchRegion(ctx, "chr1", 10, 10); err == nil {
		t.Fatal("FetchRegion accepted an empty range")
	}
	if _, err := reader.FetchRegion(ctx, "chr1", 20, 30); err == nil {
		t.Fatal("FetchRegion accepted a range past the sequence")
	}
}
