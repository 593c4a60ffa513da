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

// Package genomics contains definitions shared between the assembly core
// and its pluggable backends.
package genomics

import (
	"context"
	"fmt"
)

// SequenceRecord describes a single named sequence and its length in base
// pairs, as reported by a sequence backend or a chromosome sizes list.
type SequenceRecord struct {
	Name   string
	Length int64
}

func (r SequenceRecord) String() string {
	return fmt.Sprintf("[sequence:%s, length:%d]", r.Name, r.Length)
}

// AliasRecord groups the equivalent names of one sequence across naming
// conventions.  Canonical is the spelling the resolver considers primary.
// NameSets maps a naming convention (for example "ucsc" or "refseq") to
// the name under that convention, when the source declares conventions.
type AliasRecord struct {
	Canonical string
	Aliases   []string
	NameSets  map[string]string
}

// Band is a single cytogenetic band of an ideogram.
type Band struct {
	Name  string
	Start int64
	End   int64
	Stain string
}

// SequenceBackend is the capability contract for raw sequence sources.
type SequenceBackend interface {
	// Enumerate returns the sequences known to the backend, in
	// declaration order.
	Enumerate(ctx context.Context) ([]SequenceRecord, error)

	// FetchRegion returns the bases of the half open interval
	// [start, end) of the named sequence.
	FetchRegion(ctx context.Context, name string, start, end int64) ([]byte, error)

	// Lookup reports the length of the named sequence.  A sequence that
	// the backend does not know is reported with found set to false and
	// a nil error.
	Lookup(ctx context.Context, name string) (length int64, found bool, err error)
}

// AliasResolver is the capability contract for name resolution across
// naming conventions.
type AliasResolver interface {
	// CanonicalName maps name to the resolver's canonical spelling.  An
	// unknown name resolves to itself.
	CanonicalName(ctx context.Context, name string) (string, error)

	// Search returns the full alias record for name, or nil if the
	// resolver has no record for it.
	Search(ctx context.Context, name string) (*AliasRecord, error)

	// AliasFor returns the name of the sequence under the given naming
	// convention.
	AliasFor(ctx context.Context, name, nameSet string) (string, bool, error)
}

// CytobandSource is the capability contract for ideogram band metadata.
type CytobandSource interface {
	// BandsFor returns the bands of the named sequence in ascending
	// order.  An unknown sequence yields no bands and a nil error.
	BandsFor(ctx context.Context, name string) ([]Band, error)
}
