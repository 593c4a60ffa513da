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

package genome

import "context"

// ensureOffsets returns the cumulative offset table over the whole
// genome sequence list, computing it on first use.  Sequence i's offset
// is the sum of the lengths of sequences 0..i-1.  The returned map is
// never mutated after creation.
func (g *Genome) ensureOffsets() map[string]int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.offsets == nil {
		g.offsets = make(map[string]int64, len(g.wgNames))
		var cumulative int64
		for _, name := range g.wgNames {
			g.offsets[name] = cumulative
			cumulative += g.sequences[name].Length
		}
	}
	return g.offsets
}

// invalidateOffsets drops the cached offset table.  The whole genome
// list is fixed after initialization, but any future structural change
// to it must go through here.
func (g *Genome) invalidateOffsets() {
	g.mu.Lock()
	g.offsets = nil
	g.mu.Unlock()
}

// GenomeCoordinate maps a local position on the named sequence to its
// offset in the whole genome coordinate space.  A name outside the
// whole genome view (trimmed or unknown) yields ok == false; that is an
// expected outcome, not a failure.
func (g *Genome) GenomeCoordinate(ctx context.Context, name string, position int64) (int64, bool) {
	offsets := g.ensureOffsets()
	offset, ok := offsets[name]
	if !ok {
		// The whole genome list holds the backend's spellings; retry
		// under the canonical one for callers using another convention.
		offset, ok = offsets[g.CanonicalName(ctx, name)]
	}
	if !ok {
		return 0, false
	}
	return offset + position, true
}

// ChromosomeCoordinate maps a whole genome offset back to a sequence
// name and local position.  A position at or beyond the end of the
// whole genome view maps to the start of its last sequence; that
// fallback is historical behavior, kept for compatibility.  ok is false
// only when the whole genome view is empty.
func (g *Genome) ChromosomeCoordinate(position int64) (string, int64, bool) {
	offsets := g.ensureOffsets()

	g.mu.Lock()
	defer g.mu.Unlock()
	for _, name := range g.wgNames {
		if position < offsets[name]+g.sequences[name].Length {
			return name, position - offsets[name], true
		}
	}
	if n := len(g.wgNames); n > 0 {
		return g.wgNames[n-1], 0, true
	}
	return "", 0, false
}

// Length returns the total nominal length of the whole genome view: the
// sum of the lengths of its sequences.
func (g *Genome) Length() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	var total int64
	for _, name := range g.wgNames {
		total += g.sequences[name].Length
	}
	return total
}
