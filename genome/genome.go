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

// Package genome models a genome assembly as a coordinate system: a set
// of named sequences with lengths, optional alternate naming, and a
// derived linear whole genome coordinate space built by concatenating a
// filtered, ordered subset of the sequences.
//
// A Genome is constructed cheaply with New and populated by Initialize,
// which performs all source I/O.  After a successful Initialize it
// serves bidirectional coordinate queries, lazy sequence discovery, and
// alias and cytoband lookups for the rest of the process lifetime.
// Callers never talk to the underlying backends directly.
package genome

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"fmt"
	"io"
	"sync"

	"github.com/genomeview/assembly/chromalias"
	"github.com/genomeview/assembly/cytoband"
	"github.com/genomeview/assembly/fasta"
	"github.com/genomeview/assembly/genomics"
	"github.com/genomeview/assembly/twobit"
)

// WholeGenomeName is the name of the synthesized pseudo sequence that
// represents the concatenation of the whole genome view.
const WholeGenomeName = "all"

// Genome is an initialized assembly index.  Must be created with New.
type Genome struct {
	config Config
	opener genomics.Opener

	// ID and Name identify the assembly.  ID is generated from the
	// configured randomness source when the configuration has none.
	ID   string
	Name string

	backend   genomics.SequenceBackend
	alias     genomics.AliasResolver
	cytobands genomics.CytobandSource

	mu sync.Mutex
	// sequences holds one entry per resolved name.  A nil value is the
	// permanent marker for a name that was looked up and not found,
	// which bounds the cost of repeated failing lookups.  A missing key
	// means the name was never looked up.
	sequences map[string]*Chromosome
	// names preserves the declaration order of discovered sequences,
	// excluding the synthesized pseudo sequence.
	names []string
	// wgNames is the ordered subset of names concatenated into the
	// whole genome view.  It is fixed after Initialize.
	wgNames   []string
	wgEnabled bool
	// offsets is the cumulative offset table over wgNames, computed on
	// first use and dropped by invalidateOffsets.
	offsets map[string]int64

	initialized bool
}

// New returns an empty Genome for config.  No I/O is performed until
// Initialize is called.
func New(config Config) *Genome {
	opener := config.Opener
	if opener == nil {
		opener = genomics.FileOpener{}
	}
	return &Genome{
		config:    config,
		opener:    opener,
		Name:      config.Name,
		sequences: make(map[string]*Chromosome),
	}
}

// Initialize loads the configured sources and builds the coordinate
// model.  It must complete successfully before any query is served; a
// failure is terminal for this Genome.
func (g *Genome) Initialize(ctx context.Context) error {
	if g.initialized {
		return fmt.Errorf("assembly already initialized")
	}

	if err := g.initIdentity(); err != nil {
		return err
	}

	backend, err := g.newSequenceBackend(ctx)
	if err != nil {
		return fmt.Errorf("opening sequence source: %v", err)
	}
	g.backend = backend

	records, err := g.enumerate(ctx)
	if err != nil {
		return fmt.Errorf("enumerating sequences: %v", err)
	}
	for _, record := range records {
		if record.Name == "" {
			return fmt.Errorf("sequence with empty name")
		}
		if record.Length < 0 {
			return fmt.Errorf("sequence %q has negative length %d", record.Name, record.Length)
		}
		if _, ok := g.sequences[record.Name]; ok {
			return fmt.Errorf("duplicate sequence %q", record.Name)
		}
		g.sequences[record.Name] = &Chromosome{Name: record.Name, Length: record.Length}
		g.names = append(g.names, record.Name)
	}

	// Alias and cytoband sources defer their own loading; a broken
	// source surfaces when it is first queried, not here.
	g.alias = g.newAliasResolver()
	g.cytobands = g.newCytobandSource()

	if g.config.wholeGenomeEnabled() && len(g.names) > 0 {
		g.wgNames = g.wholeGenomeNames()
	}
	if g.config.wholeGenomeEnabled() && len(g.wgNames) >= 2 {
		g.wgEnabled = true
		g.sequences[WholeGenomeName] = &Chromosome{Name: WholeGenomeName, Length: g.Length()}
	}
	g.invalidateOffsets()

	g.initialized = true
	return nil
}

func (g *Genome) initIdentity() error {
	if g.config.ID != "" {
		g.ID = g.config.ID
		return nil
	}
	random := g.config.Rand
	if random == nil {
		random = crand.Reader
	}
	id, err := GenerateID(random)
	if err != nil {
		return err
	}
	g.ID = id
	return nil
}

func (g *Genome) newSequenceBackend(ctx context.Context) (genomics.SequenceBackend, error) {
	switch {
	case g.config.Backend != nil:
		return g.config.Backend, nil

	case g.config.TwoBitPath != "":
		data, size, err := g.opener.Open(ctx, g.config.TwoBitPath)
		if err != nil {
			return nil, err
		}
		return twobit.NewReader(io.NewSectionReader(data, 0, size))

	case g.config.FastaPath != "":
		indexPath := g.config.FastaIndexPath
		if indexPath == "" {
			indexPath = g.config.FastaPath + ".fai"
		}
		indexData, err := genomics.ReadAll(ctx, g.opener, indexPath)
		if err != nil {
			return nil, err
		}
		index, err := fasta.ReadIndex(bytes.NewReader(indexData))
		if err != nil {
			return nil, err
		}
		data, _, err := g.opener.Open(ctx, g.config.FastaPath)
		if err != nil {
			return nil, err
		}
		return fasta.NewReader(data, index), nil
	}
	return nil, fmt.Errorf("no sequence source configured")
}

// enumerate returns the assembly's declared sequences.  A configured
// chromosome sizes list is authoritative and overrides the backend's
// own enumeration.
func (g *Genome) enumerate(ctx context.Context) ([]genomics.SequenceRecord, error) {
	if g.config.ChromSizesPath == "" {
		return g.backend.Enumerate(ctx)
	}
	data, err := genomics.ReadAll(ctx, g.opener, g.config.ChromSizesPath)
	if err != nil {
		return nil, err
	}
	return parseChromSizes(data)
}

func (g *Genome) newAliasResolver() genomics.AliasResolver {
	switch {
	case g.config.Alias != nil:
		return g.config.Alias
	case g.config.AliasBBPath != "":
		return chromalias.NewBigBed(g.opener, g.config.AliasBBPath)
	case g.config.AliasPath != "":
		return chromalias.NewFile(g.opener, g.config.AliasPath)
	}
	return nil
}

func (g *Genome) newCytobandSource() genomics.CytobandSource {
	switch {
	case g.config.Cytoband != nil:
		return g.config.Cytoband
	case g.config.CytobandBBPath != "":
		return cytoband.NewBigBed(g.opener, g.config.CytobandBBPath)
	case g.config.CytobandPath != "":
		return cytoband.NewFile(g.opener, g.config.CytobandPath)
	}
	return nil
}

// wholeGenomeNames determines the ordered whole genome sequence list,
// from the explicit configuration override when present or from the
// trimming heuristic otherwise.  Unknown names in the override are
// dropped so the offset table only ever references known sequences.
func (g *Genome) wholeGenomeNames() []string {
	if len(g.config.ChromosomeOrder) == 0 {
		chromosomes := make([]*Chromosome, len(g.names))
		for i, name := range g.names {
			chromosomes[i] = g.sequences[name]
		}
		return trimSmallSequences(chromosomes)
	}

	names := make([]string, 0, len(g.config.ChromosomeOrder))
	for _, name := range g.config.ChromosomeOrder {
		if _, ok := g.sequences[name]; ok {
			names = append(names, name)
		}
	}
	return names
}

// Chromosome returns the already resolved chromosome with the given
// name, without consulting the backend.  Use LoadSequence to discover
// sequences not known yet.
func (g *Genome) Chromosome(name string) (*Chromosome, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	chromosome, ok := g.sequences[name]
	if chromosome == nil {
		return nil, false
	}
	return chromosome, ok
}

// ChromosomeNames returns the discovered sequence names in declaration
// order, excluding the whole genome pseudo sequence.
func (g *Genome) ChromosomeNames() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.names...)
}

// WholeGenomeNames returns the ordered sequence names of the whole
// genome view.
func (g *Genome) WholeGenomeNames() []string {
	return append([]string(nil), g.wgNames...)
}

// WholeGenomeEnabled reports whether the whole genome view is active.
func (g *Genome) WholeGenomeEnabled() bool {
	return g.wgEnabled
}

// LoadSequence returns the chromosome with the given name, consulting
// the sequence backend for names not seen before.  A name the backend
// does not know, directly or through an alias, is recorded as
// permanently absent and reported as (nil, nil); later calls return the
// cached outcome without further I/O.
func (g *Genome) LoadSequence(ctx context.Context, name string) (*Chromosome, error) {
	g.mu.Lock()
	if chromosome, ok := g.sequences[name]; ok {
		g.mu.Unlock()
		return chromosome, nil
	}
	g.mu.Unlock()

	chromosome, err := g.discoverSequence(ctx, name)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if cached, ok := g.sequences[name]; ok {
		return cached, nil
	}
	g.sequences[name] = chromosome
	if chromosome != nil {
		g.names = append(g.names, name)
	}
	return chromosome, nil
}

// discoverSequence queries the backend by exact name and then under
// each alias.  On an alias hit the chromosome keeps the backend's own
// spelling while the cache key remains the caller supplied name; the
// length is the one the backend reported for the alias.
func (g *Genome) discoverSequence(ctx context.Context, name string) (*Chromosome, error) {
	length, found, err := g.backend.Lookup(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("looking up sequence %q: %v", name, err)
	}
	if found {
		return &Chromosome{Name: name, Length: length}, nil
	}

	if g.alias == nil {
		return nil, nil
	}
	record, err := g.alias.Search(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("searching aliases of %q: %v", name, err)
	}
	if record == nil {
		return nil, nil
	}
	for _, alias := range record.Aliases {
		if alias == name {
			continue
		}
		length, found, err := g.backend.Lookup(ctx, alias)
		if err != nil {
			return nil, fmt.Errorf("looking up sequence %q: %v", alias, err)
		}
		if found {
			return &Chromosome{Name: alias, Length: length}, nil
		}
	}
	return nil, nil
}

// FetchSequence returns the bases of the half open interval
// [start, end) of the named sequence, resolving the name through the
// alias machinery if needed.  A start below zero is clamped; an end of
// zero or beyond the sequence means its end.
func (g *Genome) FetchSequence(ctx context.Context, name string, start, end int64) ([]byte, error) {
	chromosome, err := g.LoadSequence(ctx, name)
	if err != nil {
		return nil, err
	}
	if chromosome == nil {
		return nil, fmt.Errorf("unknown sequence %q", name)
	}
	if start < 0 {
		start = 0
	}
	if end <= 0 || end > chromosome.Length {
		end = chromosome.Length
	}
	return g.backend.FetchRegion(ctx, chromosome.Name, start, end)
}

// CanonicalName resolves name through the alias resolver.  Without a
// resolver, or when the resolver cannot answer, the name maps to
// itself.
func (g *Genome) CanonicalName(ctx context.Context, name string) string {
	if g.alias == nil {
		return name
	}
	canonical, err := g.alias.CanonicalName(ctx, name)
	if err != nil {
		return name
	}
	return canonical
}

// DisplayName returns the name to show for a sequence.  It differs from
// the input only when both a naming convention preference and an alias
// resolver are configured and the resolver knows an alias under that
// convention.
func (g *Genome) DisplayName(ctx context.Context, name string) string {
	if g.config.NameSet == "" || g.alias == nil {
		return name
	}
	alias, ok, err := g.alias.AliasFor(ctx, name, g.config.NameSet)
	if err != nil || !ok {
		return name
	}
	return alias
}

// AliasRecord returns the full alias record for name, or nil when no
// resolver is configured or the resolver has no record.
func (g *Genome) AliasRecord(ctx context.Context, name string) (*genomics.AliasRecord, error) {
	if g.alias == nil {
		return nil, nil
	}
	return g.alias.Search(ctx, name)
}

// Cytobands returns the ideogram bands of the named sequence, or no
// bands when no cytoband source is configured.
func (g *Genome) Cytobands(ctx context.Context, name string) ([]genomics.Band, error) {
	if g.cytobands == nil {
		return nil, nil
	}
	return g.cytobands.BandsFor(ctx, g.CanonicalName(ctx, name))
}

// Describe returns the serializable description of the assembly: the
// original configuration plus derived identity.  Transient state such
// as the offset cache is excluded.
func (g *Genome) Describe() Description {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Description{
		ID:          g.ID,
		Name:        g.Name,
		NameSet:     g.config.NameSet,
		WholeGenome: g.wgEnabled,
		Chromosomes: len(g.names),
		Config:      g.config,
	}
}

// Description is the serialized form of an assembly.
type Description struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	NameSet     string `json:"nameSet,omitempty"`
	WholeGenome bool   `json:"wholeGenomeView"`
	Chromosomes int    `json:"chromosomeCount"`
	Config      Config `json:"config"`
}
