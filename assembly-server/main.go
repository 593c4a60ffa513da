// This binary serves a genome assembly's coordinate model over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/profile"

	"github.com/genomeview/assembly/genome"
	"github.com/genomeview/assembly/internal/source"
)

var (
	port = flag.Int("port", 8080, "HTTP service port")

	id      = flag.String("id", "", "assembly identifier (generated when empty)")
	name    = flag.String("name", "", "assembly display name")
	nameSet = flag.String("name_set", "", "preferred naming convention for display names")

	fastaPath  = flag.String("fasta", "", "indexed FASTA sequence source")
	faiPath    = flag.String("fasta_index", "", "FASTA index (defaults to the FASTA path plus .fai)")
	twoBitPath = flag.String("twobit", "", "2bit sequence source (takes precedence over -fasta)")
	chromSizes = flag.String("chrom_sizes", "", "ordered name/length list overriding backend enumeration")

	aliasPath      = flag.String("alias", "", "chromAlias flat file")
	aliasBBPath    = flag.String("alias_bb", "", "chromAlias bigBed (takes precedence over -alias)")
	cytobandPath   = flag.String("cytoband", "", "cytoband flat file")
	cytobandBBPath = flag.String("cytoband_bb", "", "cytoband bigBed (takes precedence over -cytoband)")

	order         = flag.String("chromosome_order", "", "comma separated whole genome sequence order")
	noWholeGenome = flag.Bool("no_whole_genome", false, "disable the whole genome view")

	bearerToken = flag.String("bearer_token", "", "OAuth2 bearer token for private gs:// paths")
	profiling   = flag.Bool("profile", false, "enable CPU profiling")
)

func main() {
	flag.Parse()

	if *profiling {
		defer profile.Start(profile.CPUProfile).Stop()
	}

	opener := source.NewPublic()
	if *bearerToken != "" {
		opener = source.NewWithToken(*bearerToken)
	}

	config := genome.Config{
		ID:              *id,
		Name:            *name,
		NameSet:         *nameSet,
		FastaPath:       *fastaPath,
		FastaIndexPath:  *faiPath,
		TwoBitPath:      *twoBitPath,
		ChromSizesPath:  *chromSizes,
		AliasPath:       *aliasPath,
		AliasBBPath:     *aliasBBPath,
		CytobandPath:    *cytobandPath,
		CytobandBBPath:  *cytobandBBPath,
		ChromosomeOrder: genome.ParseNameList(strings.Split(*order, ",")...),
		Opener:          opener,
	}
	if *noWholeGenome {
		disabled := false
		config.WholeGenomeView = &disabled
	}

	g := genome.New(config)
	if err := g.Initialize(context.Background()); err != nil {
		log.Fatalf("Initializing assembly: %v", err)
	}
	log.Printf("Serving assembly %s (%d sequences)", g.ID, len(g.ChromosomeNames()))

	router := gin.Default()
	registerRoutes(router, g)
	router.Run(fmt.Sprintf(":%d", *port))
}
