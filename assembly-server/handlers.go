package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/genomeview/assembly/genome"
)

func registerRoutes(router *gin.Engine, g *genome.Genome) {
	router.GET("/genome", newDescribeHandler(g))
	router.GET("/genome/coordinate", newCoordinateHandler(g))
	router.GET("/genome/locus", newLocusHandler(g))
	router.GET("/genome/sequence/:chr", newSequenceHandler(g))
	router.GET("/genome/cytobands/:chr", newCytobandsHandler(g))
	router.GET("/genome/alias/:chr", newAliasHandler(g))
}

// newDescribeHandler serves the assembly description.
func newDescribeHandler(g *genome.Genome) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, g.Describe())
	}
}

// newCoordinateHandler maps a sequence name and local position to the
// whole genome coordinate space.
func newCoordinateHandler(g *genome.Genome) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Query("chr")
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no sequence name specified"})
			return
		}
		position, err := strconv.ParseInt(c.Query("pos"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "parsing position: " + err.Error()})
			return
		}

		offset, ok := g.GenomeCoordinate(c.Request.Context(), name, position)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "sequence is not part of the whole genome view"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"position": offset})
	}
}

// newLocusHandler maps a whole genome coordinate back to a sequence
// name and local position.
func newLocusHandler(g *genome.Genome) gin.HandlerFunc {
	return func(c *gin.Context) {
		position, err := strconv.ParseInt(c.Query("pos"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "parsing position: " + err.Error()})
			return
		}

		name, local, ok := g.ChromosomeCoordinate(position)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "whole genome view is empty"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"chr":      name,
			"display":  g.DisplayName(c.Request.Context(), name),
			"position": local,
		})
	}
}

// newSequenceHandler serves raw bases of a sequence region.
func newSequenceHandler(g *genome.Genome) gin.HandlerFunc {
	return func(c *gin.Context) {
		start, err := strconv.ParseInt(c.DefaultQuery("start", "0"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "parsing start: " + err.Error()})
			return
		}
		end, err := strconv.ParseInt(c.DefaultQuery("end", "0"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "parsing end: " + err.Error()})
			return
		}

		seq, err := g.FetchSequence(c.Request.Context(), c.Param("chr"), start, end)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "text/plain", seq)
	}
}

// newCytobandsHandler serves the ideogram bands of a sequence.
func newCytobandsHandler(g *genome.Genome) gin.HandlerFunc {
	return func(c *gin.Context) {
		bands, err := g.Cytobands(c.Request.Context(), c.Param("chr"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, bands)
	}
}

// newAliasHandler serves the alias record of a sequence.
func newAliasHandler(g *genome.Genome) gin.HandlerFunc {
	return func(c *gin.Context) {
		record, err := g.AliasRecord(c.Request.Context(), c.Param("chr"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if record == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no alias record"})
			return
		}
		c.JSON(http.StatusOK, record)
	}
}
