// Package parse turns one region's STORET legacy export into the three
// normalized collections: parameters, stations and results.
package parse

import (
	"log"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lox/storet/internal/models"
)

type Config struct {
	// DataDir holds the regional export: {REGION}_{County}_inv.txt files at
	// the top level plus {REGION}_{County}/ subdirectories.
	DataDir string
	// Region is the short code used in file names, e.g. "WA".
	Region string
	// RegionName is the full name, e.g. "Washington". It backfills the
	// station state column and labels the generated artifacts.
	RegionName string
}

// Dataset owns the three growing collections for one parsing run. It is not
// safe for concurrent use; extraction is a strictly sequential batch job.
type Dataset struct {
	cfg Config

	Parameters []models.Parameter
	Stations   []models.Station
	Results    []models.Result

	paramSeen   map[string]bool
	stationSeen map[string]bool
}

func NewDataset(cfg Config) *Dataset {
	cfg.Region = strings.ToUpper(cfg.Region)
	return &Dataset{
		cfg:         cfg,
		paramSeen:   make(map[string]bool),
		stationSeen: make(map[string]bool),
	}
}

// Extract runs the three extractors in order: inventory, stations, results.
func (d *Dataset) Extract() {
	d.ExtractParameters()
	d.ExtractStations()
	d.ExtractResults()
}

// glob returns the files matching pattern under the data directory, sorted
// lexicographically. Sorting makes the first-writer-wins tie-break for
// duplicate natural keys deterministic across filesystems.
func (d *Dataset) glob(pattern string) []string {
	matches, err := filepath.Glob(filepath.Join(d.cfg.DataDir, pattern))
	if err != nil {
		// Only reachable with a malformed pattern.
		log.Printf("parse: warning: bad glob pattern %s: %v", pattern, err)
		return nil
	}
	sort.Strings(matches)
	return matches
}
