package parse

import (
	"log"

	"github.com/lox/storet/internal/metrics"
	"github.com/lox/storet/internal/models"
	"github.com/lox/storet/internal/tabfile"
)

// Conventional station column order in the reference export. Station Type
// sits fourth from the row end and Description last, so those two fall back
// to negative positions.
const (
	staAgency      = 0
	staStation     = 1
	staStationName = 2
	staAgencyName  = 3
	staStateName   = 4
	staCountyName  = 5
	staLatitude    = 6
	staLongitude   = 7
	staHUC         = 8
	staStationType = -4
	staDescription = -1
)

// ExtractStations scans the per-county station files. Station ids are
// deduplicated across all files; the first occurrence keeps its attributes.
func (d *Dataset) ExtractStations() {
	pattern := d.cfg.Region + "_*/" + d.cfg.Region + "_*_sta_*.txt"
	files := d.glob(pattern)
	log.Printf("parse: found %d station files matching %s", len(files), pattern)
	if len(files) == 0 {
		log.Printf("parse: warning: no station files found matching %s", pattern)
		return
	}

	for _, file := range files {
		header, rows := tabfile.Read(file)
		if len(header) == 0 {
			continue
		}
		metrics.FilesParsed.WithLabelValues("station").Inc()
		cols := tabfile.HeaderIndex(header)

		for _, row := range rows {
			if len(row) < 2 {
				metrics.RowsSkipped.WithLabelValues("station").Inc()
				continue
			}
			id := cols.Resolve(row, "Station", staStation)
			if id == "" {
				metrics.RowsSkipped.WithLabelValues("station").Inc()
				continue
			}
			if d.stationSeen[id] {
				metrics.DuplicatesDropped.WithLabelValues("station").Inc()
				continue
			}
			d.stationSeen[id] = true

			state := cols.Resolve(row, "State Name", staStateName)
			if state == "" {
				state = d.cfg.RegionName
			}

			d.Stations = append(d.Stations, models.Station{
				Agency:      cols.Resolve(row, "Agency", staAgency),
				StationID:   id,
				StationName: cols.Resolve(row, "Station Name", staStationName),
				AgencyName:  cols.Resolve(row, "Agency Name", staAgencyName),
				State:       state,
				County:      cols.Resolve(row, "County Name", staCountyName),
				Latitude:    cols.Resolve(row, "Latitude", staLatitude),
				Longitude:   cols.Resolve(row, "Longitude", staLongitude),
				HUC:         cols.Resolve(row, "HUC", staHUC),
				StationType: cols.Resolve(row, "Station Type", staStationType),
				Description: cols.Resolve(row, "Description", staDescription),
			})
			metrics.RecordsExtracted.WithLabelValues("station").Inc()
		}
	}

	log.Printf("parse: %d unique stations", len(d.Stations))
}
