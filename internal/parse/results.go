package parse

import (
	"log"

	"github.com/lox/storet/internal/metrics"
	"github.com/lox/storet/internal/models"
	"github.com/lox/storet/internal/tabfile"
)

// Conventional result column order in the reference export.
const (
	resAgency      = 0
	resStation     = 1
	resResultValue = 8
	resHUC         = 10
	resParam       = 11
	resStartDate   = 12
	resStartTime   = 13
	resSampleDepth = 16
)

// resultMinColumns is the structural validity gate: rows narrower than this
// are discarded before any field resolution is attempted.
const resultMinColumns = 10

// progressEvery is how often result extraction reports progress. Regional
// result volumes run into the millions of rows.
const progressEvery = 100000

// ExtractResults scans the per-county result files. Results carry no natural
// key: every row passing the structural gate becomes one record.
func (d *Dataset) ExtractResults() {
	pattern := d.cfg.Region + "_*/" + d.cfg.Region + "_*_res_*.txt"
	files := d.glob(pattern)
	log.Printf("parse: found %d result files matching %s", len(files), pattern)
	if len(files) == 0 {
		log.Printf("parse: warning: no result files found matching %s", pattern)
		return
	}

	for _, file := range files {
		header, rows := tabfile.Read(file)
		if len(header) == 0 {
			continue
		}
		metrics.FilesParsed.WithLabelValues("result").Inc()
		cols := tabfile.HeaderIndex(header)

		for _, row := range rows {
			if len(row) < resultMinColumns {
				metrics.RowsSkipped.WithLabelValues("result").Inc()
				continue
			}

			d.Results = append(d.Results, models.Result{
				Agency:      cols.Resolve(row, "Agency", resAgency),
				StationID:   cols.Resolve(row, "Station", resStation),
				ParamCode:   cols.Resolve(row, "Param", resParam),
				StartDate:   cols.Resolve(row, "Start Date", resStartDate),
				StartTime:   cols.Resolve(row, "Start Time", resStartTime),
				ResultValue: cols.Resolve(row, "Result Value", resResultValue),
				HUC:         cols.Resolve(row, "HUC", resHUC),
				SampleDepth: cols.Resolve(row, "Sample Depth", resSampleDepth),
			})
			metrics.RecordsExtracted.WithLabelValues("result").Inc()

			if len(d.Results)%progressEvery == 0 {
				log.Printf("parse: processed %d results...", len(d.Results))
			}
		}
	}

	log.Printf("parse: %d total results", len(d.Results))
}
