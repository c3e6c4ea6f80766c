package parse

import (
	"log"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/lox/storet/internal/metrics"
	"github.com/lox/storet/internal/models"
	"github.com/lox/storet/internal/tabfile"
)

// ExtractParameters scans the county inventory files for parameter
// definitions. Rows whose code was already seen in an earlier file are
// dropped; the first file in glob order that introduces a code wins.
func (d *Dataset) ExtractParameters() {
	pattern := d.cfg.Region + "_*_inv.txt"
	files := d.glob(pattern)
	log.Printf("parse: found %d inventory files matching %s", len(files), pattern)
	if len(files) == 0 {
		log.Printf("parse: warning: no inventory files found matching %s", pattern)
		return
	}

	countyRe := inventoryNameRe(d.cfg.Region)

	for _, file := range files {
		if countyRe.FindStringSubmatch(filepath.Base(file)) == nil {
			continue
		}

		header, rows := tabfile.Read(file)
		if len(header) == 0 {
			continue
		}
		metrics.FilesParsed.WithLabelValues("inventory").Inc()
		cols := tabfile.HeaderIndex(header)

		for _, row := range rows {
			code := cols.Resolve(row, "Code", 0)
			// Guard against files where the separator-skip heuristic
			// failed and a header or dash row leaked into the data.
			if code == "" || code == "Code" || strings.HasPrefix(code, "---") {
				metrics.RowsSkipped.WithLabelValues("inventory").Inc()
				continue
			}
			if d.paramSeen[code] {
				metrics.DuplicatesDropped.WithLabelValues("parameter").Inc()
				continue
			}
			d.paramSeen[code] = true
			d.Parameters = append(d.Parameters, models.Parameter{
				Code:      code,
				ShortName: cols.Resolve(row, "Short Name", 1),
				LongName:  cols.Resolve(row, "Long Name", 2),
			})
			metrics.RecordsExtracted.WithLabelValues("parameter").Inc()
		}
	}

	log.Printf("parse: %d unique parameters", len(d.Parameters))
}

// inventoryNameRe matches {REGION}_{County}_inv.txt and captures the county.
func inventoryNameRe(region string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^` + regexp.QuoteMeta(region) + `_(.+?)_inv\.txt$`)
}

// CountyFromInventoryName extracts the county name from an inventory file
// name, with underscores restored to spaces. Returns "" when the name does
// not follow the regional convention.
func CountyFromInventoryName(region, name string) string {
	m := inventoryNameRe(strings.ToUpper(region)).FindStringSubmatch(name)
	if m == nil {
		return ""
	}
	return strings.ReplaceAll(m[1], "_", " ")
}
