package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FilesParsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storet_files_parsed_total",
			Help: "Source files parsed, by file category",
		},
		[]string{"kind"},
	)

	RowsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storet_rows_skipped_total",
			Help: "Data rows dropped by structural or key validity checks",
		},
		[]string{"kind"},
	)

	RecordsExtracted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storet_records_extracted_total",
			Help: "Records kept per entity",
		},
		[]string{"entity"},
	)

	DuplicatesDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storet_duplicates_dropped_total",
			Help: "Records dropped because their natural key was already seen",
		},
		[]string{"entity"},
	)
)

// WriteFile dumps the default registry in Prometheus text exposition format,
// suitable for the node_exporter textfile collector.
func WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
