package export

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/lox/storet/internal/parse"
)

// CSVsExist reports whether all three delimited output files are already
// present in dir. The run controller uses this to skip re-extraction.
func CSVsExist(dir string) bool {
	for _, t := range Tables {
		if _, err := os.Stat(filepath.Join(dir, t.CSVFile)); err != nil {
			return false
		}
	}
	return true
}

// WriteCSVs writes the three collections to their delimited files, header
// row first, column order as declared in the table model. Each file is
// written to a temporary name and renamed into place so an interrupted run
// never leaves a partially written file behind.
func WriteCSVs(dir string, ds *parse.Dataset) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	params := make([][]string, 0, len(ds.Parameters))
	for _, p := range ds.Parameters {
		params = append(params, []string{p.Code, p.ShortName, p.LongName})
	}
	if err := writeCSV(filepath.Join(dir, "parameters.csv"), tableByName("parameters").ColumnNames(), params); err != nil {
		return err
	}
	log.Printf("export: wrote %d parameters to parameters.csv", len(params))

	stations := make([][]string, 0, len(ds.Stations))
	for _, s := range ds.Stations {
		stations = append(stations, []string{
			s.Agency, s.StationID, s.StationName, s.AgencyName, s.State,
			s.County, s.Latitude, s.Longitude, s.HUC, s.StationType, s.Description,
		})
	}
	if err := writeCSV(filepath.Join(dir, "stations.csv"), tableByName("stations").ColumnNames(), stations); err != nil {
		return err
	}
	log.Printf("export: wrote %d stations to stations.csv", len(stations))

	results := make([][]string, 0, len(ds.Results))
	for _, r := range ds.Results {
		results = append(results, []string{
			r.Agency, r.StationID, r.ParamCode, r.StartDate, r.StartTime,
			r.ResultValue, r.HUC, r.SampleDepth,
		})
	}
	if err := writeCSV(filepath.Join(dir, "results.csv"), tableByName("results").ColumnNames(), results); err != nil {
		return err
	}
	log.Printf("export: wrote %d results to results.csv", len(results))

	return nil
}

func writeCSV(path string, header []string, rows [][]string) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("write header to %s: %w", tmp, err)
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("write rows to %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp, err)
	}
	return os.Rename(tmp, path)
}

func tableByName(name string) Table {
	for _, t := range Tables {
		if t.Name == name {
			return t
		}
	}
	panic("export: unknown table " + name)
}
