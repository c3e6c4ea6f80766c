package load

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/lox/storet/internal/export"
	"github.com/lox/storet/internal/models"
	"github.com/lox/storet/internal/parse"
)

func writeTestCSVs(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	ds := parse.NewDataset(parse.Config{Region: "WA", RegionName: "Washington"})
	ds.Parameters = []models.Parameter{
		{Code: "00010", ShortName: "Temp", LongName: "Water Temperature"},
	}
	ds.Stations = []models.Station{
		{Agency: "112WRD", StationID: "12010000", StationName: "CLEARWATER RIVER", State: "Washington", County: "Jefferson"},
	}
	ds.Results = []models.Result{
		{Agency: "112WRD", StationID: "12010000", ParamCode: "00010", StartDate: "1975-06-05", ResultValue: "12.5"},
		{Agency: "112WRD", StationID: "12010000", ParamCode: "00010", StartDate: "1975-06-06", ResultValue: "11.0"},
	}
	if err := export.WriteCSVs(dir, ds); err != nil {
		t.Fatalf("WriteCSVs: %v", err)
	}
	return dir
}

func countRows(t *testing.T, dbPath, table string) int {
	t.Helper()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func TestRun(t *testing.T) {
	dir := writeTestCSVs(t)
	dbPath := filepath.Join(dir, "washington_water.db")

	if err := Run(dir, "Washington", dbPath); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if n := countRows(t, dbPath, "parameters"); n != 1 {
		t.Errorf("parameters rows = %d, want 1", n)
	}
	if n := countRows(t, dbPath, "stations"); n != 1 {
		t.Errorf("stations rows = %d, want 1", n)
	}
	if n := countRows(t, dbPath, "results"); n != 2 {
		t.Errorf("results rows = %d, want 2", n)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	var value string
	if err := db.QueryRow("SELECT result_value FROM results WHERE start_date = ?", "1975-06-05").Scan(&value); err != nil {
		t.Fatalf("query result: %v", err)
	}
	if value != "12.5" {
		t.Errorf("result_value = %q, want 12.5", value)
	}
}

func TestRun_SkipsExistingDatabase(t *testing.T) {
	dir := writeTestCSVs(t)
	dbPath := filepath.Join(dir, "washington_water.db")

	if err := Run(dir, "Washington", dbPath); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if err := Run(dir, "Washington", dbPath); err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if n := countRows(t, dbPath, "results"); n != 2 {
		t.Errorf("results rows = %d after re-run, want 2 (import must be skipped)", n)
	}
}

func TestRun_MissingCSVs(t *testing.T) {
	dir := t.TempDir()
	if err := Run(dir, "Washington", filepath.Join(dir, "out.db")); err == nil {
		t.Fatal("Run with no CSVs succeeded, want error")
	}
}
