// Package export serializes one parsed dataset to its downstream artifacts:
// three CSV files, a SQLite DDL script, and an idempotent import script.
// The DDL and the import script are both rendered from the table model below
// so the two cannot drift apart.
package export

import (
	"fmt"
	"strings"
)

type Column struct {
	Name string
	Type string
}

type ForeignKey struct {
	Column    string
	RefTable  string
	RefColumn string
}

type Table struct {
	Name        string
	CSVFile     string
	PrimaryKey  string // natural-key column, "" for synthetic rowid tables
	SyntheticID bool   // adds an autoincrement id column ahead of the data columns
	Columns     []Column
	ForeignKeys []ForeignKey
}

type Index struct {
	Name   string
	Table  string
	Column string
}

// Tables describes the relational schema in load order. Column order matches
// the CSV column order exactly; the import script and the direct loader both
// rely on that.
var Tables = []Table{
	{
		Name:       "parameters",
		CSVFile:    "parameters.csv",
		PrimaryKey: "code",
		Columns: []Column{
			{"code", "TEXT"},
			{"short_name", "TEXT"},
			{"long_name", "TEXT"},
		},
	},
	{
		Name:       "stations",
		CSVFile:    "stations.csv",
		PrimaryKey: "station_id",
		Columns: []Column{
			{"agency", "TEXT"},
			{"station_id", "TEXT"},
			{"station_name", "TEXT"},
			{"agency_name", "TEXT"},
			{"state", "TEXT"},
			{"county", "TEXT"},
			{"latitude", "REAL"},
			{"longitude", "REAL"},
			{"huc", "TEXT"},
			{"station_type", "TEXT"},
			{"description", "TEXT"},
		},
	},
	{
		Name:        "results",
		CSVFile:     "results.csv",
		SyntheticID: true,
		Columns: []Column{
			{"agency", "TEXT"},
			{"station_id", "TEXT"},
			{"param_code", "TEXT"},
			{"start_date", "TEXT"},
			{"start_time", "TEXT"},
			{"result_value", "TEXT"},
			{"huc", "TEXT"},
			{"sample_depth", "TEXT"},
		},
		ForeignKeys: []ForeignKey{
			{"station_id", "stations", "station_id"},
			{"param_code", "parameters", "code"},
		},
	},
}

var Indexes = []Index{
	{"idx_results_station", "results", "station_id"},
	{"idx_results_param", "results", "param_code"},
	{"idx_results_date", "results", "start_date"},
	{"idx_stations_county", "stations", "county"},
}

// ColumnNames returns the table's data columns in CSV order.
func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// CreateSQL renders the table's CREATE TABLE statement.
func (t Table) CreateSQL() string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (\n", t.Name)
	var lines []string
	if t.SyntheticID {
		lines = append(lines, "    id INTEGER PRIMARY KEY AUTOINCREMENT")
	}
	for _, c := range t.Columns {
		line := fmt.Sprintf("    %s %s", c.Name, c.Type)
		if c.Name == t.PrimaryKey {
			line += " PRIMARY KEY"
		}
		lines = append(lines, line)
	}
	for _, fk := range t.ForeignKeys {
		lines = append(lines, fmt.Sprintf("    FOREIGN KEY (%s) REFERENCES %s(%s)", fk.Column, fk.RefTable, fk.RefColumn))
	}
	b.WriteString(strings.Join(lines, ",\n"))
	b.WriteString("\n);\n")
	return b.String()
}

// SchemaSQL renders the full DDL script: drops in reverse dependency order,
// table creation in load order, then the secondary indexes.
func SchemaSQL(regionName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "-- SQLite schema for %s water quality data\n", regionName)
	b.WriteString("-- Generated by storet parse\n\n")

	for i := len(Tables) - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "DROP TABLE IF EXISTS %s;\n", Tables[i].Name)
	}
	b.WriteString("\n")

	for _, t := range Tables {
		b.WriteString(t.CreateSQL())
		b.WriteString("\n")
	}

	for _, idx := range Indexes {
		fmt.Fprintf(&b, "CREATE INDEX %s ON %s(%s);\n", idx.Name, idx.Table, idx.Column)
	}
	return b.String()
}

// DatabaseFile is the conventional SQLite file name for a region.
func DatabaseFile(regionName string) string {
	return strings.ToLower(regionName) + "_water.db"
}
