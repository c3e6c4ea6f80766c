package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// ScriptFile is the generated import script's name within the output dir.
const ScriptFile = "import_to_sqlite.sh"

// SchemaFile is the generated DDL file's name within the output dir.
const SchemaFile = "schema.sql"

// The import script is idempotent at whole-database granularity: it exits
// early when the database file already exists. Results import goes through a
// temporary table because the results table carries a synthetic id column
// that the CSV does not.
var importScript = template.Must(template.New("import").Parse(`#!/bin/bash
# Import {{.RegionName}} water quality data into SQLite
# Generated by storet parse

set -e

DB_FILE="../{{.DBFile}}"

echo "Importing {{.RegionName}} water quality data into $DB_FILE"

if [ ! -f "parameters.csv" ] || [ ! -f "stations.csv" ] || [ ! -f "results.csv" ]; then
    echo "ERROR: CSV files not found. Run storet parse first."
    exit 1
fi

if [ -f "$DB_FILE" ]; then
    echo "Database $DB_FILE already exists. Skipping import."
    exit 0
fi

echo "[1/4] Creating database schema..."
sqlite3 "$DB_FILE" < {{.SchemaFile}}

echo "[2/4] Importing parameters..."
sqlite3 "$DB_FILE" <<'EOF'
.mode csv
.import --skip 1 parameters.csv parameters
EOF
COUNT=$(sqlite3 "$DB_FILE" "SELECT COUNT(*) FROM parameters;")
echo "  Imported $COUNT parameters"

echo "[3/4] Importing stations..."
sqlite3 "$DB_FILE" <<'EOF'
.mode csv
.import --skip 1 stations.csv stations
EOF
COUNT=$(sqlite3 "$DB_FILE" "SELECT COUNT(*) FROM stations;")
echo "  Imported $COUNT stations"

echo "[4/4] Importing results (this may take several minutes)..."
sqlite3 "$DB_FILE" <<'EOF'
.mode csv
CREATE TEMPORARY TABLE temp_results (
{{- range $i, $c := .ResultColumns}}
    {{$c}} TEXT{{if ne $i $.LastResultColumn}},{{end}}
{{- end}}
);
.import --skip 1 results.csv temp_results
INSERT INTO results ({{.ResultColumnList}})
SELECT {{.ResultColumnList}} FROM temp_results;
DROP TABLE temp_results;
EOF
COUNT=$(sqlite3 "$DB_FILE" "SELECT COUNT(*) FROM results;")
echo "  Imported $COUNT results"

echo "Import complete: $DB_FILE"
`))

// WriteScript renders the idempotent import script into dir and marks it
// executable.
func WriteScript(dir, regionName string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	results := tableByName("results")
	cols := results.ColumnNames()
	data := struct {
		RegionName       string
		DBFile           string
		SchemaFile       string
		ResultColumns    []string
		LastResultColumn int
		ResultColumnList string
	}{
		RegionName:       regionName,
		DBFile:           DatabaseFile(regionName),
		SchemaFile:       SchemaFile,
		ResultColumns:    cols,
		LastResultColumn: len(cols) - 1,
		ResultColumnList: strings.Join(cols, ", "),
	}

	var buf bytes.Buffer
	if err := importScript.Execute(&buf, data); err != nil {
		return fmt.Errorf("render import script: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, ScriptFile), buf.Bytes(), 0755)
}

// WriteSchema renders the DDL script into dir.
func WriteSchema(dir, regionName string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, SchemaFile), []byte(SchemaSQL(regionName)), 0644)
}
