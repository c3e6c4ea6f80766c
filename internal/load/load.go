// Package load imports the generated CSV files into a portable SQLite
// database, as an alternative to running the generated shell script on a
// machine with the sqlite3 CLI.
package load

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/lox/storet/internal/export"
)

// batchSize is how many rows go into one insert transaction.
const batchSize = 10000

// Run builds dbPath from the CSVs in csvDir. Like the generated script it is
// idempotent at database-file granularity: if dbPath already exists nothing
// is done. The schema applied is the same rendered DDL that parse writes to
// schema.sql.
func Run(csvDir, regionName, dbPath string) error {
	if _, err := os.Stat(dbPath); err == nil {
		log.Printf("load: database %s already exists, skipping import", dbPath)
		return nil
	}

	for _, t := range export.Tables {
		if _, err := os.Stat(filepath.Join(csvDir, t.CSVFile)); err != nil {
			return fmt.Errorf("%s not found in %s, run storet parse first", t.CSVFile, csvDir)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")

	if _, err := db.Exec(export.SchemaSQL(regionName)); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	log.Printf("load: schema applied to %s", dbPath)

	for _, t := range export.Tables {
		n, err := importTable(db, t, filepath.Join(csvDir, t.CSVFile))
		if err != nil {
			return fmt.Errorf("import %s: %w", t.Name, err)
		}
		log.Printf("load: imported %d rows into %s", n, t.Name)
	}

	return nil
}

func importTable(db *sql.DB, t export.Table, csvPath string) (int, error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	cols := t.ColumnNames()
	r := csv.NewReader(f)
	r.FieldsPerRecord = len(cols)

	// Header row; the CSVs always carry one.
	if _, err := r.Read(); err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}

	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		t.Name,
		strings.Join(cols, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", "),
	)

	total := 0
	batch := make([][]string, 0, batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		tx, err := db.Begin()
		if err != nil {
			return err
		}
		stmt, err := tx.Prepare(insert)
		if err != nil {
			tx.Rollback()
			return err
		}
		for _, row := range batch {
			args := make([]any, len(row))
			for i, v := range row {
				args[i] = v
			}
			if _, err := stmt.Exec(args...); err != nil {
				stmt.Close()
				tx.Rollback()
				return err
			}
		}
		stmt.Close()
		if err := tx.Commit(); err != nil {
			return err
		}
		total += len(batch)
		batch = batch[:0]
		return nil
	}

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return total, fmt.Errorf("read row: %w", err)
		}
		batch = append(batch, row)
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return total, err
			}
			if total%100000 == 0 {
				log.Printf("load: %s: %d rows...", t.Name, total)
			}
		}
	}
	if err := flush(); err != nil {
		return total, err
	}
	return total, nil
}
