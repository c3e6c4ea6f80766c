// Command storet turns a regional EPA STORET legacy export into a
// normalized relational dataset: three CSV files plus the schema and import
// script needed to load them into SQLite.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"
	_ "modernc.org/sqlite"

	"github.com/lox/storet/internal/export"
	"github.com/lox/storet/internal/fetch"
	"github.com/lox/storet/internal/load"
	"github.com/lox/storet/internal/metrics"
	"github.com/lox/storet/internal/parse"
)

type regionFlags struct {
	Region     string `short:"s" default:"WA" env:"STORET_REGION" help:"Region short code used in file names (e.g. WA)."`
	RegionName string `short:"n" default:"Washington" env:"STORET_REGION_NAME" help:"Full region name (e.g. Washington)."`
}

type ParseCmd struct {
	regionFlags
	DataDir     string `arg:"" env:"STORET_DATA_DIR" help:"Directory containing the regional export files."`
	Output      string `short:"o" default:"output" env:"STORET_OUTPUT" help:"Output directory for CSV and SQL artifacts."`
	MetricsFile string `env:"STORET_METRICS_FILE" help:"Write run counters in Prometheus text format to this file."`
}

func (c *ParseCmd) Run() error {
	fi, err := os.Stat(c.DataDir)
	if err != nil || !fi.IsDir() {
		return fmt.Errorf("data directory not found: %s", c.DataDir)
	}

	// Schema and import script are cheap and always regenerated so they
	// reflect the current schema definition, even when extraction is skipped.
	if export.CSVsExist(c.Output) {
		log.Printf("parse: output CSV files already exist in %s, skipping extraction", c.Output)
		if err := export.WriteSchema(c.Output, c.RegionName); err != nil {
			return err
		}
		return export.WriteScript(c.Output, c.RegionName)
	}

	log.Printf("parse: region %s (%s), data dir %s", c.RegionName, c.Region, c.DataDir)

	ds := parse.NewDataset(parse.Config{
		DataDir:    c.DataDir,
		Region:     c.Region,
		RegionName: c.RegionName,
	})
	ds.Extract()

	if err := export.WriteCSVs(c.Output, ds); err != nil {
		return err
	}
	if err := export.WriteSchema(c.Output, c.RegionName); err != nil {
		return err
	}
	if err := export.WriteScript(c.Output, c.RegionName); err != nil {
		return err
	}

	if c.MetricsFile != "" {
		if err := metrics.WriteFile(c.MetricsFile); err != nil {
			log.Printf("parse: warning: write metrics file: %v", err)
		}
	}

	log.Printf("parse: complete: %d parameters, %d stations, %d results",
		len(ds.Parameters), len(ds.Stations), len(ds.Results))
	log.Printf("parse: next: cd %s && ./%s", c.Output, export.ScriptFile)
	return nil
}

type FetchCmd struct {
	regionFlags
	Host    string `default:"ftp.epa.gov:21" env:"STORET_FTP_HOST" help:"FTP host:port serving the legacy export."`
	Root    string `default:"/storet" env:"STORET_FTP_ROOT" help:"Remote directory containing the regional files."`
	DataDir string `arg:"" env:"STORET_DATA_DIR" help:"Local directory to mirror into."`
}

func (c *FetchCmd) Run() error {
	if err := os.MkdirAll(c.DataDir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	return fetch.New(c.Host, c.Root).Mirror(c.Region, c.DataDir)
}

type LoadCmd struct {
	regionFlags
	Output   string `short:"o" default:"output" env:"STORET_OUTPUT" help:"Directory holding the generated CSV files."`
	Database string `help:"SQLite database file to create (default <output>/<region>_water.db)."`
}

func (c *LoadCmd) Run() error {
	dbPath := c.Database
	if dbPath == "" {
		dbPath = filepath.Join(c.Output, export.DatabaseFile(c.RegionName))
	}
	return load.Run(c.Output, c.RegionName, dbPath)
}

var cli struct {
	Parse ParseCmd `cmd:"" default:"withargs" help:"Parse a regional export into CSVs, schema and import script."`
	Fetch FetchCmd `cmd:"" help:"Mirror a regional export from an FTP host."`
	Load  LoadCmd  `cmd:"" help:"Import the generated CSVs into a SQLite database."`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("storet"),
		kong.Description("EPA STORET legacy water-quality archive parser and exporter."),
		kong.Configuration(kongdotenv.ENVFileReader, ".env"),
	)
	ctx.FatalIfErrorf(ctx.Run())
}
