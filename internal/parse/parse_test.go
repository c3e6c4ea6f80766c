package parse

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir fixture: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
}

func newTestDataset(t *testing.T) (*Dataset, string) {
	t.Helper()
	dir := t.TempDir()
	return NewDataset(Config{DataDir: dir, Region: "wa", RegionName: "Washington"}), dir
}

func TestExtractParameters_FirstWriterWins(t *testing.T) {
	ds, dir := newTestDataset(t)

	// Adams sorts before Benton, so its attributes win for code 00010.
	writeFixture(t, dir, "WA_Adams_inv.txt",
		"Code\tShort Name\tLong Name\n"+
			"----\t----------\t---------\n"+
			"00010\tTemp\tWater Temperature\n"+
			"00010\tT\tTemperature (dup)\n"+
			"00095\tCond\tConductivity\n")
	writeFixture(t, dir, "WA_Benton_inv.txt",
		"Code\tShort Name\tLong Name\n"+
			"----\t----------\t---------\n"+
			"00010\tTmp\tTemperature (other county)\n"+
			"00300\tDO\tDissolved Oxygen\n")

	ds.ExtractParameters()

	if len(ds.Parameters) != 3 {
		t.Fatalf("len(Parameters) = %d, want 3", len(ds.Parameters))
	}
	if ds.Parameters[0].Code != "00010" || ds.Parameters[0].ShortName != "Temp" || ds.Parameters[0].LongName != "Water Temperature" {
		t.Errorf("Parameters[0] = %+v, want first-seen attributes for 00010", ds.Parameters[0])
	}
	codes := map[string]bool{}
	for _, p := range ds.Parameters {
		if codes[p.Code] {
			t.Errorf("duplicate code %q in parameter set", p.Code)
		}
		codes[p.Code] = true
	}
}

func TestExtractParameters_RejectsHeaderLikeCodes(t *testing.T) {
	ds, dir := newTestDataset(t)

	writeFixture(t, dir, "WA_Adams_inv.txt",
		"Code\tShort Name\tLong Name\n"+
			"----\t----------\t---------\n"+
			"Code\tShort Name\tLong Name\n"+
			"-----\t\t\n"+
			"\tNoCode\tRow without a code\n"+
			"00400\tpH\tpH\n")

	ds.ExtractParameters()

	if len(ds.Parameters) != 1 {
		t.Fatalf("len(Parameters) = %d, want 1", len(ds.Parameters))
	}
	if ds.Parameters[0].Code != "00400" {
		t.Errorf("Code = %q, want 00400", ds.Parameters[0].Code)
	}
}

func TestExtractParameters_IgnoresOtherRegions(t *testing.T) {
	ds, dir := newTestDataset(t)

	writeFixture(t, dir, "OR_Baker_inv.txt",
		"Code\tShort Name\tLong Name\n----\t----\t----\n00010\tTemp\tTemperature\n")

	ds.ExtractParameters()

	if len(ds.Parameters) != 0 {
		t.Fatalf("len(Parameters) = %d, want 0", len(ds.Parameters))
	}
}

func TestExtractStations(t *testing.T) {
	ds, dir := newTestDataset(t)

	writeFixture(t, dir, "WA_Adams/WA_Adams_sta_1.txt",
		"Agency\tStation\tStation Name\tAgency Name\tState Name\tCounty Name\tLatitude\tLongitude\tHUC\tRmi\tDepth\tStation Type\tStation Type Secondary\tStatus\tDescription\n"+
			"------\t-------\t------------\t-----------\t----------\t-----------\t--------\t---------\t---\t---\t-----\t------------\t----------------------\t------\t-----------\n"+
			"112WRD\t12010000\tCLEARWATER RIVER\tUSGS\tWashington\tAdams\t47.5801\t-124.2987\t17100101\t\t\tSTREAM\t\tACTIVE\tNear the hatchery\n"+
			"112WRD\t12010000\tDUPLICATE ROW\tUSGS\tWashington\tAdams\t0\t0\t17100101\t\t\tSTREAM\t\tACTIVE\tshould be dropped\n"+
			"112WRD\n")

	ds.ExtractStations()

	if len(ds.Stations) != 1 {
		t.Fatalf("len(Stations) = %d, want 1 (duplicate id and short row dropped)", len(ds.Stations))
	}
	st := ds.Stations[0]
	if st.StationID != "12010000" {
		t.Errorf("StationID = %q, want 12010000", st.StationID)
	}
	if st.StationName != "CLEARWATER RIVER" {
		t.Errorf("StationName = %q, want first-seen CLEARWATER RIVER", st.StationName)
	}
	if st.County != "Adams" {
		t.Errorf("County = %q, want Adams", st.County)
	}
	if st.Latitude != "47.5801" || st.Longitude != "-124.2987" {
		t.Errorf("coords = (%q, %q), want raw text values", st.Latitude, st.Longitude)
	}
	if st.StationType != "STREAM" {
		t.Errorf("StationType = %q, want STREAM", st.StationType)
	}
	if st.Description != "Near the hatchery" {
		t.Errorf("Description = %q, want last-column value", st.Description)
	}
}

func TestExtractStations_StateDefaultsToRegionName(t *testing.T) {
	ds, dir := newTestDataset(t)

	// Header without a State Name column and rows too short for the
	// conventional position.
	writeFixture(t, dir, "WA_Grant/WA_Grant_sta_1.txt",
		"Agency\tStation\tStation Name\n"+
			"------\t-------\t------------\n"+
			"21WASH\tGRT001\tCRAB CREEK\n")

	ds.ExtractStations()

	if len(ds.Stations) != 1 {
		t.Fatalf("len(Stations) = %d, want 1", len(ds.Stations))
	}
	if ds.Stations[0].State != "Washington" {
		t.Errorf("State = %q, want configured region name", ds.Stations[0].State)
	}
}

func TestExtractStations_DedupAcrossFiles(t *testing.T) {
	ds, dir := newTestDataset(t)

	header := "Agency\tStation\tStation Name\n------\t-------\t------------\n"
	writeFixture(t, dir, "WA_Adams/WA_Adams_sta_1.txt", header+"112WRD\tSHARED\tFROM ADAMS\n")
	writeFixture(t, dir, "WA_Benton/WA_Benton_sta_1.txt", header+"112WRD\tSHARED\tFROM BENTON\n")

	ds.ExtractStations()

	if len(ds.Stations) != 1 {
		t.Fatalf("len(Stations) = %d, want 1", len(ds.Stations))
	}
	if ds.Stations[0].StationName != "FROM ADAMS" {
		t.Errorf("StationName = %q, want attributes from the lexicographically first file", ds.Stations[0].StationName)
	}
}

func TestExtractResults_StructuralGate(t *testing.T) {
	ds, dir := newTestDataset(t)

	nineCols := "a\tb\tc\td\te\tf\tg\th\ti"
	fourteenCols := "112WRD\t12010000\tc\td\te\tf\tg\th\t12.5\tj\t17100101\t00010\t1975-06-05\t10:30"
	writeFixture(t, dir, "WA_Adams/WA_Adams_res_1.txt",
		"H1\tH2\tH3\tH4\tH5\tH6\tH7\tH8\tH9\tH10\tH11\tH12\tH13\tH14\n"+
			"--\t--\t--\t--\t--\t--\t--\t--\t--\t---\t---\t---\t---\t---\n"+
			nineCols+"\n"+
			fourteenCols+"\n")

	ds.ExtractResults()

	if len(ds.Results) != 1 {
		t.Fatalf("len(Results) = %d, want 1 (nine-column row below the structural gate)", len(ds.Results))
	}
	r := ds.Results[0]
	if r.ParamCode != "00010" {
		t.Errorf("ParamCode = %q, want positional index 11 value", r.ParamCode)
	}
	if r.StartDate != "1975-06-05" {
		t.Errorf("StartDate = %q, want positional index 12 value", r.StartDate)
	}
	if r.ResultValue != "12.5" {
		t.Errorf("ResultValue = %q, want positional index 8 value", r.ResultValue)
	}
	if r.SampleDepth != "" {
		t.Errorf("SampleDepth = %q, want empty for a 14-column row", r.SampleDepth)
	}
}

func TestExtractResults_HeaderResolution(t *testing.T) {
	ds, dir := newTestDataset(t)

	// Param and Start Date live at unconventional positions but are named
	// in the header, so name-based resolution must win over position.
	writeFixture(t, dir, "WA_King/WA_King_res_1.txt",
		"Agency\tStation\tParam\tStart Date\tH5\tH6\tH7\tH8\tResult Value\tH10\n"+
			"------\t-------\t-----\t----------\t--\t--\t--\t--\t------------\t---\n"+
			"112WRD\tKNG001\t00300\t1980-01-02\te\tf\tg\th\t8.1\tj\n")

	ds.ExtractResults()

	if len(ds.Results) != 1 {
		t.Fatalf("len(Results) = %d, want 1", len(ds.Results))
	}
	r := ds.Results[0]
	if r.ParamCode != "00300" {
		t.Errorf("ParamCode = %q, want header-resolved 00300", r.ParamCode)
	}
	if r.StartDate != "1980-01-02" {
		t.Errorf("StartDate = %q, want header-resolved 1980-01-02", r.StartDate)
	}
	if r.ResultValue != "8.1" {
		t.Errorf("ResultValue = %q, want 8.1", r.ResultValue)
	}
}

func TestExtractResults_NoDeduplication(t *testing.T) {
	ds, dir := newTestDataset(t)

	row := "112WRD\tKNG001\tc\td\te\tf\tg\th\t1.0\tj\tk\t00010\t1980-01-02\t09:00"
	writeFixture(t, dir, "WA_King/WA_King_res_1.txt",
		"H1\tH2\tH3\tH4\tH5\tH6\tH7\tH8\tH9\tH10\n--\t--\t--\t--\t--\t--\t--\t--\t--\t---\n"+
			row+"\n"+row+"\n")

	ds.ExtractResults()

	if len(ds.Results) != 2 {
		t.Fatalf("len(Results) = %d, want 2 (results append without dedup)", len(ds.Results))
	}
}

func TestCountyFromInventoryName(t *testing.T) {
	tests := []struct {
		region string
		name   string
		want   string
	}{
		{"WA", "WA_Adams_inv.txt", "Adams"},
		{"WA", "WA_Walla_Walla_inv.txt", "Walla Walla"},
		{"wa", "wa_adams_inv.txt", "adams"},
		{"WA", "OR_Baker_inv.txt", ""},
		{"WA", "WA_Adams_sta_1.txt", ""},
	}
	for _, tt := range tests {
		if got := CountyFromInventoryName(tt.region, tt.name); got != tt.want {
			t.Errorf("CountyFromInventoryName(%q, %q) = %q, want %q", tt.region, tt.name, got, tt.want)
		}
	}
}
