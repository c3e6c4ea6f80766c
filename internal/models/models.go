package models

// Parameter identifies one measured quantity, keyed by its STORET code.
// The first file to introduce a code wins; later duplicates are dropped.
type Parameter struct {
	Code      string
	ShortName string
	LongName  string
}

// Station identifies one monitoring site. Latitude and longitude are kept
// as raw text; the legacy export mixes decimal degrees with DMS strings and
// coercion is left to downstream consumers.
type Station struct {
	Agency      string
	StationID   string
	StationName string
	AgencyName  string
	State       string
	County      string
	Latitude    string
	Longitude   string
	HUC         string
	StationType string
	Description string
}

// Result is one measurement event. There is no natural key; every
// structurally valid source row becomes one Result. ResultValue stays raw
// text for the same reason as station coordinates.
type Result struct {
	Agency      string
	StationID   string
	ParamCode   string
	StartDate   string
	StartTime   string
	ResultValue string
	HUC         string
	SampleDepth string
}
