package models

// RowError is a row-level ingestion problem reported by a loader.
// Row is the 1-based line number in the source file, header included.
type RowError struct {
	Field    string `json:"field"`
	Message  string `json:"message"`
	RawValue string `json:"rawValue"`
	Row      int    `json:"row"`
}

// LoadMeta summarizes one ingestion run.
type LoadMeta struct {
	TotalRows   int `json:"totalRows"`
	ValidRows   int `json:"validRows"`
	InvalidRows int `json:"invalidRows"`
}

// LoadResult is what a loader hands to the store: the accepted vehicles and
// every row-level error it encountered, kept or dropped.
type LoadResult struct {
	Vehicles []Vehicle  `json:"-"`
	Errors   []RowError `json:"errors"`
	Meta     LoadMeta   `json:"meta"`
}

// LoadStage is the progress of a dataset load.
type LoadStage string

// Load stages in the order a successful load passes through them.
const (
	StageIdle       LoadStage = "idle"
	StageFetching   LoadStage = "fetching"
	StageParsing    LoadStage = "parsing"
	StageProcessing LoadStage = "processing"
	StageComplete   LoadStage = "complete"
	StageError      LoadStage = "error"
)

// Terminal reports whether no further stage follows s.
func (s LoadStage) Terminal() bool {
	return s == StageComplete || s == StageError
}
