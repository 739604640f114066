package models

// SyncSummary aggregates the record counts written by a full reference-data
// resync. Scopes synced before a failure keep their counts; the error reports
// where the batch stopped.
type SyncSummary struct {
	Catalogs int `json:"catalogs"`
	Sections int `json:"sections"`
	Items    int `json:"items"`
}
