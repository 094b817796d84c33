// Package series holds the observation data model for fetched time series.
package series

// Table is the observations returned for one data request. Each row carries
// one value per requested code, in request order; nil marks observations the
// upstream reported as unavailable.
type Table struct {
	Codes []string
	Names []string // display names resolved from the catalog, "" when unknown
	Rows  []Row
}

// Row is one observation period.
type Row struct {
	Period string
	Values []*float64
}
