package trends

import (
	"context"

	"stress-index/pkg/series"
)

const (
	// DefaultTimeframe is a trailing 12-month window
	DefaultTimeframe = "today 12-m"
	// DefaultGeo is the reference country code
	DefaultGeo = "IT"
	// DefaultHostLanguage is sent to the provider as hl
	DefaultHostLanguage = "it-IT"
	// DefaultTimezoneOffset is the provider tz parameter in minutes
	DefaultTimezoneOffset = 60
)

// Query selects the search-interest series for one keyword
type Query struct {
	Keyword   string
	Timeframe string
	Geo       string
}

// WithDefaults fills empty timeframe and geo
func (q Query) WithDefaults() Query {
	if q.Timeframe == "" {
		q.Timeframe = DefaultTimeframe
	}
	if q.Geo == "" {
		q.Geo = DefaultGeo
	}
	return q
}

// Status tells apart the three outcomes of a fetch
type Status int

const (
	StatusData     Status = iota // non-empty series
	StatusNoSignal               // provider answered with no data
	StatusError                  // request or decoding failed
)

func (s Status) String() string {
	switch s {
	case StatusData:
		return "data"
	case StatusNoSignal:
		return "no_signal"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// FetchResult carries either a table or the reason there is none.
// Failures are values here, so a fetch never aborts its caller.
type FetchResult struct {
	Query  Query
	Status Status
	Table  *series.Table
	Err    error
}

// DataResult wraps a table, downgrading empty tables to no-signal
func DataResult(q Query, table *series.Table) FetchResult {
	if table.IsEmpty() {
		return FetchResult{Query: q, Status: StatusNoSignal, Table: series.Empty()}
	}
	return FetchResult{Query: q, Status: StatusData, Table: table}
}

// ErrorResult records a failed fetch
func ErrorResult(q Query, err error) FetchResult {
	return FetchResult{Query: q, Status: StatusError, Table: series.Empty(), Err: err}
}

// Source is the data source adapter contract
type Source interface {
	Fetch(ctx context.Context, q Query) FetchResult
}
