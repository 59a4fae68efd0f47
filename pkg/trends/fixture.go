package trends

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"stress-index/pkg/keywords"
	"stress-index/pkg/series"
)

// StaticSource serves in-memory tables keyword by keyword. Keywords listed
// in Errors fail with the given error; unknown keywords yield no signal.
type StaticSource struct {
	Tables map[string]*series.Table
	Errors map[string]error
	Calls  []Query
}

func (s *StaticSource) Fetch(ctx context.Context, q Query) FetchResult {
	q = q.WithDefaults()
	s.Calls = append(s.Calls, q)

	if err := ctx.Err(); err != nil {
		return ErrorResult(q, err)
	}
	if err, ok := s.Errors[q.Keyword]; ok {
		return ErrorResult(q, err)
	}
	return DataResult(q, s.Tables[q.Keyword])
}

// FixtureSource replays recorded provider responses from a JSON file that
// maps each keyword to a TimelineResponse
type FixtureSource struct {
	responses map[string]TimelineResponse
	parser    *TimelineParser
}

func NewFixtureSource(path string) (*FixtureSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file: %w", err)
	}

	var raw map[string]TimelineResponse
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode fixture file: %w", err)
	}

	responses := make(map[string]TimelineResponse, len(raw))
	for kw, resp := range raw {
		responses[keywords.Normalize(kw)] = resp
	}
	return &FixtureSource{responses: responses, parser: NewTimelineParser()}, nil
}

func (f *FixtureSource) Fetch(ctx context.Context, q Query) FetchResult {
	q = q.WithDefaults()
	if err := ctx.Err(); err != nil {
		return ErrorResult(q, err)
	}

	resp, ok := f.responses[keywords.Normalize(q.Keyword)]
	if !ok {
		return DataResult(q, series.Empty())
	}
	table, err := f.parser.ToTable(resp)
	if err != nil {
		return ErrorResult(q, err)
	}
	return DataResult(q, table)
}
