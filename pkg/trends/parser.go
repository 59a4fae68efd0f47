package trends

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"stress-index/pkg/keywords"
	"stress-index/pkg/series"
)

// TimelineResponse is the raw interest-over-time payload
type TimelineResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message,omitempty"`
	Data    []KeywordTimeline `json:"data"`
}

// KeywordTimeline is the series returned for one keyword. The provider may
// echo a keyword different from the one queried.
type KeywordTimeline struct {
	Keyword  string          `json:"keyword"`
	Timeline []TimelinePoint `json:"timeline"`
}

// TimelinePoint is a single observation; a null value is a gap
type TimelinePoint struct {
	Date      string   `json:"date"`
	Value     *float64 `json:"value"`
	IsPartial bool     `json:"is_partial"`
}

// TimelineParser turns provider responses into tables
type TimelineParser struct{}

func NewTimelineParser() *TimelineParser {
	return &TimelineParser{}
}

// ParseResponse decodes a response body. A non-success status is an error;
// a success without points yields an empty table.
func (p *TimelineParser) ParseResponse(body []byte) (*series.Table, error) {
	if len(body) == 0 {
		return nil, fmt.Errorf("empty response body from trends API")
	}

	var resp TimelineResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode trends response: %w (response: %s)", err, string(body[:min(len(body), 200)]))
	}

	return p.ToTable(resp)
}

// ToTable converts an already decoded response
func (p *TimelineParser) ToTable(resp TimelineResponse) (*series.Table, error) {
	if resp.Status != "success" {
		if resp.Message != "" {
			return nil, fmt.Errorf("trends API returned status %q: %s", resp.Status, resp.Message)
		}
		return nil, fmt.Errorf("trends API returned status %q", resp.Status)
	}

	table := series.Empty()
	for _, kt := range resp.Data {
		name := keywords.Normalize(kt.Keyword)
		if name == "" || len(kt.Timeline) == 0 {
			continue
		}
		s, err := p.timelineSeries(name, kt.Timeline)
		if err != nil {
			return nil, err
		}
		table = series.Merge(table, s.Table())
	}
	return table, nil
}

// timelineSeries sorts points by date; the partial-period flag is dropped
// and a repeated date keeps its first observation.
func (p *TimelineParser) timelineSeries(name string, points []TimelinePoint) (*series.Series, error) {
	type obs struct {
		ts    time.Time
		value float64
	}
	parsed := make([]obs, 0, len(points))
	for _, pt := range points {
		ts, err := parseDate(pt.Date)
		if err != nil {
			return nil, fmt.Errorf("keyword %q: %w", name, err)
		}
		v := series.Missing()
		if pt.Value != nil {
			v = *pt.Value
		}
		parsed = append(parsed, obs{ts: ts, value: v})
	}
	sort.SliceStable(parsed, func(i, j int) bool { return parsed[i].ts.Before(parsed[j].ts) })

	index := make([]time.Time, 0, len(parsed))
	values := make([]float64, 0, len(parsed))
	for _, o := range parsed {
		if n := len(index); n > 0 && index[n-1].Equal(o.ts) {
			continue
		}
		index = append(index, o.ts)
		values = append(values, o.value)
	}
	return series.NewSeries(name, index, values)
}

func parseDate(s string) (time.Time, error) {
	if ts, err := time.Parse("2006-01-02", s); err == nil {
		return ts, nil
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timeline date %q", s)
	}
	return ts.UTC(), nil
}
