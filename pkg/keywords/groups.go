package keywords

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	// DefaultWeight applies to keywords without an explicit weight
	DefaultWeight = 1.0
	// IndexColumn is reserved for the composite index and cannot name a group
	IndexColumn = "Economic_Stress_Index"
)

var ErrInvalidConfig = errors.New("invalid keyword configuration")

// Group is a named category of semantically related search keywords
type Group struct {
	Name     string   `mapstructure:"name" json:"name"`
	Keywords []string `mapstructure:"keywords" json:"keywords"`
}

// Config is the immutable keyword/weight configuration shared by the
// aggregator and the scorer. Build it with New; the zero value is empty.
type Config struct {
	groups        []Group
	weights       map[string]float64
	defaultWeight float64
}

// New validates and deep-copies the given groups and weights.
// Keyword strings are NFC-normalized so that weight lookup does not depend
// on how accented characters were encoded in the input.
func New(groups []Group, weights map[string]float64, defaultWeight float64) (*Config, error) {
	if len(groups) == 0 {
		return nil, fmt.Errorf("%w: at least one group is required", ErrInvalidConfig)
	}
	if defaultWeight <= 0 {
		return nil, fmt.Errorf("%w: default weight must be positive, got %v", ErrInvalidConfig, defaultWeight)
	}

	cfg := &Config{
		groups:        make([]Group, 0, len(groups)),
		weights:       make(map[string]float64, len(weights)),
		defaultWeight: defaultWeight,
	}

	seen := make(map[string]bool, len(groups))
	for _, g := range groups {
		name := strings.TrimSpace(g.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: group name cannot be empty", ErrInvalidConfig)
		}
		if name == IndexColumn {
			return nil, fmt.Errorf("%w: group name %q is reserved", ErrInvalidConfig, name)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: duplicate group %q", ErrInvalidConfig, name)
		}
		seen[name] = true

		kws := make([]string, 0, len(g.Keywords))
		for _, kw := range g.Keywords {
			kw = Normalize(kw)
			if kw == "" {
				continue
			}
			kws = append(kws, kw)
		}
		if len(kws) == 0 {
			return nil, fmt.Errorf("%w: group %q has no keywords", ErrInvalidConfig, name)
		}
		cfg.groups = append(cfg.groups, Group{Name: name, Keywords: kws})
	}

	for kw, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("%w: negative weight %v for %q", ErrInvalidConfig, w, kw)
		}
		cfg.weights[Normalize(kw)] = w
	}

	return cfg, nil
}

// Normalize trims a keyword and converts it to Unicode NFC
func Normalize(keyword string) string {
	return norm.NFC.String(strings.TrimSpace(keyword))
}

// Groups returns a copy of the configured groups in their configured order
func (c *Config) Groups() []Group {
	out := make([]Group, len(c.groups))
	for i, g := range c.groups {
		out[i] = Group{Name: g.Name, Keywords: append([]string(nil), g.Keywords...)}
	}
	return out
}

// GroupNames returns category names in configured order
func (c *Config) GroupNames() []string {
	names := make([]string, len(c.groups))
	for i, g := range c.groups {
		names[i] = g.Name
	}
	return names
}

// Group looks up a category by name
func (c *Config) Group(name string) (Group, bool) {
	for _, g := range c.groups {
		if g.Name == name {
			return Group{Name: g.Name, Keywords: append([]string(nil), g.Keywords...)}, true
		}
	}
	return Group{}, false
}

// Weight returns the weight for a keyword, falling back to the default weight
func (c *Config) Weight(keyword string) float64 {
	if w, ok := c.weights[Normalize(keyword)]; ok {
		return w
	}
	return c.defaultWeight
}
