package scoring

import (
	"golang.org/x/text/language"
)

// LabelSet holds the display text for stress levels and trend directions
type LabelSet struct {
	Language string
	Stress   map[StressLevel]string
	Trend    map[TrendDirection]string
}

var supportedLanguages = []language.Tag{
	language.English, // first entry is the fallback
	language.Italian,
}

var labelMatcher = language.NewMatcher(supportedLanguages)

var labelSets = map[language.Tag]LabelSet{
	language.English: {
		Language: "en",
		Stress: map[StressLevel]string{
			StressLow:      "🟢 LOW",
			StressModerate: "🟡 MODERATE",
			StressElevated: "🟠 ELEVATED",
			StressCritical: "🔴 CRITICAL",
		},
		Trend: map[TrendDirection]string{
			TrendIncreasing: "📈 INCREASING",
			TrendDecreasing: "📉 DECREASING",
			TrendStable:     "➡️ STABLE",
		},
	},
	language.Italian: {
		Language: "it",
		Stress: map[StressLevel]string{
			StressLow:      "🟢 BASSO",
			StressModerate: "🟡 MODERATO",
			StressElevated: "🟠 ELEVATO",
			StressCritical: "🔴 CRITICO",
		},
		Trend: map[TrendDirection]string{
			TrendIncreasing: "📈 IN AUMENTO",
			TrendDecreasing: "📉 IN DIMINUZIONE",
			TrendStable:     "➡️ STABILE",
		},
	},
}

// Labels picks the label set best matching the given language preferences,
// e.g. "it", "it-IT" or an Accept-Language header value
func Labels(preferences ...string) LabelSet {
	var tags []language.Tag
	for _, p := range preferences {
		if parsed, _, err := language.ParseAcceptLanguage(p); err == nil {
			tags = append(tags, parsed...)
		}
	}
	_, idx, _ := labelMatcher.Match(tags...)
	return labelSets[supportedLanguages[idx]]
}

// StressLabel returns the display text for a level
func (l LabelSet) StressLabel(level StressLevel) string {
	if s, ok := l.Stress[level]; ok {
		return s
	}
	return string(level)
}

// TrendLabel returns the display text for a direction
func (l LabelSet) TrendLabel(direction TrendDirection) string {
	if s, ok := l.Trend[direction]; ok {
		return s
	}
	return string(direction)
}
