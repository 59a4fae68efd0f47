package keywords

// Reference configuration for Italy
var (
	defaultGroups = []Group{
		{Name: "risparmio", Keywords: []string{"come risparmiare", "risparmiare soldi", "spese inutili"}},
		{Name: "lavoro_extra", Keywords: []string{"secondo lavoro", "lavoro part time", "guadagnare extra"}},
		{Name: "vendite_desperate", Keywords: []string{"vendere auto", "vendere oro", "prestito veloce"}},
		{Name: "assistenza", Keywords: []string{"banco alimentare", "aiuti economici", "sussidi"}},
		{Name: "debiti", Keywords: []string{"come pagare debiti", "ristrutturazione debiti", "fallimento personale"}},
	}

	defaultWeights = map[string]float64{
		"come risparmiare":   1.0,
		"secondo lavoro":     1.2,
		"vendere auto":       1.5,
		"banco alimentare":   2.0,
		"come pagare debiti": 1.8,
	}
)

// DefaultGroups returns a copy of the reference keyword groups
func DefaultGroups() []Group {
	out := make([]Group, len(defaultGroups))
	for i, g := range defaultGroups {
		out[i] = Group{Name: g.Name, Keywords: append([]string(nil), g.Keywords...)}
	}
	return out
}

// DefaultWeights returns a copy of the reference keyword weights
func DefaultWeights() map[string]float64 {
	out := make(map[string]float64, len(defaultWeights))
	for k, v := range defaultWeights {
		out[k] = v
	}
	return out
}

// Default builds the reference configuration
func Default() *Config {
	cfg, err := New(DefaultGroups(), DefaultWeights(), DefaultWeight)
	if err != nil {
		panic("keywords: invalid built-in configuration: " + err.Error())
	}
	return cfg
}
