// Package ranking scores chunks against analyzed queries.
package ranking

// Config holds the scoring weights. Scores are small integers so ties are
// common; callers break them by index order with a stable sort.
type Config struct {
	// OverlapWeight multiplies the number of distinct query tokens found in
	// a chunk's token set.
	OverlapWeight int `yaml:"overlap_weight"`
	// TitleWeight multiplies the number of distinct query tokens found in
	// the chunk's title.
	TitleWeight int `yaml:"title_weight"`
	// SubstringBoost is added when the normalized query occurs verbatim
	// inside the chunk's normalized text.
	SubstringBoost int `yaml:"substring_boost"`
}

// DefaultConfig returns the standard weights.
func DefaultConfig() *Config {
	return &Config{
		OverlapWeight:  2,
		TitleWeight:    1,
		SubstringBoost: 4,
	}
}

// ApplyDefaults fills zero weights with their defaults.
func (c *Config) ApplyDefaults() {
	d := DefaultConfig()
	if c.OverlapWeight == 0 {
		c.OverlapWeight = d.OverlapWeight
	}
	if c.TitleWeight == 0 {
		c.TitleWeight = d.TitleWeight
	}
	if c.SubstringBoost == 0 {
		c.SubstringBoost = d.SubstringBoost
	}
}
