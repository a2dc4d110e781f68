package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Source types recognized by the pipeline.
const (
	TypeVCBlog        = "vc_blog"
	TypeYCBatch       = "yc_batch"
	TypeEarningsCall  = "earnings_call"
	TypeSECFiling     = "sec_filing"
	TypeFinancialNews = "financial_news"
	TypeHackerNews    = "hackernews"
	TypeArxiv         = "arxiv"
	TypeGitHub        = "github"
)

// SourceType describes a class of document origins and its signal tier.
// Tier 1 is early signal, tier 2 is startup usage, tier 3 is mainstream
// corroboration. Academic types feed the emergence view.
type SourceType struct {
	Name     string `yaml:"name"`
	Tier     int    `yaml:"tier"`
	Academic bool   `yaml:"academic"`
}

// Weights defines the scoring weights and bonuses.
type Weights struct {
	Tier1           float64 `yaml:"tier1"`            // per distinct tier-1 source
	Tier2           float64 `yaml:"tier2"`            // per tier-2 mention
	Tier3           float64 `yaml:"tier3"`            // per tier-3 mention, capped
	Tier3Cap        int     `yaml:"tier3_cap"`        // max tier-3 mentions counted
	CrossTierBonus  float64 `yaml:"cross_tier_bonus"` // appears in tier 1 and tier 3
	NewTermBonus    float64 `yaml:"new_term_bonus"`   // first seen this period
	TrendMultiplier float64 `yaml:"trend_multiplier"` // applied to percent change when trending up
}

// Extraction bounds phrase length.
type Extraction struct {
	MinWords int `yaml:"min_words"`
	MaxWords int `yaml:"max_words"`
	MinChars int `yaml:"min_chars"`
}

// Velocity controls the half-window rate-of-change view.
type Velocity struct {
	LookbackDays int     `yaml:"lookback_days"`
	Rising       float64 `yaml:"rising"`
	Falling      float64 `yaml:"falling"`
}

// Limits bounds report output.
type Limits struct {
	Display     int `yaml:"display"`      // terms per tier bucket
	MinMentions int `yaml:"min_mentions"` // floor for inclusion in reports
}

// Denylists holds the curated exclusion vocabularies. All are applied
// case-insensitively. Jargon and Generic are exact-phrase lists; Social,
// Firms and MarketNoise are substring markers; Established is the larger
// exclusion list used only by the emergence view.
type Denylists struct {
	Jargon      []string `yaml:"jargon"`
	Generic     []string `yaml:"generic"`
	Social      []string `yaml:"social"`
	Firms       []string `yaml:"firms"`
	MarketNoise []string `yaml:"market_noise"`
	Established []string `yaml:"established"`
}

// Config is the full pipeline configuration.
type Config struct {
	Weights     Weights      `yaml:"weights"`
	Extraction  Extraction   `yaml:"extraction"`
	Velocity    Velocity     `yaml:"velocity"`
	Limits      Limits       `yaml:"limits"`
	SourceTypes []SourceType `yaml:"source_types"`
	Denylists   Denylists    `yaml:"denylists"`

	types map[string]SourceType
}

// Default returns the built-in configuration mirroring the curated lists
// the pipeline ships with.
func Default() *Config {
	cfg := &Config{
		Weights: Weights{
			Tier1:           10,
			Tier2:           0.5,
			Tier3:           1,
			Tier3Cap:        50,
			CrossTierBonus:  50,
			NewTermBonus:    20,
			TrendMultiplier: 0.5,
		},
		Extraction: Extraction{MinWords: 2, MaxWords: 4, MinChars: 5},
		Velocity:   Velocity{LookbackDays: 14, Rising: 0.5, Falling: -0.5},
		Limits:     Limits{Display: 50, MinMentions: 2},
		SourceTypes: []SourceType{
			{Name: TypeVCBlog, Tier: 1},
			{Name: TypeYCBatch, Tier: 2},
			{Name: TypeEarningsCall, Tier: 3},
			{Name: TypeSECFiling, Tier: 3},
			{Name: TypeFinancialNews, Tier: 3},
			{Name: TypeHackerNews, Tier: 1},
			{Name: TypeArxiv, Tier: 1, Academic: true},
			{Name: TypeGitHub, Tier: 1},
		},
		Denylists: Denylists{
			Jargon:      defaultJargon,
			Generic:     defaultGeneric,
			Social:      defaultSocial,
			Firms:       defaultFirms,
			MarketNoise: defaultMarketNoise,
			Established: defaultEstablished,
		},
	}
	cfg.index()
	return cfg
}

// Load reads a YAML config file and merges it over the defaults. Any
// section present in the file replaces the default section wholesale.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	var overlay Config
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg := Default()
	cfg.merge(&overlay)
	cfg.index()
	return cfg, nil
}

func (c *Config) merge(o *Config) {
	if o.Weights != (Weights{}) {
		c.Weights = o.Weights
	}
	if o.Extraction != (Extraction{}) {
		c.Extraction = o.Extraction
	}
	if o.Velocity != (Velocity{}) {
		c.Velocity = o.Velocity
	}
	if o.Limits != (Limits{}) {
		c.Limits = o.Limits
	}
	if len(o.SourceTypes) > 0 {
		c.SourceTypes = o.SourceTypes
	}
	if len(o.Denylists.Jargon) > 0 {
		c.Denylists.Jargon = o.Denylists.Jargon
	}
	if len(o.Denylists.Generic) > 0 {
		c.Denylists.Generic = o.Denylists.Generic
	}
	if len(o.Denylists.Social) > 0 {
		c.Denylists.Social = o.Denylists.Social
	}
	if len(o.Denylists.Firms) > 0 {
		c.Denylists.Firms = o.Denylists.Firms
	}
	if len(o.Denylists.MarketNoise) > 0 {
		c.Denylists.MarketNoise = o.Denylists.MarketNoise
	}
	if len(o.Denylists.Established) > 0 {
		c.Denylists.Established = o.Denylists.Established
	}
}

func (c *Config) index() {
	c.types = make(map[string]SourceType, len(c.SourceTypes))
	for _, st := range c.SourceTypes {
		c.types[st.Name] = st
	}
}

// SourceTypeFor looks up a registered source type by name.
func (c *Config) SourceTypeFor(name string) (SourceType, bool) {
	st, ok := c.types[name]
	return st, ok
}

// TierFor returns the tier of a source type, or 0 for unknown types.
func (c *Config) TierFor(sourceType string) int {
	return c.types[sourceType].Tier
}

// AcademicTypes returns the names of source types flagged academic.
func (c *Config) AcademicTypes() []string {
	var out []string
	for _, st := range c.SourceTypes {
		if st.Academic {
			out = append(out, st.Name)
		}
	}
	return out
}
