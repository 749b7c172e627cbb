package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/newsprobe/concrete/pkg/concrete/internalerr"
)

// Run holds the settings for one scoring run. A YAML file provides the
// baseline; CLI flags override individual values.
type Run struct {
	Data    string   `yaml:"data"`
	Ratings string   `yaml:"ratings"`
	Output  string   `yaml:"output"`
	Format  string   `yaml:"format"`
	Fields  []string `yaml:"fields"`
	Workers int      `yaml:"workers"`

	RatingsColumns RatingsColumns `yaml:"ratings_columns"`
}

// RatingsColumns names the columns of the ratings CSV. Empty values fall
// back to the conventional Word / Conc.M / Bigram header.
type RatingsColumns struct {
	Word   string `yaml:"word"`
	Rating string `yaml:"rating"`
	Bigram string `yaml:"bigram"`
}

// DefaultFields are the text columns scored when neither the config file nor
// the CLI names any.
var DefaultFields = []string{"headline", "abstract", "snippet", "lead_paragraph"}

// Load reads a run configuration from a YAML file.
func Load(path string) (*Run, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var run Run
	if err := yaml.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &run, nil
}

// Validate checks that a run has everything it needs and fills defaults.
func (r *Run) Validate() error {
	if r.Data == "" {
		return fmt.Errorf("%w: data path required", internalerr.ErrInvalidConfig)
	}
	if r.Ratings == "" {
		return fmt.Errorf("%w: ratings path required", internalerr.ErrInvalidConfig)
	}
	if r.Output == "" {
		return fmt.Errorf("%w: output path required", internalerr.ErrInvalidConfig)
	}
	switch r.Format {
	case "":
		r.Format = "csv"
	case "csv", "sqlite":
	default:
		return fmt.Errorf("%w: unknown output format %q", internalerr.ErrInvalidConfig, r.Format)
	}
	if len(r.Fields) == 0 {
		r.Fields = append([]string(nil), DefaultFields...)
	}
	if r.Workers <= 0 {
		r.Workers = 1
	}
	return nil
}
