package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// StageSeed describes one pipeline stage in a seed file.
type StageSeed struct {
	Name        string `toml:"name"`
	Description string `toml:"description"`
	Order       int    `toml:"order"`
	Active      *bool  `toml:"active"`
}

// IsActive defaults to true when the flag is omitted.
func (s StageSeed) IsActive() bool {
	return s.Active == nil || *s.Active
}

// StageSeedFile is the top-level TOML document.
type StageSeedFile struct {
	Stages []StageSeed `toml:"stages"`
}

// DefaultStageSeeds mirrors the stages a fresh installation starts with.
func DefaultStageSeeds() []StageSeed {
	return []StageSeed{
		{Name: "Soft Skills", Description: "Behavioural interview", Order: 1},
		{Name: "Technical Interview", Description: "Technical assessment", Order: 2},
		{Name: "Client Meeting", Description: "Meeting with the hiring client", Order: 3},
	}
}

// LoadStageSeeds reads and validates a TOML stage seed file.
func LoadStageSeeds(path string) ([]StageSeed, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer file.Close()

	var doc StageSeedFile
	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	if err := ValidateStageSeeds(doc.Stages); err != nil {
		return nil, err
	}
	return doc.Stages, nil
}

// ValidateStageSeeds checks names are present and active orders are unique.
func ValidateStageSeeds(seeds []StageSeed) error {
	if len(seeds) == 0 {
		return errors.New("seed file defines no stages")
	}
	orders := make(map[int]string, len(seeds))
	for i, seed := range seeds {
		if strings.TrimSpace(seed.Name) == "" {
			return fmt.Errorf("stage %d: name required", i+1)
		}
		if !seed.IsActive() {
			continue
		}
		if other, exists := orders[seed.Order]; exists {
			return fmt.Errorf("stages %q and %q share order %d", other, seed.Name, seed.Order)
		}
		orders[seed.Order] = seed.Name
	}
	return nil
}
