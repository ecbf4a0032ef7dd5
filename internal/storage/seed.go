// internal/storage/seed.go
package storage

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"mcp-meal-planner/internal/models"
)

//go:embed seed/foods.yaml
var defaultSeed []byte

// Seed is the YAML document the catalogs are loaded from.
type Seed struct {
	Foods  []models.FoodRecord `yaml:"foods"`
	Salads []models.Salad      `yaml:"salads"`
}

// DefaultSeed returns the catalog bundled with the binary.
func DefaultSeed() (*Seed, error) {
	return ParseSeed(defaultSeed)
}

// LoadSeedFile reads a seed from disk. An empty path means the bundled one.
func LoadSeedFile(path string) (*Seed, error) {
	if path == "" {
		return DefaultSeed()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return ParseSeed(data)
}

func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}

	seen := make(map[int64]bool, len(seed.Foods))
	for _, f := range seed.Foods {
		if err := validateFood(f); err != nil {
			return nil, err
		}
		if seen[f.ID] {
			return nil, fmt.Errorf("%w: duplicate id %d", ErrInvalidFood, f.ID)
		}
		seen[f.ID] = true
	}
	return &seed, nil
}

// ApplySeed upserts the seed's foods and salads.
func (s *SQLiteStorage) ApplySeed(ctx context.Context, seed *Seed) error {
	if err := s.UpsertFoods(ctx, seed.Foods); err != nil {
		return fmt.Errorf("failed to seed foods: %w", err)
	}
	if err := s.UpsertSalads(ctx, seed.Salads); err != nil {
		return fmt.Errorf("failed to seed salads: %w", err)
	}
	return nil
}
