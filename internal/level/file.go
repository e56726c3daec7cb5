package level

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/outbackcafe/internal/domain"
	"github.com/hammamikhairi/outbackcafe/internal/logger"
)

// fileLevel is the on-disk shape of one level.
type fileLevel struct {
	ID        string             `yaml:"id"`
	Name      string             `yaml:"name"`
	Customers []domain.Archetype `yaml:"customers"`
}

// fileDoc is the on-disk shape of a levels file:
//
//	levels:
//	  - name: Breakfast Rush
//	    customers:
//	      - customerName: Koala
//	        requiredItemKinds: [ingredient1]
//	        patienceRateSeconds: 20
//	pool:
//	  - customerName: Snake
//	    requiredItemKinds: [ingredient3Chopped]
type fileDoc struct {
	Levels []fileLevel        `yaml:"levels"`
	Pool   []domain.Archetype `yaml:"pool"`
}

// Parse decodes a YAML levels document. An absent pool yields a nil slice.
func Parse(data []byte) ([]domain.Level, []domain.Archetype, error) {
	var doc fileDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("decoding levels: %w", err)
	}
	if len(doc.Levels) == 0 {
		return nil, nil, fmt.Errorf("%w: file defines no levels", domain.ErrInvalidLevel)
	}

	levels := make([]domain.Level, len(doc.Levels))
	for i, fl := range doc.Levels {
		levels[i] = domain.Level{ID: fl.ID, Name: fl.Name, Customers: fl.Customers}
	}
	return levels, doc.Pool, nil
}

// LoadFile reads a levels file into a MemorySource.
func LoadFile(path string, log *logger.Logger) (*MemorySource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading levels file: %w", err)
	}
	levels, pool, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	src, err := NewSource(levels, pool, log)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Info("loaded %d levels from %s", len(levels), path)
	return src, nil
}
