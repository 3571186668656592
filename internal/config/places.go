package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/speedwagon-io/climate-indicator/internal/model"
)

type PlacesConfig struct {
	Places []model.Place `yaml:"places"`
}

// LoadPlaces reads the place catalog and rejects duplicate ids and
// malformed coordinates. Catalog order is preserved.
func LoadPlaces(configPath string) (*PlacesConfig, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("places config file not found: %s", configPath)
	}

	var cfg PlacesConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read places config: %w", err)
	}

	seen := make(map[int]struct{}, len(cfg.Places))
	for _, p := range cfg.Places {
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("duplicate place id %d", p.ID)
		}
		seen[p.ID] = struct{}{}

		if len(p.Coordinates) != 2 {
			return nil, fmt.Errorf("place %d: coordinates must be [lat, lng]", p.ID)
		}
	}

	return &cfg, nil
}

func MustLoadPlaces(configPath string) *PlacesConfig {
	cfg, err := LoadPlaces(configPath)
	if err != nil {
		panic(err.Error())
	}
	return cfg
}
