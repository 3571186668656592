package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/speedwagon-io/climate-indicator/internal/model"
)

type ProjectsConfig struct {
	Projects []model.Project `yaml:"projects"`
}

// LoadProjects reads the project catalog. Titles must be present and
// unique; size must be sm, lg or xl.
func LoadProjects(configPath string) (*ProjectsConfig, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("projects config file not found: %s", configPath)
	}

	var cfg ProjectsConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read projects config: %w", err)
	}

	seen := make(map[string]struct{}, len(cfg.Projects))
	for i, p := range cfg.Projects {
		title := strings.TrimSpace(p.Title)
		if title == "" {
			return nil, fmt.Errorf("project %d: missing title", i)
		}
		if _, dup := seen[title]; dup {
			return nil, fmt.Errorf("duplicate project title %q", title)
		}
		seen[title] = struct{}{}

		switch p.Size {
		case model.SizeSmall, model.SizeLarge, model.SizeExtraLarge:
		default:
			return nil, fmt.Errorf("project %q: unknown size %q", title, p.Size)
		}
	}

	return &cfg, nil
}

func MustLoadProjects(configPath string) *ProjectsConfig {
	cfg, err := LoadProjects(configPath)
	if err != nil {
		panic(err.Error())
	}
	return cfg
}
