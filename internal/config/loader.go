package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// DefaultFile is read from the working directory when no config path is set.
const DefaultFile = "martha.yaml"

// Load resolves the service configuration: environment over YAML over
// env-default tags. The YAML path comes from MARTHA_CONFIG, then CONFIG_PATH.
// A named file must exist; without one, DefaultFile is used only if present.
func Load() (*Config, error) {
	path, named := configPath()

	var cfg Config
	_, statErr := os.Stat(path)
	switch {
	case statErr == nil:
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	case named:
		return nil, fmt.Errorf("load config %s: %w", path, statErr)
	default:
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("load config from env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid martha config: %w", err)
	}
	return &cfg, nil
}

func configPath() (path string, named bool) {
	for _, key := range []string{"MARTHA_CONFIG", "CONFIG_PATH"} {
		if p := os.Getenv(key); p != "" {
			return p, true
		}
	}
	return DefaultFile, false
}
