package lint

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config controls which rules run and how strict they are. It is typically
// loaded from the lint section of .skilldex.yaml at the corpus root.
type Config struct {
	// Disable lists rule ids that are skipped entirely
	Disable []string `yaml:"disable" mapstructure:"disable"`
	// WarnOnly lists rule ids downgraded from error to warning
	WarnOnly []string `yaml:"warn_only" mapstructure:"warn_only"`
	// FenceLanguages extends the built-in code fence language allowlist
	FenceLanguages []string `yaml:"fence_languages" mapstructure:"fence_languages"`
}

// DefaultConfig returns a config with every rule enabled at its default
// severity.
func DefaultConfig() Config {
	return Config{}
}

// LoadConfig reads a lint configuration from a YAML file. A missing file is
// not an error: the default configuration is returned.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return Config{}, errors.Wrapf(err, "failed to read lint config %s", path)
	}

	var wrapper struct {
		Lint Config `yaml:"lint"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return Config{}, errors.Wrapf(err, "failed to parse lint config %s", path)
	}
	return wrapper.Lint, nil
}

func (c Config) enabled(rule string) bool {
	for _, disabled := range c.Disable {
		if disabled == rule {
			return false
		}
	}
	return true
}

func (c Config) warnOnly(rule string) bool {
	for _, downgraded := range c.WarnOnly {
		if downgraded == rule {
			return true
		}
	}
	return false
}
