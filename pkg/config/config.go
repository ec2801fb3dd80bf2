// Package config loads the optional .semcast.yaml at a repository root. The
// file is schema-validated before anything trusts it: a malformed config
// aborts the run before discovery touches the tree. Absence of the file is
// not an error; defaults apply.
package config

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/fulmenhq/semcast/internal/schema"
	"github.com/fulmenhq/semcast/pkg/errs"
)

const (
	// DefaultTagTemplate names tags "v1.2.3" unless the config overrides it.
	DefaultTagTemplate = "v{version}"

	// fileBaseName is the config file name without extension; viper resolves
	// .semcast.yaml (or .yml) at the target root.
	fileBaseName = ".semcast"

	schemaName = "semcast-config-v1.0.0"
)

// Config is the loaded repository configuration.
type Config struct {
	// TagTemplate expands to the tag created after a successful bump.
	TagTemplate string `mapstructure:"tag_template"`
	// Ignore holds extra exclude globs applied during cascade discovery, on
	// top of the repository's gitignore rules.
	Ignore []string `mapstructure:"ignore"`
	// Manifests restricts which manifest formats participate.
	Manifests ManifestFilters `mapstructure:"manifests"`
}

// ManifestFilters selects manifest formats by tag. An empty Only list keeps
// every format; Exclude is applied afterwards and wins on overlap.
type ManifestFilters struct {
	Only    []string `mapstructure:"only"`
	Exclude []string `mapstructure:"exclude"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{TagTemplate: DefaultTagTemplate}
}

// Load reads the config file at root, if present, applying environment
// overrides with the SEMCAST_ prefix (SEMCAST_TAG_TEMPLATE and friends).
func Load(root string) (*Config, error) {
	v := viper.New()

	v.SetDefault("tag_template", DefaultTagTemplate)
	v.SetDefault("ignore", []string{})
	v.SetDefault("manifests.only", []string{})
	v.SetDefault("manifests.exclude", []string{})

	v.SetConfigName(fileBaseName)
	v.SetConfigType("yaml")
	v.AddConfigPath(root)

	v.SetEnvPrefix("SEMCAST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errs.Wrap(err, errs.ErrConfigInvalid, "reading config file").WithPath(root)
		}
	} else if err := validateFile(v.ConfigFileUsed()); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errs.Wrap(err, errs.ErrConfigInvalid, "unmarshaling config").WithPath(v.ConfigFileUsed())
	}
	return &cfg, nil
}

// validateFile checks the raw config document against the embedded schema so
// typos and wrong types surface with field paths instead of silently
// becoming zero values.
func validateFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return errs.Wrap(err, errs.ErrConfigInvalid, "reading config file").WithPath(path)
	}
	res, err := schema.ValidateBytes(raw, schemaName)
	if err != nil {
		return errs.Wrap(err, errs.ErrConfigInvalid, "validating config file").WithPath(path)
	}
	if !res.Valid {
		msgs := make([]string, 0, len(res.Errors))
		for _, verr := range res.Errors {
			msgs = append(msgs, verr.Path+": "+verr.Message)
		}
		return errs.Newf(errs.ErrConfigInvalid, "invalid config: %s", strings.Join(msgs, "; ")).WithPath(path)
	}
	return nil
}
