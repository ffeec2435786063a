// Package projcfg loads the optional bwstage.toml project file, which holds
// path and REST API defaults for the bwstage commands.
package projcfg

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
)

const configFile = "bwstage.toml"

// ErrNotFound is returned when no bwstage.toml exists in the directory or any
// of its parents.
var ErrNotFound = errors.New("project file not found")

type Config struct {
	Root  string      `toml:"-"`
	Paths PathsConfig `toml:"paths"`
	API   APIConfig   `toml:"api"`
}

// PathsConfig holds file locations relative to the project root.
type PathsConfig struct {
	Config   string `toml:"config"`
	Template string `toml:"template"`
	Out      string `toml:"out"`
}

type APIConfig struct {
	Name         string `toml:"name"`
	RestAPIID    string `toml:"rest_api_id"`
	DeploymentID string `toml:"deployment_id"`
}

func (c *Config) ConfigPath() string {
	return c.path(c.Paths.Config)
}

func (c *Config) TemplatePath() string {
	return c.path(c.Paths.Template)
}

func (c *Config) OutPath() string {
	return c.path(c.Paths.Out)
}

func (c *Config) path(rel string) string {
	if rel == "" {
		return ""
	}
	return filepath.Join(c.Root, rel)
}

// Load finds bwstage.toml starting at the working directory.
func Load() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "getting working directory")
	}
	return LoadFrom(wd)
}

// LoadFrom finds bwstage.toml starting at dir and walking up.
func LoadFrom(dir string) (*Config, error) {
	root, err := findRoot(dir)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.DecodeFile(filepath.Join(root, configFile), &cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", configFile)
	}

	cfg.Root = root

	if err := cfg.validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid %s", configFile)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	for name, p := range map[string]string{
		"paths.config":   c.Paths.Config,
		"paths.template": c.Paths.Template,
		"paths.out":      c.Paths.Out,
	} {
		if filepath.IsAbs(p) {
			return errors.Newf("%s must be relative, got %q", name, p)
		}
	}
	return nil
}

func findRoot(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, configFile)); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.Mark(
				errors.Newf("could not find %s in any parent directory", configFile), ErrNotFound)
		}
		dir = parent
	}
}
