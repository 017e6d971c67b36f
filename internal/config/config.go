// Package config loads and validates the run configuration: YAML
// documents unmarshaled with gopkg.in/yaml.v3, with a semver compatibility
// gate on the config schema version using github.com/Masterminds/semver/v3,
// grounded on bayleafwalker-bindery-core's internal/semver wrapper and
// gpsnav's yaml.Unmarshal usage.
package config

import (
	"os"

	mm "github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/azaryc2s/vrptw-cg/internal/vrperr"
)

// SchemaConstraint is the range of config schema versions this build
// understands. Bumped only when a breaking field change lands.
const SchemaConstraint = ">=1.0.0 <2.0.0"

// Config is the top-level run configuration.
type Config struct {
	SchemaVersion string `yaml:"schema_version"`

	Instance InstanceConfig `yaml:"instance"`
	CG       CGConfig       `yaml:"column_generation"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Cache    CacheConfig    `yaml:"cache"`
	Store    StoreConfig    `yaml:"store"`
}

type InstanceConfig struct {
	Path         string `yaml:"path"`
	NumCustomers int    `yaml:"num_customers"`
}

type CGConfig struct {
	MaxIterations     int     `yaml:"max_iterations"`
	Tolerance         float64 `yaml:"tolerance"`
	LabelingStrategy  string  `yaml:"labeling_strategy"`
	SolveIntegerAfter bool    `yaml:"solve_integer_after"`
	ColumnsPerIter    string  `yaml:"columns_per_iter"`
	Partitioned       bool    `yaml:"partitioned"`
	Backend           string  `yaml:"backend"` // "gurobi" or "native"
}

type LoggingConfig struct {
	Verbosity int `yaml:"verbosity"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

type CacheConfig struct {
	Enabled  bool   `yaml:"enabled"`
	RedisURL string `yaml:"redis_url"`
}

type StoreConfig struct {
	Enabled bool   `yaml:"enabled"`
	DSN     string `yaml:"dsn"`
}

// Defaults returns a Config with every documented default applied.
func Defaults() Config {
	return Config{
		SchemaVersion: "1.0.0",
		CG: CGConfig{
			MaxIterations:    100,
			Tolerance:        1e-6,
			LabelingStrategy: "min_cost",
			ColumnsPerIter:   "all",
			Backend:          "native",
		},
		Logging: LoggingConfig{Verbosity: 2},
	}
}

// Load reads and validates a YAML config file, merging unset fields onto
// Defaults().
func Load(path string) (Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, vrperr.New(vrperr.KindInstance, "read config "+path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, vrperr.New(vrperr.KindInstance, "parse config "+path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the schema version against SchemaConstraint and
// rejects structurally invalid tunables.
func (c Config) Validate() error {
	v, err := mm.NewVersion(c.SchemaVersion)
	if err != nil {
		return vrperr.New(vrperr.KindInstance, "config: invalid schema_version "+c.SchemaVersion, err)
	}
	constraint, err := mm.NewConstraint(SchemaConstraint)
	if err != nil {
		return vrperr.New(vrperr.KindInstance, "config: invalid internal schema constraint", err)
	}
	if !constraint.Check(v) {
		return vrperr.New(vrperr.KindInstance, "config: schema_version "+c.SchemaVersion+" does not satisfy "+SchemaConstraint, nil)
	}
	if c.CG.MaxIterations <= 0 {
		return vrperr.New(vrperr.KindInstance, "config: column_generation.max_iterations must be positive", nil)
	}
	if c.CG.Tolerance < 0 {
		return vrperr.New(vrperr.KindInstance, "config: column_generation.tolerance must be nonnegative", nil)
	}
	if c.Instance.NumCustomers < 0 {
		return vrperr.New(vrperr.KindInstance, "config: instance.num_customers must be nonnegative", nil)
	}
	return nil
}
