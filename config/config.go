// Package config loads the YAML configuration of the flsim simulator.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/scigo-fl/dataset"
	"github.com/YuminosukeSato/scigo-fl/federated"
	"github.com/YuminosukeSato/scigo-fl/pkg/errors"
	"github.com/YuminosukeSato/scigo-fl/pkg/log"
)

// Config holds all simulator configuration.
type Config struct {
	Data       DataConfig       `yaml:"data"`
	Model      ModelConfig      `yaml:"model"`
	Simulation SimulationConfig `yaml:"simulation"`
	Output     OutputConfig     `yaml:"output"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// DataConfig locates the train/test CSV files.
type DataConfig struct {
	TrainPath     string `yaml:"train_path"`
	TestPath      string `yaml:"test_path"`
	LabelColumn   string `yaml:"label_column"`
	EncodedColumn string `yaml:"encoded_column"`
}

// ModelConfig configures the local classifier and its seed parameters.
type ModelConfig struct {
	NClasses     int     `yaml:"n_classes"`
	NFeatures    int     `yaml:"n_features"`
	FitIntercept bool    `yaml:"fit_intercept"`
	MaxIter      int     `yaml:"max_iter"`
	C            float64 `yaml:"c"`
}

// SimulationConfig configures how data is spread across participants.
type SimulationConfig struct {
	Participants int  `yaml:"participants"`
	Shuffle      bool `yaml:"shuffle"`
	// Seed makes shuffling reproducible. 0 draws a fresh seed every run.
	Seed int64 `yaml:"seed"`
}

// OutputConfig controls the files written by the simulator.
type OutputConfig struct {
	Dir        string  `yaml:"dir"`
	PlotWidth  float64 `yaml:"plot_width_cm"`
	PlotHeight float64 `yaml:"plot_height_cm"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console, json
}

// DefaultConfig returns the default configuration for the disease dataset.
func DefaultConfig() *Config {
	seed := federated.DefaultInitConfig()
	return &Config{
		Data: DataConfig{
			TrainPath:     "data/Training.csv",
			TestPath:      "data/Testing.csv",
			LabelColumn:   dataset.DefaultLabelColumn,
			EncodedColumn: dataset.DefaultEncodedColumn,
		},
		Model: ModelConfig{
			NClasses:     seed.NClasses,
			NFeatures:    seed.NFeatures,
			FitIntercept: true,
			MaxIter:      1,
			C:            1.0,
		},
		Simulation: SimulationConfig{
			Participants: 10,
			Shuffle:      true,
		},
		Output: OutputConfig{
			Dir:        "out",
			PlotWidth:  16,
			PlotHeight: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrap(err, "failed to read config")
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", path)
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write config")
	}
	return nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if err := c.InitConfig().Validate(); err != nil {
		return err
	}
	if c.Model.MaxIter <= 0 {
		return errors.NewValidationError("model.max_iter", "must be positive", c.Model.MaxIter)
	}
	if c.Model.C <= 0 {
		return errors.NewValidationError("model.c", "must be positive", c.Model.C)
	}
	if c.Simulation.Participants <= 0 {
		return errors.NewValidationError("simulation.participants", "must be positive", c.Simulation.Participants)
	}
	if c.Data.EncodedColumn == "" {
		return errors.NewValidationError("data.encoded_column", "must not be empty", c.Data.EncodedColumn)
	}
	if c.Output.PlotWidth <= 0 || c.Output.PlotHeight <= 0 {
		return errors.NewValidationError("output.plot_size", "must be positive",
			[2]float64{c.Output.PlotWidth, c.Output.PlotHeight})
	}
	if _, err := log.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return errors.NewValidationError("logging.format", "must be console or json", c.Logging.Format)
	}
	return nil
}

// InitConfig returns the seed parameter sizes.
func (c *Config) InitConfig() federated.InitConfig {
	return federated.InitConfig{NClasses: c.Model.NClasses, NFeatures: c.Model.NFeatures}
}

// LabelColumns returns the label column names for federated.LoadDataset.
func (c *Config) LabelColumns() federated.LabelColumns {
	return federated.LabelColumns{Encoded: c.Data.EncodedColumn, Raw: c.Data.LabelColumn}
}

// Preparer returns the CSV preparer for the configured files.
func (c *Config) Preparer() *dataset.CSVPreparer {
	p := dataset.NewCSVPreparer(c.Data.TrainPath, c.Data.TestPath)
	p.LabelColumn = c.Data.LabelColumn
	p.EncodedColumn = c.Data.EncodedColumn
	return p
}
