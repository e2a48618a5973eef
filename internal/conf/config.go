// Package conf provides configuration management for inat-gallery.
package conf

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"github.com/tphakala/inat-gallery/internal/errors"
	"github.com/tphakala/inat-gallery/internal/inaturalist"
	"github.com/tphakala/inat-gallery/internal/logger"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the base name of the configuration file.
const ConfigFileName = "config.yaml"

// Settings contains all configuration options for inat-gallery.
type Settings struct {
	Debug bool `yaml:"debug" mapstructure:"debug"` // true to enable debug logging

	INaturalist INaturalistSettings  `yaml:"inaturalist" mapstructure:"inaturalist"`
	WebServer   WebServerSettings    `yaml:"webserver" mapstructure:"webserver"`
	Logging     logger.LoggingConfig `yaml:"logging" mapstructure:"logging"`
}

// INaturalistSettings configures the iNaturalist API client.
type INaturalistSettings struct {
	BaseURL            string        `yaml:"baseurl" mapstructure:"baseurl"`                       // API root, e.g. https://api.inaturalist.org/v1
	WebURL             string        `yaml:"weburl" mapstructure:"weburl"`                         // website root used for deep links
	Timeout            time.Duration `yaml:"timeout" mapstructure:"timeout"`                       // per-request timeout
	UserAgent          string        `yaml:"useragent" mapstructure:"useragent"`                   // User-Agent sent to the API
	StandardPerPage    int           `yaml:"standardperpage" mapstructure:"standardperpage"`       // taxon query page size, max 200
	ProvisionalPerPage int           `yaml:"provisionalperpage" mapstructure:"provisionalperpage"` // provisional-name query page size, max 100
}

// WebServerSettings configures the HTTP server.
type WebServerSettings struct {
	Listen          string        `yaml:"listen" mapstructure:"listen"`
	ReadTimeout     time.Duration `yaml:"readtimeout" mapstructure:"readtimeout"`
	WriteTimeout    time.Duration `yaml:"writetimeout" mapstructure:"writetimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdowntimeout" mapstructure:"shutdowntimeout"`
}

// INaturalistConfig returns the client configuration for these settings.
func (s *Settings) INaturalistConfig() inaturalist.Config {
	return inaturalist.Config{
		BaseURL:            s.INaturalist.BaseURL,
		WebURL:             s.INaturalist.WebURL,
		Timeout:            s.INaturalist.Timeout,
		UserAgent:          s.INaturalist.UserAgent,
		StandardPerPage:    s.INaturalist.StandardPerPage,
		ProvisionalPerPage: s.INaturalist.ProvisionalPerPage,
	}
}

// Load reads the configuration into a new Settings. Sources in increasing
// precedence: defaults, the config file, INAT_GALLERY_* environment
// variables and flags already bound to v. configFile may be empty to search
// the default config paths; a missing file is not an error.
func Load(v *viper.Viper, configFile string) (*Settings, error) {
	if err := initViper(v, configFile); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryConfiguration).
			Context("operation", "unmarshal-config").
			Build()
	}

	if settings.Debug {
		applyDebugLevels(&settings.Logging)
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	return settings, nil
}

// applyDebugLevels lowers the default and console levels to debug unless
// they are already at trace.
func applyDebugLevels(cfg *logger.LoggingConfig) {
	lower := func(level string) string {
		if level == string(logger.LogLevelTrace) {
			return level
		}
		return string(logger.LogLevelDebug)
	}

	cfg.DefaultLevel = lower(cfg.DefaultLevel)
	if cfg.Console != nil {
		cfg.Console.Level = lower(cfg.Console.Level)
	}
}

// initViper sets defaults, environment bindings and reads the config file.
func initViper(v *viper.Viper, configFile string) error {
	setDefaultConfig(v)

	if err := bindEnvVars(v); err != nil {
		return err
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		configPaths, err := GetDefaultConfigPaths()
		if err != nil {
			return fmt.Errorf("error getting default config paths: %w", err)
		}
		for _, path := range configPaths {
			v.AddConfigPath(path)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			GetLogger().Debug("No config file found, using defaults and environment")
			return nil
		}
		return errors.New(err).
			Category(errors.CategoryFileParsing).
			Context("config_file", configFile).
			Build()
	}

	GetLogger().Debug("Loaded config file", logger.String("path", v.ConfigFileUsed()))
	return nil
}

// DefaultSettings returns the built-in defaults as Settings.
func DefaultSettings() *Settings {
	v := viper.New()
	setDefaultConfig(v)

	settings := &Settings{}
	// defaults are static and always decode
	_ = v.Unmarshal(settings)
	return settings
}

// MarshalYAML renders settings as a config.yaml document.
func MarshalYAML(settings *Settings) ([]byte, error) {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return nil, fmt.Errorf("error marshaling settings to YAML: %w", err)
	}
	return data, nil
}

// SaveYAMLConfig writes settings to configPath. The file is written to a
// temporary file first and renamed into place.
func SaveYAMLConfig(configPath string, settings *Settings) error {
	yamlData, err := MarshalYAML(settings)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return errors.New(err).
			Category(errors.CategoryFileIO).
			Context("path", configPath).
			Build()
	}

	tempFile, err := os.CreateTemp(filepath.Dir(configPath), "config-*.yaml")
	if err != nil {
		return fmt.Errorf("error creating temporary file: %w", err)
	}
	tempFileName := tempFile.Name()
	defer os.Remove(tempFileName)

	if _, err := tempFile.Write(yamlData); err != nil {
		tempFile.Close()
		return fmt.Errorf("error writing to temporary file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("error closing temporary file: %w", err)
	}

	if err := os.Rename(tempFileName, configPath); err != nil {
		return errors.New(err).
			Category(errors.CategoryFileIO).
			Context("path", configPath).
			Build()
	}

	return nil
}
