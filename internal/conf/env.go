// env.go - Environment variable configuration and validation for inat-gallery
package conf

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by the configuration,
// e.g. INAT_GALLERY_INATURALIST_TIMEOUT for inaturalist.timeout.
const EnvPrefix = "INAT_GALLERY"

// envBinding holds metadata for environment variable bindings (internal use)
type envBinding struct {
	ConfigKey string             // Viper config key
	Validate  func(string) error // Optional validation function
}

// EnvVar returns the environment variable name for the binding.
func (b envBinding) EnvVar() string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(b.ConfigKey, ".", "_"))
}

// getEnvBindings returns the environment variables validated at load time.
// Every other key is still read from the environment through AutomaticEnv.
func getEnvBindings() []envBinding {
	return []envBinding{
		{"debug", validateEnvBool},

		{"inaturalist.baseurl", validateEnvURL},
		{"inaturalist.weburl", validateEnvURL},
		{"inaturalist.timeout", validateEnvDuration},
		{"inaturalist.useragent", nil},
		{"inaturalist.standardperpage", validateEnvPerPage(maxStandardPerPage)},
		{"inaturalist.provisionalperpage", validateEnvPerPage(maxProvisionalPerPage)},

		{"webserver.listen", nil},

		{"logging.defaultlevel", validateEnvLogLevel},
	}
}

// bindEnvVars sets up environment variable bindings with validation (internal)
func bindEnvVars(v *viper.Viper) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var warnings []string
	for _, binding := range getEnvBindings() {
		envVar := binding.EnvVar()
		if err := v.BindEnv(binding.ConfigKey, envVar); err != nil {
			warnings = append(warnings, fmt.Sprintf("Failed to bind %s: %v", envVar, err))
			continue
		}

		if binding.Validate == nil {
			continue
		}
		if envValue := os.Getenv(envVar); envValue != "" {
			if err := binding.Validate(envValue); err != nil {
				warnings = append(warnings, fmt.Sprintf("Invalid %s value '%s': %v", envVar, envValue, err))
			}
		}
	}

	if len(warnings) > 0 {
		return fmt.Errorf("environment variable issues:\n  - %s", strings.Join(warnings, "\n  - "))
	}
	return nil
}

// Environment variable validation functions

func validateEnvBool(value string) error {
	if _, err := strconv.ParseBool(value); err != nil {
		return fmt.Errorf("must be true or false")
	}
	return nil
}

func validateEnvURL(value string) error {
	u, err := url.Parse(value)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("must be an http or https URL")
	}
	return nil
}

func validateEnvDuration(value string) error {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("must be a duration such as 30s")
	}
	if d < 0 {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

func validateEnvPerPage(maxN int) func(string) error {
	return func(value string) error {
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("must be an integer")
		}
		if n < 1 || n > maxN {
			return fmt.Errorf("must be between 1 and %d", maxN)
		}
		return nil
	}
}

func validateEnvLogLevel(value string) error {
	if !isValidLogLevel(value) {
		return fmt.Errorf("must be one of trace, debug, info, warn, error")
	}
	return nil
}
