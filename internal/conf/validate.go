// conf/validate.go

package conf

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/tphakala/inat-gallery/internal/errors"
	"github.com/tphakala/inat-gallery/internal/inaturalist"
	"github.com/tphakala/inat-gallery/internal/logger"
)

const (
	maxStandardPerPage    = inaturalist.MaxStandardPerPage
	maxProvisionalPerPage = inaturalist.MaxProvisionalPerPage
)

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("Validation errors: %v", ve.Errors)
}

// ValidateSettings validates the entire Settings struct
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	if err := validateINaturalistSettings(&settings.INaturalist); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateWebServerSettings(&settings.WebServer); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateLoggingSettings(&settings.Logging); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if len(ve.Errors) > 0 {
		return errors.New(ve).
			Category(errors.CategoryValidation).
			Component("conf").
			Build()
	}
	return nil
}

func validateINaturalistSettings(s *INaturalistSettings) error {
	var errs []string

	for name, raw := range map[string]string{"baseurl": s.BaseURL, "weburl": s.WebURL} {
		u, err := url.Parse(raw)
		switch {
		case err != nil:
			errs = append(errs, fmt.Sprintf("inaturalist.%s: %v", name, err))
		case u.Scheme != "http" && u.Scheme != "https", u.Host == "":
			errs = append(errs, fmt.Sprintf("inaturalist.%s must be an absolute http(s) URL, got %q", name, raw))
		}
	}

	if s.Timeout < 0 {
		errs = append(errs, "inaturalist.timeout must not be negative")
	}
	if s.StandardPerPage < 1 || s.StandardPerPage > maxStandardPerPage {
		errs = append(errs, fmt.Sprintf("inaturalist.standardperpage must be between 1 and %d", maxStandardPerPage))
	}
	if s.ProvisionalPerPage < 1 || s.ProvisionalPerPage > maxProvisionalPerPage {
		errs = append(errs, fmt.Sprintf("inaturalist.provisionalperpage must be between 1 and %d", maxProvisionalPerPage))
	}

	if len(errs) > 0 {
		return fmt.Errorf("iNaturalist settings errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateWebServerSettings(s *WebServerSettings) error {
	var errs []string

	if _, _, err := net.SplitHostPort(s.Listen); err != nil {
		errs = append(errs, fmt.Sprintf("webserver.listen %q: %v", s.Listen, err))
	}
	for name, d := range map[string]time.Duration{
		"readtimeout":     s.ReadTimeout,
		"writetimeout":    s.WriteTimeout,
		"shutdowntimeout": s.ShutdownTimeout,
	} {
		if d < 0 {
			errs = append(errs, fmt.Sprintf("webserver.%s must not be negative", name))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("web server settings errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLoggingSettings(s *logger.LoggingConfig) error {
	levels := map[string]string{"logging.defaultlevel": s.DefaultLevel}
	if s.Console != nil {
		levels["logging.console.level"] = s.Console.Level
	}
	if s.FileOutput != nil {
		levels["logging.fileoutput.level"] = s.FileOutput.Level
		if s.FileOutput.Enabled && s.FileOutput.Path == "" {
			return fmt.Errorf("logging.fileoutput.path is required when file output is enabled")
		}
	}
	for module, level := range s.ModuleLevels {
		levels["logging.modulelevels."+module] = level
	}

	for key, level := range levels {
		if level != "" && !isValidLogLevel(level) {
			return fmt.Errorf("%s: unknown log level %q", key, level)
		}
	}

	if s.Timezone != "" && s.Timezone != "Local" {
		if _, err := time.LoadLocation(s.Timezone); err != nil {
			return fmt.Errorf("logging.timezone: %w", err)
		}
	}
	return nil
}

func isValidLogLevel(level string) bool {
	switch logger.LogLevel(strings.ToLower(level)) {
	case logger.LogLevelTrace, logger.LogLevelDebug, logger.LogLevelInfo, logger.LogLevelWarn, logger.LogLevelError:
		return true
	default:
		return false
	}
}
