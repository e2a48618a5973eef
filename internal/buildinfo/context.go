// Package buildinfo holds build-time metadata that is not user configurable.
package buildinfo

import "fmt"

// UnknownValue is reported for metadata missing from the build.
const UnknownValue = "unknown"

// Context contains build-time metadata injected with -ldflags.
type Context struct {
	version   string
	buildDate string
}

// NewContext creates a Context. Empty values report as UnknownValue.
func NewContext(version, buildDate string) *Context {
	return &Context{version: version, buildDate: buildDate}
}

// Version returns the build version, e.g. a git tag.
func (c *Context) Version() string {
	if c == nil || c.version == "" {
		return UnknownValue
	}
	return c.version
}

// BuildDate returns the build date.
func (c *Context) BuildDate() string {
	if c == nil || c.buildDate == "" {
		return UnknownValue
	}
	return c.buildDate
}

// String returns the version line printed by --version.
func (c *Context) String() string {
	return fmt.Sprintf("%s (built %s)", c.Version(), c.BuildDate())
}

// UserAgent appends the version to product, e.g. "inat-gallery/1.2.0". An
// unknown version leaves product unchanged.
func (c *Context) UserAgent(product string) string {
	if c.Version() == UnknownValue {
		return product
	}
	return product + "/" + c.version
}
