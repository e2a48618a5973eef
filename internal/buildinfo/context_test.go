package buildinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		ctx           *Context
		wantVersion   string
		wantBuildDate string
		wantString    string
		wantUserAgent string
	}{
		{
			name:          "nil context",
			ctx:           nil,
			wantVersion:   UnknownValue,
			wantBuildDate: UnknownValue,
			wantString:    "unknown (built unknown)",
			wantUserAgent: "inat-gallery",
		},
		{
			name:          "empty values",
			ctx:           NewContext("", ""),
			wantVersion:   UnknownValue,
			wantBuildDate: UnknownValue,
			wantString:    "unknown (built unknown)",
			wantUserAgent: "inat-gallery",
		},
		{
			name:          "release build",
			ctx:           NewContext("1.2.0", "2026-10-01T12:00:00Z"),
			wantVersion:   "1.2.0",
			wantBuildDate: "2026-10-01T12:00:00Z",
			wantString:    "1.2.0 (built 2026-10-01T12:00:00Z)",
			wantUserAgent: "inat-gallery/1.2.0",
		},
		{
			name:          "pre-release tag",
			ctx:           NewContext("1.3.0-beta.1", ""),
			wantVersion:   "1.3.0-beta.1",
			wantBuildDate: UnknownValue,
			wantString:    "1.3.0-beta.1 (built unknown)",
			wantUserAgent: "inat-gallery/1.3.0-beta.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.wantVersion, tt.ctx.Version())
			assert.Equal(t, tt.wantBuildDate, tt.ctx.BuildDate())
			assert.Equal(t, tt.wantString, tt.ctx.String())
			assert.Equal(t, tt.wantUserAgent, tt.ctx.UserAgent("inat-gallery"))
		})
	}
}
