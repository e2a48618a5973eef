package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/inat-gallery/internal/buildinfo"
	"github.com/tphakala/inat-gallery/internal/conf"
	"github.com/tphakala/inat-gallery/internal/logger"
)

// executeRoot runs the root command against a clean global viper and
// logger.
func executeRoot(t *testing.T, args ...string) (string, *conf.Settings, error) {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	viper.Reset()
	t.Cleanup(func() {
		viper.Reset()
		logger.SetGlobal(nil)
	})

	settings := &conf.Settings{}
	rootCmd := RootCommand(settings, nil)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(t.Context())
	return out.String(), settings, err
}

func TestConfigShowUsesConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), conf.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("inaturalist:\n  timeout: 7s\n"), 0o600))

	out, settings, err := executeRoot(t, "--config", path, "config", "show")
	require.NoError(t, err)

	assert.Contains(t, out, "timeout: 7s")
	assert.Equal(t, "https://api.inaturalist.org/v1", settings.INaturalist.BaseURL)
}

func TestDebugFlag(t *testing.T) {
	out, settings, err := executeRoot(t, "-d", "config", "show")
	require.NoError(t, err)

	assert.True(t, settings.Debug)
	assert.Equal(t, "debug", settings.Logging.DefaultLevel)
	assert.Contains(t, out, "debug: true")
}

func TestInvalidConfigFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), conf.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("inaturalist:\n  standardperpage: 1000\n"), 0o600))

	_, _, err := executeRoot(t, "--config", path, "config", "show")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inaturalist.standardperpage")
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", conf.ConfigFileName)

	out, _, err := executeRoot(t, "config", "init", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)
	assert.FileExists(t, path)

	_, _, err = executeRoot(t, "config", "init", "--path", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = executeRoot(t, "config", "init", "--path", path, "--force")
	require.NoError(t, err)

	_, settings, err := executeRoot(t, "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Equal(t, conf.DefaultSettings().INaturalist, settings.INaturalist)
}

func TestVersionFlag(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	viper.Reset()
	t.Cleanup(viper.Reset)

	rootCmd := RootCommand(&conf.Settings{}, buildinfo.NewContext("1.2.0", "2026-10-01"))
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--version"})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "1.2.0 (built 2026-10-01)")
}

func TestUserAgentCarriesVersion(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	viper.Reset()
	t.Cleanup(func() {
		viper.Reset()
		logger.SetGlobal(nil)
	})

	settings := &conf.Settings{}
	rootCmd := RootCommand(settings, buildinfo.NewContext("1.2.0", ""))
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"config", "show"})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "inat-gallery/1.2.0", settings.INaturalist.UserAgent)
}
