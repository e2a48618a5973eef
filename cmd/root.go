// Package cmd wires the inat-gallery command line.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	configcmd "github.com/tphakala/inat-gallery/cmd/config"
	"github.com/tphakala/inat-gallery/cmd/gallery"
	"github.com/tphakala/inat-gallery/cmd/serve"
	"github.com/tphakala/inat-gallery/internal/buildinfo"
	"github.com/tphakala/inat-gallery/internal/conf"
	"github.com/tphakala/inat-gallery/internal/inaturalist"
	"github.com/tphakala/inat-gallery/internal/logger"
)

// RootCommand creates and returns the root command. settings is filled in
// before any subcommand runs. info may be nil for development builds.
func RootCommand(settings *conf.Settings, info *buildinfo.Context) *cobra.Command {
	var (
		configFile string
		central    *logger.CentralLogger
	)

	rootCmd := &cobra.Command{
		Use:          "inat-gallery",
		Short:        "iNaturalist photo galleries for wiki species pages",
		SilenceUsage: true,
		Version:      info.String(),
	}

	// Set up the global flags for the root command.
	if err := setupFlags(rootCmd, &configFile); err != nil {
		// flag names are static, binding only fails on programmer error
		panic(err)
	}

	rootCmd.AddCommand(
		gallery.Command(settings),
		serve.Command(settings),
		configcmd.Command(settings),
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		loaded, err := conf.Load(viper.GetViper(), configFile)
		if err != nil {
			return err
		}
		*settings = *loaded

		// tag outbound requests with the release unless the user set an agent
		if settings.INaturalist.UserAgent == inaturalist.DefaultConfig().UserAgent {
			settings.INaturalist.UserAgent = info.UserAgent(settings.INaturalist.UserAgent)
		}

		central, err = logger.NewCentralLogger(&settings.Logging)
		if err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}
		logger.SetGlobal(central)

		central.Module("main").Debug("Starting inat-gallery",
			logger.String("version", info.Version()),
			logger.String("build_date", info.BuildDate()),
			logger.String("command", cmd.Name()))
		return nil
	}

	rootCmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return central.Close()
	}

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface.
func setupFlags(rootCmd *cobra.Command, configFile *string) error {
	rootCmd.PersistentFlags().StringVar(configFile, "config", "", "Path to config file (default: search ./, ~/.config/inat-gallery, /etc/inat-gallery)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug output")

	if err := viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}

	return nil
}
