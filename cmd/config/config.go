// Package config implements the config subcommands.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tphakala/inat-gallery/internal/conf"
	"github.com/tphakala/inat-gallery/internal/errors"
)

// Command creates the config command and its subcommands.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and create configuration files",
	}

	cmd.AddCommand(showCommand(settings), initCommand())
	return cmd
}

func showCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := conf.MarshalYAML(settings)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func initCommand() *cobra.Command {
	var (
		path  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				var err error
				if path, err = conf.UserConfigPath(); err != nil {
					return err
				}
			}
			return writeDefaults(cmd, path, force)
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "Where to write the file (default: user config directory)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

func writeDefaults(cmd *cobra.Command, path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.Newf("config file %s already exists, use --force to overwrite", path).
			Component("config").
			Category(errors.CategoryValidation).
			Build()
	}

	if err := conf.SaveYAMLConfig(path, conf.DefaultSettings()); err != nil {
		return err
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return err
}
