// Package serve implements the serve subcommand, the HTTP host for galleries.
package serve

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tphakala/inat-gallery/internal/conf"
	"github.com/tphakala/inat-gallery/internal/gallery"
	"github.com/tphakala/inat-gallery/internal/httpserver"
	"github.com/tphakala/inat-gallery/internal/inaturalist"
	"github.com/tphakala/inat-gallery/internal/observability"
)

// Command creates the serve command.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve galleries over HTTP",
		Long: `Start the HTTP server. Galleries are served as embeddable HTML at /gallery,
as a standalone page at /gallery/page and as JSON and GeoJSON under /api/v1.
Prometheus metrics are exposed at /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, settings)
		},
	}

	if err := setupFlags(cmd); err != nil {
		// flag names are static, binding only fails on programmer error
		panic(err)
	}

	return cmd
}

// setupFlags configures flags specific to the serve command.
func setupFlags(cmd *cobra.Command) error {
	cmd.Flags().String("listen", httpserver.DefaultListen, "Listen address and port")

	// Bind flags to the viper settings
	if err := viper.BindPFlag("webserver.listen", cmd.Flags().Lookup("listen")); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}

	return nil
}

func run(cmd *cobra.Command, settings *conf.Settings) error {
	log := httpserver.GetLogger()

	m, err := observability.NewMetrics()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}

	client, err := inaturalist.NewClient(settings.INaturalistConfig(),
		inaturalist.WithMetrics(m.INaturalist))
	if err != nil {
		return err
	}
	defer client.Close()

	service := gallery.NewService(client, nil, m.INaturalist)

	server, err := httpserver.New(httpserver.ConfigFromSettings(settings), service, client,
		httpserver.WithLogger(log),
		httpserver.WithMetrics(m))
	if err != nil {
		return err
	}

	return server.StartWithGracefulShutdown(cmd.Context())
}
