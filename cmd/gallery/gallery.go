// Package gallery implements the gallery subcommand, which fetches one
// species gallery and prints it.
package gallery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tphakala/inat-gallery/internal/conf"
	"github.com/tphakala/inat-gallery/internal/gallery"
	"github.com/tphakala/inat-gallery/internal/inaturalist"
	"github.com/tphakala/inat-gallery/internal/logger"
	"github.com/tphakala/inat-gallery/internal/render"
)

// Output formats.
const (
	FormatText    = "text"
	FormatJSON    = "json"
	FormatHTML    = "html"
	FormatPage    = "page"
	FormatGeoJSON = "geojson"
)

var formats = []string{FormatText, FormatJSON, FormatHTML, FormatPage, FormatGeoJSON}

type options struct {
	format    string
	pageTitle string
	galleryID string
}

// jsonOutput is the json format document.
type jsonOutput struct {
	*gallery.Result
	GalleryID string `json:"gallery_id"`
	Link      string `json:"link"`
}

// Command creates the gallery command.
func Command(settings *conf.Settings) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "gallery [species name]",
		Short: "Fetch the iNaturalist gallery for a species",
		Long: `Look up sequenced iNaturalist observations of a species and print the gallery.

Names with a quoted epithet, e.g. Amanita "sp-F01", are searched as provisional
species names. Without a name, --page-title is used the way a wiki page would.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), settings, opts, strings.Join(args, " "))
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", FormatText, "Output format: "+strings.Join(formats, ", "))
	cmd.Flags().StringVar(&opts.pageTitle, "page-title", "", "Wiki page title to take the species name from when none is given")
	cmd.Flags().StringVar(&opts.galleryID, "id", "", "Gallery id for html output (default: random)")

	return cmd
}

func run(ctx context.Context, w io.Writer, settings *conf.Settings, opts *options, name string) error {
	if !slices.Contains(formats, opts.format) {
		return fmt.Errorf("unknown output format %q, expected one of: %s", opts.format, strings.Join(formats, ", "))
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = render.SpeciesFromPageTitle(opts.pageTitle)
	}

	log := logger.Global().Module("gallery")

	client, err := inaturalist.NewClient(settings.INaturalistConfig(), inaturalist.WithLogger(log.Module("inaturalist")))
	if err != nil {
		return err
	}
	defer client.Close()

	result, err := gallery.NewService(client, log, nil).Fetch(ctx, name)
	if err != nil {
		return err
	}

	galleryID := opts.galleryID
	if galleryID == "" {
		galleryID = render.NewGalleryID()
	}
	link := gallery.DeepLink(client, result)

	log.Debug("Gallery fetched",
		logger.String("query", result.Query),
		logger.String("gallery_id", galleryID),
		logger.Bool("found", result.Found),
		logger.Int("photos", result.TotalPhotos))

	return write(w, opts.format, result, galleryID, link)
}

func write(w io.Writer, format string, result *gallery.Result, galleryID, link string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(jsonOutput{Result: result, GalleryID: galleryID, Link: link})
	case FormatGeoJSON:
		data, err := render.LocationsGeoJSON(result.Locations)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	page, err := render.NewPage(result, galleryID, link)
	if err != nil {
		return err
	}
	renderer, err := render.NewRenderer()
	if err != nil {
		return err
	}

	switch format {
	case FormatHTML:
		return renderer.HTML(w, page)
	case FormatPage:
		return renderer.Document(w, page)
	default:
		return renderer.Text(w, page)
	}
}
