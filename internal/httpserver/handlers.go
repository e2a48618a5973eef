package httpserver

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/tphakala/inat-gallery/internal/errors"
	"github.com/tphakala/inat-gallery/internal/gallery"
	"github.com/tphakala/inat-gallery/internal/logger"
	"github.com/tphakala/inat-gallery/internal/observability/metrics"
	"github.com/tphakala/inat-gallery/internal/render"
)

// GalleryIDHeader carries the gallery id of a response.
const GalleryIDHeader = "X-Gallery-Id"

// GalleryResponse is the JSON body of /api/v1/gallery.
type GalleryResponse struct {
	*gallery.Result
	GalleryID string `json:"gallery_id"`
	Link      string `json:"link"`
}

// galleryRequest is one resolved gallery and its per-request metadata.
type galleryRequest struct {
	id     string
	result *gallery.Result
	link   string
}

// speciesName reads the species from ?name=, falling back to the wiki page
// title in ?title=.
func speciesName(c echo.Context) string {
	if name := strings.TrimSpace(c.QueryParam("name")); name != "" {
		return name
	}
	return render.SpeciesFromPageTitle(c.QueryParam("title"))
}

// resolve fetches the gallery for the request.
func (s *Server) resolve(c echo.Context) (*galleryRequest, error) {
	id, _ := c.Get(galleryIDKey).(string)
	if id == "" {
		id = s.newGalleryID()
	}
	c.Response().Header().Set(GalleryIDHeader, id)

	result, err := s.fetcher.Fetch(c.Request().Context(), speciesName(c))
	if err != nil {
		return nil, s.toHTTPError(c, err)
	}

	return &galleryRequest{
		id:     id,
		result: result,
		link:   gallery.DeepLink(s.linker, result),
	}, nil
}

// toHTTPError maps a Fetch error to the response status.
func (s *Server) toHTTPError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, gallery.ErrEmptyName):
		return echo.NewHTTPError(http.StatusBadRequest, "species name is required").SetInternal(err)
	case errors.IsCategory(err, errors.CategoryCancellation):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "request cancelled").SetInternal(err)
	default:
		s.log.WithContext(c.Request().Context()).Error("Gallery resolution failed", logger.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to resolve gallery").SetInternal(err)
	}
}

// handleGalleryFragment renders the embeddable HTML fragment.
func (s *Server) handleGalleryFragment(c echo.Context) error {
	return s.renderPage(c, render.TemplateFragment)
}

// handleGalleryDocument renders a standalone HTML page.
func (s *Server) handleGalleryDocument(c echo.Context) error {
	return s.renderPage(c, render.TemplateDocument)
}

func (s *Server) renderPage(c echo.Context, template string) error {
	req, err := s.resolve(c)
	if err != nil {
		return err
	}

	page, err := render.NewPage(req.result, req.id, req.link)
	if err != nil {
		return fmt.Errorf("failed to build gallery page: %w", err)
	}
	return c.Render(http.StatusOK, template, page)
}

// handleGalleryJSON returns the normalized gallery.
func (s *Server) handleGalleryJSON(c echo.Context) error {
	req, err := s.resolve(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, GalleryResponse{
		Result:    req.result,
		GalleryID: req.id,
		Link:      req.link,
	})
}

// handleGalleryGeoJSON returns the gallery's locations as a FeatureCollection.
func (s *Server) handleGalleryGeoJSON(c echo.Context) error {
	req, err := s.resolve(c)
	if err != nil {
		return err
	}

	data, err := render.LocationsGeoJSON(req.result.Locations)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/geo+json", data)
}

// templateRenderer adapts render.Renderer to echo.Renderer.
type templateRenderer struct {
	renderer *render.Renderer
	metrics  *metrics.HTTPMetrics
}

// Render executes the named gallery template; data must be a *render.Page.
func (t *templateRenderer) Render(w io.Writer, name string, data any, c echo.Context) error {
	page, ok := data.(*render.Page)
	if !ok {
		return fmt.Errorf("unexpected template data %T", data)
	}

	start := time.Now()
	err := t.renderer.Execute(w, name, page)
	t.metrics.RecordTemplateRender(name, time.Since(start), err)
	return err
}
