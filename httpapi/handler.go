package httpapi

import (
	"bytes"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	mapentry "github.com/karupanerura/cts2-mapentry"
	"github.com/karupanerura/cts2-mapentry/cts2"
)

// Route names used as metric labels.
const (
	RouteEntry      = "entry"
	RouteResolution = "resolution"
	RouteEntryByURI = "entrybyuri"
	RouteFallback   = "fallback"
)

// Query parameters.
const (
	ParamMapFrom = "mapfrom"
	ParamURI     = "uri"
)

// ContentType is the media type of every document.
const ContentType = "text/xml; charset=utf-8"

var readMethods = []string{http.MethodGet, http.MethodHead}

// Handler serves the map routes.
type Handler struct {
	index    *mapentry.ConceptIndex
	renderer *cts2.Renderer
	metrics  *Metrics
	onError  func(*http.Request, error)
	clock    mapentry.Clock

	echo   *echo.Echo
	routes map[string]string
}

// Option configures a Handler.
type Option func(*Handler)

// WithMetrics records request metrics.
func WithMetrics(m *Metrics) Option {
	return func(h *Handler) {
		h.metrics = m
	}
}

// WithErrorHandler sets a callback for errors answered with 500.
func WithErrorHandler(f func(*http.Request, error)) Option {
	return func(h *Handler) {
		h.onError = f
	}
}

// WithClock sets the clock request durations are measured with.
func WithClock(clock mapentry.Clock) Option {
	return func(h *Handler) {
		h.clock = clock
	}
}

// NewHandler creates a handler answering from index with documents built by renderer.
// The map routes are registered under the renderer's route prefix.
func NewHandler(index *mapentry.ConceptIndex, renderer *cts2.Renderer, opts ...Option) *Handler {
	h := &Handler{
		index:    index,
		renderer: renderer,
		clock:    mapentry.SystemClock,
		routes:   map[string]string{},
	}
	for _, opt := range opts {
		opt(h)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = h.handleError
	e.Use(h.instrument)
	h.RegisterRoutes(e.Group(renderer.RoutePrefix()))
	h.echo = e
	return h
}

// RegisterRoutes registers the map routes on the given Echo group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	h.name(RouteEntry, g.Match(readMethods, "/entry/:cui", h.handleEntry))
	h.name(RouteResolution, g.Match(readMethods, "/resolution", h.handleResolution))
	h.name(RouteEntryByURI, g.Match(readMethods, "/entrybyuri", h.handleEntryByURI))
}

// Mount serves handler for GET and HEAD on path, next to the map routes.
// Requests to it are labeled with the path without its leading slash.
// Mount must be called before the handler starts serving.
func (h *Handler) Mount(path string, handler http.Handler) {
	h.name(strings.TrimPrefix(path, "/"), h.echo.Match(readMethods, path, echo.WrapHandler(handler)))
}

func (h *Handler) name(route string, rs []*echo.Route) {
	for _, r := range rs {
		r.Name = route
		h.routes[r.Path] = route
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.echo.ServeHTTP(w, r)
}

// routeName returns the metric label of a matched route path.
func (h *Handler) routeName(path string) string {
	if route, ok := h.routes[path]; ok {
		return route
	}
	return RouteFallback
}

func (h *Handler) instrument(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := h.clock.Now()
		if err := next(c); err != nil {
			c.Error(err)
		}
		h.metrics.observeRequest(h.routeName(c.Path()), c.Response().Status, h.clock.Now().Sub(start))
		return nil
	}
}

// handleError answers unmatched routes with the not-found document.
func (h *Handler) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if !errors.As(err, &he) {
		h.writeError(c, err)
		return
	}

	switch he.Code {
	case http.StatusNotFound:
		if err := h.writeDocument(c, http.StatusNotFound, cts2.NotFound(fallbackToken(c.Request().URL.Path))); err != nil {
			h.writeError(c, err)
		}
	case http.StatusInternalServerError:
		h.writeError(c, err)
	default:
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok {
			msg = s
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(he.Code)
			return
		}
		_ = c.String(he.Code, msg)
	}
}

// fallbackToken returns the last segment of path.
func fallbackToken(path string) string {
	return mapentry.NormalizeIdentifier(strings.TrimSuffix(path, "/"))
}

// requiredParam returns the query parameter name, or 400 when the request omits it.
func requiredParam(c echo.Context, name string) (string, error) {
	params := c.QueryParams()
	if !params.Has(name) {
		return "", echo.NewHTTPError(http.StatusBadRequest, "missing parameter: "+name)
	}
	return params.Get(name), nil
}

func (h *Handler) handleEntry(c echo.Context) error {
	cui := c.Param("cui")
	result, err := h.index.Lookup(c.Request().Context(), cui)
	if err != nil {
		h.metrics.observeLookup(RouteEntry, OutcomeError)
		return err
	}
	if !result.Found {
		h.metrics.observeLookup(RouteEntry, OutcomeNotFound)
		return h.writeDocument(c, http.StatusNotFound, cts2.NotFound(cui))
	}

	h.metrics.observeLookup(RouteEntry, OutcomeResolved)
	return h.writeDocument(c, http.StatusOK, h.renderer.MapEntry(result.Entry))
}

func (h *Handler) handleResolution(c echo.Context) error {
	mapFrom, err := requiredParam(c, ParamMapFrom)
	if err != nil {
		return err
	}

	resolution, err := h.index.Resolve(c.Request().Context(), mapentry.SplitIdentifiers(mapFrom))
	if err != nil {
		h.metrics.observeLookup(RouteResolution, OutcomeError)
		return err
	}
	if !resolution.Found() {
		h.metrics.observeLookup(RouteResolution, OutcomeNotFound)
		return h.writeDocument(c, http.StatusNotFound, cts2.NotFound(resolution.Missing))
	}

	h.metrics.observeLookup(RouteResolution, OutcomeResolved)
	return h.writeDocument(c, http.StatusOK, h.renderer.MapTargetListList(resolution.Entries))
}

func (h *Handler) handleEntryByURI(c echo.Context) error {
	uri, err := requiredParam(c, ParamURI)
	if err != nil {
		return err
	}

	cui := mapentry.NormalizeIdentifier(uri)
	found, err := h.index.Contains(c.Request().Context(), cui)
	if err != nil {
		h.metrics.observeLookup(RouteEntryByURI, OutcomeError)
		return err
	}
	if !found {
		h.metrics.observeLookup(RouteEntryByURI, OutcomeNotFound)
		return h.writeDocument(c, http.StatusNotFound, cts2.NotFound(uri))
	}

	h.metrics.observeLookup(RouteEntryByURI, OutcomeResolved)
	return c.Redirect(http.StatusFound, h.renderer.EntryURL(cui))
}

func (h *Handler) writeDocument(c echo.Context, status int, doc any) error {
	var buf bytes.Buffer
	if err := cts2.Encode(&buf, doc); err != nil {
		return err
	}
	return c.Blob(status, ContentType, buf.Bytes())
}

func (h *Handler) writeError(c echo.Context, err error) {
	if h.onError != nil {
		h.onError(c.Request(), err)
	}
	_ = c.String(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}
