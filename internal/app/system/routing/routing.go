// Package routing resolves driving routes against an OSRM instance. When the
// engine is unreachable or returns a non-Ok code the client degrades to a
// straight-line estimate so trip planning keeps working offline.
package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tracknarino/backend/internal/app/system/geo"
	"github.com/tracknarino/backend/internal/app/system/metrics"
	"github.com/tracknarino/backend/internal/domain/models"
	"github.com/twpayne/go-polyline"
	"go.uber.org/zap"
)

// Route is a resolved driving route. Geometry points are ordered from origin
// to destination. Degraded marks a straight-line estimate produced when the
// routing engine could not answer.
type Route struct {
	DistanceKm      float64        `json:"distanciaKm"`
	DurationMinutes float64        `json:"duracionMinutos"`
	Geometry        []models.Coord `json:"geometria"`
	Degraded        bool           `json:"aproximada"`
}

// Client queries OSRM's route service.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// NewClient builds a routing client. An empty base URL makes every lookup
// degrade immediately, which keeps dev environments runnable without OSRM.
func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Geometry string  `json:"geometry"`
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
	} `json:"routes"`
}

// Resolve returns the driving route between origin and destination. It never
// fails once coordinates are valid: engine errors are logged and answered
// with the straight-line fallback.
func (c *Client) Resolve(ctx context.Context, origin, dest models.Coord) (Route, error) {
	if !origin.Valid() || !dest.Valid() {
		return Route{}, fmt.Errorf("routing: invalid coordinates")
	}
	if c.baseURL == "" {
		metrics.RouteLookupsTotal.WithLabelValues("degraded").Inc()
		return fallback(origin, dest), nil
	}

	r, err := c.lookup(ctx, origin, dest)
	if err != nil {
		c.log.Warn("routing: engine lookup failed, using straight-line estimate", zap.Error(err))
		metrics.RouteLookupsTotal.WithLabelValues("degraded").Inc()
		return fallback(origin, dest), nil
	}
	metrics.RouteLookupsTotal.WithLabelValues("ok").Inc()
	return r, nil
}

func (c *Client) lookup(ctx context.Context, origin, dest models.Coord) (Route, error) {
	// OSRM takes lng,lat pairs in the path.
	path := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f",
		c.baseURL, origin.Lng, origin.Lat, dest.Lng, dest.Lat)
	q := url.Values{"overview": {"full"}, "geometries": {"polyline"}}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path+"?"+q.Encode(), nil)
	if err != nil {
		return Route{}, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return Route{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Route{}, fmt.Errorf("routing: engine returned status %d", resp.StatusCode)
	}
	var body osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Route{}, fmt.Errorf("routing: decoding response: %w", err)
	}
	if body.Code != "Ok" || len(body.Routes) == 0 {
		return Route{}, fmt.Errorf("routing: engine code %q with %d routes", body.Code, len(body.Routes))
	}

	best := body.Routes[0]
	coords, _, err := polyline.DecodeCoords([]byte(best.Geometry))
	if err != nil {
		return Route{}, fmt.Errorf("routing: decoding geometry: %w", err)
	}
	geom := make([]models.Coord, 0, len(coords))
	for _, p := range coords {
		geom = append(geom, models.Coord{Lat: p[0], Lng: p[1]})
	}
	return Route{
		DistanceKm:      best.Distance / 1000.0,
		DurationMinutes: best.Duration / 60.0,
		Geometry:        geom,
	}, nil
}

func fallback(origin, dest models.Coord) Route {
	meters := geo.DistanceMeters(origin, dest)
	return Route{
		DistanceKm:      meters / 1000.0,
		DurationMinutes: float64(geo.EstimateDurationMinutes(meters)),
		Geometry:        []models.Coord{origin, dest},
		Degraded:        true,
	}
}
