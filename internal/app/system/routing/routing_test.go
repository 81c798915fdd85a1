package routing_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tracknarino/backend/internal/app/system/routing"
	"github.com/tracknarino/backend/internal/domain/models"
	"github.com/twpayne/go-polyline"
	"go.uber.org/zap"
)

var (
	pasto   = models.Coord{Lat: 1.2136, Lng: -77.2811}
	ipiales = models.Coord{Lat: 0.8302, Lng: -77.6444}
)

func TestResolve_EngineRoute(t *testing.T) {
	geom := polyline.EncodeCoords([][]float64{
		{pasto.Lat, pasto.Lng},
		{1.05, -77.45},
		{ipiales.Lat, ipiales.Lng},
	})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/route/v1/driving/") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":"Ok","routes":[{"geometry":"` + string(geom) + `","distance":82000,"duration":5400}]}`))
	}))
	defer srv.Close()

	c := routing.NewClient(srv.URL, time.Second, zap.NewNop())
	route, err := c.Resolve(context.Background(), pasto, ipiales)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if route.Degraded {
		t.Error("engine route marked degraded")
	}
	if route.DistanceKm != 82.0 {
		t.Errorf("distance: got %.1f km, want 82.0", route.DistanceKm)
	}
	if route.DurationMinutes != 90.0 {
		t.Errorf("duration: got %.1f min, want 90.0", route.DurationMinutes)
	}
	if len(route.Geometry) != 3 {
		t.Fatalf("geometry: got %d points, want 3", len(route.Geometry))
	}
	if diff := route.Geometry[0].Lat - pasto.Lat; diff > 1e-4 || diff < -1e-4 {
		t.Errorf("geometry start: got %+v", route.Geometry[0])
	}
}

func TestResolve_NonOkCodeFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":"NoRoute","routes":[]}`))
	}))
	defer srv.Close()

	c := routing.NewClient(srv.URL, time.Second, zap.NewNop())
	route, err := c.Resolve(context.Background(), pasto, ipiales)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !route.Degraded {
		t.Error("fallback route not marked degraded")
	}
	// Straight-line Pasto to Ipiales is roughly 59 km, about an hour at the
	// assumed 60 km/h.
	if route.DistanceKm < 50 || route.DistanceKm > 70 {
		t.Errorf("fallback distance: got %.1f km", route.DistanceKm)
	}
	if route.DurationMinutes < 50 || route.DurationMinutes > 70 {
		t.Errorf("fallback duration: got %.1f min", route.DurationMinutes)
	}
	if len(route.Geometry) != 2 {
		t.Errorf("fallback geometry: got %d points, want 2", len(route.Geometry))
	}
}

func TestResolve_UnreachableEngineFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := routing.NewClient(srv.URL, time.Second, zap.NewNop())
	route, err := c.Resolve(context.Background(), pasto, ipiales)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !route.Degraded {
		t.Error("fallback route not marked degraded")
	}
}

func TestResolve_NoBaseURLDegradesImmediately(t *testing.T) {
	c := routing.NewClient("", time.Second, zap.NewNop())
	route, err := c.Resolve(context.Background(), pasto, ipiales)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !route.Degraded {
		t.Error("route not marked degraded without engine")
	}
}

func TestResolve_InvalidCoordsRejected(t *testing.T) {
	c := routing.NewClient("", time.Second, zap.NewNop())
	if _, err := c.Resolve(context.Background(), models.Coord{}, ipiales); err == nil {
		t.Fatal("expected error for zero origin")
	}
	if _, err := c.Resolve(context.Background(), pasto, models.Coord{Lat: 95, Lng: 0.5}); err == nil {
		t.Fatal("expected error for out-of-range latitude")
	}
}
