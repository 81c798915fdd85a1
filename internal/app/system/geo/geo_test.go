package geo

import (
	"math"
	"testing"

	"github.com/tracknarino/backend/internal/domain/models"
)

func TestDistanceMeters_SamePoint(t *testing.T) {
	p := models.Coord{Lat: 1.2136, Lng: -77.2811} // Pasto
	if d := DistanceMeters(p, p); d != 0 {
		t.Errorf("distance to self: got %f, want 0", d)
	}
}

func TestDistanceMeters_Symmetric(t *testing.T) {
	a := models.Coord{Lat: 1.2136, Lng: -77.2811}  // Pasto
	b := models.Coord{Lat: 0.8236, Lng: -77.6347}  // Ipiales
	d1 := DistanceMeters(a, b)
	d2 := DistanceMeters(b, a)
	if math.Abs(d1-d2) > 1e-9 {
		t.Errorf("distance not symmetric: %f vs %f", d1, d2)
	}
	if d1 < 50000 || d1 > 70000 {
		t.Errorf("Pasto-Ipiales distance implausible: %f m", d1)
	}
}

func TestDistanceMeters_OneDegreeLatitude(t *testing.T) {
	a := models.Coord{Lat: 0, Lng: 0}
	b := models.Coord{Lat: 1, Lng: 0}
	want := EarthRadiusMeters * math.Pi / 180
	got := DistanceMeters(a, b)
	if math.Abs(got-want) > 1 {
		t.Errorf("one degree of latitude: got %f, want %f", got, want)
	}
}

func TestDistanceKm(t *testing.T) {
	a := models.Coord{Lat: 0, Lng: 0}
	b := models.Coord{Lat: 1, Lng: 0}
	if km, m := DistanceKm(a, b), DistanceMeters(a, b); math.Abs(km*1000-m) > 1e-6 {
		t.Errorf("DistanceKm inconsistent with DistanceMeters: %f km vs %f m", km, m)
	}
}

func TestEstimateDurationMinutes(t *testing.T) {
	tests := []struct {
		meters float64
		want   int
	}{
		{0, 0},
		{60000, 60},   // 60 km at 60 km/h
		{30000, 30},
		{90000, 90},
		{1000, 1},
	}
	for _, tt := range tests {
		if got := EstimateDurationMinutes(tt.meters); got != tt.want {
			t.Errorf("EstimateDurationMinutes(%f) = %d, want %d", tt.meters, got, tt.want)
		}
	}
}
