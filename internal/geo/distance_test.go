package geo

import (
	"math"
	"testing"
)

func TestHaversine(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Point
		expected float64
	}{
		{
			name:     "same point",
			a:        Point{Lat: 12.9716, Lon: 77.5946},
			b:        Point{Lat: 12.9716, Lon: 77.5946},
			expected: 0,
		},
		{
			name:     "MG Road to HSR Layout",
			a:        Point{Lat: 12.9716, Lon: 77.5946},
			b:        Point{Lat: 12.9352, Lon: 77.6245},
			expected: 5.1847,
		},
		{
			name:     "London to Paris",
			a:        Point{Lat: 51.5074, Lon: -0.1278},
			b:        Point{Lat: 48.8566, Lon: 2.3522},
			expected: 343.5561,
		},
		{
			name:     "one degree of longitude on the equator",
			a:        Point{Lat: 0, Lon: 0},
			b:        Point{Lat: 0, Lon: 1},
			expected: 111.1949,
		},
		{
			name:     "pole to pole",
			a:        Point{Lat: 90, Lon: 0},
			b:        Point{Lat: -90, Lon: 0},
			expected: math.Pi * EarthRadiusKm,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Haversine(tt.a, tt.b)
			if math.Abs(got-tt.expected) > 0.001 {
				t.Errorf("expected %f, got %f", tt.expected, got)
			}
		})
	}
}

func TestHaversineSymmetry(t *testing.T) {
	points := []Point{
		{Lat: 12.9716, Lon: 77.5946},
		{Lat: -33.8688, Lon: 151.2093},
		{Lat: 40.7128, Lon: -74.0060},
		{Lat: 0, Lon: 180},
		{Lat: -90, Lon: -180},
	}
	for _, a := range points {
		for _, b := range points {
			if ab, ba := Haversine(a, b), Haversine(b, a); math.Abs(ab-ba) > 1e-9 {
				t.Errorf("distance(%v,%v)=%f but distance(%v,%v)=%f", a, b, ab, b, a, ba)
			}
		}
		if d := Haversine(a, a); d != 0 {
			t.Errorf("distance(%v,%v)=%f, want 0", a, a, d)
		}
	}
}

func TestHaversineOutOfRange(t *testing.T) {
	// Out-of-range input is not rejected; it still yields a non-negative number.
	d := Haversine(Point{Lat: 120, Lon: 400}, Point{Lat: -95, Lon: -200})
	if math.IsNaN(d) || d < 0 {
		t.Errorf("expected a non-negative distance, got %f", d)
	}
}

func TestVincenty(t *testing.T) {
	a := Point{Lat: 51.5074, Lon: -0.1278}
	b := Point{Lat: 48.8566, Lon: 2.3522}

	if d := Vincenty(a, a); d != 0 {
		t.Errorf("expected 0 for identical points, got %f", d)
	}
	// The ellipsoidal result stays within half a percent of the spherical one.
	v, h := Vincenty(a, b), Haversine(a, b)
	if math.Abs(v-h)/h > 0.005 {
		t.Errorf("vincenty %f too far from haversine %f", v, h)
	}
}

func TestPointValid(t *testing.T) {
	tests := []struct {
		name  string
		p     Point
		valid bool
	}{
		{"regular", Point{Lat: 12.97, Lon: 77.59}, true},
		{"out of range but finite", Point{Lat: 200, Lon: -500}, true},
		{"NaN latitude", Point{Lat: math.NaN(), Lon: 0}, false},
		{"infinite longitude", Point{Lat: 0, Lon: math.Inf(-1)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Valid(); got != tt.valid {
				t.Errorf("expected %v, got %v", tt.valid, got)
			}
		})
	}
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in      string
		want    Method
		wantErr bool
	}{
		{"", MethodHaversine, false},
		{"haversine", MethodHaversine, false},
		{" Vincenty ", MethodVincenty, false},
		{"manhattan", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMethod(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("unexpected error state: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
