package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistance(t *testing.T) {
	tests := []struct {
		name       string
		lat1, lng1 float64
		lat2, lng2 float64
		expected   float64
		tolerance  float64
	}{
		{
			name: "same point",
			lat1: 5.6037, lng1: -0.1870,
			lat2: 5.6037, lng2: -0.1870,
			expected:  0,
			tolerance: 0.001,
		},
		{
			name: "Accra to Kumasi",
			lat1: 5.6037, lng1: -0.1870,
			lat2: 6.6885, lng2: -1.6244,
			expected:  200,
			tolerance: 10,
		},
		{
			name: "London to Paris",
			lat1: 51.5074, lng1: -0.1278,
			lat2: 48.8566, lng2: 2.3522,
			expected:  344,
			tolerance: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineDistance(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			assert.InDelta(t, tt.expected, got, tt.tolerance)
		})
	}
}

func TestIsWithinRadius(t *testing.T) {
	// ~1.3 km apart
	centerLat, centerLng := 5.6037, -0.1870
	pointLat, pointLng := 5.6137, -0.1920

	assert.True(t, IsWithinRadius(centerLat, centerLng, pointLat, pointLng, 5))
	assert.False(t, IsWithinRadius(centerLat, centerLng, pointLat, pointLng, 1))
}

func TestValidCoordinates(t *testing.T) {
	tests := []struct {
		name  string
		lat   float64
		lng   float64
		valid bool
	}{
		{"valid point", 5.6037, -0.1870, true},
		{"boundary lat", 90, 0, true},
		{"boundary lng", 0, -180, true},
		{"lat too high", 90.1, 0, false},
		{"lat too low", -91, 0, false},
		{"lng too high", 0, 180.5, false},
		{"lng too low", 0, -181, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidCoordinates(tt.lat, tt.lng))
		})
	}
}

func TestBoundingBoxContainsRadius(t *testing.T) {
	centerLat, centerLng := 5.6037, -0.1870
	bbox := GetBoundingBox(centerLat, centerLng, 10)

	// Center is inside its own box
	assert.True(t, IsPointInBoundingBox(Point{Lat: centerLat, Lng: centerLng}, bbox))

	// A point well within the radius must be inside the box
	assert.True(t, IsPointInBoundingBox(Point{Lat: 5.65, Lng: -0.20}, bbox))

	// A point hundreds of kilometers away must be outside
	assert.False(t, IsPointInBoundingBox(Point{Lat: 6.6885, Lng: -1.6244}, bbox))
}
