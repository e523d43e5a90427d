package vpscore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	vps "github.com/DaBubi/drone-visual-positioning"
)

func TestHomographyToGPSDegenerate(t *testing.T) {
	assert := assert.New(t)
	h := [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 0} // w always 0
	tile := vps.TileCoord{Z: 18, X: 1000, Y: 1000}
	p := vps.HomographyToGPS(h, tile, 128, 128)
	assert.True(p.IsZero())
}

func TestHomographyToGPSIdentityCenter(t *testing.T) {
	assert := assert.New(t)
	// Identity homography: pixel == (cx, cy), so the result should equal
	// TilePixelToGPS at that pixel exactly.
	h := [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}
	tile := vps.TileCoord{Z: 18, X: 1000, Y: 1000}
	got := vps.HomographyToGPS(h, tile, 128, 128)
	want := vps.TilePixelToGPS(tile, vps.PixelPos{X: 128, Y: 128})
	assert.InDelta(want.Lat, got.Lat, 1e-9)
	assert.InDelta(want.Lon, got.Lon, 1e-9)
}

func TestGPSToTilePixelRoundTrip(t *testing.T) {
	assert := assert.New(t)
	p := vps.GeoPoint{Lat: 37.7749, Lon: -122.4194}
	tile, pixel := vps.GPSToTilePixel(p, 18)
	back := vps.TilePixelToGPS(tile, pixel)
	assert.InDelta(p.Lat, back.Lat, 1e-6)
	assert.InDelta(p.Lon, back.Lon, 1e-6)
}

func TestPixelDistanceToMeters(t *testing.T) {
	assert := assert.New(t)
	d := vps.PixelDistanceToMeters(3, 4, 0, 18)
	mpp := vps.MetersPerPixel(0, 18)
	assert.InDelta(5*mpp, d, 1e-9)
}
