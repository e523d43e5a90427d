/*------------------------------------------------------------------------------
* geotransform.go : pixel <-> tile <-> GPS transforms, homography projection
*
* ported from onboard_c/src/geo_transform.c.
*-----------------------------------------------------------------------------*/
package vpscore

import "math"

// TilePixelToGPS converts a pixel position inside tile to a geographic
// point.
func TilePixelToGPS(tile TileCoord, pixel PixelPos) GeoPoint {
	n := math.Pow(2.0, float64(tile.Z))
	globalX := float64(tile.X) + pixel.X/TileSize
	globalY := float64(tile.Y) + pixel.Y/TileSize

	lon := globalX/n*360.0 - 180.0
	lat := math.Atan(math.Sinh(math.Pi*(1.0-2.0*globalY/n))) * 180.0 / math.Pi
	return GeoPoint{Lat: lat, Lon: lon}
}

// GPSToTilePixel converts a geographic point to a tile coordinate plus the
// pixel offset within that tile, at the given zoom level.
func GPSToTilePixel(p GeoPoint, zoom int) (TileCoord, PixelPos) {
	n := math.Pow(2.0, float64(zoom))
	latRad := p.Lat * math.Pi / 180.0

	xGlobal := (p.Lon + 180.0) / 360.0 * n
	yGlobal := (1.0 - math.Log(math.Tan(latRad)+1.0/math.Cos(latRad))/math.Pi) / 2.0 * n

	tile := TileCoord{Z: zoom, X: int(xGlobal), Y: int(yGlobal)}
	pixel := PixelPos{
		X: (xGlobal - float64(tile.X)) * TileSize,
		Y: (yGlobal - float64(tile.Y)) * TileSize,
	}
	return tile, pixel
}

// HomographyToGPS projects the image center (cx, cy) through the row-major
// 3x3 homography H = [h00,h01,h02, h10,h11,h12, h20,h21,h22], then maps the
// resulting pixel into tile to produce a geographic point. If the
// homogeneous divisor |w| < 1e-10, the (0, 0) sentinel is returned — see
// spec.md §4.2 and the design note in SPEC_FULL.md about sentinel returns.
func HomographyToGPS(h [9]float64, tile TileCoord, cx, cy float64) GeoPoint {
	dx := h[0]*cx + h[1]*cy + h[2]
	dy := h[3]*cx + h[4]*cy + h[5]
	dw := h[6]*cx + h[7]*cy + h[8]

	if abs(dw) < 1e-10 {
		return GeoPoint{}
	}

	px := PixelPos{X: dx / dw, Y: dy / dw}
	return TilePixelToGPS(tile, px)
}

// PixelDistanceToMeters converts a pixel displacement (dx, dy) into meters
// using the ground resolution at lat/zoom.
func PixelDistanceToMeters(dx, dy, lat float64, zoom int) float64 {
	mpp := MetersPerPixel(lat, zoom)
	return math.Hypot(dx, dy) * mpp
}
