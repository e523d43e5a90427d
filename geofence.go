/*------------------------------------------------------------------------------
* geofence.go : circle/rect geofence containment and signed-margin test
*
* ported from onboard_c/src/geofence.c. spec.md §9 asks for a tagged sum
* type over a flag+union; CircleFence/RectFence implement a shared Geofence
* interface with an unexported marker method so the two variants are
* exhaustively switchable and a third kind cannot be added outside this
* package by accident.
*-----------------------------------------------------------------------------*/
package vpscore

// Geofence is a read-only safety boundary, either a CircleFence or a
// RectFence. It is supplied by the embedder at startup and borrowed by
// Fusion for its lifetime.
type Geofence interface {
	// Contains reports whether p lies within the fence, after margin is
	// subtracted from the nominal extent.
	Contains(p GeoPoint) bool

	// DistanceKm returns the signed margin to the nearest boundary of the
	// nominal extent (MarginKm is not subtracted); positive means inside it.
	DistanceKm(p GeoPoint) float64

	isGeofence()
}

// CircleFence is a circular geofence: a point is inside when its
// haversine distance to Center is at most (RadiusKm - MarginKm).
type CircleFence struct {
	Center   GeoPoint
	RadiusKm float64
	MarginKm float64
}

func (f CircleFence) isGeofence() {}

// Contains implements Geofence.
func (f CircleFence) Contains(p GeoPoint) bool {
	dist := HaversineKm(f.Center, p)
	return dist <= (f.RadiusKm - f.MarginKm)
}

// DistanceKm implements Geofence.
func (f CircleFence) DistanceKm(p GeoPoint) float64 {
	dist := HaversineKm(f.Center, p)
	return f.RadiusKm - dist
}

// RectFence is an axis-aligned rectangular geofence, defined by
// half-extents in kilometers along the latitude and longitude axes
// through Center.
type RectFence struct {
	Center    GeoPoint
	HalfLatKm float64
	HalfLonKm float64
	MarginKm  float64
}

func (f RectFence) isGeofence() {}

// signedOffsets returns the haversine separation along each cardinal axis,
// signed by the point's side relative to Center.
func (f RectFence) signedOffsets(p GeoPoint) (dLat, dLon float64) {
	dLat = HaversineKm(f.Center, GeoPoint{Lat: p.Lat, Lon: f.Center.Lon})
	dLon = HaversineKm(f.Center, GeoPoint{Lat: f.Center.Lat, Lon: p.Lon})
	if p.Lat < f.Center.Lat {
		dLat = -dLat
	}
	if p.Lon < f.Center.Lon {
		dLon = -dLon
	}
	return dLat, dLon
}

// Contains implements Geofence. Both axes must lie within
// ±(half - margin) of Center.
func (f RectFence) Contains(p GeoPoint) bool {
	dLat, dLon := f.signedOffsets(p)
	latLimit := f.HalfLatKm - f.MarginKm
	lonLimit := f.HalfLonKm - f.MarginKm
	return dLat >= -latLimit && dLat <= latLimit &&
		dLon >= -lonLimit && dLon <= lonLimit
}

// DistanceKm implements Geofence. The returned margin is
// min(HalfLatKm - dLat, HalfLonKm - dLon) over the signed per-axis
// offsets. On the north/east side it goes negative once an offset exceeds
// its half-extent; on the south/west side the per-axis margin grows with
// distance instead, so a point beyond the boundary there can still get a
// positive result. See DESIGN.md for the open question this leaves
// unresolved.
func (f RectFence) DistanceKm(p GeoPoint) float64 {
	dLat, dLon := f.signedOffsets(p)
	marginLat := f.HalfLatKm - dLat
	marginLon := f.HalfLonKm - dLon
	if marginLat < marginLon {
		return marginLat
	}
	return marginLon
}
