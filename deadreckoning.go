/*------------------------------------------------------------------------------
* deadreckoning.go : constant-velocity dead-reckoning fallback
*
* ported from onboard_c/src/dead_reckoning.c.
*-----------------------------------------------------------------------------*/
package vpscore

import "math"

// DrConfig holds the tunables for a DrState, broken out so config.Document
// can deserialize them independently of DrState's runtime fields.
type DrConfig struct {
	MaxExtrapS     float64
	HdopGrowthRate float64
}

// DefaultDrConfig returns the fusion engine's default dead-reckoning
// configuration: 2.0 HDOP units/second growth and the given maxExtrapS
// (NewFusion passes its maxDrS).
func DefaultDrConfig(maxExtrapS float64) DrConfig {
	return DrConfig{MaxExtrapS: maxExtrapS, HdopGrowthRate: 2.0}
}

// DrState is a constant-velocity dead-reckoning extrapolator. It is
// mutated only by UpdateRef and reset by Reset; HasReference is false
// until the first UpdateRef call.
type DrState struct {
	Config DrConfig

	RefPos      GeoPoint
	VnMps       float64
	VeMps       float64
	RefHDOP     float64
	RefT        float64
	HasReference bool
}

// NewDrState returns a DrState with no reference, configured with cfg.
func NewDrState(cfg DrConfig) DrState {
	return DrState{Config: cfg}
}

// Reset clears the reference, preserving Config.
func (dr *DrState) Reset() {
	dr.RefPos = GeoPoint{}
	dr.VnMps = 0
	dr.VeMps = 0
	dr.RefHDOP = 0
	dr.RefT = 0
	dr.HasReference = false
}

// UpdateRef stores a new position, NE velocity, and HDOP reference at
// time t.
func (dr *DrState) UpdateRef(pos GeoPoint, vn, ve, hdop, t float64) {
	dr.RefPos = pos
	dr.VnMps = vn
	dr.VeMps = ve
	dr.RefHDOP = hdop
	dr.RefT = t
	dr.HasReference = true
}

// Extrapolate returns the linearly extrapolated position and degraded
// HDOP at time t. ok is false when there is no reference, dt is
// negative, or dt exceeds Config.MaxExtrapS (dt == MaxExtrapS succeeds).
func (dr *DrState) Extrapolate(t float64) (pos GeoPoint, hdop float64, ok bool) {
	if !dr.HasReference {
		return GeoPoint{}, 0, false
	}
	dt := t - dr.RefT
	if dt < 0 || dt > dr.Config.MaxExtrapS {
		return GeoPoint{}, 0, false
	}

	dLat := dr.VnMps / DegLatToMeters * dt
	dLon := dr.VeMps / (DegLatToMeters * math.Cos(dr.RefPos.Lat*math.Pi/180.0)) * dt

	pos = GeoPoint{Lat: dr.RefPos.Lat + dLat, Lon: dr.RefPos.Lon + dLon}
	hdop = dr.RefHDOP + dr.Config.HdopGrowthRate*dt
	return pos, hdop, true
}
