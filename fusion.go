/*------------------------------------------------------------------------------
* fusion.go : three-way position arbitration (visual / EKF predict / DR)
*
* ported from onboard_c/src/fusion.c. Priority: visual fix first (EKF-
* smoothed, not raw), then EKF prediction while initialized, then dead
* reckoning, then nothing — each gated by the geofence before being
* surfaced. Fusion owns its EKF and DR states exclusively (spec.md §3).
*-----------------------------------------------------------------------------*/
package vpscore

import "math"

// Fusion is the position-estimation orchestrator. It owns an EkfState and
// a DrState and borrows a Geofence (nil means no geofence attached).
type Fusion struct {
	EkfCfg EkfConfig
	Ekf    EkfState
	Dr     DrState
	Fence  Geofence
}

// NewFusion constructs a fusion engine with the given EKF configuration
// (pass DefaultEkfConfig() for the documented defaults), a dead-reckoning
// validity window in seconds, and an optional geofence.
func NewFusion(ekfCfg EkfConfig, maxDrS float64, fence Geofence) *Fusion {
	return &Fusion{
		EkfCfg: ekfCfg,
		Dr:     NewDrState(DefaultDrConfig(maxDrS)),
		Fence:  fence,
	}
}

// Reset re-initializes the EKF and the dead-reckoning reference, keeping
// the DR's configured MaxExtrapS/HdopGrowthRate.
func (f *Fusion) Reset() {
	f.Ekf.Reset()
	f.Dr.Reset()
}

// Update processes one tick. visualOK indicates whether visual is a live
// measurement this tick (the explicit-option-type equivalent of spec.md
// §3's "visual may be absent" contract); visual is ignored when visualOK
// is false.
func (f *Fusion) Update(visual GeoPoint, visualOK bool, hdop, t float64) FusionOutput {
	out := FusionOutput{
		HDOP:       99.0,
		FixQuality: FixNone,
		Source:     SourceNone,
		GeofenceOK: true,
	}

	switch {
	case visualOK:
		out.EKFAccepted = f.Ekf.Update(f.EkfCfg, visual, hdop, t)
		if f.Ekf.Initialized {
			out.Position = f.Ekf.Position()
			out.HDOP = hdop
			out.Source = SourceVisual
			out.FixQuality = FixVisual
			out.HasPosition = true

			// DR reference is refreshed regardless of acceptance: the
			// filter always exposes a velocity estimate once
			// initialized, and time must keep advancing into
			// prediction even when a measurement was gated out. See
			// DESIGN.md's open-question note on this policy.
			vel := f.Ekf.Velocity()
			f.Dr.UpdateRef(out.Position, vel.VN, vel.VE, hdop, t)
		}

	case f.Ekf.Initialized:
		pred := f.Ekf.Predict(t)
		if !pred.IsZero() {
			out.Position = pred
			out.HDOP = 3.0
			out.Source = SourceEKFPredict
			out.FixQuality = FixEKF
			out.HasPosition = true
		}
	}

	if !out.HasPosition {
		if pos, drHdop, ok := f.Dr.Extrapolate(t); ok {
			out.Position = pos
			out.HDOP = drHdop
			out.Source = SourceDeadReckoning
			out.FixQuality = FixDR
			out.HasPosition = true
		}
	}

	if out.HasPosition && f.Fence != nil {
		out.GeofenceOK = f.Fence.Contains(out.Position)
		if !out.GeofenceOK {
			out.HasPosition = false
			out.FixQuality = FixNone
			out.Source = SourceNone
		}
	}

	if f.Ekf.Initialized {
		out.SpeedMps = f.Ekf.Speed()
		if out.SpeedMps > 0.5 {
			vel := f.Ekf.Velocity()
			heading := math.Atan2(vel.VE, vel.VN) * 180.0 / math.Pi
			out.HeadingDeg = math.Mod(heading+360.0, 360.0)
		}
	}

	return out
}
