/*------------------------------------------------------------------------------
* ekf.go : 4-state constant-velocity Extended Kalman Filter
*
* State order: [lat, lon, vlat, vlon], lat/lon in degrees, vlat/vlon in
* degrees/second. Ported from onboard_c/src/ekf.c; matrix arithmetic uses
* the fixed-size Matrix4/Matrix2 helpers in mat.go instead of gnssgo's
* heap-backed Filter()/MatMul() convention, per spec.md §5's zero-
* allocation requirement and §9's re-architecture guidance.
*-----------------------------------------------------------------------------*/
package vpscore

import "math"

// EkfConfig holds the filter's immutable tunables for a given instance.
type EkfConfig struct {
	ProcessNoise     float64 // Q diagonal scale (default 1e-10)
	MeasurementNoise float64 // R base scale (default 1e-8)
	GateThreshold    float64 // Mahalanobis gate, std devs (default 5.0)
	MaxGapS          float64 // reset after this gap, seconds (default 30.0)
}

// DefaultEkfConfig returns the documented default configuration.
func DefaultEkfConfig() EkfConfig {
	return EkfConfig{
		ProcessNoise:     1e-10,
		MeasurementNoise: 1e-8,
		GateThreshold:    5.0,
		MaxGapS:          30.0,
	}
}

// EkfState is the filter's state: x = [lat, lon, vlat, vlon], covariance
// P, the timestamp of the last update, whether the filter has been
// initialized, and the last Mahalanobis gate distance (for telemetry).
// Invariant: Initialized implies P is finite and positive-definite on its
// lat/lon principal submatrix; !Initialized means x/P are unspecified.
type EkfState struct {
	X          Vector4
	P          Matrix4
	LastT      float64
	Initialized bool
	LastGate   float64
}

// Reset returns the filter to its uninitialized zero state.
func (s *EkfState) Reset() {
	*s = EkfState{}
}

func buildF(dt float64) Matrix4 {
	f := Identity4()
	f[0][2] = dt
	f[1][3] = dt
	return f
}

func buildQ(q, dt float64) Matrix4 {
	var Q Matrix4
	dt2 := dt * dt
	dt3 := dt2 * dt / 2.0
	dt4 := dt2 * dt2 / 4.0
	Q[0][0] = q * dt4
	Q[0][2] = q * dt3
	Q[1][1] = q * dt4
	Q[1][3] = q * dt3
	Q[2][0] = q * dt3
	Q[2][2] = q * dt2
	Q[3][1] = q * dt3
	Q[3][3] = q * dt2
	return Q
}

// Update ingests one measurement at time t with the given HDOP. accepted
// is true when the measurement was incorporated (or this was the first
// measurement); it is false on a stale/negative dt, a numerically
// degenerate innovation covariance, or an outlier rejected by the
// Mahalanobis gate — see spec.md §4.5 steps 1-7 for the exact protocol,
// including the long-gap auto-reset in step 3.
func (s *EkfState) Update(cfg EkfConfig, measurement GeoPoint, hdop, t float64) bool {
	if !s.Initialized {
		s.X = Vector4{measurement.Lat, measurement.Lon, 0, 0}
		s.P = Matrix4{}
		for i := 0; i < 4; i++ {
			s.P[i][i] = 1e-6
		}
		s.LastT = t
		s.Initialized = true
		s.LastGate = 0
		return true
	}

	dt := t - s.LastT
	if dt < 0 {
		return false
	}

	if dt > cfg.MaxGapS {
		// Long gap: reset and re-initialize with this measurement as the
		// filter's first, per spec.md §4.5 step 3. Rewritten as an
		// explicit reset-then-initialize step rather than the original's
		// recursive re-entry, per spec.md §9's design note.
		s.Reset()
		s.X = Vector4{measurement.Lat, measurement.Lon, 0, 0}
		s.P = Matrix4{}
		for i := 0; i < 4; i++ {
			s.P[i][i] = 1e-6
		}
		s.LastT = t
		s.Initialized = true
		s.LastGate = 0
		return true
	}

	F := buildF(dt)
	Ft := Transpose4(F)
	Q := buildQ(cfg.ProcessNoise, dt)

	xPred := MulVec4(F, s.X)
	PPred := Add4(Mul4(Mul4(F, s.P), Ft), Q)

	z := Vector2{measurement.Lat, measurement.Lon}
	y := Vector2{z[0] - xPred[0], z[1] - xPred[1]}

	R := cfg.MeasurementNoise * hdop * hdop
	S := Matrix2{
		{PPred[0][0] + R, PPred[0][1]},
		{PPred[1][0], PPred[1][1] + R},
	}

	Si, ok := Inverse2(S, 1e-30)
	if !ok {
		return false
	}

	d2 := Dot2(y, MulVec2(Si, y))
	s.LastGate = math.Sqrt(math.Abs(d2))

	if s.LastGate > cfg.GateThreshold {
		s.X = xPred
		s.P = PPred
		s.LastT = t
		return false
	}

	// Kalman gain K = P_pred * H' * S^-1 (4x2); H picks the first two
	// state rows, so K's columns are linear combinations of P_pred's
	// first two columns.
	var K [4][2]float64
	for i := 0; i < 4; i++ {
		K[i][0] = PPred[i][0]*Si[0][0] + PPred[i][1]*Si[1][0]
		K[i][1] = PPred[i][0]*Si[0][1] + PPred[i][1]*Si[1][1]
	}

	for i := 0; i < 4; i++ {
		s.X[i] = xPred[i] + K[i][0]*y[0] + K[i][1]*y[1]
	}

	var KH Matrix4
	for i := 0; i < 4; i++ {
		KH[i][0] = K[i][0]
		KH[i][1] = K[i][1]
	}
	IKH := Identity4()
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			IKH[i][j] -= KH[i][j]
		}
	}
	s.P = Mul4(IKH, PPred)
	s.LastT = t
	return true
}

// Predict linearly extrapolates (lat, lon) to time t using the stored
// velocities. It returns the (0, 0) sentinel when uninitialized.
func (s *EkfState) Predict(t float64) GeoPoint {
	if !s.Initialized {
		return GeoPoint{}
	}
	dt := t - s.LastT
	return GeoPoint{
		Lat: s.X[0] + s.X[2]*dt,
		Lon: s.X[1] + s.X[3]*dt,
	}
}

// RawVelocityDegPerSec returns the filter's raw state-space velocity, in
// degrees/second, for testing. Most callers want Velocity, which returns
// m/s.
func (s *EkfState) RawVelocityDegPerSec() (vlat, vlon float64) {
	if !s.Initialized {
		return 0, 0
	}
	return s.X[2], s.X[3]
}

// Velocity returns the filter's north-east velocity in meters/second,
// converting the internal degrees/second state using the local latitude.
// Consolidates spec.md §9's guidance that the public accessor should
// return m/s rather than raw degrees/second.
func (s *EkfState) Velocity() Velocity {
	if !s.Initialized {
		return Velocity{}
	}
	vlat, vlon := s.X[2], s.X[3]
	vn := vlat * DegLatToMeters
	ve := vlon * DegLatToMeters * math.Cos(s.X[0]*math.Pi/180.0)
	return Velocity{VN: vn, VE: ve}
}

// Speed returns ||Velocity()||.
func (s *EkfState) Speed() float64 {
	if !s.Initialized {
		return 0
	}
	return s.Velocity().Speed()
}

// Position returns (x[0], x[1]), or (0, 0) when uninitialized.
func (s *EkfState) Position() GeoPoint {
	if !s.Initialized {
		return GeoPoint{}
	}
	return GeoPoint{Lat: s.X[0], Lon: s.X[1]}
}
