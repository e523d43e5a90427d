package telemetry_test

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	vps "github.com/DaBubi/drone-visual-positioning"
	"github.com/DaBubi/drone-visual-positioning/telemetry"
)

func TestObserveSetsHdopAndFixQuality(t *testing.T) {
	assert := assert.New(t)
	e := telemetry.NewExporter()

	out := vps.FusionOutput{
		HDOP:        2.5,
		FixQuality:  vps.FixVisual,
		Source:      vps.SourceVisual,
		GeofenceOK:  true,
		HasPosition: true,
		EKFAccepted: true,
	}
	e.Observe(out, 1.23, true)

	count, err := testutil.GatherAndCount(e.Registry())
	assert.NoError(err)
	assert.Greater(count, 0)

	assert.NoError(testutil.GatherAndCompare(e.Registry(), strings.NewReader(`
# HELP vps_fusion_fix_quality FixQuality of the current fusion output (0=none,1=visual,2=ekf,3=dr).
# TYPE vps_fusion_fix_quality gauge
vps_fusion_fix_quality 1
# HELP vps_fusion_hdop HDOP of the current fusion output.
# TYPE vps_fusion_hdop gauge
vps_fusion_hdop 2.5
`), "vps_fusion_hdop", "vps_fusion_fix_quality"))
}

func TestObserveCountsGeofenceViolationOnce(t *testing.T) {
	assert := assert.New(t)
	e := telemetry.NewExporter()

	violating := vps.FusionOutput{GeofenceOK: false, Source: vps.SourceNone, FixQuality: vps.FixNone}
	e.Observe(violating, 0, false)

	count, err := testutil.GatherAndCount(e.Registry(), "vps_geofence_violations_total")
	assert.NoError(err)
	assert.Equal(1, count)

	assert.NoError(testutil.GatherAndCompare(e.Registry(), strings.NewReader(`
# HELP vps_geofence_violations_total Number of ticks where a candidate position failed the geofence check.
# TYPE vps_geofence_violations_total counter
vps_geofence_violations_total 1
`), "vps_geofence_violations_total"))
}

func TestObserveAcceptedRejectedCounters(t *testing.T) {
	assert := assert.New(t)
	e := telemetry.NewExporter()

	accepted := vps.FusionOutput{EKFAccepted: true, GeofenceOK: true}
	e.Observe(accepted, 0.1, true)

	rejected := vps.FusionOutput{EKFAccepted: false, GeofenceOK: true}
	e.Observe(rejected, 6.0, true)

	acceptedCount, err := testutil.GatherAndCount(e.Registry(), "vps_ekf_accepted_total")
	assert.NoError(err)
	assert.Equal(1, acceptedCount)

	rejectedCount, err := testutil.GatherAndCount(e.Registry(), "vps_ekf_rejected_total")
	assert.NoError(err)
	assert.Equal(1, rejectedCount)

	assert.NoError(testutil.GatherAndCompare(e.Registry(), strings.NewReader(`
# HELP vps_ekf_accepted_total Number of EKF updates accepted.
# TYPE vps_ekf_accepted_total counter
vps_ekf_accepted_total 1
# HELP vps_ekf_rejected_total Number of EKF updates rejected (stale, degenerate, or gated).
# TYPE vps_ekf_rejected_total counter
vps_ekf_rejected_total 1
`), "vps_ekf_accepted_total", "vps_ekf_rejected_total"))
}
