package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	vps "github.com/DaBubi/drone-visual-positioning"
	"github.com/DaBubi/drone-visual-positioning/config"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "vpsd.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaultsForZeroFields(t *testing.T) {
	assert := assert.New(t)
	path := writeTemp(t, `
ekf:
  gate_threshold: 9.0
geofence:
  type: circle
  center: {lat: 1.0, lon: 2.0}
  radius_km: 0.5
serial:
  path: /dev/ttyUSB0
`)
	doc, err := config.Load(path)
	assert.NoError(err)
	assert.Equal(config.DefaultProcessNoise, doc.Ekf.ProcessNoise)
	assert.Equal(config.DefaultMeasurementNoise, doc.Ekf.MeasurementNoise)
	assert.Equal(9.0, doc.Ekf.GateThreshold)
	assert.Equal(config.DefaultMaxExtrapS, doc.Dr.MaxExtrapS)
	assert.Equal(config.DefaultHdopGrowthRate, doc.Dr.HdopGrowthRate)
	assert.Equal(config.DefaultBaud, doc.Serial.Baud)
	assert.Equal("msp", doc.Serial.Protocol)

	fence, ok := doc.Fence.(vps.CircleFence)
	assert.True(ok)
	assert.Equal(0.5, fence.RadiusKm)
}

func TestLoadRectGeofence(t *testing.T) {
	assert := assert.New(t)
	path := writeTemp(t, `
geofence:
  type: rect
  center: {lat: 0, lon: 0}
  half_lat_km: 2.0
  half_lon_km: 3.0
  margin_km: 0.2
`)
	doc, err := config.Load(path)
	assert.NoError(err)
	fence, ok := doc.Fence.(vps.RectFence)
	assert.True(ok)
	assert.Equal(2.0, fence.HalfLatKm)
	assert.Equal(3.0, fence.HalfLonKm)
}

func TestLoadRejectsUnknownGeofenceType(t *testing.T) {
	assert := assert.New(t)
	path := writeTemp(t, `
geofence:
  type: triangle
`)
	_, err := config.Load(path)
	assert.Error(err)
}

func TestLoadRejectsUnknownSerialProtocol(t *testing.T) {
	assert := assert.New(t)
	path := writeTemp(t, `
serial:
  protocol: carrier-pigeon
`)
	_, err := config.Load(path)
	assert.Error(err)
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	assert := assert.New(t)
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(err)
}

func TestLoadNoGeofenceSectionYieldsNilFence(t *testing.T) {
	assert := assert.New(t)
	path := writeTemp(t, `
ekf:
  gate_threshold: 5.0
`)
	doc, err := config.Load(path)
	assert.NoError(err)
	assert.Nil(doc.Fence)
}
