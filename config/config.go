/*------------------------------------------------------------------------------
* config.go : YAML config loading for the vpsd embedder
*
* Grounded on gnssgo's options.go (DefaultProcOpt/DefaultSolOpt): a typed
* struct with documented defaults, decoded from an external file rather
* than hand-parsed flags. Uses gopkg.in/yaml.v3 for the decode, matching
* the teacher's own indirect dependency on the library through its
* unittest submodule. This package is never imported by vpscore itself;
* only cmd/vpsd depends on it.
*-----------------------------------------------------------------------------*/
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	vps "github.com/DaBubi/drone-visual-positioning"
)

// Default values applied to zero fields after decode, mirroring the
// core package's own DefaultEkfConfig/DefaultDrConfig constants.
const (
	DefaultProcessNoise     = 1e-10
	DefaultMeasurementNoise = 1e-8
	DefaultGateThreshold    = 5.0
	DefaultMaxGapS          = 30.0
	DefaultMaxExtrapS       = 30.0
	DefaultHdopGrowthRate   = 2.0
	DefaultBaud             = 115200
)

type ekfSection struct {
	ProcessNoise     float64 `yaml:"process_noise"`
	MeasurementNoise float64 `yaml:"measurement_noise"`
	GateThreshold    float64 `yaml:"gate_threshold"`
	MaxGapS          float64 `yaml:"max_gap_s"`
}

type drSection struct {
	MaxExtrapS     float64 `yaml:"max_extrap_s"`
	HdopGrowthRate float64 `yaml:"hdop_growth_rate"`
}

type geoPointYAML struct {
	Lat float64 `yaml:"lat"`
	Lon float64 `yaml:"lon"`
}

type geofenceSection struct {
	Type       string       `yaml:"type"`
	Center     geoPointYAML `yaml:"center"`
	RadiusKm   float64      `yaml:"radius_km"`
	HalfLatKm  float64      `yaml:"half_lat_km"`
	HalfLonKm  float64      `yaml:"half_lon_km"`
	MarginKm   float64      `yaml:"margin_km"`
}

type serialSection struct {
	Path     string `yaml:"path"`
	Baud     int    `yaml:"baud"`
	Protocol string `yaml:"protocol"`
}

type rawDocument struct {
	Ekf           ekfSection      `yaml:"ekf"`
	DeadReckoning drSection       `yaml:"dead_reckoning"`
	Geofence      geofenceSection `yaml:"geofence"`
	Serial        serialSection   `yaml:"serial"`
}

// Document is the decoded, defaulted configuration for one vpsd run.
type Document struct {
	Ekf      vps.EkfConfig
	Dr       vps.DrConfig
	Fence    vps.Geofence
	Serial   SerialConfig
}

// SerialConfig describes the output transport for a vpsd run.
type SerialConfig struct {
	Path     string
	Baud     int
	Protocol string // "msp" or "nmea"
}

// Load reads and decodes path into a Document, applying defaults to any
// zero-valued numeric field and validating the geofence/serial sections.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var raw rawDocument
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Document{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return build(raw)
}

func build(raw rawDocument) (Document, error) {
	doc := Document{
		Ekf: vps.EkfConfig{
			ProcessNoise:     orDefault(raw.Ekf.ProcessNoise, DefaultProcessNoise),
			MeasurementNoise: orDefault(raw.Ekf.MeasurementNoise, DefaultMeasurementNoise),
			GateThreshold:    orDefault(raw.Ekf.GateThreshold, DefaultGateThreshold),
			MaxGapS:          orDefault(raw.Ekf.MaxGapS, DefaultMaxGapS),
		},
		Dr: vps.DrConfig{
			MaxExtrapS:     orDefault(raw.DeadReckoning.MaxExtrapS, DefaultMaxExtrapS),
			HdopGrowthRate: orDefault(raw.DeadReckoning.HdopGrowthRate, DefaultHdopGrowthRate),
		},
		Serial: SerialConfig{
			Path:     raw.Serial.Path,
			Baud:     intOrDefault(raw.Serial.Baud, DefaultBaud),
			Protocol: raw.Serial.Protocol,
		},
	}

	if doc.Serial.Protocol == "" {
		doc.Serial.Protocol = "msp"
	}
	if doc.Serial.Protocol != "msp" && doc.Serial.Protocol != "nmea" {
		return Document{}, fmt.Errorf("config: serial.protocol must be msp or nmea, got %q", doc.Serial.Protocol)
	}

	fence, err := buildGeofence(raw.Geofence)
	if err != nil {
		return Document{}, err
	}
	doc.Fence = fence

	return doc, nil
}

func buildGeofence(g geofenceSection) (vps.Geofence, error) {
	if g.Type == "" {
		return nil, nil
	}
	center := vps.GeoPoint{Lat: g.Center.Lat, Lon: g.Center.Lon}
	switch g.Type {
	case "circle":
		if g.RadiusKm <= 0 {
			return nil, fmt.Errorf("config: geofence.radius_km must be positive for type circle")
		}
		return vps.CircleFence{Center: center, RadiusKm: g.RadiusKm, MarginKm: g.MarginKm}, nil
	case "rect":
		if g.HalfLatKm <= 0 || g.HalfLonKm <= 0 {
			return nil, fmt.Errorf("config: geofence.half_lat_km/half_lon_km must be positive for type rect")
		}
		return vps.RectFence{Center: center, HalfLatKm: g.HalfLatKm, HalfLonKm: g.HalfLonKm, MarginKm: g.MarginKm}, nil
	default:
		return nil, fmt.Errorf("config: geofence.type must be circle or rect, got %q", g.Type)
	}
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

func intOrDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
