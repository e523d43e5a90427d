/*------------------------------------------------------------------------------
* vpsd : onboard visual positioning daemon
*
* Loads a YAML config, wires a Fusion engine, replays a CSV of visual
* fixes (or runs synthetic ticks when none is given), and emits each
* tick's FusionOutput as MSP or NMEA over a serial port while exporting
* Prometheus metrics on /metrics.
*
* usage : vpsd [option]...
*
*  -config path   config YAML path [configs/vpsd.yaml]
*  -replay path   CSV of t,lat,lon,hdop ticks to replay [off: synthetic ticks]
*  -metrics addr  address to serve /metrics on [:9100]
*  -x level       trace level (0:off) [0]
*
* Grounded on gnssgo's app mains (e.g. app/plot/plot.go), which parse a
* flag-based option set with a usage table and a debug trace level, and
* on plot.go's prometheus wiring -- this program serves pull-based
* /metrics via promhttp instead of pushing, since vpsd is long-running.
*-----------------------------------------------------------------------------*/
package main

import (
	"bufio"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	vps "github.com/DaBubi/drone-visual-positioning"
	"github.com/DaBubi/drone-visual-positioning/config"
	"github.com/DaBubi/drone-visual-positioning/serialout"
	"github.com/DaBubi/drone-visual-positioning/telemetry"
)

var help = []string{
	"",
	" usage: vpsd [option]...",
	"",
	" -config path   config YAML path [configs/vpsd.yaml]",
	" -replay path   CSV of t,lat,lon,hdop ticks to replay [off: synthetic ticks]",
	" -metrics addr  address to serve /metrics on [:9100]",
	" -x level       trace level (0:off) [0]",
}

type tick struct {
	t, lat, lon, hdop float64
}

func main() {
	configPath := flag.String("config", "configs/vpsd.yaml", "config YAML path")
	replayPath := flag.String("replay", "", "CSV of t,lat,lon,hdop ticks to replay")
	metricsAddr := flag.String("metrics", ":9100", "address to serve /metrics on")
	traceLevel := flag.Int("x", 0, "trace level (0:off)")
	showHelp := flag.Bool("?", false, "print help")
	flag.Parse()

	if *showHelp {
		for _, line := range help {
			fmt.Println(line)
		}
		return
	}

	vps.SetTraceLevel(*traceLevel)
	runID := uuid.New().String()
	vps.Trace(1, "vpsd: starting run %s\n", runID)

	doc, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("vpsd: %v", err)
	}

	ticks, err := loadTicks(*replayPath)
	if err != nil {
		log.Fatalf("vpsd: %v", err)
	}

	exporter := telemetry.NewExporter()
	go serveMetrics(*metricsAddr, exporter)

	var port *serialout.Port
	if doc.Serial.Path != "" {
		port, err = serialout.Open(doc.Serial.Path, doc.Serial.Baud)
		if err != nil {
			log.Fatalf("vpsd: %v", err)
		}
	}

	fusion := vps.NewFusion(doc.Ekf, doc.Dr.MaxExtrapS, doc.Fence)
	fusion.Dr.Config = doc.Dr
	run(fusion, ticks, doc, exporter, port)
}

func loadTicks(path string) ([]tick, error) {
	if path == "" {
		return syntheticTicks(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open replay file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(bufio.NewReader(f))
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse replay file: %w", err)
	}

	ticks := make([]tick, 0, len(records))
	for _, rec := range records {
		if len(rec) < 4 {
			continue
		}
		t, _ := strconv.ParseFloat(rec[0], 64)
		lat, _ := strconv.ParseFloat(rec[1], 64)
		lon, _ := strconv.ParseFloat(rec[2], 64)
		hdop, _ := strconv.ParseFloat(rec[3], 64)
		ticks = append(ticks, tick{t: t, lat: lat, lon: lon, hdop: hdop})
	}
	return ticks, nil
}

// syntheticTicks produces a short straight-line track used when no replay
// file is given, so the daemon has something to fuse and export.
func syntheticTicks() []tick {
	const n = 50
	const dt = 0.2
	ticks := make([]tick, 0, n)
	lat, lon := 37.7749, -122.4194
	for i := 0; i < n; i++ {
		lon += 0.00001
		ticks = append(ticks, tick{t: float64(i) * dt, lat: lat, lon: lon, hdop: 1.2})
	}
	return ticks
}

func run(fusion *vps.Fusion, ticks []tick, doc config.Document, exporter *telemetry.Exporter, port *serialout.Port) {
	for _, tk := range ticks {
		out := fusion.Update(vps.GeoPoint{Lat: tk.lat, Lon: tk.lon}, true, tk.hdop, tk.t)
		exporter.Observe(out, fusion.Ekf.LastGate, true)

		if !out.HasPosition || port == nil {
			continue
		}
		emit(port, doc.Serial.Protocol, out, tk.hdop)
	}
}

func emit(port *serialout.Port, protocol string, out vps.FusionOutput, hdop float64) {
	now := time.Now().UTC()
	switch protocol {
	case "nmea":
		sentence := vps.FormatGGA(out.Position, int(out.FixQuality), hdop, 0.0, now)
		if err := port.WriteNMEA(sentence); err != nil {
			vps.Trace(1, "vpsd: write NMEA: %v\n", err)
		}
	default:
		gps := vps.MspGPSFromPosition(out.Position, out.SpeedMps, out.HeadingDeg, hdop, out.HasPosition)
		buf := make([]byte, vps.MSPFrameSize)
		n := vps.EncodeMSP(buf, gps)
		if err := port.WriteMSP(buf[:n]); err != nil {
			vps.Trace(1, "vpsd: write MSP: %v\n", err)
		}
	}
}

func serveMetrics(addr string, exporter *telemetry.Exporter) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(exporter.Registry(), promhttp.HandlerOpts{}))
	if err := http.ListenAndServe(addr, mux); err != nil {
		vps.Trace(1, "vpsd: metrics server: %v\n", err)
	}
}
