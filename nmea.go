/*------------------------------------------------------------------------------
* nmea.go : NMEA GGA/RMC ASCII sentence encoding
*
* ported from onboard_c/src/nmea.c. Sentence formatting (field widths,
* decimal places, checksum placement) mirrors gnssgo's solution.go
* OutSolNmeaGga/OutSolNmeaRmc (fmt.Sprintf + trailing XOR checksum loop),
* adapted to this core's simpler single-receiver, no-base-station fields.
*-----------------------------------------------------------------------------*/
package vpscore

import (
	"fmt"
	"math"
	"time"
)

// KnotToMps converts knots to meters/second.
const KnotToMps = 0.514444444

func degToNMEA(deg float64, isLon bool) (field string, dir byte) {
	absDeg := math.Abs(deg)
	d := int(absDeg)
	m := (absDeg - float64(d)) * 60.0

	if isLon {
		field = fmt.Sprintf("%03d%08.5f", d, m)
		if deg >= 0 {
			dir = 'E'
		} else {
			dir = 'W'
		}
		return field, dir
	}
	field = fmt.Sprintf("%02d%08.5f", d, m)
	if deg >= 0 {
		dir = 'N'
	} else {
		dir = 'S'
	}
	return field, dir
}

func nmeaChecksum(body string) byte {
	var cs byte
	for i := 0; i < len(body); i++ {
		cs ^= body[i]
	}
	return cs
}

// FormatGGA renders a $GPGGA sentence for pos/fixQuality/hdop/altitude,
// timestamped with utc. fixQuality follows the NMEA convention: 0=no fix,
// 1=GPS fix. The satellite count is hard-coded to 08 per spec.md §4.7.
func FormatGGA(pos GeoPoint, fixQuality int, hdop, altitude float64, utc time.Time) string {
	latField, latDir := degToNMEA(pos.Lat, false)
	lonField, lonDir := degToNMEA(pos.Lon, true)

	body := fmt.Sprintf("GPGGA,%02d%02d%02d.00,%s,%c,%s,%c,%d,08,%.1f,%.1f,M,0.0,M,,",
		utc.Hour(), utc.Minute(), utc.Second(),
		latField, latDir, lonField, lonDir,
		fixQuality, hdop, altitude)

	cs := nmeaChecksum(body)
	return fmt.Sprintf("$%s*%02X\r\n", body, cs)
}

// FormatRMC renders a $GPRMC sentence. active selects the A/V status
// field; speedKnots and headingDeg are printed with one decimal.
func FormatRMC(pos GeoPoint, active bool, speedKnots, headingDeg float64, utc time.Time) string {
	latField, latDir := degToNMEA(pos.Lat, false)
	lonField, lonDir := degToNMEA(pos.Lon, true)

	status := byte('V')
	if active {
		status = 'A'
	}

	body := fmt.Sprintf("GPRMC,%02d%02d%02d.00,%c,%s,%c,%s,%c,%.1f,%.1f,%02d%02d%02d,,,A",
		utc.Hour(), utc.Minute(), utc.Second(),
		status,
		latField, latDir, lonField, lonDir,
		speedKnots, headingDeg,
		utc.Day(), int(utc.Month()), utc.Year()%100)

	cs := nmeaChecksum(body)
	return fmt.Sprintf("$%s*%02X\r\n", body, cs)
}
