/*------------------------------------------------------------------------------
* msp.go : MSP SET_RAW_GPS binary frame encoding
*
* ported from onboard_c/src/msp.c. Byte layout/little-endian packing
* follows gnssgo's ublox.go setU2/setI4-style helpers (encoding/binary
* LittleEndian, not manual shifts), adapted to the fixed 24-byte frame.
*-----------------------------------------------------------------------------*/
package vpscore

import "encoding/binary"

const (
	mspCmdSetRawGPS = 201
	mspHeaderSize   = 5 // '$','M','<',len,cmd
	mspGPSPayload   = 18
	// MSPFrameSize is the total encoded frame length, header + payload + checksum.
	MSPFrameSize = mspHeaderSize + mspGPSPayload + 1
)

// MspGPS is the payload of an MSP_SET_RAW_GPS frame.
type MspGPS struct {
	FixType      uint8  // 0=no fix, 2=2D, 3=3D
	NumSat       uint8
	Lat          int32 // degrees * 1e7
	Lon          int32 // degrees * 1e7
	AltitudeM    int16
	SpeedCms     uint16 // cm/s
	HeadingDeg10 uint16 // degrees * 10
	HDOP         uint16 // HDOP * 100
}

// MspGPSFromPosition builds an MspGPS from a fused position. hasFix sets
// FixType=2 and NumSat=12; otherwise both are zero.
func MspGPSFromPosition(pos GeoPoint, speedMps, headingDeg, hdop float64, hasFix bool) MspGPS {
	var g MspGPS
	if hasFix {
		g.FixType = 2
		g.NumSat = 12
	}
	g.Lat = int32(pos.Lat * 1e7)
	g.Lon = int32(pos.Lon * 1e7)
	g.AltitudeM = 0
	g.SpeedCms = uint16(speedMps * 100.0)
	g.HeadingDeg10 = uint16(headingDeg * 10.0)
	g.HDOP = uint16(hdop * 100.0)
	return g
}

// MspChecksum XORs every byte of data.
func MspChecksum(data []byte) byte {
	var cs byte
	for _, b := range data {
		cs ^= b
	}
	return cs
}

// EncodeMSP writes the 24-byte MSP_SET_RAW_GPS frame for gps into out,
// which must be at least MSPFrameSize bytes. It returns MSPFrameSize.
func EncodeMSP(out []byte, gps MspGPS) int {
	out[0] = '$'
	out[1] = 'M'
	out[2] = '<'
	out[3] = mspGPSPayload
	out[4] = mspCmdSetRawGPS

	p := out[5:]
	p[0] = gps.FixType
	p[1] = gps.NumSat
	binary.LittleEndian.PutUint32(p[2:6], uint32(gps.Lat))
	binary.LittleEndian.PutUint32(p[6:10], uint32(gps.Lon))
	binary.LittleEndian.PutUint16(p[10:12], uint16(gps.AltitudeM))
	binary.LittleEndian.PutUint16(p[12:14], gps.SpeedCms)
	binary.LittleEndian.PutUint16(p[14:16], gps.HeadingDeg10)
	binary.LittleEndian.PutUint16(p[16:18], gps.HDOP)

	out[MSPFrameSize-1] = MspChecksum(out[3 : MSPFrameSize-1])
	return MSPFrameSize
}

// DecodeMSP parses a 24-byte MSP_SET_RAW_GPS frame back into an MspGPS,
// for round-trip testing. ok is false if frame is not exactly MSPFrameSize
// bytes long, the header doesn't match, or the checksum fails.
func DecodeMSP(frame []byte) (gps MspGPS, ok bool) {
	if len(frame) != MSPFrameSize {
		return MspGPS{}, false
	}
	if frame[0] != '$' || frame[1] != 'M' || frame[2] != '<' {
		return MspGPS{}, false
	}
	if frame[3] != mspGPSPayload || frame[4] != mspCmdSetRawGPS {
		return MspGPS{}, false
	}
	if MspChecksum(frame[3:MSPFrameSize-1]) != frame[MSPFrameSize-1] {
		return MspGPS{}, false
	}

	p := frame[5:]
	gps.FixType = p[0]
	gps.NumSat = p[1]
	gps.Lat = int32(binary.LittleEndian.Uint32(p[2:6]))
	gps.Lon = int32(binary.LittleEndian.Uint32(p[6:10]))
	gps.AltitudeM = int16(binary.LittleEndian.Uint16(p[10:12]))
	gps.SpeedCms = binary.LittleEndian.Uint16(p[12:14])
	gps.HeadingDeg10 = binary.LittleEndian.Uint16(p[14:16])
	gps.HDOP = binary.LittleEndian.Uint16(p[16:18])
	return gps, true
}
