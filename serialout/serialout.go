/*------------------------------------------------------------------------------
* serialout.go : MSP/NMEA frame output over a serial connection
*
* Grounded on gnssgo's stream.go OpenSerial, which opens a
* tarm/goserial connection from a device path and baud rate. This
* package carries no protocol knowledge of its own — it writes whatever
* bytes the core encoders (EncodeMSP, FormatGGA/FormatRMC) produced
* directly to the connection, without buffering. Reconnect policy, parity, and stop bits are left to the
* embedder; none of this is part of the allocation-free core.
*-----------------------------------------------------------------------------*/
package serialout

import (
	"fmt"
	"io"

	serial "github.com/tarm/goserial"
)

// Port writes encoded position frames to an underlying serial device.
type Port struct {
	io.ReadWriteCloser
}

// Open opens path at baud and returns a Port ready for WriteMSP/WriteNMEA.
func Open(path string, baud int) (*Port, error) {
	cfg := &serial.Config{Name: path, Baud: baud}
	conn, err := serial.OpenPort(cfg)
	if err != nil {
		return nil, fmt.Errorf("serialout: open %s: %w", path, err)
	}
	return &Port{ReadWriteCloser: conn}, nil
}

// WriteMSP writes a complete MSP frame as produced by EncodeMSP.
func (p *Port) WriteMSP(frame []byte) error {
	_, err := p.Write(frame)
	if err != nil {
		return fmt.Errorf("serialout: write MSP frame: %w", err)
	}
	return nil
}

// WriteNMEA writes a complete NMEA sentence as produced by FormatGGA/FormatRMC.
// The sentence must already carry its own "\r\n" terminator.
func (p *Port) WriteNMEA(sentence string) error {
	_, err := io.WriteString(p, sentence)
	if err != nil {
		return fmt.Errorf("serialout: write NMEA sentence: %w", err)
	}
	return nil
}
