package serialout_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DaBubi/drone-visual-positioning/serialout"
)

// fakeConn stands in for a tarm/goserial connection in tests.
type fakeConn struct {
	bytes.Buffer
}

func (f *fakeConn) Close() error { return nil }

func newTestPort() (*serialout.Port, *fakeConn) {
	fc := &fakeConn{}
	return &serialout.Port{ReadWriteCloser: fc}, fc
}

func TestWriteMSPWritesFrameBytes(t *testing.T) {
	assert := assert.New(t)
	port, fc := newTestPort()

	frame := []byte{0x24, 0x4d, 0x3c, 0x12, 0xc9}
	assert.NoError(port.WriteMSP(frame))
	assert.Equal(frame, fc.Bytes())
}

func TestWriteNMEAWritesSentenceBytes(t *testing.T) {
	assert := assert.New(t)
	port, fc := newTestPort()

	sentence := "$GPGGA,*00\r\n"
	assert.NoError(port.WriteNMEA(sentence))
	assert.Equal(sentence, fc.String())
}
