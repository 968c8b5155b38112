package modbusrelay

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/goburrow/modbus"
	"github.com/sirupsen/logrus"
)

const (
	WriteCoilValueOn  uint16 = 0xff00
	WriteCoilValueOff uint16 = 0
)

// Relay drives the appliance contactor through a single modbus coil.
type Relay struct {
	client modbus.Client
	close  func() error
	coil   uint16

	lastWritten *bool
}

// New connects to a TCP modbus slave. The handler connects lazily, so no
// I/O happens here.
func New(address string, slaveID byte, coil uint16) *Relay {
	handler := modbus.NewTCPClientHandler(address)
	handler.SlaveId = slaveID
	return &Relay{
		client: modbus.NewClient(handler),
		close:  handler.Close,
		coil:   coil,
	}
}

// NewWithClient is used by tests and the commissioning CLI.
func NewWithClient(c modbus.Client, close func() error, coil uint16) *Relay {
	return &Relay{client: c, close: close, coil: coil}
}

// SetActive writes the coil when the desired state differs from the last
// written one.
func (r *Relay) SetActive(b bool) error {
	if r.lastWritten != nil && *r.lastWritten == b {
		return nil
	}
	_, err := r.client.WriteSingleCoil(r.coil, CoilValue(b))
	if err != nil {
		r.closeIfNeeded(err)
		return fmt.Errorf("error writing coil %d value %t: %w", r.coil, b, err)
	}
	v := b
	r.lastWritten = &v
	return nil
}

// Active reads the coil back.
func (r *Relay) Active() (bool, error) {
	b, err := r.client.ReadCoils(r.coil, 1)
	if err != nil {
		r.closeIfNeeded(err)
		return false, fmt.Errorf("error reading coil %d: %w", r.coil, err)
	}
	if len(b) == 0 {
		return false, fmt.Errorf("error reading coil %d: empty response", r.coil)
	}
	return b[0]&0x01 == 0x01, nil
}

// ReadRegister reads a holding register, used by the commissioning CLI to
// inspect the relay.
func (r *Relay) ReadRegister(address uint16) (int, error) {
	b, err := r.client.ReadHoldingRegisters(address, 1)
	if err != nil {
		r.closeIfNeeded(err)
		return 0, fmt.Errorf("error reading address %d: %w", address, err)
	}
	return Decode(b), nil
}

func (r *Relay) closeIfNeeded(e error) {
	if e == nil {
		return
	}

	if errors.Is(e, syscall.EPIPE) {
		logrus.Warn("reconnect due to broken pipe")
		err := r.close()
		if err != nil {
			logrus.Errorf("error closing client: %v", err)
		}
	}

	if errors.Is(e, os.ErrDeadlineExceeded) {
		logrus.Warn("reconnect due to i/o timeout")
		err := r.close()
		if err != nil {
			logrus.Errorf("error closing client: %v", err)
		}
	}
}

func CoilValue(b bool) uint16 {
	if b {
		return WriteCoilValueOn
	}
	return WriteCoilValueOff
}

// Decode High byte first high word first (big endian)
func Decode(data []byte) int {

	switch len(data) {
	case 1:
		var i int8
		binary.Read(bytes.NewBuffer(data), binary.BigEndian, &i)
		return int(i)
	case 2:
		var i int16
		binary.Read(bytes.NewBuffer(data), binary.BigEndian, &i)
		return int(i)
	case 4:
		var i int32
		binary.Read(bytes.NewBuffer(data), binary.BigEndian, &i)
		return int(i)
	case 8:
		var i int64
		binary.Read(bytes.NewBuffer(data), binary.BigEndian, &i)
		return int(i)
	}

	return 0
}
