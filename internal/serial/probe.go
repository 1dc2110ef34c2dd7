package serial

import (
	"errors"
	"fmt"
	"io"

	"go.bug.st/serial"
)

// DefaultProbeBaudRate is used to open a port during a probe. It must not be
// 1200, which triggers a bootloader reset on boards with native USB.
const DefaultProbeBaudRate = 9600

// ErrPortNotFound is returned when a port is not among the enumerated ports.
var ErrPortNotFound = errors.New("serial port not found")

// Prober checks that a serial port exists and can be opened.
type Prober struct {
	BaudRate int

	list func() ([]PortInfo, error)
	open func(name string, mode *serial.Mode) (io.Closer, error)
}

// NewProber creates a Prober backed by the system's serial ports.
func NewProber(baudRate int) *Prober {
	if baudRate <= 0 {
		baudRate = DefaultProbeBaudRate
	}
	return &Prober{
		BaudRate: baudRate,
		list:     ListPorts,
		open: func(name string, mode *serial.Mode) (io.Closer, error) {
			return serial.Open(name, mode)
		},
	}
}

// Probe verifies portName is enumerated and not held by another process,
// then releases it.
func (p *Prober) Probe(portName string) error {
	ports, err := p.list()
	if err != nil {
		return fmt.Errorf("list serial ports: %w", err)
	}
	if _, ok := Find(ports, portName); !ok {
		return fmt.Errorf("%w: %s", ErrPortNotFound, portName)
	}

	mode := &serial.Mode{
		BaudRate: p.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := p.open(portName, mode)
	if err != nil {
		return fmt.Errorf("open %s: %w", portName, err)
	}
	return port.Close()
}
