package serial

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
)

type fakePort struct {
	closed bool
}

func (f *fakePort) Close() error {
	f.closed = true
	return nil
}

func fakeProber(ports []PortInfo, openErr error) (*Prober, *fakePort, *serial.Mode) {
	port := &fakePort{}
	var opened serial.Mode
	p := &Prober{
		BaudRate: DefaultProbeBaudRate,
		list:     func() ([]PortInfo, error) { return ports, nil },
		open: func(name string, mode *serial.Mode) (io.Closer, error) {
			opened = *mode
			if openErr != nil {
				return nil, openErr
			}
			return port, nil
		},
	}
	return p, port, &opened
}

func TestProbeOpensAndReleasesPort(t *testing.T) {
	p, port, mode := fakeProber([]PortInfo{{Name: "/dev/ttyACM0", IsUSB: true}}, nil)

	require.NoError(t, p.Probe("/dev/ttyACM0"))
	require.True(t, port.closed, "port was not released")
	require.Equal(t, 9600, mode.BaudRate)
	require.Equal(t, 8, mode.DataBits)
}

func TestProbeMissingPort(t *testing.T) {
	p, _, _ := fakeProber([]PortInfo{{Name: "/dev/ttyUSB0"}}, nil)

	err := p.Probe("/dev/ttyACM0")
	require.ErrorIs(t, err, ErrPortNotFound)
}

func TestProbeBusyPort(t *testing.T) {
	busy := errors.New("resource busy")
	p, _, _ := fakeProber([]PortInfo{{Name: "COM3"}}, busy)

	err := p.Probe("COM3")
	require.ErrorIs(t, err, busy)
	require.Contains(t, err.Error(), "open COM3")
}

func TestProbeListError(t *testing.T) {
	p := &Prober{list: func() ([]PortInfo, error) { return nil, errors.New("no access") }}

	err := p.Probe("COM1")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrPortNotFound)
}

func TestNewProberDefaultsBaudRate(t *testing.T) {
	require.Equal(t, DefaultProbeBaudRate, NewProber(0).BaudRate)
	require.Equal(t, 115200, NewProber(115200).BaudRate)
}

func TestFind(t *testing.T) {
	ports := []PortInfo{{Name: "COM1"}, {Name: "COM4", Product: "Arduino Uno"}}

	got, ok := Find(ports, "COM4")
	require.True(t, ok)
	require.Equal(t, "Arduino Uno", got.Product)

	_, ok = Find(ports, "COM9")
	require.False(t, ok)
}
