package boards

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/buckleypaul/boardcheck/internal/serial"
)

func TestFilterPresent(t *testing.T) {
	uno := Board{FQBN: "arduino:avr:uno", Address: "/dev/ttyACM0", Protocol: "serial"}
	gone := Board{FQBN: "arduino:avr:mega", Address: "/dev/ttyACM9"}
	network := Board{FQBN: "esp32:esp32:esp32", Address: "192.168.1.20", Protocol: "network"}

	ports := []serial.PortInfo{{Name: "/dev/ttyACM0", IsUSB: true}}

	present, missing := FilterPresent([]Board{uno, gone, network}, ports)
	require.Equal(t, []Board{uno, network}, present)
	require.Equal(t, []Board{gone}, missing)
}
