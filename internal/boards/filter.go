package boards

import "github.com/buckleypaul/boardcheck/internal/serial"

// FilterPresent splits boards into those whose serial address is among ports
// and those whose is not. Boards on non-serial protocols (e.g. network) are
// always kept.
func FilterPresent(boards []Board, ports []serial.PortInfo) (present, missing []Board) {
	for _, b := range boards {
		if b.Protocol != "" && b.Protocol != "serial" {
			present = append(present, b)
			continue
		}
		if _, ok := serial.Find(ports, b.Address); ok {
			present = append(present, b)
		} else {
			missing = append(missing, b)
		}
	}
	return present, missing
}
