package boards

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/buckleypaul/boardcheck/internal/cli"
)

type detectedBoard struct {
	Name string `json:"name"`
	FQBN string `json:"fqbn"`
}

type detectedPort struct {
	Address  string          `json:"address"`
	Protocol string          `json:"protocol"`
	Boards   []detectedBoard `json:"boards"`

	// Newer CLI releases nest the port and rename the board list.
	Port           *detectedPort   `json:"port"`
	MatchingBoards []detectedBoard `json:"matching_boards"`
}

type detectedList struct {
	DetectedPorts []detectedPort `json:"detected_ports"`
}

// ParseBoardList decodes the output of `board list --format json`. Ports
// with no identified board are dropped.
func ParseBoardList(data []byte) ([]Board, error) {
	var ports []detectedPort
	if err := json.Unmarshal(data, &ports); err != nil {
		var list detectedList
		if err2 := json.Unmarshal(data, &list); err2 != nil {
			return nil, fmt.Errorf("decode board list: %w", err)
		}
		ports = list.DetectedPorts
	}

	var result []Board
	for _, p := range ports {
		address, protocol := p.Address, p.Protocol
		if p.Port != nil {
			address, protocol = p.Port.Address, p.Port.Protocol
		}
		for _, db := range append(p.Boards, p.MatchingBoards...) {
			if db.FQBN == "" {
				continue
			}
			b := Board{
				Name:     db.Name,
				FQBN:     db.FQBN,
				Address:  address,
				Protocol: protocol,
			}
			core, err := b.CoreID()
			if err != nil {
				slog.Warn("skipping board with malformed FQBN", "fqbn", db.FQBN, "address", address, "err", err)
				continue
			}
			b.Core = core
			result = append(result, b)
		}
	}
	return result, nil
}

// Detect asks the CLI for attached boards.
func Detect(ctx context.Context, r cli.Runner) ([]Board, error) {
	out, err := cli.Capture(ctx, r, cli.BoardListArgs()...)
	if err != nil {
		return nil, fmt.Errorf("board list: %w", err)
	}
	found, err := ParseBoardList([]byte(out))
	if err != nil {
		return nil, err
	}
	slog.Info("detected boards", "count", len(found))
	return found, nil
}
