package harness

import (
	"context"
	"fmt"

	"github.com/buckleypaul/boardcheck/internal/boards"
	"github.com/buckleypaul/boardcheck/internal/cli"
)

// ResolveBoards returns the boards to test. A fixture file takes precedence;
// otherwise the index is refreshed so boards can be identified, and the CLI
// is asked for the attached boards.
func ResolveBoards(ctx context.Context, r cli.Runner, boardsFile string) ([]boards.Board, error) {
	if boardsFile != "" {
		return boards.LoadFile(boardsFile)
	}
	if _, err := cli.Capture(ctx, r, cli.UpdateIndexArgs()...); err != nil {
		return nil, fmt.Errorf("update index: %w", err)
	}
	return boards.Detect(ctx, r)
}
