package main

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/buckleypaul/boardcheck/internal/boards"
	"github.com/buckleypaul/boardcheck/internal/harness"
	"github.com/buckleypaul/boardcheck/internal/serial"
	"github.com/buckleypaul/boardcheck/internal/ui"
)

func newBoardsCmd() *cobra.Command {
	var save string
	cmd := &cobra.Command{
		Use:   "boards",
		Short: "List the boards a run would test",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := loadConfig()
			dir, err := dataDir()
			if err != nil {
				return errWithCode(err, exitError)
			}
			runner, err := newRunner(cfg, dir)
			if err != nil {
				return errWithCode(err, exitError)
			}
			found, err := harness.ResolveBoards(cmd.Context(), runner, cfg.BoardsFile)
			if err != nil {
				return errWithCode(err, exitError)
			}
			if save != "" {
				if err := boards.SaveFile(save, found); err != nil {
					return errWithCode(fmt.Errorf("save boards: %w", err), exitError)
				}
				slog.Info("saved board fixtures", "path", save, "boards", len(found))
			}
			if opts.JSON {
				return printJSON(found)
			}
			fmt.Print(ui.RenderBoards(found))
			return nil
		},
	}
	cmd.Flags().StringVar(&save, "save", "", "Write the boards to a YAML fixture file usable with --boards")
	return cmd
}

func newPortsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ports",
		Short: "List serial ports",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ports, err := serial.ListPorts()
			if err != nil {
				return errWithCode(fmt.Errorf("list serial ports: %w", err), exitError)
			}
			if opts.JSON {
				return printJSON(ports)
			}
			fmt.Print(ui.RenderPorts(ports))
			return nil
		},
	}
}

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show recorded runs",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			st, err := openStore()
			if err != nil {
				return errWithCode(err, exitError)
			}
			runs, err := st.Runs()
			if err != nil {
				return errWithCode(fmt.Errorf("read history: %w", err), exitError)
			}
			if opts.JSON {
				return printJSON(runs)
			}
			fmt.Print(ui.RenderHistory(runs))
			return nil
		},
	}
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errWithCode(fmt.Errorf("marshaling json output: %w", err), exitError)
	}
	fmt.Println(string(data))
	return nil
}
