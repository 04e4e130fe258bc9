package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/inamate/rectboard/internal/auth"
	"github.com/inamate/rectboard/internal/board"
)

func replayCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Apply a JSON array of operations from stdin to a fresh board and print its state",
		RunE: func(cmd *cobra.Command, args []string) error {
			var ops []board.Operation
			if err := json.NewDecoder(cmd.InOrStdin()).Decode(&ops); err != nil {
				return fmt.Errorf("decode operations: %w", err)
			}

			boards := board.NewService(auth.NewService(cfg.TokenSecret), engineOptions())
			created, err := boards.Create()
			if err != nil {
				return err
			}
			b, err := boards.Get(created.ID)
			if err != nil {
				return err
			}

			for i, op := range ops {
				if _, _, err := b.ApplyOperation(op); err != nil {
					if strict {
						return fmt.Errorf("operation %d (%s): %w", i, op.Type, err)
					}
					slog.Warn("operation failed", "index", i, "type", op.Type, "error", err)
				}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(b.State())
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "stop at the first failing operation")
	return cmd
}
