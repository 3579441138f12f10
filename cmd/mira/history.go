package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sandevgo/mira/internal/core"
	"github.com/sandevgo/mira/internal/service/ui"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse and manage conversation history",
}

var historyShowCmd = &cobra.Command{
	Use:          "show",
	Short:        "Show the most recent turns",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		ctx, cancel := context.WithCancel(ctx)
		eng, services := newEngine(ctx)
		defer stopServices(ctx, cancel, services)

		window, err := eng.assembler.Window(ctx, activePersona(eng.appCfg), historyLimit)
		if err != nil {
			return err
		}
		if len(window.Turns) == 0 {
			fmt.Println("no history yet")
			return nil
		}

		for _, t := range window.Turns {
			label := ui.UserStyle.Render(string(t.Role))
			if t.Role == core.RoleAssistant {
				label = ui.PersonaStyle.Render(string(t.Role))
			}
			marker := ""
			if t.Important {
				marker = " ★"
			}
			fmt.Printf("#%-4d %s%s  %s\n", t.ID, label, marker, t.Content)
		}
		fmt.Println(ui.DescStyle.Render(fmt.Sprintf("~%d tokens", window.EstimatedTokens)))
		return nil
	},
}

var historyMarkCmd = &cobra.Command{
	Use:          "mark <id>",
	Short:        "Mark a turn as important",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return flagTurn(cmd, args[0], func(ctx context.Context, eng *engine, id int64) error {
			return eng.turns.MarkImportant(ctx, id, true)
		}, "marked #%d important\n")
	},
}

var historyRmCmd = &cobra.Command{
	Use:          "rm <id>",
	Short:        "Hide a turn from context assembly",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return flagTurn(cmd, args[0], func(ctx context.Context, eng *engine, id int64) error {
			return eng.turns.MarkDeleted(ctx, id)
		}, "hid #%d\n")
	},
}

func flagTurn(cmd *cobra.Command, rawID string, op func(context.Context, *engine, int64) error, okFormat string) error {
	ctx, flushLog := setupLogger(cmd.Context())
	defer flushLog()

	ctx, cancel := context.WithCancel(ctx)
	eng, services := newEngine(ctx)
	defer stopServices(ctx, cancel, services)

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q", rawID)
	}
	if err := op(ctx, eng, id); err != nil {
		return err
	}
	fmt.Printf(okFormat, id)
	return nil
}

func init() {
	historyCmd.PersistentFlags().IntVarP(&historyLimit, "limit", "n", 20, "turns to show")
	historyCmd.AddCommand(historyShowCmd, historyMarkCmd, historyRmCmd)
	rootCmd.AddCommand(historyCmd)
}
