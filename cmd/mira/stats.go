package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sandevgo/mira/internal/core"
	"github.com/sandevgo/mira/internal/service/emotion"
	"github.com/sandevgo/mira/internal/service/ui"
)

// emotionTrendWindow is how many recent user turns feed the mood trend.
const emotionTrendWindow = 50

var statsCmd = &cobra.Command{
	Use:          "stats",
	Short:        "Show conversation statistics and mood trend",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		ctx, cancel := context.WithCancel(ctx)
		eng, services := newEngine(ctx)
		defer stopServices(ctx, cancel, services)

		id := activePersona(eng.appCfg)

		stats, err := eng.assembler.Stats(ctx, id)
		if err != nil {
			return err
		}

		fmt.Println(ui.TitleStyle.Render("Conversation"))
		fmt.Printf("  turns:      %d (user %d, assistant %d)\n",
			stats.TotalTurns, stats.ByRole[core.RoleUser], stats.ByRole[core.RoleAssistant])
		fmt.Printf("  avg length: %d chars\n", stats.AvgChars)
		fmt.Printf("  est tokens: %d\n", stats.EstimatedTokens)
		fmt.Printf("  span:       %d days\n", stats.SpanDays)

		series, err := eng.turns.EmotionSeries(ctx, id, emotionTrendWindow)
		if err != nil {
			return err
		}
		trend := emotion.Trend(series)

		fmt.Println(ui.TitleStyle.Render("Mood"))
		fmt.Printf("  dominant:  %s\n", trend.Dominant)
		fmt.Printf("  trend:     %s\n", trend.Trend)
		fmt.Printf("  dispersion-from-uniform score: %.2f\n", trend.Stability)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
