package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sandevgo/mira/internal/core"
	"github.com/sandevgo/mira/internal/service/ui"
)

var (
	memCategory   string
	memImportance int
)

var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Inspect and manage what the persona remembers",
}

var memoryListCmd = &cobra.Command{
	Use:          "list",
	Short:        "List stored memories",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		ctx, cancel := context.WithCancel(ctx)
		eng, services := newEngine(ctx)
		defer stopServices(ctx, cancel, services)

		filter := core.MemoryFilter{MinImportance: memImportance}
		if memCategory != "" {
			c := core.MemoryCategory(memCategory)
			if !c.Valid() {
				return fmt.Errorf("unknown category %q (valid: %v)", memCategory, core.Categories())
			}
			filter.Category = c
		}

		memories, err := eng.memories.List(ctx, activePersona(eng.appCfg), filter)
		if err != nil {
			return err
		}
		if len(memories) == 0 {
			fmt.Println("no memories yet")
			return nil
		}
		for _, m := range memories {
			printMemory(m)
		}
		return nil
	},
}

var memorySearchCmd = &cobra.Command{
	Use:          "search <query>",
	Short:        "Search memories by substring",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		ctx, cancel := context.WithCancel(ctx)
		eng, services := newEngine(ctx)
		defer stopServices(ctx, cancel, services)

		memories, err := eng.memories.Search(ctx, activePersona(eng.appCfg), args[0], 20)
		if err != nil {
			return err
		}
		if len(memories) == 0 {
			fmt.Println("no matches")
			return nil
		}
		for _, m := range memories {
			printMemory(m)
		}
		return nil
	},
}

var memoryAddCmd = &cobra.Command{
	Use:          "add <fact>",
	Short:        "Store a memory by hand",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		ctx, cancel := context.WithCancel(ctx)
		eng, services := newEngine(ctx)
		defer stopServices(ctx, cancel, services)

		m := core.Memory{
			PersonaID:  activePersona(eng.appCfg),
			Category:   core.MemoryCategory(memCategory),
			Value:      args[0],
			Importance: memImportance,
		}
		if err := eng.memories.Remember(ctx, &m); err != nil {
			return err
		}
		fmt.Printf("remembered #%d\n", m.ID)
		return nil
	},
}

var memoryRmCmd = &cobra.Command{
	Use:          "rm <id>",
	Short:        "Delete a memory",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		ctx, cancel := context.WithCancel(ctx)
		eng, services := newEngine(ctx)
		defer stopServices(ctx, cancel, services)

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", args[0])
		}
		if err := eng.memories.Forget(ctx, id); err != nil {
			return err
		}
		fmt.Printf("forgot #%d\n", id)
		return nil
	},
}

func printMemory(m core.Memory) {
	line := fmt.Sprintf("#%-4d %-13s %d★  %s", m.ID, m.Category, m.Importance, m.Value)
	fmt.Println(line)
	if m.Context != "" {
		fmt.Println(ui.DescStyle.Render(fmt.Sprintf("      from: %q", m.Context)))
	}
}

func init() {
	memoryCmd.PersistentFlags().StringVarP(&memCategory, "category", "c", "", "memory category filter")
	memoryCmd.PersistentFlags().IntVarP(&memImportance, "importance", "i", 0, "minimum importance (list) or importance to set (add)")

	memoryCmd.AddCommand(memoryListCmd, memorySearchCmd, memoryAddCmd, memoryRmCmd)
	rootCmd.AddCommand(memoryCmd)
}
