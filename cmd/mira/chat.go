package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sandevgo/mira/internal/service/ui"
	"github.com/sandevgo/mira/pkg/conv"
	"github.com/sandevgo/mira/pkg/log"
	"github.com/sandevgo/mira/pkg/srv"
)

var chatCmd = &cobra.Command{
	Use:           "chat",
	Short:         "Chat with your persona in the terminal",
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		eng, services := newEngine(ctx)
		srv.StartServices(ctx, services)
		defer stopServices(ctx, stop, services)

		id := activePersona(eng.appCfg)
		p, err := eng.personas.Get(ctx, id)
		if err != nil {
			return err
		}

		fmt.Printf("%s\n", ui.TitleStyle.Render(fmt.Sprintf("Chatting with %s (type /quit to leave)", p.Name)))

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print(ui.UserStyle.Render("you") + " > ")
			if !scanner.Scan() {
				break
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if line == "/quit" || line == "/exit" {
				break
			}

			reply, err := eng.orchestrator.Respond(ctx, id, line)
			if err != nil {
				fmt.Println(ui.ErrorStyle.Render("generation failed: " + err.Error()))
				continue
			}

			rendered := conv.MarkdownToText([]byte(reply.Content))
			fmt.Printf("%s %s\n", ui.PersonaStyle.Render(p.Name+" >"), rendered)
			if debug {
				fmt.Println(ui.EmotionStyle.Render(fmt.Sprintf(
					"[%s %.0f%% | memories %d | context %d | %dms]",
					reply.Emotion.Primary,
					reply.Emotion.Confidence*100,
					reply.Meta.MemoriesUsed,
					reply.Meta.ContextTurns,
					reply.Meta.LatencyMS,
				)))
			}
		}

		log.FromCtx(ctx).Info().Msg("chat session ended")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
