package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/guru-ai/coursechat/backend/internal/app"
	"github.com/guru-ai/coursechat/backend/internal/config"
	"github.com/guru-ai/coursechat/backend/internal/logger"
	"github.com/guru-ai/coursechat/backend/internal/model/chat"
	chatService "github.com/guru-ai/coursechat/backend/internal/service/chat"
)

var (
	dataDir  string
	logLevel string
	reset    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "chatcli",
		Short: "Terminal client for the course-selection chat widget",
		RunE:  runChat,
	}

	home, _ := os.UserHomeDir()
	rootCmd.Flags().StringVarP(&dataDir, "data", "d", filepath.Join(home, ".coursechat"), "directory of the local profile store")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "error", "log level (debug, info, warn, error)")
	rootCmd.Flags().BoolVar(&reset, "reset", false, "start the conversation over")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runChat(cmd *cobra.Command, _ []string) error {
	_ = godotenv.Load()
	if err := logger.Init(logLevel); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg.Storage.Path = dataDir

	ctx := cmd.Context()
	store, closer, err := app.OpenStore(cfg.Storage)
	if err != nil {
		return err
	}
	defer closer.Close()

	replier, err := app.NewReplier(ctx, cfg, nil)
	if err != nil {
		return err
	}

	widget, err := chatService.NewWidget(ctx, store, replier, chatService.Options{Greeting: cfg.Greeting})
	if err != nil {
		return err
	}
	if reset {
		if err := widget.Reset(ctx); err != nil {
			return err
		}
	}
	logger.Log.Debug("chatcli_started", zap.String("session", widget.SessionID()))

	out := cmd.OutOrStdout()
	state, events, unsubscribe := widget.Watch()
	for _, msg := range state.Messages {
		render(out, msg)
	}

	rendered := make(chan struct{})
	go func() {
		defer close(rendered)
		for ev := range events {
			switch ev.Type {
			case chatService.EventMessage:
				if ev.Message.Sender == chat.SenderBot {
					render(out, *ev.Message)
				}
			case chatService.EventTyping:
				if ev.Typing {
					fmt.Fprintln(out, "  … печатает")
				}
			}
		}
	}()

	var pending sync.WaitGroup
	readInput(ctx, cmd.InOrStdin(), func(text string) {
		pending.Add(1)
		go func() {
			defer pending.Done()
			widget.Submit(ctx, text)
		}()
	})

	pending.Wait()
	unsubscribe()
	<-rendered
	return nil
}

// readInput calls submit for every entered message. A line ending in a
// backslash continues the message on the next line.
func readInput(ctx context.Context, in io.Reader, submit func(text string)) {
	scanner := bufio.NewScanner(in)
	var buf strings.Builder
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := scanner.Text()
		if strings.HasSuffix(line, `\`) {
			buf.WriteString(strings.TrimSuffix(line, `\`))
			buf.WriteString("\n")
			continue
		}
		buf.WriteString(line)
		text := buf.String()
		buf.Reset()
		if chat.IsBlank(text) {
			continue
		}
		submit(text)
	}
	if rest := buf.String(); !chat.IsBlank(rest) {
		submit(strings.TrimSuffix(rest, "\n"))
	}
}

func render(out io.Writer, msg chat.Message) {
	label := "Бот"
	if msg.Sender == chat.SenderUser {
		label = "Вы"
	}
	lines := strings.Split(msg.Text, "\n")
	fmt.Fprintf(out, "[%s] %s\n", label, lines[0])
	for _, l := range lines[1:] {
		fmt.Fprintf(out, "     %s\n", l)
	}
}
