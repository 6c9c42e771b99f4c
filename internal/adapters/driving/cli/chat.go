package cli

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	source "github.com/sibyl-labs/sibyl-cli/internal/adapters/driven/source/file"
	"github.com/sibyl-labs/sibyl-cli/internal/adapters/driving/tui"
	"github.com/sibyl-labs/sibyl-cli/internal/logger"
)

var chatWatch bool

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Launch the interactive chat interface",
	Long: `Launch the interactive chat terminal interface.

Controls:
  Enter      - Send question
  PgUp/PgDn  - Scroll the transcript
  Esc        - Quit

With --watch, the configured snapshot file is watched and the corpus
is re-indexed whenever it changes.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().BoolVar(&chatWatch, "watch", false, "re-index when the snapshot file changes")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	// Panic recovery to get stack traces out of the alternate screen
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in chat: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if err := ensureServices(); err != nil {
		return err
	}
	if err := prepareCorpus(cmd); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if chatWatch {
		stop, err := watchSnapshot(ctx, snapshotSource().Path())
		if err != nil {
			return fmt.Errorf("watching snapshot: %w", err)
		}
		defer stop()
	}

	ports := &tui.Ports{Assistant: assistantService}
	return tui.Run(ctx, ports, config().Product)
}

// watchSnapshot re-indexes the corpus whenever the snapshot file is
// rewritten. The returned stop function closes the watcher.
func watchSnapshot(ctx context.Context, path string) (func(), error) {
	reload := func() {
		docs, err := source.New(path).Load(ctx)
		if err != nil {
			logger.Warn("Reloading snapshot: %v", err)
			return
		}
		if len(docs) == 0 {
			logger.Warn("Snapshot %s is empty, keeping current corpus", path)
			return
		}
		if err := assistantService.Index(ctx, docs); err != nil {
			logger.Warn("Re-indexing: %v", err)
		}
	}

	watcher, err := source.NewWatcher(path, reload)
	if err != nil {
		return nil, err
	}

	go func() {
		if err := watcher.Run(ctx); err != nil {
			logger.Warn("Snapshot watcher stopped: %v", err)
		}
	}()

	return func() {
		if err := watcher.Close(); err != nil {
			logger.Warn("Closing watcher: %v", err)
		}
	}, nil
}
