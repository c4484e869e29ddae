package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vislam/haloc/pkg/cli"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch <scratch-dir>",
	Short: "Tail a FileFeatureStore scratch directory as an engine ingests nodes",
	Long: `Polls a FileFeatureStore scratch directory and renders a live view of
newly appeared node records plus a scrolling event log.

This is a read-only monitor for a separate, already-running process
that owns the engine; halocctl never calls SetNode or GetLoopClosure
itself, since the engine is single-threaded and not reentrant.
Press Ctrl+C to stop.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch(cmd.Context(), args[0], watchInterval)
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 500*time.Millisecond, "poll interval")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(ctx context.Context, dir string, interval time.Duration) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := cli.NewLogWriter(200)
	fmt.Fprintf(log, "watching %s", dir)

	styles := cli.NewStyles(cli.DefaultTheme)
	seen := make(map[string]bool)
	var nodeLines []string
	start := time.Now()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	render := func() {
		frame := cli.Frame{
			Styles: styles,
			Title:  "halocctl watch",
			Status: dir + " | " + cli.FormatDuration(int(time.Since(start).Milliseconds())),
			Sections: []cli.Section{
				{Label: "nodes", Content: func() []string { return nodeLines }},
				{Label: "log", Content: log.Lines},
			},
			Help: "ctrl+c to quit",
		}
		fmt.Print("\033[H\033[2J")
		fmt.Println(frame.Render(100, 30))
	}

	poll := func() {
		entries, err := os.ReadDir(dir)
		if err != nil {
			fmt.Fprintf(log, "read dir: %v", err)
			return
		}
		var names []string
		for _, e := range entries {
			if !e.IsDir() {
				names = append(names, e.Name())
			}
		}
		sort.Strings(names)
		for _, name := range names {
			if seen[name] {
				continue
			}
			seen[name] = true
			fmt.Fprintf(log, "new node record: %s", name)
			nodeLines = append(nodeLines, filepath.Base(name))
		}
	}

	poll()
	render()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			poll()
			render()
		}
	}
}
