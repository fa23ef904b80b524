package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/valentinclaes/chat-wrap/internal/archive"
	"github.com/valentinclaes/chat-wrap/internal/config"
	"github.com/valentinclaes/chat-wrap/internal/gitsync"
	"github.com/valentinclaes/chat-wrap/internal/mcpserver"
	"github.com/valentinclaes/chat-wrap/internal/notify"
	"github.com/valentinclaes/chat-wrap/internal/report"
	"github.com/valentinclaes/chat-wrap/internal/wrap"
)

const version = "0.3.0"

var rootCmd = &cobra.Command{
	Use:           "chatwrap",
	Short:         "chatwrap - year in review for your ChatGPT export",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <export>",
	Short: "Print the wrap statistics of an export as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

var cardCmd = &cobra.Command{
	Use:   "card <export>",
	Short: "Print the shareable wrap summary",
	Args:  cobra.ExactArgs(1),
	RunE:  runCard,
}

var reportCmd = &cobra.Command{
	Use:   "report <export>",
	Short: "Write the wrap note into the Obsidian vault",
	Args:  cobra.ExactArgs(1),
	RunE:  runReport,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve wrap tools over MCP (stdio)",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var (
	verboseFlag bool
	tzFlag      string
	forceFlag   bool
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Debug logging on stderr")
	rootCmd.PersistentFlags().StringVar(&tzFlag, "tz", "", "IANA timezone for bucketing timestamps (default: config, then local)")
	reportCmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "Rewrite the note even if it was written today")
	rootCmd.AddCommand(analyzeCmd, cardCmd, reportCmd, serveCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "chatwrap: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if verboseFlag {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadConfig reads the config and applies --tz.
func loadConfig() (config.Config, *time.Location, error) {
	cfg := config.Load()
	if tzFlag != "" {
		if _, err := time.LoadLocation(tzFlag); err != nil {
			return cfg, nil, fmt.Errorf("unknown timezone %q", tzFlag)
		}
		cfg.Timezone = tzFlag
	}
	return cfg, cfg.Location(), nil
}

func analyzeExport(path string, loc *time.Location, log *slog.Logger) (wrap.Analytics, error) {
	convs, err := archive.LoadFile(path)
	if err != nil {
		return wrap.Analytics{}, fmt.Errorf("could not read export: %w", err)
	}
	log.Debug("loaded export", "path", path, "conversations", len(convs), "tz", loc.String())
	return wrap.Analyze(convs, loc), nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	log := newLogger(cmd.ErrOrStderr())
	_, loc, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := analyzeExport(args[0], loc, log)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(a)
}

func runCard(cmd *cobra.Command, args []string) error {
	log := newLogger(cmd.ErrOrStderr())
	_, loc, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := analyzeExport(args[0], loc, log)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), report.ShareCard(a))
	return nil
}

func runReport(cmd *cobra.Command, args []string) error {
	log := newLogger(cmd.ErrOrStderr())
	cfg, loc, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := analyzeExport(args[0], loc, log)
	if err != nil {
		return err
	}

	now := time.Now().In(loc)
	vault := report.VaultDir(cfg)
	path, written, err := report.WriteWrap(vault, a, now, forceFlag, log)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if !written {
		fmt.Fprintf(out, "%s is up to date (use --force to rewrite)\n", path)
		return nil
	}
	fmt.Fprintf(out, "Wrote %s\n", path)
	if err := report.RebuildIndex(vault); err != nil {
		log.Warn("wrap index not rebuilt", "err", err)
	}

	year := report.Year(a, now)
	if cfg.GitAutoPush {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		res, err := gitsync.Sync(ctx, vault, fmt.Sprintf("chatwrap: wrap %d", year), log)
		switch {
		case err != nil:
			log.Warn("vault sync skipped", "err", err)
		case res.Pushed:
			fmt.Fprintf(out, "Pushed %s\n", res.Hash)
		case res.Committed:
			fmt.Fprintf(out, "Committed %s (not pushed)\n", res.Hash)
		}
	}

	notify.New(cfg, log).Send("Your ChatGPT wrap is ready", fmt.Sprintf("%d: %s", year, a.PersonalityType))
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	// stdout carries the protocol; logs go to stderr only.
	log := newLogger(os.Stderr)
	_, loc, err := loadConfig()
	if err != nil {
		return err
	}
	log.Debug("serving mcp", "version", version, "tz", loc.String())
	return mcpserver.New(version, loc, log).Serve()
}
