package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hrsaathi/internal/config"
	"hrsaathi/internal/dispatch"
	"hrsaathi/internal/logging"
	"hrsaathi/internal/perception"
	"hrsaathi/internal/pipeline"
	"hrsaathi/internal/session"
	"hrsaathi/internal/types"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// resolve flags
	userID  string
	nowFlag string
	dryRun  bool

	cfg config.Config
	log *zap.Logger
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "hrsaathi",
	Short: "hrsaathi - Hinglish HR request resolver",
	Long: `hrsaathi turns free-form Hindi/English/Hinglish employee messages into
structured HR requests (leave, gate pass, missed punch, balance queries)
and submits them to the HR backend.

Date and time facts are resolved deterministically from the message text;
an optional LLM only enriches the intent and can never rewrite dates.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.Init(verbose); err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}
		log = logging.For(logging.CategoryPipeline)

		path := configPath
		if path == "" {
			path = config.DefaultPath()
		}
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

// resolveCmd processes one message end to end.
var resolveCmd = &cobra.Command{
	Use:   "resolve [message]",
	Short: "Resolve a message into an HR action and submit it",
	Long: `Resolve reads an employee message (from arguments or stdin), resolves it
into an action record, and submits it to the HR backend.

Use --now to pin the reference clock for reproducible date resolution,
and --dry-run to print the record without submitting.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.TrimSpace(strings.Join(args, " "))
		if text == "" {
			scanner := bufio.NewScanner(os.Stdin)
			if scanner.Scan() {
				text = strings.TrimSpace(scanner.Text())
			}
		}
		if text == "" {
			return fmt.Errorf("no message given")
		}

		if !dryRun {
			if err := cfg.Validate(); err != nil {
				return err
			}
		}

		now := time.Now()
		if nowFlag != "" {
			parsed, err := time.Parse(time.RFC3339, nowFlag)
			if err != nil {
				return fmt.Errorf("invalid --now value: %w", err)
			}
			now = parsed
		}

		ctx := cmd.Context()
		p := pipeline.New(buildExtractor(ctx), session.NewStore(), buildDispatcher())

		res, err := p.Resolve(ctx, types.RawMessage{
			Text:       text,
			UserID:     userID,
			ReceivedAt: now,
		})
		if err != nil {
			return err
		}

		fmt.Println(res.Reply)
		if verbose || dryRun {
			printRecord(res.Record)
		}
		return nil
	},
}

// configCmd manages the config file.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = config.DefaultPath()
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists at %s", path)
		}
		if err := config.DefaultConfig().Save(path); err != nil {
			return err
		}
		fmt.Printf("Wrote default config to %s\n", path)
		return nil
	},
}

// buildExtractor picks the extraction layer from config. Misconfiguration
// degrades to the deterministic layer rather than failing startup.
func buildExtractor(ctx context.Context) perception.TextExtractor {
	switch cfg.LLM.Provider {
	case "gemini":
		if cfg.LLM.APIKey == "" {
			log.Debug("no Gemini API key, extraction disabled")
			return perception.Unavailable{}
		}
		client, err := perception.NewGeminiClient(ctx, cfg.LLM.APIKey, cfg.LLM.Model)
		if err != nil {
			log.Warn("Gemini client unavailable", zap.Error(err))
			return perception.Unavailable{}
		}
		return perception.NewLLMExtractor(client, cfg.LLMTimeout())
	case "openai":
		if cfg.LLM.APIKey == "" {
			return perception.Unavailable{}
		}
		chatCfg := perception.DefaultChatConfig(cfg.LLM.APIKey)
		if cfg.LLM.Model != "" {
			chatCfg.Model = cfg.LLM.Model
		}
		if cfg.LLM.BaseURL != "" {
			chatCfg.BaseURL = cfg.LLM.BaseURL
		}
		chatCfg.Timeout = cfg.LLMTimeout()
		return perception.NewLLMExtractor(perception.NewChatClientWithConfig(chatCfg), cfg.LLMTimeout())
	default:
		return perception.Unavailable{}
	}
}

func buildDispatcher() pipeline.ActionDispatcher {
	if dryRun {
		return dryRunDispatcher{}
	}
	return dispatch.NewDispatcher(dispatch.NewClient(dispatch.Config{
		BaseURL: cfg.Backend.BaseURL,
		Token:   cfg.Backend.Token,
		Timeout: cfg.BackendTimeout(),
	}))
}

// dryRunDispatcher reports success without touching the backend.
type dryRunDispatcher struct{}

func (dryRunDispatcher) Dispatch(ctx context.Context, rec types.ActionRecord) (dispatch.Result, error) {
	return dispatch.Result{OK: true, Summary: fmt.Sprintf("dry run: %s not submitted", rec.Task)}, nil
}

func printRecord(rec types.ActionRecord) {
	fmt.Printf("  task:       %s\n", rec.Task)
	fmt.Printf("  dates:      %s - %s\n", types.FormatDate(rec.Start), types.FormatDate(rec.End))
	if rec.Task.NeedsTimes() {
		fmt.Printf("  times:      in=%s out=%s kind=%s\n", rec.InTime, rec.OutTime, rec.PunchKind)
	}
	if rec.LeaveType != types.LeaveUnset {
		fmt.Printf("  leave_type: %s\n", rec.LeaveType)
	}
	if rec.Reason != "" {
		fmt.Printf("  reason:     %s\n", rec.Reason)
	}
	if rec.Evidence != "" {
		fmt.Printf("  evidence:   %q\n", rec.Evidence)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")

	resolveCmd.Flags().StringVarP(&userID, "user", "u", "", "employee identifier")
	resolveCmd.Flags().StringVar(&nowFlag, "now", "", "reference instant (RFC3339) for date resolution")
	resolveCmd.Flags().BoolVar(&dryRun, "dry-run", false, "resolve without submitting to the backend")
	_ = resolveCmd.MarkFlagRequired("user")

	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(resolveCmd, configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
