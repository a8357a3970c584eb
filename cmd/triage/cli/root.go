package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/deepnoodle-ai/triage"
	"github.com/deepnoodle-ai/triage/config"
	"github.com/deepnoodle-ai/triage/llm"
	"github.com/deepnoodle-ai/triage/log"
	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "dev"

var (
	configPath  string
	llmProvider string
	llmModel    string
	logLevel    string
)

// newClient builds the completion client for a loaded config. Tests replace
// it with a scripted client.
var newClient = func(ctx context.Context, cfg *config.Config, logger log.Logger) (llm.Client, error) {
	return cfg.NewClient(ctx, logger)
}

var rootCmd = &cobra.Command{
	Use:   "triage",
	Short: "Classify customer support emails with different prompting techniques",
	Long: `Triage classifies customer support emails into Billing Issue, Technical
Problem, Feature Request, Sales or General Inquiry using a hosted
language model. Each command picks one of three prompting techniques:
zero-shot, few-shot or chain-of-thought.

Credentials are read from the provider's environment variable, for example
GROQ_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY or GEMINI_API_KEY.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "Path to a YAML or JSON config file")
	flags.StringVar(&llmProvider, "provider", "", "Provider to use (groq, openai, anthropic, google)")
	flags.StringVarP(&llmModel, "model", "m", "", "Model to use (defaults to the provider's default)")
	flags.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error, none)")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	rootCmd.Version = Version
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Sprint("Error: "+err.Error()))
		stop()
		os.Exit(1)
	}
}

// session bundles what a command needs to classify emails.
type session struct {
	config     *config.Config
	logger     log.Logger
	client     llm.Client
	classifier *triage.Classifier
}

// loadConfig reads the config file and applies the global flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if llmProvider != "" {
		cfg.Provider = llmProvider
	}
	if llmModel != "" {
		cfg.Model = llmModel
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newSession(ctx context.Context) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	level := log.LevelFromString(cfg.LogLevel)
	log.SetDefaultLevel(level)
	logger := log.New(level)
	client, err := newClient(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("client ready", "provider", llm.NameOf(client), "model", cfg.Model)
	return &session{
		config:     cfg,
		logger:     logger,
		client:     client,
		classifier: triage.New(client, cfg.ClassifierOptions(logger)...),
	}, nil
}
