package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hanbyul/triago/internal/config"
	"github.com/hanbyul/triago/internal/logger"
	"github.com/hanbyul/triago/pkg/agent"
	"github.com/hanbyul/triago/pkg/chat"
	"github.com/hanbyul/triago/pkg/httpapi"
	"github.com/hanbyul/triago/pkg/profile"
	"github.com/hanbyul/triago/pkg/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the chat API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	cfg, err := config.NewLoader(cfgFile).Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	lg, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		File:   cfg.Logging.File,
		Pretty: cfg.Logging.Pretty,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer lg.Close()
	zl := lg.Zerolog()

	// One store per process; the selector decides redis vs in-memory.
	st := store.Select(store.Config{
		URL:          cfg.Redis.URL,
		DialTimeout:  cfg.Redis.DialTimeoutDuration(),
		ReadTimeout:  cfg.Redis.ReadTimeoutDuration(),
		WriteTimeout: cfg.Redis.WriteTimeoutDuration(),
	}, zl)
	defer st.Close()

	provider, err := agent.NewProvider(agent.ProviderConfig{
		Provider: cfg.AI.Provider,
		APIKey:   cfg.AI.APIKey,
	})
	if err != nil {
		return fmt.Errorf("failed to create LLM provider: %w", err)
	}

	registry, err := profile.BuildRegistry(provider, profile.Models{
		Agent:     cfg.AI.Model,
		Guardrail: cfg.AI.GuardrailModel,
	})
	if err != nil {
		return fmt.Errorf("failed to build agent registry: %w", err)
	}

	runner, err := agent.NewRunner(agent.RunnerConfig{
		Registry:      registry,
		Provider:      provider,
		Logger:        zl,
		MaxIterations: cfg.AI.MaxIterations,
	})
	if err != nil {
		return fmt.Errorf("failed to create agent runner: %w", err)
	}

	orchestrator, err := chat.New(chat.Config{
		Store:        st,
		Runtime:      runner,
		Registry:     registry,
		DefaultAgent: profile.TriageAgent,
		NewContext:   func() map[string]string { return profile.NewContext().ToMap() },
		Logger:       zl,
	})
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}

	server, err := httpapi.NewServer(httpapi.Options{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, orchestrator, zl)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		zl.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		return server.Stop()
	case err := <-errCh:
		return err
	}
}
