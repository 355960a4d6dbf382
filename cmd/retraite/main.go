// Command retraite estimates Swiss retirement income (state pension and occupational
// pension) and proposes buy-back scenarios, from the command line or as an HTTP service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/maretraitesuisse/simulator/internal/api"
	"github.com/maretraitesuisse/simulator/internal/calculation"
	"github.com/maretraitesuisse/simulator/internal/config"
	"github.com/maretraitesuisse/simulator/internal/domain"
	"github.com/maretraitesuisse/simulator/internal/output"
	"github.com/maretraitesuisse/simulator/internal/scheduler"
	"github.com/maretraitesuisse/simulator/internal/storage"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var (
	settings *config.Settings
	logger   calculation.Logger = calculation.NopLogger{}
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "retraite",
	Short: "Swiss retirement income simulator",
	Long: `retraite estimates the monthly retirement income of a person living in
Switzerland from the state pension (AVS, first pillar) and the occupational
pension (LPP, second pillar), and compares buy-back scenarios that close
contribution gaps.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configFile, _ := cmd.Flags().GetString("config")
		s, err := config.LoadSettings(configFile)
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}
		settings = s

		level := settings.Logging.Level
		if override, _ := cmd.Flags().GetString("log-level"); override != "" {
			level = override
		}
		logger = calculation.NewStdLogger(calculation.ParseLevel(level), cmd.ErrOrStderr())
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "settings file (default: ./retraite.yaml or /etc/retraite/retraite.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(calculateCmd)
	rootCmd.AddCommand(exampleCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(serveCmd)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "retraite %s\n", version)
		fmt.Fprintf(out, "  commit:  %s\n", commit)
		fmt.Fprintf(out, "  built:   %s\n", date)
		fmt.Fprintf(out, "  legal figures: %d\n", domain.DefaultLegalRules().Year)
	},
}

// --- Calculate Command ---

var calculateCmd = &cobra.Command{
	Use:   "calculate [input-file]",
	Short: "Simulate every client of an input document",
	Long: `Simulate every client listed in a YAML input document and print the report.

Examples:
  retraite calculate clients.yaml
  retraite calculate clients.yaml --format csv
  retraite calculate clients.yaml --format all --output-dir reports/
  retraite calculate clients.yaml --rules rules-2026.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		if format == "" {
			format = settings.Output.Format
		}
		outputDir, _ := cmd.Flags().GetString("output-dir")

		parser := config.NewInputParser()
		cfg, err := parser.LoadFromFile(args[0])
		if err != nil {
			return err
		}
		rules, err := loadRules(cmd, parser)
		if err != nil {
			return err
		}

		engine := calculation.NewCalculationEngineWithRules(rules)
		engine.SetLogger(logger)
		sims, err := engine.CalculateBatch(cmd.Context(), cfg.Clients)
		if err != nil {
			return fmt.Errorf("calculation failed: %w", err)
		}

		report := &domain.SimulationReport{
			RulesYear:   rules.Year,
			GeneratedAt: time.Now(),
			Assumptions: output.GenerateAssumptions(rules),
			Simulations: sims,
		}

		if outputDir == "" {
			if output.NormalizeFormatName(format) == "all" {
				return fmt.Errorf("format %q requires --output-dir", format)
			}
			data, _, err := output.RenderReport(report, format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}

		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		files, err := output.GenerateReport(report, format, outputDir)
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", f)
		}
		return nil
	},
}

func init() {
	calculateCmd.Flags().StringP("format", "f", "", "report format: "+strings.Join(output.AvailableFormatterNames(), ", ")+", all")
	calculateCmd.Flags().StringP("output-dir", "o", "", "write timestamped report files to this directory instead of stdout")
	calculateCmd.Flags().String("rules", "", "legal rules override file (YAML)")
}

// --- Example Command ---

var exampleCmd = &cobra.Command{
	Use:   "example [output-file]",
	Short: "Write an example input document",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := "example_config.yaml"
		if len(args) == 1 {
			filename = args[0]
		}
		parser := config.NewInputParser()
		if err := parser.SaveConfiguration(parser.CreateExampleConfiguration(), filename); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Example configuration written to %s\n", filename)
		return nil
	},
}

// --- Rules Command ---

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the legal figures in force",
	Long:  "Print the legal figures used by the simulator, with the override file applied when one is given.",
	RunE: func(cmd *cobra.Command, args []string) error {
		rules, err := loadRules(cmd, config.NewInputParser())
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		var data []byte
		switch strings.ToLower(format) {
		case "yaml", "yml":
			data, err = yaml.Marshal(rules)
		case "json":
			data, err = json.MarshalIndent(rules, "", "  ")
			data = append(data, '\n')
		default:
			return fmt.Errorf("unsupported rules format %q (yaml, json)", format)
		}
		if err != nil {
			return fmt.Errorf("failed to encode rules: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	rulesCmd.Flags().String("rules", "", "legal rules override file (YAML)")
	rulesCmd.Flags().String("format", "yaml", "output format (yaml, json)")
}

// loadRules applies the --rules flag, falling back to rules.file from the settings
func loadRules(cmd *cobra.Command, parser *config.InputParser) (domain.LegalRules, error) {
	file, _ := cmd.Flags().GetString("rules")
	if file == "" {
		file = settings.Rules.File
	}
	if file == "" {
		return domain.DefaultLegalRules(), nil
	}
	logger.Infof("using legal rules from %s", file)
	return parser.LoadRulesFromFile(file)
}

// --- Serve Command ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the simulation HTTP API",
	Long: `Start the HTTP API. Simulations are stored in SQLite (storage.path) and purged
after storage.retention_days by a scheduled job. With rules.watch the override
file is reloaded whenever it changes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			settings.Server.Addr = addr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		parser := config.NewInputParser()
		rules, err := config.NewRulesWatcher(settings.Rules.File, parser, logger)
		if err != nil {
			return fmt.Errorf("failed to load legal rules: %w", err)
		}
		if settings.Rules.Watch {
			if _, err := rules.Watch(ctx); err != nil {
				return err
			}
			logger.Infof("watching %s for rule changes", rules.Path())
		}

		var recorder storage.Recorder = storage.NewNoopRecorder()
		if settings.Storage.Path != "" {
			sqlite, err := storage.NewSQLiteRecorder(settings.Storage.Path, logger)
			if err != nil {
				return fmt.Errorf("failed to open storage: %w", err)
			}
			recorder = sqlite
		} else {
			logger.Warnf("storage.path is empty, simulations are not persisted")
		}
		defer recorder.Close()

		sched := scheduler.NewScheduler(ctx, recorder, settings.Storage.RetentionDays, logger)
		if err := sched.RegisterRetention(settings.Scheduler.RetentionCron); err != nil {
			return err
		}
		if settings.Storage.RetentionDays > 0 {
			sched.PurgeNow()
		}
		sched.Start()
		defer sched.Stop()

		server := api.NewServer(rules, parser, recorder, logger)
		errCh := make(chan error, 1)
		go func() { errCh <- server.ListenAndServe(settings.Server.Addr) }()

		select {
		case err := <-errCh:
			return fmt.Errorf("server failed: %w", err)
		case <-ctx.Done():
		}

		logger.Infof("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides server.addr)")
}
