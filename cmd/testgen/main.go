package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/Octrafic/testgen-cli/internal/cli"
	internalConfig "github.com/Octrafic/testgen-cli/internal/config"
	"github.com/Octrafic/testgen-cli/internal/core/backend"
	"github.com/Octrafic/testgen-cli/internal/core/requirement"
	"github.com/Octrafic/testgen-cli/internal/core/suite"
	"github.com/Octrafic/testgen-cli/internal/infra/logger"
	"github.com/Octrafic/testgen-cli/internal/infra/storage"
	"github.com/Octrafic/testgen-cli/internal/updater"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
)

var (
	serverURL     string
	preferMarker  string
	exportDir     string
	debugFilePath string

	modelName       string
	outputFormat    string
	csvDir          string
	requirementFile string
)

var cfg *internalConfig.Config

var rootCmd = &cobra.Command{
	Use:           "testgen",
	Short:         "TestGen - AI test case generator",
	Long:          `TestGen turns a feature requirement into a structured QA test suite using a local model backend.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		return cli.Start(client, cli.Options{
			ServerURL:     client.BaseURL(),
			PreferMarker:  cfg.PreferMarker,
			ExportDir:     cfg.ExportDir,
			Version:       version,
			LatestVersion: availableUpdate(),
		})
	},
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models offered by the backend",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := newClient().ListModels(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list models: %w", err)
		}
		out := cmd.OutOrStdout()
		cli.PrintModels(out, list.Models, backend.PreferredModel(list.Models, cfg.PreferMarker))
		if list.Warning != "" {
			color.New(color.FgYellow).Fprintf(cmd.ErrOrStderr(), "⚠ %s\n", list.Warning)
		}
		return nil
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate [requirement]",
	Short: "Generate a test suite without the interactive UI",
	Long: `Generate a test suite from a requirement given as arguments or read with --file.
A .jsonl, .json or .yaml file may hold several requirements; each gets its own suite.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reqs, err := collectRequests(args)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		client := newClient()

		var preferred string
		for i, r := range reqs {
			model := r.Model
			if model == "" {
				model = modelName
			}
			if model == "" {
				if preferred == "" {
					preferred = defaultModel(ctx, client)
				}
				model = preferred
			}

			if i > 0 {
				fmt.Fprintln(cmd.OutOrStdout())
			}
			if err := generateOne(cmd, client, backend.GenerateRequest{Requirement: r.Requirement, Model: model}); err != nil {
				return err
			}
		}
		return nil
	},
}

// defaultModel picks the preferred model from the backend list, falling back
// to the backend's default model when the list is empty or unavailable
func defaultModel(ctx context.Context, lister interface {
	ListModels(context.Context) (*backend.ModelList, error)
}) string {
	list, err := lister.ListModels(ctx)
	if err != nil {
		logger.Warn("Failed to list models, using default", logger.Err(err), logger.String("model", backend.DefaultModel))
		return backend.DefaultModel
	}
	if model := backend.PreferredModel(list.Models, cfg.PreferMarker); model != "" {
		return model
	}
	return backend.DefaultModel
}

func collectRequests(args []string) ([]requirement.Request, error) {
	if requirementFile != "" {
		if len(args) > 0 {
			return nil, fmt.Errorf("pass the requirement either as arguments or with --file, not both")
		}
		reqs, err := requirement.Load(requirementFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", requirementFile, err)
		}
		return reqs, nil
	}

	text := strings.Join(args, " ")
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("requirement must not be empty")
	}
	return []requirement.Request{{Requirement: text}}, nil
}

func generateOne(cmd *cobra.Command, client *backend.Client, req backend.GenerateRequest) error {
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = fmt.Sprintf(" %s is thinking...", req.Model)
	s.Start()
	result, err := client.Generate(cmd.Context(), req)
	s.Stop()
	if err != nil {
		if detail, ok := backend.ErrorDetail(err); ok {
			return fmt.Errorf("generation failed: %s", detail)
		}
		return fmt.Errorf("generation failed: %w", err)
	}

	if err := cli.PrintSuite(cmd.OutOrStdout(), result, outputFormat); err != nil {
		return err
	}

	if csvDir != "" {
		return exportCSV(cmd, result, csvDir)
	}
	return nil
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the backend is reachable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		status, err := client.Health(cmd.Context())
		if err != nil {
			color.New(color.FgRed).Fprintf(cmd.OutOrStdout(), "● System Offline (%s)\n", client.BaseURL())
			return err
		}
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "● System %s (%s)\n", status, client.BaseURL())
		return nil
	},
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of a generated test suite",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := suite.SchemaJSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
		return err
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and check for updates",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "testgen %s\n", version)
		if version == "dev" {
			return
		}
		info, err := updater.CheckLatestVersion(cmd.Context(), version)
		if err != nil {
			logger.Debug("Update check failed", logger.Err(err))
			return
		}
		if info.IsNewer {
			color.New(color.FgYellow).Fprintf(cmd.OutOrStdout(), "v%s available: %s\n", info.LatestVersion, info.HTMLURL)
		}
	},
}

func exportCSV(cmd *cobra.Command, s *suite.TestSuite, dir string) error {
	data, err := s.CSV()
	if err != nil {
		return err
	}
	path, err := storage.WriteExport(dir, s.CSVFilename(), data)
	if err != nil {
		return fmt.Errorf("failed to export CSV: %w", err)
	}
	color.New(color.FgGreen).Fprintf(cmd.ErrOrStderr(), "✓ Exported to %s\n", path)
	return nil
}

func newClient() *backend.Client {
	return backend.NewClient(cfg.ServerURL, backend.WithGenerateTimeout(cfg.GenerateTimeoutDuration()))
}

// loadConfig layers flags over env and the config file
func loadConfig(cmd *cobra.Command) {
	var err error
	cfg, err = internalConfig.Resolve()
	if err != nil {
		logger.Warn("Failed to load config, using defaults", logger.Err(err))
		cfg = &internalConfig.Config{}
		cfg.ApplyEnv()
		cfg.ApplyDefaults()
	}

	flags := cmd.Flags()
	if flags.Changed("server") {
		cfg.ServerURL = serverURL
	}
	if flags.Changed("prefer") {
		cfg.PreferMarker = preferMarker
	}
	if flags.Changed("export-dir") {
		cfg.ExportDir = exportDir
	}
}

// availableUpdate returns the newer release recorded by the last update check
func availableUpdate() string {
	if cfg.LatestVersion != "" && updater.IsNewer(cfg.LatestVersion, version) {
		return cfg.LatestVersion
	}
	return ""
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", internalConfig.DefaultServerURL, "Backend base URL")
	rootCmd.PersistentFlags().StringVar(&preferMarker, "prefer", internalConfig.DefaultPreferMarker, "Substring of the model selected by default")
	rootCmd.PersistentFlags().StringVar(&exportDir, "export-dir", internalConfig.DefaultExportDir, "Directory CSV exports are written to")
	rootCmd.PersistentFlags().StringVar(&debugFilePath, "debug-file", "", "Path to debug log file (enables file logging)")

	generateCmd.Flags().StringVarP(&modelName, "model", "m", "", "Model to use (default: preferred model from the backend)")
	generateCmd.Flags().StringVarP(&outputFormat, "format", "f", cli.FormatHuman, "Output format (human|json|yaml)")
	generateCmd.Flags().StringVar(&csvDir, "csv", "", "Also export the suite as CSV into this directory")
	generateCmd.Flags().StringVarP(&requirementFile, "file", "F", "", "Read requirements from a .txt, .md, .json, .yaml or .jsonl file")

	rootCmd.AddCommand(modelsCmd, generateCmd, healthCmd, schemaCmd, versionCmd)

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		initLogger(cmd)
		loadConfig(cmd)
	}
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	if version != "dev" {
		checkForUpdate(ctx, version)
	}

	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		reportError(os.Stderr, err)
		logger.Close()
		os.Exit(1)
	}
	logger.Close()
}

// reportError shows err to the user once. The stderr logger would repeat it,
// so only the debug file gets a log entry.
func reportError(w io.Writer, err error) {
	if debugFilePath != "" {
		logger.Error("Command execution failed", logger.Err(err))
	}
	color.New(color.FgRed).Fprintf(w, "Error: %v\n", err)
}

func checkForUpdate(ctx context.Context, currentVersion string) {
	c, err := internalConfig.Load()
	if err != nil {
		return
	}

	if !c.ShouldCheckForUpdate() {
		return
	}

	info, err := updater.CheckLatestVersion(ctx, currentVersion)
	if err != nil {
		return
	}

	c.LastUpdateCheck = time.Now()
	c.LatestVersion = info.LatestVersion
	_ = c.Save()
}

// initLogger writes to the debug file when given. Without one the interactive
// UI stays silent and subcommands report warnings on stderr.
func initLogger(cmd *cobra.Command) {
	if debugFilePath != "" {
		if err := logger.Init(true, debugFilePath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
			os.Exit(1)
		}
		logger.Info("TestGen starting", logger.String("log_file", debugFilePath), logger.String("command", cmd.Name()))
		return
	}
	if cmd != rootCmd {
		_ = logger.Init(false, "")
	}
}
