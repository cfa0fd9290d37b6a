// Package cli implements rmgctl, the command-line companion of the site.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/turtacn/rmgweb/internal/app"
	"github.com/turtacn/rmgweb/internal/config"
	"github.com/turtacn/rmgweb/internal/infrastructure/database/redis"
	"github.com/turtacn/rmgweb/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/rmgweb/internal/infrastructure/storage/minio"
	"github.com/turtacn/rmgweb/pkg/errors"
)

// cliContextKey is the context key for CLIContext.
type cliContextKey struct{}

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath   string
	LogLevel     string
	OutputFormat string
	Verbose      bool
	NoColor      bool
	Timeout      time.Duration
}

// CLIContext carries initialized dependencies through the command tree.
type CLIContext struct {
	Config       *config.Config
	Logger       logging.Logger
	OutputFormat string
	Verbose      bool
	NoColor      bool
	Timeout      time.Duration
}

// Dependencies are the constructors commands use to reach configuration and
// the backing stores.  Tests replace them.
type Dependencies struct {
	LoadConfig func(path string) (*config.Config, error)
	NewLogger  func(level string) (logging.Logger, error)
	OpenCache  func(ctx context.Context, cfg *config.Config, logger logging.Logger) (redis.Cache, io.Closer, error)
	OpenStore  func(ctx context.Context, cfg *config.Config, logger logging.Logger) (minio.ObjectStore, error)
}

// DefaultDependencies connects to the stores named in the configuration.
func DefaultDependencies() Dependencies {
	return Dependencies{
		LoadConfig: config.LoadOptional,
		NewLogger: func(level string) (logging.Logger, error) {
			return app.NewLogger(config.LogConfig{Level: level, Format: "console", OutputPaths: []string{"stderr"}})
		},
		OpenCache: func(ctx context.Context, cfg *config.Config, logger logging.Logger) (redis.Cache, io.Closer, error) {
			if !cfg.Redis.Enabled {
				return nil, nil, errors.New(errors.ErrCodeServiceUnavailable, "redis is not enabled in the configuration")
			}
			client, cache, err := app.OpenRedis(cfg.Redis, logger)
			if err != nil {
				return nil, nil, err
			}
			return cache, client, nil
		},
		OpenStore: func(ctx context.Context, cfg *config.Config, logger logging.Logger) (minio.ObjectStore, error) {
			if !cfg.MinIO.Enabled {
				return nil, errors.New(errors.ErrCodeServiceUnavailable, "minio is not enabled in the configuration")
			}
			_, store, err := app.OpenObjectStore(ctx, cfg.MinIO, logger, nil)
			return store, err
		},
	}
}

// NewRootCommand creates the root command with all global flags and subcommands.
func NewRootCommand(deps Dependencies) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "rmgctl",
		Short: "Command-line tools for the RMG database site",
		Long: "rmgctl encodes and decodes structure URLs, previews the markup the site\n" +
			"renders for a structure and manages the depiction store and markup cache.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", app.Version, app.GitCommit, app.BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts, deps)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: RMGWEB_* environment only)")
	pf.StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVarP(&opts.OutputFormat, "output", "o", "text", "output format (text, json, table)")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable verbose output")
	pf.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")
	pf.DurationVar(&opts.Timeout, "timeout", 30*time.Second, "timeout for storage and cache operations")

	cmd.AddCommand(
		newEncodeCmd(),
		newDecodeCmd(),
		newMarkupCmd(),
		newSciCmd(),
		newRoutesCmd(),
		newDepictionCmd(deps),
		newCacheCmd(deps),
		newVersionCmd(),
	)
	return cmd
}

// persistentPreRun loads config and logger, then stores CLIContext.
func persistentPreRun(cmd *cobra.Command, opts *RootOptions, deps Dependencies) error {
	if opts.NoColor {
		color.NoColor = true
	}

	cfg, err := deps.LoadConfig(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	level := opts.LogLevel
	if opts.Verbose {
		level = string(logging.LevelDebug)
	}
	logger, err := deps.NewLogger(level)
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}

	cliCtx := &CLIContext{
		Config:       cfg,
		Logger:       logger,
		OutputFormat: opts.OutputFormat,
		Verbose:      opts.Verbose,
		NoColor:      opts.NoColor,
		Timeout:      opts.Timeout,
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, cliContextKey{}, cliCtx))
	return nil
}

// GetCLIContext extracts CLIContext from a cobra command's context.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.New(errors.ErrCodeInternal, "command context is nil")
	}
	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, errors.New(errors.ErrCodeInternal, "CLIContext not found in command context")
	}
	return cliCtx, nil
}

// withTimeout bounds ctx by the --timeout flag.
func withTimeout(cmd *cobra.Command, cliCtx *CLIContext) (context.Context, context.CancelFunc) {
	if cliCtx.Timeout <= 0 {
		return context.WithCancel(cmd.Context())
	}
	return context.WithTimeout(cmd.Context(), cliCtx.Timeout)
}

// Execute is the main entry point for rmgctl.
func Execute() error {
	rootCmd := NewRootCommand(DefaultDependencies())
	if err := rootCmd.Execute(); err != nil {
		PrintError(rootCmd, err)
		return err
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Output
// ─────────────────────────────────────────────────────────────────────────────

type tableProvider interface {
	TableHeaders() []string
	TableRows() [][]string
}

// PrintResult outputs data in the format specified by CLIContext.
func PrintResult(cmd *cobra.Command, data interface{}) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return printJSON(cmd, data)
	}

	switch strings.ToLower(cliCtx.OutputFormat) {
	case "json":
		return printJSON(cmd, data)
	case "table":
		return printTable(cmd, data)
	default:
		return printText(cmd, data)
	}
}

func printJSON(cmd *cobra.Command, data interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(data)
}

func printText(cmd *cobra.Command, data interface{}) error {
	switch v := data.(type) {
	case string:
		fmt.Fprintln(cmd.OutOrStdout(), v)
	case fmt.Stringer:
		fmt.Fprintln(cmd.OutOrStdout(), v.String())
	default:
		fmt.Fprintf(cmd.OutOrStdout(), "%+v\n", v)
	}
	return nil
}

// printTable renders data as a table when it provides rows, otherwise as text.
func printTable(cmd *cobra.Command, data interface{}) error {
	if tp, ok := data.(tableProvider); ok {
		fmt.Fprint(cmd.OutOrStdout(), FormatTable(tp.TableHeaders(), tp.TableRows()))
		return nil
	}
	return printText(cmd, data)
}

// PrintError writes a formatted error message to stderr.
func PrintError(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", color.RedString("Error"), err.Error())
}

// PrintSuccess writes a formatted success message to stdout.
func PrintSuccess(cmd *cobra.Command, msg string) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", color.GreenString("OK"), msg)
}

// FormatTable renders headers and rows as an ASCII table.
func FormatTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}
	var sb strings.Builder
	table := tablewriter.NewWriter(&sb)
	table.SetHeader(headers)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	for _, row := range rows {
		table.Append(row)
	}
	table.Render()
	return sb.String()
}

// ─────────────────────────────────────────────────────────────────────────────
// version
// ─────────────────────────────────────────────────────────────────────────────

// BuildInfo holds version information injected at build time.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
}

func (b BuildInfo) String() string {
	return fmt.Sprintf("rmgctl %s (commit: %s, built: %s)", b.Version, b.Commit, b.BuildDate)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return PrintResult(cmd, BuildInfo{Version: app.Version, Commit: app.GitCommit, BuildDate: app.BuildDate})
		},
	}
}

// exitCode maps err to a process exit status: 2 for bad input, 1 otherwise.
func exitCode(err error) int {
	if errors.HTTPStatusForCode(errors.GetCode(err))/100 == 4 {
		return 2
	}
	return 1
}

// Main runs rmgctl and exits.
func Main() {
	if err := Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

//Personal.AI order the ending
