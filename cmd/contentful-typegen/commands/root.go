// Package commands implements the contentful-typegen command line.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/contentful-typegen/config"
	"github.com/teranos/contentful-typegen/errors"
	"github.com/teranos/contentful-typegen/internal/httpclient"
	"github.com/teranos/contentful-typegen/logger"
)

// skipConfigAnnotation marks commands that must run even when the
// configuration cannot be loaded.
const skipConfigAnnotation = "contentful-typegen/skip-config"

// app carries the state shared by one command tree.
type app struct {
	stdout io.Writer
	stderr io.Writer

	// httpClient replaces the CMA and export HTTP clients (tests point it at httptest)
	httpClient *httpclient.SaferClient

	loader *config.Loader
	cfg    *config.Config
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{stdout: stdout, stderr: stderr}
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	return newApp(os.Stdout, os.Stderr).run(os.Args[1:])
}

func (a *app) run(args []string) int {
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	err := root.Execute()
	logger.Cleanup()
	if err == nil {
		return 0
	}
	return a.report(err)
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "contentful-typegen",
		Short: "Generate TypeScript declarations from a Contentful content model",
		Long: `contentful-typegen reads the content types of a Contentful space environment
and writes a TypeScript declaration file (.d.ts) with one Fields interface and
one entry type per content type.

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (CF_SPACE_ID, CF_ENV, CF_MANAGER_TOKEN, CFTG_* prefix)
3. .env in the working directory (credentials only)
4. --config file
5. Project config (./contentful-typegen.toml, searched upwards)
6. User config (~/.contentful-typegen/config.toml)
7. Default values

Examples:
  contentful-typegen --space abc123 --env master --token CFPAT-...
  contentful-typegen --out src/types/contentful.d.ts --prefix Cf
  contentful-typegen --from contentful-export.json --out -
  contentful-typegen --offline                       # regenerate from the last fetched model
  contentful-typegen --include '.sys.id | startswith("blog")'
  contentful-typegen check                           # fail when the file is stale
  contentful-typegen watch --from model.yaml`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.prepare(cmd)
		},
		RunE: a.runGenerate,
	}

	addGlobalFlags(root)

	root.AddCommand(a.checkCmd())
	root.AddCommand(a.watchCmd())
	root.AddCommand(a.configCmd())
	root.AddCommand(a.versionCmd())
	return root
}

// addGlobalFlags declares every flag bound to a config key. They are
// persistent so check, watch and config show see the same settings.
func addGlobalFlags(root *cobra.Command) {
	f := root.PersistentFlags()
	defaults := config.Defaults()

	f.String("space", "", "Contentful space ID (or CF_SPACE_ID)")
	f.String("env", "", "Environment ID (or CF_ENV)")
	f.String("token", "", "Content Management API token (or CF_MANAGER_TOKEN)")
	f.String("base-url", defaults.Contentful.BaseURL, "Content Management API base URL")
	f.StringP("out", "o", defaults.Output.File, `Output file path ("-" for stdout)`)
	f.String("prefix", defaults.Output.Prefix, "Interface name prefix")

	f.Bool("no-undefined-optionals", false, "Do not add `| undefined` to optional properties")
	f.Bool("readonly-arrays", false, "Use ReadonlyArray<T> instead of T[]")
	f.Bool("no-aliases", false, "Use Entry<IThingFields> instead of IThing for links")
	f.Bool("no-brand", false, "Do not brand sys.contentType.sys.id on entry types")

	f.String("from", "", "Read a space export / content model file or URL instead of the API")
	f.Bool("offline", false, "Read the last fetched content model from the snapshot store")
	f.String("include", "", "jq expression selecting content types to keep")
	f.String("exclude", "", "jq expression selecting content types to drop")

	f.Bool("no-format", false, "Skip the external formatter")
	f.String("formatter", "", `Formatter command line ("builtin" for whitespace normalization)`)

	f.String("config", "", "Config file (default: contentful-typegen.toml searched upwards)")
	f.CountP("verbose", "v", "Increase log verbosity (-v, -vv, -vvv)")
	f.Bool("json-log", false, "Log as JSON")
	f.String("log-file", "", "Also write debug logs to this file (rotated)")
}

// prepare loads the configuration and initializes the logger.
func (a *app) prepare(cmd *cobra.Command) error {
	if cmd.Annotations[skipConfigAnnotation] == "true" {
		return a.initLogger(flagLogOptions(cmd))
	}

	configFile, _ := cmd.Flags().GetString("config")
	loader, err := config.NewLoader(config.Options{ConfigFile: configFile})
	if err != nil {
		_ = a.initLogger(flagLogOptions(cmd))
		return err
	}
	if err := loader.BindFlags(cmd.Flags()); err != nil {
		return err
	}
	cfg, err := loader.Load()
	if err != nil {
		return err
	}
	a.loader, a.cfg = loader, cfg

	if err := a.initLogger(logger.Options{
		JSON:      cfg.Log.JSON,
		Verbosity: cfg.Log.Verbosity,
		File:      cfg.Log.File,
	}); err != nil {
		return err
	}
	logger.Debugw("Configuration loaded",
		"files", loader.Files(),
		"verbosity", logger.LevelName(cfg.Log.Verbosity),
	)
	return nil
}

func (a *app) initLogger(opts logger.Options) error {
	opts.Output = a.stderr
	if err := logger.Initialize(opts); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	return nil
}

func flagLogOptions(cmd *cobra.Command) logger.Options {
	verbosity, _ := cmd.Flags().GetCount("verbose")
	jsonLog, _ := cmd.Flags().GetBool("json-log")
	logFile, _ := cmd.Flags().GetString("log-file")
	return logger.Options{JSON: jsonLog, Verbosity: verbosity, File: logFile}
}

// exitError carries a specific exit code.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

// report prints err with its hints and returns the exit code.
func (a *app) report(err error) int {
	code := 1
	var ee *exitError
	if errors.As(err, &ee) {
		code = ee.code
	}

	switch {
	case errors.Is(err, errMissingCredentials):
		printError(a.stderr, "❌ "+config.MissingCredentialsMessage)
	case errors.Is(err, errors.ErrOutOfDate):
		printError(a.stderr, "✗ "+err.Error())
	default:
		printError(a.stderr, "❌ contentful-typegen failed")
		fmt.Fprintln(a.stderr, err.Error())
	}
	printHints(a.stderr, err)
	return code
}
