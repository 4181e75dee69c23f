package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/contentful-typegen/config"
	"github.com/teranos/contentful-typegen/errors"
)

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and manage contentful-typegen configuration",
		Long: `Display and manage contentful-typegen configuration.

Examples:
  contentful-typegen config show                 # Effective configuration, token redacted
  contentful-typegen config show --format json   # Same, as JSON
  contentful-typegen config where                # Which files were loaded
  contentful-typegen config init                 # Write ./contentful-typegen.toml with defaults
  contentful-typegen config check                # Report unknown keys in the project config`,
	}

	cmd.AddCommand(a.configShowCmd())
	cmd.AddCommand(a.configWhereCmd())
	cmd.AddCommand(a.configInitCmd())
	cmd.AddCommand(a.configCheckCmd())
	return cmd
}

func (a *app) configShowCmd() *cobra.Command {
	var outFormat string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Long:  "Display the configuration merged from all sources. The management token is redacted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.showConfig(outFormat)
		},
	}
	cmd.Flags().StringVar(&outFormat, "format", "toml", "Output format: toml, json, yaml")
	return cmd
}

func (a *app) showConfig(outFormat string) error {
	cfg := a.cfg.Redacted()

	switch outFormat {
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to JSON")
		}
		fmt.Fprintln(a.stdout, string(data))

	case "yaml":
		// go through JSON so YAML keys match the config file keys
		raw, err := json.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config")
		}
		var tree map[string]interface{}
		if err := json.Unmarshal(raw, &tree); err != nil {
			return errors.Wrap(err, "failed to marshal config")
		}
		data, err := yaml.Marshal(tree)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to YAML")
		}
		fmt.Fprintf(a.stdout, "# contentful-typegen configuration\n%s", data)

	case "toml":
		data, err := config.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "# contentful-typegen configuration\n%s", data)

	default:
		return errors.NewInvalidRequestError("unsupported format: %s (supported: toml, json, yaml)", outFormat)
	}
	return nil
}

func (a *app) configWhereCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "where",
		Short: "Show where configuration is loaded from",
		Long: `Show the configuration cascade and which files were merged.

Lists the candidate files in order of precedence, showing which exist.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile, _ := cmd.Flags().GetString("config")
			a.printWhere(configFile)
			return nil
		},
	}
}

func (a *app) printWhere(configFile string) {
	w := a.stdout
	fmt.Fprintln(w, "Configuration cascade (later overrides earlier):")
	fmt.Fprintln(w, "  1. [DEFAULT]  Built-in defaults")
	fmt.Fprintf(w, "  2. [USER]     ~/%s/%s\n", config.UserDir, config.UserFileName)
	fmt.Fprintf(w, "  3. [PROJECT]  ./%s (searches up directories)\n", config.FileName)
	fmt.Fprintln(w, "  4. [EXPLICIT] --config")
	fmt.Fprintf(w, "  5. [DOTENV]   ./%s (credentials only)\n", config.DotEnvFile)
	fmt.Fprintf(w, "  6. [ENV]      %s_* and %s, %s, %s\n", config.EnvPrefix, config.EnvSpaceID, config.EnvEnv, config.EnvToken)
	fmt.Fprintln(w, "  7. [FLAGS]    Command line flags")
	fmt.Fprintln(w)

	cwd, _ := os.Getwd()
	candidates := []struct {
		label string
		path  string
	}{
		{"USER", config.UserConfigPath("")},
		{"PROJECT", config.FindProjectConfig(cwd)},
		{"EXPLICIT", configFile},
		{"DOTENV", filepath.Join(cwd, config.DotEnvFile)},
	}

	fmt.Fprintln(w, "Files:")
	for _, c := range candidates {
		switch {
		case c.path == "":
			fmt.Fprintf(w, "  %-9s %s\n", c.label, pterm.Gray("(none)"))
		case fileExists(c.path):
			fmt.Fprintf(w, "  %-9s %s %s\n", c.label, pterm.LightGreen("✓"), c.path)
		default:
			fmt.Fprintf(w, "  %-9s %s %s\n", c.label, pterm.Gray("✗"), c.path)
		}
	}

	if a.loader != nil {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Merged %d file(s):\n", len(a.loader.Files()))
		for _, path := range a.loader.Files() {
			fmt.Fprintf(w, "  %s\n", path)
		}
	}
}

func (a *app) configInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a config file with default values",
		Long: `Write a config file containing every setting at its default value.
Credentials are left empty; keep them in CF_SPACE_ID / CF_ENV / CF_MANAGER_TOKEN.

An existing file is only replaced with --force, and is then kept as path.back1.`,
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.FileName
			if len(args) == 1 {
				path = args[0]
			}
			return a.initConfig(path, force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Replace an existing file")
	return cmd
}

func (a *app) initConfig(path string, force bool) error {
	if fileExists(path) && !force {
		return errors.WithHint(
			errors.NewInvalidRequestError("%s already exists", path),
			"pass --force to replace it (the old file is kept as a .back1 backup)",
		)
	}
	if err := config.WriteFile(path, config.Defaults()); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "%s Wrote %s\n", pterm.LightGreen("✓"), path)
	return nil
}

func (a *app) configCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [path]",
		Short: "Report unknown or malformed keys in a config file",
		Long: `Strictly decode a config file and list keys that do not map onto any setting.
Defaults to the project config found from the working directory.`,
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return a.checkConfig(path)
		},
	}
}

func (a *app) checkConfig(path string) error {
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return errors.Wrap(err, "failed to get working directory")
		}
		if path = config.FindProjectConfig(cwd); path == "" {
			return errors.WithHint(
				errors.NewNotFoundError("no %s found from %s", config.FileName, cwd),
				"create one with 'contentful-typegen config init'",
			)
		}
	}

	result, err := config.CheckFile(path)
	if err != nil {
		return err
	}
	if result.OK() {
		fmt.Fprintf(a.stdout, "%s %s is valid\n", pterm.LightGreen("✓"), path)
		return nil
	}
	for _, key := range result.Unknown {
		fmt.Fprintf(a.stdout, "  %s unknown key %s\n", pterm.Yellow("!"), key)
	}
	return result.Err()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
