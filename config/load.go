package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/teranos/contentful-typegen/errors"
)

// Options locates the config files. Empty fields use the process defaults.
type Options struct {
	// ConfigFile is an explicit config file; it must exist
	ConfigFile string
	// HomeDir replaces os.UserHomeDir for the user config
	HomeDir string
	// WorkDir replaces os.Getwd for the project config and .env lookup
	WorkDir string
	// SkipUserConfig ignores ~/.contentful-typegen/config.toml
	SkipUserConfig bool
}

// Loader layers configuration sources into one viper instance.
type Loader struct {
	v     *viper.Viper
	files []string
}

// NewLoader reads every config file the options point at. Flags are bound
// afterwards with BindFlags, then Load produces the Config.
func NewLoader(opts Options) (*Loader, error) {
	v := viper.New()
	v.SetConfigType("toml")

	// Set up environment variable binding
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	BindCredentialEnvVars(v)

	SetDefaults(v)

	l := &Loader{v: v}
	if err := l.mergeConfigFiles(opts); err != nil {
		return nil, err
	}
	if err := l.mergeDotEnv(workDir(opts)); err != nil {
		return nil, err
	}
	return l, nil
}

// Viper returns the underlying instance for key lookups.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// Files lists the config files that were merged, lowest precedence first.
func (l *Loader) Files() []string {
	out := make([]string, len(l.files))
	copy(out, l.files)
	return out
}

// FlagKeys maps config keys to the command line flags that override them.
var FlagKeys = map[string]string{
	"contentful.space_id":         "space",
	"contentful.environment_id":   "env",
	"contentful.management_token": "token",
	"contentful.base_url":         "base-url",
	"source.from":                 "from",
	"source.offline":              "offline",
	"output.file":                 "out",
	"output.prefix":               "prefix",
	"render.arrays_readonly":      "readonly-arrays",
	"format.command":              "formatter",
	"filter.include":              "include",
	"filter.exclude":              "exclude",
	"log.json":                    "json-log",
	"log.file":                    "log-file",
	"log.verbosity":               "verbose",
}

// negatedFlags are presence toggles that switch a default-on setting off.
var negatedFlags = map[string]string{
	"render.include_undefined_on_optional": "no-undefined-optionals",
	"render.prefer_linked_aliases":         "no-aliases",
	"render.brand_content_type_id":         "no-brand",
	"format.enabled":                       "no-format",
}

// BindFlags binds the flags present in fs. Unchanged flags never override
// files or environment.
func (l *Loader) BindFlags(fs *pflag.FlagSet) error {
	for key, name := range FlagKeys {
		flag := fs.Lookup(name)
		if flag == nil {
			continue
		}
		if err := l.v.BindPFlag(key, flag); err != nil {
			return errors.Wrapf(err, "failed to bind flag --%s", name)
		}
	}
	for key, name := range negatedFlags {
		flag := fs.Lookup(name)
		if flag == nil || !flag.Changed {
			continue
		}
		if flag.Value.String() == "true" {
			l.v.Set(key, false)
		}
	}
	return nil
}

// Load unmarshals the layered configuration.
func (l *Loader) Load() (*Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &cfg, nil
}

// Load is a shortcut for NewLoader(opts) followed by Load.
func Load(opts Options) (*Config, error) {
	l, err := NewLoader(opts)
	if err != nil {
		return nil, err
	}
	return l.Load()
}

// UserConfigPath returns ~/.contentful-typegen/config.toml, or "" when the
// home directory is unknown.
func UserConfigPath(home string) string {
	if home == "" {
		var err error
		if home, err = os.UserHomeDir(); err != nil {
			return ""
		}
	}
	return filepath.Join(home, UserDir, UserFileName)
}

// FindProjectConfig walks up from dir looking for contentful-typegen.toml.
// Returns "" when none is found.
func FindProjectConfig(dir string) string {
	for {
		path := filepath.Join(dir, FileName)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// mergeConfigFiles merges user < project < explicit config files.
func (l *Loader) mergeConfigFiles(opts Options) error {
	var candidates []string
	if !opts.SkipUserConfig {
		if path := UserConfigPath(opts.HomeDir); path != "" {
			candidates = append(candidates, path)
		}
	}
	if dir := workDir(opts); dir != "" {
		if path := FindProjectConfig(dir); path != "" {
			candidates = append(candidates, path)
		}
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := l.mergeFile(path); err != nil {
			return err
		}
	}

	if opts.ConfigFile != "" {
		if _, err := os.Stat(opts.ConfigFile); os.IsNotExist(err) {
			return errors.NewNotFoundError("config file %s does not exist", opts.ConfigFile)
		}
		if err := l.mergeFile(opts.ConfigFile); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) mergeFile(path string) error {
	tmp := viper.New()
	tmp.SetConfigFile(path)
	tmp.SetConfigType("toml")
	if err := tmp.ReadInConfig(); err != nil {
		return errors.WithHint(
			errors.Wrapf(errors.ErrInvalidRequest, "failed to read config file %s: %s", path, err),
			"run 'contentful-typegen config check "+path+"' for details",
		)
	}
	if err := l.v.MergeConfigMap(tmp.AllSettings()); err != nil {
		return errors.Wrapf(err, "failed to merge config file %s", path)
	}
	l.files = append(l.files, path)
	return nil
}

// mergeDotEnv reads credential variables from .env in dir. Real environment
// variables still take precedence.
func (l *Loader) mergeDotEnv(dir string) error {
	if dir == "" {
		return nil
	}
	path := filepath.Join(dir, DotEnvFile)
	if _, err := os.Stat(path); err != nil {
		return nil
	}

	tmp := viper.New()
	tmp.SetConfigFile(path)
	tmp.SetConfigType("env")
	if err := tmp.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "failed to read %s", path)
	}

	contentfulKeys := map[string]interface{}{}
	for key, short := range credentialEnv {
		for _, name := range []string{envName(key), short} {
			if value := tmp.GetString(strings.ToLower(name)); value != "" {
				contentfulKeys[strings.TrimPrefix(key, "contentful.")] = value
				break
			}
		}
	}
	if len(contentfulKeys) == 0 {
		return nil
	}
	if err := l.v.MergeConfigMap(map[string]interface{}{"contentful": contentfulKeys}); err != nil {
		return errors.Wrapf(err, "failed to merge %s", path)
	}
	l.files = append(l.files, path)
	return nil
}

// envName returns the prefixed variable for a key, e.g. CFTG_OUTPUT_FILE.
func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

func workDir(opts Options) string {
	if opts.WorkDir != "" {
		return opts.WorkDir
	}
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	return dir
}
