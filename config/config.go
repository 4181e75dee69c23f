// Package config loads contentful-typegen settings.
//
// Sources, lowest to highest precedence:
//  1. Defaults
//  2. User config (~/.contentful-typegen/config.toml)
//  3. Project config (contentful-typegen.toml, found by walking up from the working directory)
//  4. Explicit config file (--config)
//  5. .env in the working directory (credential variables only)
//  6. Environment variables (CFTG_* plus CF_SPACE_ID, CF_ENV, CF_MANAGER_TOKEN)
//  7. Command line flags
package config

import (
	"time"

	"github.com/teranos/contentful-typegen/typegen"
)

// Config is the complete configuration of a run.
type Config struct {
	Contentful ContentfulConfig `mapstructure:"contentful" toml:"contentful" json:"contentful"`
	Source     SourceConfig     `mapstructure:"source" toml:"source" json:"source"`
	Output     OutputConfig     `mapstructure:"output" toml:"output" json:"output"`
	Render     RenderConfig     `mapstructure:"render" toml:"render" json:"render"`
	Format     FormatConfig     `mapstructure:"format" toml:"format" json:"format"`
	Filter     FilterConfig     `mapstructure:"filter" toml:"filter" json:"filter"`
	Snapshot   SnapshotConfig   `mapstructure:"snapshot" toml:"snapshot" json:"snapshot"`
	Log        LogConfig        `mapstructure:"log" toml:"log" json:"log"`
}

// ContentfulConfig holds the Content Management API connection.
type ContentfulConfig struct {
	SpaceID         string  `mapstructure:"space_id" toml:"space_id" json:"space_id"`
	EnvironmentID   string  `mapstructure:"environment_id" toml:"environment_id" json:"environment_id"`
	ManagementToken string  `mapstructure:"management_token" toml:"management_token" json:"management_token"`
	BaseURL         string  `mapstructure:"base_url" toml:"base_url" json:"base_url"`
	RateLimit       float64 `mapstructure:"rate_limit" toml:"rate_limit" json:"rate_limit"` // requests per second
	PageSize        int     `mapstructure:"page_size" toml:"page_size" json:"page_size"`
	TimeoutSeconds  int     `mapstructure:"timeout_seconds" toml:"timeout_seconds" json:"timeout_seconds"`
}

// SourceConfig selects where the content model is read from. With neither
// set, the API is used.
type SourceConfig struct {
	From    string `mapstructure:"from" toml:"from" json:"from"`          // export file path or go-getter URL
	Offline bool   `mapstructure:"offline" toml:"offline" json:"offline"` // read the last snapshot
}

// OutputConfig controls the generated file.
type OutputConfig struct {
	File   string `mapstructure:"file" toml:"file" json:"file"` // "-" writes to stdout
	Prefix string `mapstructure:"prefix" toml:"prefix" json:"prefix"`
}

// RenderConfig mirrors typegen.RenderOptions.
type RenderConfig struct {
	IncludeUndefinedOnOptional bool `mapstructure:"include_undefined_on_optional" toml:"include_undefined_on_optional" json:"include_undefined_on_optional"`
	ArraysReadonly             bool `mapstructure:"arrays_readonly" toml:"arrays_readonly" json:"arrays_readonly"`
	PreferLinkedAliases        bool `mapstructure:"prefer_linked_aliases" toml:"prefer_linked_aliases" json:"prefer_linked_aliases"`
	BrandContentTypeID         bool `mapstructure:"brand_content_type_id" toml:"brand_content_type_id" json:"brand_content_type_id"`
}

// FormatConfig controls the best-effort beautifier.
type FormatConfig struct {
	Enabled        bool   `mapstructure:"enabled" toml:"enabled" json:"enabled"`
	Command        string `mapstructure:"command" toml:"command" json:"command"` // "builtin" = whitespace normalizer
	TimeoutSeconds int    `mapstructure:"timeout_seconds" toml:"timeout_seconds" json:"timeout_seconds"`
	// Fallback runs the builtin normalizer when the command fails
	Fallback bool `mapstructure:"fallback" toml:"fallback" json:"fallback"`
}

// FilterConfig holds jq expressions selecting content types.
type FilterConfig struct {
	Include string `mapstructure:"include" toml:"include" json:"include"`
	Exclude string `mapstructure:"exclude" toml:"exclude" json:"exclude"`
}

// SnapshotConfig controls the offline snapshot store.
type SnapshotConfig struct {
	Enabled bool   `mapstructure:"enabled" toml:"enabled" json:"enabled"`
	Path    string `mapstructure:"path" toml:"path" json:"path"` // empty = user cache dir
}

// LogConfig configures the logger.
type LogConfig struct {
	JSON      bool   `mapstructure:"json" toml:"json" json:"json"`
	File      string `mapstructure:"file" toml:"file" json:"file"`
	Verbosity int    `mapstructure:"verbosity" toml:"verbosity" json:"verbosity"`
}

// RenderOptions converts the render settings for typegen.CreateFile.
func (c *Config) RenderOptions() *typegen.RenderOptions {
	return &typegen.RenderOptions{
		Prefix:                     typegen.String(c.Output.Prefix),
		IncludeUndefinedOnOptional: typegen.Bool(c.Render.IncludeUndefinedOnOptional),
		ArraysReadonly:             typegen.Bool(c.Render.ArraysReadonly),
		PreferLinkedAliases:        typegen.Bool(c.Render.PreferLinkedAliases),
		BrandContentTypeID:         typegen.Bool(c.Render.BrandContentTypeID),
	}
}

// FormatTimeout returns the formatter timeout as a duration.
func (c *Config) FormatTimeout() time.Duration {
	return time.Duration(c.Format.TimeoutSeconds) * time.Second
}

// APITimeout returns the CMA request timeout as a duration.
func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.Contentful.TimeoutSeconds) * time.Second
}

// UsesAPI reports whether the run reads from the Content Management API.
func (c *Config) UsesAPI() bool {
	return c.Source.From == "" && !c.Source.Offline
}

// Redacted returns a copy safe to print or log.
func (c *Config) Redacted() *Config {
	out := *c
	out.Contentful.ManagementToken = redact(c.Contentful.ManagementToken)
	return &out
}

func redact(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 8 {
		return "********"
	}
	return token[:4] + "…" + token[len(token)-4:]
}
