package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/teranos/contentful-typegen/contentful"
	"github.com/teranos/contentful-typegen/typegen"
	"github.com/teranos/contentful-typegen/typegen/format"
)

const (
	// FileName is the project config file looked up from the working directory upwards
	FileName = "contentful-typegen.toml"

	// UserDir is the directory under $HOME holding the user config
	UserDir = ".contentful-typegen"

	// UserFileName is the user config file inside UserDir
	UserFileName = "config.toml"

	// EnvPrefix prefixes every environment variable mapped onto a key
	EnvPrefix = "CFTG"

	// DotEnvFile is read from the working directory for credential variables
	DotEnvFile = ".env"

	DefaultOutFile        = "types/contentful.d.ts"
	DefaultAPITimeoutSecs = 60
	DefaultFormatTimeout  = int(format.DefaultTimeout / time.Second)
)

// Credential environment variables accepted without the CFTG_ prefix.
const (
	EnvSpaceID = "CF_SPACE_ID"
	EnvEnv     = "CF_ENV"
	EnvToken   = "CF_MANAGER_TOKEN"
)

// credentialEnv maps config keys to their short environment variable names.
var credentialEnv = map[string]string{
	"contentful.space_id":         EnvSpaceID,
	"contentful.environment_id":   EnvEnv,
	"contentful.management_token": EnvToken,
}

// SetDefaults configures default values for all configuration options.
// The environment has no default; it is a required credential.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("contentful.space_id", "")
	v.SetDefault("contentful.environment_id", "")
	v.SetDefault("contentful.management_token", "")
	v.SetDefault("contentful.base_url", contentful.DefaultBaseURL)
	v.SetDefault("contentful.rate_limit", contentful.DefaultRateLimit)
	v.SetDefault("contentful.page_size", contentful.DefaultPageSize)
	v.SetDefault("contentful.timeout_seconds", DefaultAPITimeoutSecs)

	v.SetDefault("source.from", "")
	v.SetDefault("source.offline", false)

	v.SetDefault("output.file", DefaultOutFile)
	v.SetDefault("output.prefix", typegen.DefaultPrefix)

	defaults := (*typegen.RenderOptions)(nil).Resolve()
	v.SetDefault("render.include_undefined_on_optional", defaults.IncludeUndefinedOnOptional)
	v.SetDefault("render.arrays_readonly", defaults.ArraysReadonly)
	v.SetDefault("render.prefer_linked_aliases", defaults.PreferLinkedAliases)
	v.SetDefault("render.brand_content_type_id", defaults.BrandContentTypeID)

	v.SetDefault("format.enabled", true)
	v.SetDefault("format.command", format.DefaultCommand)
	v.SetDefault("format.timeout_seconds", DefaultFormatTimeout)
	v.SetDefault("format.fallback", false)

	v.SetDefault("filter.include", "")
	v.SetDefault("filter.exclude", "")

	v.SetDefault("snapshot.enabled", true)
	v.SetDefault("snapshot.path", "")

	v.SetDefault("log.json", false)
	v.SetDefault("log.file", "")
	v.SetDefault("log.verbosity", 0)
}

// BindCredentialEnvVars binds the short credential variables next to their
// CFTG_ names. The prefixed name wins when both are set.
func BindCredentialEnvVars(v *viper.Viper) {
	for key, short := range credentialEnv {
		_ = v.BindEnv(key, envName(key), short)
	}
}
