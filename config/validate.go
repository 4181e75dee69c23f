package config

import (
	"net/url"
	"strings"

	"github.com/teranos/contentful-typegen/contentful"
	"github.com/teranos/contentful-typegen/errors"
)

// MissingCredentialsMessage is printed when an API run lacks credentials.
const MissingCredentialsMessage = "Missing required inputs. Provide --space, --env, --token or set CF_SPACE_ID / CF_ENV / CF_MANAGER_TOKEN."

// Validate checks the settings that do not depend on the chosen source.
func (c *Config) Validate() error {
	if c.Output.File == "" {
		return errors.NewInvalidRequestError("output.file cannot be empty (use \"-\" for stdout)")
	}
	if c.Source.From != "" && c.Source.Offline {
		return errors.NewInvalidRequestError("source.from and source.offline are mutually exclusive")
	}
	if c.Contentful.RateLimit <= 0 {
		return errors.NewInvalidRequestError("contentful.rate_limit must be > 0, got %g", c.Contentful.RateLimit)
	}
	if c.Contentful.PageSize < 1 || c.Contentful.PageSize > contentful.MaxPageSize {
		return errors.NewInvalidRequestError("contentful.page_size must be between 1 and %d, got %d",
			contentful.MaxPageSize, c.Contentful.PageSize)
	}
	if c.Contentful.TimeoutSeconds <= 0 {
		return errors.NewInvalidRequestError("contentful.timeout_seconds must be > 0, got %d", c.Contentful.TimeoutSeconds)
	}
	if u, err := url.Parse(c.Contentful.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return errors.NewInvalidRequestError("contentful.base_url %q is not an absolute URL", c.Contentful.BaseURL)
	}
	if c.Format.Enabled {
		if strings.TrimSpace(c.Format.Command) == "" {
			return errors.NewInvalidRequestError("format.command cannot be empty when format.enabled is true")
		}
		if c.Format.TimeoutSeconds <= 0 {
			return errors.NewInvalidRequestError("format.timeout_seconds must be > 0, got %d", c.Format.TimeoutSeconds)
		}
	}
	if c.Log.Verbosity < 0 {
		return errors.NewInvalidRequestError("log.verbosity must be >= 0, got %d", c.Log.Verbosity)
	}
	return nil
}

// MissingCredentials lists the credential flags an API run still needs.
// Offline runs need space and environment to find their snapshot.
func (c *Config) MissingCredentials() []string {
	var missing []string
	if c.Source.From != "" {
		return nil
	}
	if c.Contentful.SpaceID == "" {
		missing = append(missing, "--space")
	}
	if c.Contentful.EnvironmentID == "" {
		missing = append(missing, "--env")
	}
	if !c.Source.Offline && c.Contentful.ManagementToken == "" {
		missing = append(missing, "--token")
	}
	return missing
}

// ValidateCredentials returns ErrInvalidRequest when MissingCredentials is
// not empty.
func (c *Config) ValidateCredentials() error {
	missing := c.MissingCredentials()
	if len(missing) == 0 {
		return nil
	}
	return errors.WithHintf(
		errors.Wrapf(errors.ErrInvalidRequest, "missing %s", strings.Join(missing, ", ")),
		"set %s / %s / %s, or add them to %s", EnvSpaceID, EnvEnv, EnvToken, FileName,
	)
}
