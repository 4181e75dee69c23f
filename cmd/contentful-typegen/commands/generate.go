package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teranos/contentful-typegen/config"
	"github.com/teranos/contentful-typegen/contentful"
	"github.com/teranos/contentful-typegen/contentful/source"
	"github.com/teranos/contentful-typegen/errors"
	"github.com/teranos/contentful-typegen/generate"
	"github.com/teranos/contentful-typegen/internal/httpclient"
	"github.com/teranos/contentful-typegen/logger"
	"github.com/teranos/contentful-typegen/snapshot"
	"github.com/teranos/contentful-typegen/typegen/format"
)

// errMissingCredentials marks a run that lacks --space, --env or --token.
var errMissingCredentials = errors.New("missing required inputs")

func (a *app) runGenerate(cmd *cobra.Command, _ []string) error {
	if err := a.requireInputs(); err != nil {
		return err
	}

	ctx := cmd.Context()
	params, cleanup, err := a.params(ctx, a.cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if a.cfg.Output.File == generate.Stdout {
		out, err := generate.Render(ctx, params)
		if err != nil {
			return err
		}
		fmt.Fprint(a.stdout, out.Text)
		printSuccess(a.stderr, out.Count, "stdout")
		return nil
	}

	result, err := generate.Generate(ctx, params)
	if err != nil {
		return err
	}
	printSuccess(a.stdout, result.Count, result.OutFile)
	return nil
}

// requireInputs validates the configuration and the credentials the chosen
// source needs.
func (a *app) requireInputs() error {
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	if err := a.cfg.ValidateCredentials(); err != nil {
		return errors.Mark(err, errMissingCredentials)
	}
	return nil
}

// params assembles a generation from the configuration. cleanup releases
// the snapshot store and is safe to call when params fails.
func (a *app) params(ctx context.Context, cfg *config.Config) (generate.Params, func(), error) {
	var store *snapshot.Store
	cleanup := func() {
		if store != nil {
			_ = store.Close()
		}
	}

	var err error
	if cfg.Source.Offline || (cfg.UsesAPI() && cfg.Snapshot.Enabled) {
		store, err = openSnapshots(ctx, cfg)
		if err != nil {
			if cfg.Source.Offline {
				return generate.Params{}, cleanup, err
			}
			logger.Warnw("Snapshot store unavailable, continuing without it", logger.FieldError, err)
		}
	}

	src, err := a.source(cfg, store)
	if err != nil {
		return generate.Params{}, cleanup, err
	}
	filter, err := source.NewFilter(cfg.Filter.Include, cfg.Filter.Exclude)
	if err != nil {
		return generate.Params{}, cleanup, err
	}

	formatter, err := buildFormatter(cfg)
	if err != nil {
		return generate.Params{}, cleanup, err
	}

	params := generate.Params{
		Source:        source.Filtered(src, filter),
		OutFile:       cfg.Output.File,
		Render:        cfg.RenderOptions(),
		Formatter:     formatter,
		SpaceID:       cfg.Contentful.SpaceID,
		EnvironmentID: cfg.Contentful.EnvironmentID,
		Logger:        logger.Named("generate"),
	}
	// Only the unfiltered API model is worth keeping for offline runs
	if store != nil && cfg.UsesAPI() && filter.Empty() {
		params.Snapshots = store
	}
	return params, cleanup, nil
}

func (a *app) source(cfg *config.Config, store *snapshot.Store) (source.Source, error) {
	switch {
	case cfg.Source.From != "":
		client := a.httpClient
		if client == nil {
			// exports often live on internal hosts
			block := false
			client = httpclient.NewWithOptions(cfg.APITimeout(), httpclient.Options{BlockPrivateIP: &block})
		}
		return &source.ExportSource{
			Location:   cfg.Source.From,
			HTTPClient: client,
			Logger:     logger.Named("export"),
		}, nil

	case cfg.Source.Offline:
		if store == nil {
			return nil, errors.NewInvalidRequestError("offline mode needs the snapshot store")
		}
		return &source.SnapshotSource{
			Store:         store,
			SpaceID:       cfg.Contentful.SpaceID,
			EnvironmentID: cfg.Contentful.EnvironmentID,
		}, nil

	default:
		client := a.httpClient
		if client == nil {
			client = httpclient.New(cfg.APITimeout())
		}
		return &source.APISource{
			Client: contentful.NewClient(contentful.ClientConfig{
				Token:      cfg.Contentful.ManagementToken,
				BaseURL:    cfg.Contentful.BaseURL,
				RateLimit:  cfg.Contentful.RateLimit,
				PageSize:   cfg.Contentful.PageSize,
				HTTPClient: client,
				Logger:     logger.Named("cma"),
			}),
			SpaceID:       cfg.Contentful.SpaceID,
			EnvironmentID: cfg.Contentful.EnvironmentID,
		}, nil
	}
}

func openSnapshots(ctx context.Context, cfg *config.Config) (*snapshot.Store, error) {
	path := cfg.Snapshot.Path
	if path == "" {
		var err error
		if path, err = snapshot.DefaultPath(); err != nil {
			return nil, err
		}
	}
	return snapshot.Open(ctx, path, logger.Named("snapshot"))
}

// buildFormatter returns nil when formatting is disabled.
func buildFormatter(cfg *config.Config) (format.Formatter, error) {
	if !cfg.Format.Enabled {
		return nil, nil
	}
	f, err := format.New(cfg.Format.Command, cfg.FormatTimeout())
	if err != nil {
		return nil, err
	}
	if cfg.Format.Fallback && strings.TrimSpace(cfg.Format.Command) != format.Builtin {
		return format.Chain(f, format.Normalizer), nil
	}
	return f, nil
}
