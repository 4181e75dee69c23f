package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/teranos/contentful-typegen/errors"
	"github.com/teranos/contentful-typegen/generate"
	"github.com/teranos/contentful-typegen/internal/watch"
	"github.com/teranos/contentful-typegen/logger"
)

func (a *app) watchCmd() *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate whenever a local content model file changes",
		Long: `Generate once from --from, then regenerate the whole file every time the
export file changes. Stop with Ctrl-C.

Examples:
  contentful-typegen watch --from contentful-export.json
  contentful-typegen watch --from model.yaml --out src/types/contentful.d.ts`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.runWatch(ctx, debounce)
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Quiet period before regenerating")
	return cmd
}

func (a *app) runWatch(ctx context.Context, debounce time.Duration) error {
	from := a.cfg.Source.From
	if from == "" {
		return errors.WithHint(
			errors.NewInvalidRequestError("watch needs --from pointing at a local file"),
			"export the model with 'contentful space export --skip-content' and pass the file with --from",
		)
	}
	if a.cfg.Output.File == generate.Stdout {
		return errors.NewInvalidRequestError("watch needs a file path for --out")
	}
	if info, err := os.Stat(from); err != nil || info.IsDir() {
		return errors.NewNotFoundError("watch needs an existing local file, got %s", from)
	}
	if err := a.requireInputs(); err != nil {
		return err
	}

	log := logger.Named("watch")
	regenerate := func(ctx context.Context) error {
		params, cleanup, err := a.params(ctx, a.cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		result, err := generate.Generate(ctx, params)
		if err != nil {
			return err
		}
		printSuccess(a.stdout, result.Count, result.OutFile)
		return nil
	}

	w, err := watch.New(from, debounce, log)
	if err != nil {
		return err
	}
	if err := regenerate(ctx); err != nil {
		log.Errorw("Initial generation failed", logger.FieldError, err)
		printError(a.stderr, "❌ "+err.Error())
	}

	log.Infow("Watching for changes", logger.FieldFile, w.Path())
	return w.Run(ctx, func(ctx context.Context) error {
		err := regenerate(ctx)
		if err != nil {
			printError(a.stderr, "❌ "+err.Error())
		}
		return err
	})
}
