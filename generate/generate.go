// Package generate runs one generation: read the content model, build the
// declaration file, format it, write it.
package generate

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranos/contentful-typegen/contentful"
	"github.com/teranos/contentful-typegen/contentful/source"
	"github.com/teranos/contentful-typegen/errors"
	"github.com/teranos/contentful-typegen/logger"
	"github.com/teranos/contentful-typegen/typegen"
	"github.com/teranos/contentful-typegen/typegen/format"
)

// Stdout as OutFile means "do not write a file".
const Stdout = "-"

// SnapshotSaver stores what a run fetched so later runs can work offline.
type SnapshotSaver interface {
	Save(ctx context.Context, spaceID, environmentID string, contentTypes []contentful.ContentType) error
}

// Params configures a run.
type Params struct {
	Source  source.Source
	OutFile string
	Render  *typegen.RenderOptions

	// Formatter is applied best-effort; nil skips formatting
	Formatter format.Formatter

	// Snapshots, when set, receives the fetched model keyed by SpaceID/EnvironmentID
	Snapshots     SnapshotSaver
	SpaceID       string
	EnvironmentID string

	Logger *zap.SugaredLogger
}

// Result describes a completed run.
type Result struct {
	Count     int
	OutFile   string
	RunID     string
	Formatted bool
	Bytes     int
}

// Output is a rendered declaration file that has not been written yet.
type Output struct {
	Text      string
	Count     int
	RunID     string
	Formatted bool
}

// Generate renders the declaration file and writes it to params.OutFile,
// creating parent directories as needed.
func Generate(ctx context.Context, params Params) (*Result, error) {
	if params.OutFile == "" {
		return nil, errors.NewInvalidRequestError("output file is empty")
	}

	out, err := Render(ctx, params)
	if err != nil {
		return nil, err
	}

	log := logger.FromContext(logger.WithRunID(ctx, out.RunID), params.Logger)
	if err := writeFile(params.OutFile, out.Text); err != nil {
		return nil, err
	}
	log.Infow("Wrote declaration file",
		logger.FieldFile, params.OutFile,
		logger.FieldCount, out.Count,
		logger.FieldBytes, len(out.Text),
	)

	return &Result{
		Count:     out.Count,
		OutFile:   params.OutFile,
		RunID:     out.RunID,
		Formatted: out.Formatted,
		Bytes:     len(out.Text),
	}, nil
}

// Render reads the content model, builds the file and formats it without
// touching params.OutFile beyond using its name as the formatter's filename.
func Render(ctx context.Context, params Params) (*Output, error) {
	if params.Source == nil {
		return nil, errors.NewInvalidRequestError("no content model source configured")
	}

	runID := uuid.NewString()
	ctx = logger.WithRunID(ctx, runID)
	log := logger.FromContext(ctx, params.Logger)
	start := time.Now()

	log.Debugw("Reading content model", logger.FieldSource, params.Source.Describe())
	contentTypes, err := params.Source.ContentTypes(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read content types from %s", params.Source.Describe())
	}
	log.Infow("Read content model",
		logger.FieldSource, params.Source.Describe(),
		logger.FieldCount, len(contentTypes),
	)
	if logger.TraceEnabled() {
		for _, ct := range contentTypes {
			log.Debugw("Content type", logger.FieldContentType, ct.ID(), "fields", len(ct.Fields))
		}
	}

	if params.Snapshots != nil {
		if err := params.Snapshots.Save(ctx, params.SpaceID, params.EnvironmentID, contentTypes); err != nil {
			log.Warnw("Failed to save content model snapshot",
				logger.FieldSpace, params.SpaceID,
				logger.FieldEnvironment, params.EnvironmentID,
				logger.FieldError, err,
			)
		}
	}

	text := typegen.CreateFile(contentTypes, params.Render)

	formatted := false
	if params.Formatter != nil {
		text, formatted = format.BestEffort(ctx, params.Formatter, text, formatName(params.OutFile), log)
	}

	log.Debugw("Rendered declaration file",
		logger.FieldCount, len(contentTypes),
		logger.FieldBytes, len(text),
		"formatted", formatted,
		logger.FieldDurationMS, time.Since(start).Milliseconds(),
	)

	return &Output{Text: text, Count: len(contentTypes), RunID: runID, Formatted: formatted}, nil
}

// formatName is the filename handed to the formatter, used only to pick a parser.
func formatName(outFile string) string {
	if outFile == "" || outFile == Stdout {
		return "contentful.d.ts"
	}
	return outFile
}

func writeFile(path, text string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "failed to create output directory %s", dir)
		}
	}
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}
