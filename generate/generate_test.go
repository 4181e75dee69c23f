package generate

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/contentful-typegen/contentful"
	"github.com/teranos/contentful-typegen/contentful/source"
	"github.com/teranos/contentful-typegen/errors"
	"github.com/teranos/contentful-typegen/typegen"
	"github.com/teranos/contentful-typegen/typegen/format"
)

func model() source.Static {
	return source.Static{
		{
			Sys:  contentful.Sys{ID: "article"},
			Name: "Article",
			Fields: []contentful.Field{
				{ID: "title", Type: contentful.FieldSymbol, Required: true},
				{
					ID: "author", Type: contentful.FieldLink, LinkType: contentful.LinkEntry,
					Validations: []contentful.Validation{contentful.LinkContentTypeValidation("person")},
				},
			},
		},
		{
			Sys:    contentful.Sys{ID: "person"},
			Name:   "Person",
			Fields: []contentful.Field{{ID: "name", Type: contentful.FieldSymbol, Required: true}},
		},
	}
}

type failingSource struct{}

func (failingSource) ContentTypes(context.Context) ([]contentful.ContentType, error) {
	return nil, errors.ErrUnauthorized
}

func (failingSource) Describe() string { return "failing" }

type recordingSaver struct {
	space, env string
	saved      []contentful.ContentType
	err        error
}

func (r *recordingSaver) Save(_ context.Context, spaceID, environmentID string, cts []contentful.ContentType) error {
	r.space, r.env, r.saved = spaceID, environmentID, cts
	return r.err
}

func TestGenerateWritesFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "types", "nested", "contentful.d.ts")

	result, err := Generate(context.Background(), Params{
		Source:  model(),
		OutFile: out,
		Logger:  zaptest.NewLogger(t).Sugar(),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Count)
	assert.Equal(t, out, result.OutFile)
	assert.False(t, result.Formatted)
	assert.NotEmpty(t, result.RunID)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	text := string(data)
	assert.Equal(t, len(data), result.Bytes)
	assert.Equal(t, typegen.CreateFile(model(), nil), text)
	assert.Contains(t, text, "export interface IArticleFields {")
	assert.Contains(t, text, "author?: IPerson | undefined;")
}

func TestGenerateOverwrites(t *testing.T) {
	out := filepath.Join(t.TempDir(), "contentful.d.ts")
	require.NoError(t, os.WriteFile(out, []byte("stale"), 0644))

	_, err := Generate(context.Background(), Params{Source: model(), OutFile: out})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale")
}

func TestGenerateRenderOptions(t *testing.T) {
	out := filepath.Join(t.TempDir(), "contentful.d.ts")

	_, err := Generate(context.Background(), Params{
		Source:  model(),
		OutFile: out,
		Render:  &typegen.RenderOptions{Prefix: typegen.String("Cf"), IncludeUndefinedOnOptional: typegen.Bool(false)},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "export interface CfPersonFields {")
	assert.Contains(t, string(data), "author?: CfPerson;")
}

func TestGenerateFormatter(t *testing.T) {
	out := filepath.Join(t.TempDir(), "contentful.d.ts")
	var gotName string
	upper := format.FormatterFunc(func(_ context.Context, src, filename string) (string, error) {
		gotName = filename
		return strings.ToUpper(src), nil
	})

	result, err := Generate(context.Background(), Params{Source: model(), OutFile: out, Formatter: upper})
	require.NoError(t, err)
	assert.True(t, result.Formatted)
	assert.Equal(t, out, gotName)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "EXPORT INTERFACE IARTICLEFIELDS")
}

func TestGenerateFormatterFailureKeepsOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "contentful.d.ts")
	broken := format.FormatterFunc(func(context.Context, string, string) (string, error) {
		return "", errors.New("prettier not installed")
	})

	result, err := Generate(context.Background(), Params{
		Source:    model(),
		OutFile:   out,
		Formatter: broken,
		Logger:    zaptest.NewLogger(t).Sugar(),
	})
	require.NoError(t, err)
	assert.False(t, result.Formatted)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, typegen.CreateFile(model(), nil), string(data))
}

func TestGenerateSourceFailure(t *testing.T) {
	out := filepath.Join(t.TempDir(), "contentful.d.ts")

	_, err := Generate(context.Background(), Params{Source: failingSource{}, OutFile: out})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnauthorized))
	assert.Contains(t, err.Error(), "failing")

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "no file is written when fetching fails")
}

func TestGenerateWriteFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	_, err := Generate(context.Background(), Params{Source: model(), OutFile: filepath.Join(blocker, "contentful.d.ts")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create output directory")
}

func TestGenerateValidatesParams(t *testing.T) {
	_, err := Generate(context.Background(), Params{Source: model()})
	assert.True(t, errors.IsInvalidRequestError(err))

	_, err = Generate(context.Background(), Params{OutFile: filepath.Join(t.TempDir(), "x.d.ts")})
	assert.True(t, errors.IsInvalidRequestError(err))
}

func TestGenerateSavesSnapshot(t *testing.T) {
	saver := &recordingSaver{}
	out := filepath.Join(t.TempDir(), "contentful.d.ts")

	_, err := Generate(context.Background(), Params{
		Source:        model(),
		OutFile:       out,
		Snapshots:     saver,
		SpaceID:       "space1",
		EnvironmentID: "master",
	})
	require.NoError(t, err)
	assert.Equal(t, "space1", saver.space)
	assert.Equal(t, "master", saver.env)
	assert.Len(t, saver.saved, 2)
}

func TestGenerateSnapshotFailureIsNotFatal(t *testing.T) {
	saver := &recordingSaver{err: errors.New("disk full")}
	out := filepath.Join(t.TempDir(), "contentful.d.ts")

	result, err := Generate(context.Background(), Params{
		Source:    model(),
		OutFile:   out,
		Snapshots: saver,
		Logger:    zaptest.NewLogger(t).Sugar(),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Count)
	assert.FileExists(t, out)
}

func TestRenderDoesNotWrite(t *testing.T) {
	dir := t.TempDir()
	out, err := Render(context.Background(), Params{Source: model(), OutFile: filepath.Join(dir, "contentful.d.ts")})
	require.NoError(t, err)

	assert.Equal(t, 2, out.Count)
	assert.Equal(t, typegen.CreateFile(model(), nil), out.Text)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRenderRunIDsAreUnique(t *testing.T) {
	a, err := Render(context.Background(), Params{Source: model()})
	require.NoError(t, err)
	b, err := Render(context.Background(), Params{Source: model()})
	require.NoError(t, err)
	assert.NotEqual(t, a.RunID, b.RunID)
	assert.Equal(t, a.Text, b.Text)
}

func TestFormatName(t *testing.T) {
	assert.Equal(t, "contentful.d.ts", formatName(""))
	assert.Equal(t, "contentful.d.ts", formatName(Stdout))
	assert.Equal(t, "types/x.d.ts", formatName("types/x.d.ts"))
}
