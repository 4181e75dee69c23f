package source

import (
	"bytes"
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-getter"
	"go.uber.org/zap"

	"github.com/teranos/contentful-typegen/contentful"
	"github.com/teranos/contentful-typegen/errors"
	"github.com/teranos/contentful-typegen/internal/httpclient"
	"github.com/teranos/contentful-typegen/logger"
)

// ExportSource reads content types from a `contentful space export` file or
// any JSON/YAML content model document.
//
// Location is a local path or anything go-getter understands:
//   - Local paths: ./contentful-export.json, ~/exports/model.yaml
//   - HTTP(S): https://example.com/model.json
//   - Object storage: s3::https://s3.amazonaws.com/bucket/export.json, gcs::...
//   - Git: git::https://github.com/org/repo.git//content-model.json
type ExportSource struct {
	Location string
	// HTTPClient is used for http(s) locations. Defaults to go-getter's client.
	HTTPClient *httpclient.SaferClient
	Logger     *zap.SugaredLogger
}

// ContentTypes reads and decodes the document.
func (s *ExportSource) ContentTypes(ctx context.Context) ([]contentful.ContentType, error) {
	log := s.Logger
	if log == nil {
		log = logger.Logger
	}

	data, name, err := s.read(ctx, log)
	if err != nil {
		return nil, err
	}

	types, err := decode(name, data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", s.Location)
	}
	log.Debugw("read content model export",
		logger.FieldSource, s.Location,
		logger.FieldCount, len(types),
		logger.FieldBytes, len(data),
	)
	return types, nil
}

// Describe implements Source.
func (s *ExportSource) Describe() string {
	return "export " + s.Location
}

func (s *ExportSource) read(ctx context.Context, log *zap.SugaredLogger) ([]byte, string, error) {
	if s.Location == "" {
		return nil, "", errors.NewInvalidRequestError("export location is empty")
	}

	if local, ok := localPath(s.Location); ok {
		data, err := os.ReadFile(local)
		if os.IsNotExist(err) {
			return nil, "", errors.NewNotFoundError("export file %s does not exist", local)
		}
		if err != nil {
			return nil, "", errors.Wrapf(err, "failed to read %s", local)
		}
		return data, local, nil
	}

	pwd, err := os.Getwd()
	if err != nil {
		pwd = "."
	}
	detected, err := getter.Detect(s.Location, pwd, getter.Detectors)
	if err != nil {
		return nil, "", errors.Wrapf(errors.ErrInvalidRequest, "unsupported export location %q: %s", s.Location, err)
	}

	tempDir, err := os.MkdirTemp("", "contentful-typegen-export-*")
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to create temp directory")
	}
	defer os.RemoveAll(tempDir)

	name := remoteName(detected)
	dst := filepath.Join(tempDir, name)

	log.Infow("Fetching content model export",
		logger.FieldSource, s.Location,
		"detected", detected,
	)

	client := &getter.Client{
		Ctx:     ctx,
		Src:     detected,
		Dst:     dst,
		Pwd:     pwd,
		Mode:    getter.ClientModeFile,
		Getters: s.getters(),
	}
	if err := client.Get(); err != nil {
		return nil, "", errors.Wrapf(err, "failed to fetch %s", s.Location)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to read fetched export")
	}
	return data, name, nil
}

// getters returns go-getter's default getters, with HTTP(S) routed through
// HTTPClient when set.
func (s *ExportSource) getters() map[string]getter.Getter {
	getters := make(map[string]getter.Getter, len(getter.Getters))
	for k, v := range getter.Getters {
		getters[k] = v
	}
	if s.HTTPClient != nil {
		httpGetter := &getter.HttpGetter{Client: s.HTTPClient.Client, Netrc: true}
		getters["http"] = httpGetter
		getters["https"] = httpGetter
	}
	return getters
}

// localPath returns the filesystem path for plain paths and file:// URLs.
func localPath(location string) (string, bool) {
	if strings.HasPrefix(location, "file://") {
		u, err := url.Parse(location)
		if err != nil {
			return "", false
		}
		return u.Path, true
	}
	if strings.Contains(location, "::") || strings.Contains(location, "://") {
		return "", false
	}
	if strings.HasPrefix(location, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, location[2:]), true
		}
	}
	// Bare host paths like github.com/org/repo//model.json go through go-getter
	if _, err := os.Stat(location); err != nil && looksRemote(location) {
		return "", false
	}
	return location, true
}

func looksRemote(location string) bool {
	first := strings.SplitN(filepath.ToSlash(location), "/", 2)[0]
	return strings.Contains(first, ".") && !strings.HasPrefix(first, ".") && strings.Contains(location, "/")
}

// remoteName keeps the extension of the remote file so the decoder can be chosen.
func remoteName(detected string) string {
	raw := detected
	if i := strings.Index(raw, "::"); i >= 0 {
		raw = raw[i+2:]
	}
	if u, err := url.Parse(raw); err == nil {
		raw = u.Path
	}
	if i := strings.LastIndex(raw, "//"); i >= 0 {
		raw = raw[i+2:]
	}
	base := path.Base(raw)
	switch strings.ToLower(path.Ext(base)) {
	case ".json", ".yaml", ".yml":
		return base
	}
	return "export"
}

// decode picks YAML for .yaml/.yml files and for documents that do not start
// like JSON.
func decode(name string, data []byte) ([]contentful.ContentType, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return contentful.DecodeContentTypesYAML(data)
	case ".json":
		return contentful.DecodeContentTypes(data)
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return contentful.DecodeContentTypes(data)
	}
	return contentful.DecodeContentTypesYAML(data)
}
