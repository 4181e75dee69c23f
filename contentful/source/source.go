// Package source provides the places a content model can be read from: the
// Content Management API, a space export file (local or remote), or a stored
// snapshot.
package source

import (
	"context"
	"fmt"

	"github.com/teranos/contentful-typegen/contentful"
	"github.com/teranos/contentful-typegen/errors"
	"github.com/teranos/contentful-typegen/snapshot"
)

// Source yields the content types of one generation run, in a stable order.
type Source interface {
	ContentTypes(ctx context.Context) ([]contentful.ContentType, error)
	// Describe names the source for logs and messages
	Describe() string
}

// Fetcher is the subset of *contentful.Client used by APISource.
type Fetcher interface {
	GetContentTypes(ctx context.Context, spaceID, environmentID string) ([]contentful.ContentType, error)
}

// APISource reads content types from the Content Management API.
type APISource struct {
	Client        Fetcher
	SpaceID       string
	EnvironmentID string
}

// ContentTypes fetches every content type of the environment.
func (s *APISource) ContentTypes(ctx context.Context) ([]contentful.ContentType, error) {
	if s.Client == nil {
		return nil, errors.NewInvalidRequestError("API source has no client")
	}
	return s.Client.GetContentTypes(ctx, s.SpaceID, s.EnvironmentID)
}

// Describe implements Source.
func (s *APISource) Describe() string {
	return fmt.Sprintf("space %s, environment %s", s.SpaceID, s.EnvironmentID)
}

// Loader is the subset of *snapshot.Store used by SnapshotSource.
type Loader interface {
	Load(ctx context.Context, spaceID, environmentID string) (*snapshot.Snapshot, error)
}

// SnapshotSource reads the last stored content model, for offline runs.
type SnapshotSource struct {
	Store         Loader
	SpaceID       string
	EnvironmentID string
}

// ContentTypes loads the snapshot.
func (s *SnapshotSource) ContentTypes(ctx context.Context) ([]contentful.ContentType, error) {
	if s.Store == nil {
		return nil, errors.NewInvalidRequestError("snapshot source has no store")
	}
	snap, err := s.Store.Load(ctx, s.SpaceID, s.EnvironmentID)
	if err != nil {
		return nil, err
	}
	return snap.ContentTypes, nil
}

// Describe implements Source.
func (s *SnapshotSource) Describe() string {
	return fmt.Sprintf("snapshot of space %s, environment %s", s.SpaceID, s.EnvironmentID)
}

// Static serves a fixed list of content types.
type Static []contentful.ContentType

// ContentTypes returns the list.
func (s Static) ContentTypes(context.Context) ([]contentful.ContentType, error) {
	return s, nil
}

// Describe implements Source.
func (s Static) Describe() string {
	return fmt.Sprintf("%d static content types", len(s))
}

type filtered struct {
	src    Source
	filter *Filter
}

// Filtered applies filter to everything src yields. A nil filter returns src.
func Filtered(src Source, filter *Filter) Source {
	if filter == nil || filter.Empty() {
		return src
	}
	return &filtered{src: src, filter: filter}
}

func (f *filtered) ContentTypes(ctx context.Context) ([]contentful.ContentType, error) {
	types, err := f.src.ContentTypes(ctx)
	if err != nil {
		return nil, err
	}
	return f.filter.Apply(ctx, types)
}

func (f *filtered) Describe() string {
	return f.src.Describe() + " (" + f.filter.String() + ")"
}
