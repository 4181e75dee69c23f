package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/contentful-typegen/contentful"
	"github.com/teranos/contentful-typegen/errors"
)

func filterModel() []contentful.ContentType {
	return []contentful.ContentType{
		{Sys: contentful.Sys{ID: "blogPost"}, Name: "Blog Post"},
		{Sys: contentful.Sys{ID: "blogAuthor"}, Name: "Blog Author"},
		{Sys: contentful.Sys{ID: "landingPage"}, Name: "Landing Page", Fields: []contentful.Field{
			{ID: "slug", Type: contentful.FieldSymbol},
		}},
	}
}

func TestFilterApply(t *testing.T) {
	tests := []struct {
		name             string
		include, exclude string
		want             []string
	}{
		{"empty keeps all", "", "", []string{"blogPost", "blogAuthor", "landingPage"}},
		{"include by id", `.sys.id == "blogPost"`, "", []string{"blogPost"}},
		{"include prefix", `.sys.id | startswith("blog")`, "", []string{"blogPost", "blogAuthor"}},
		{"exclude", "", `.sys.id == "blogAuthor"`, []string{"blogPost", "landingPage"}},
		{"include and exclude", `.sys.id | startswith("blog")`, `.name | test("Author")`, []string{"blogPost"}},
		{"by fields", `.fields // [] | any(.[]; .id == "slug")`, "", []string{"landingPage"}},
		{"null is falsy", `.description`, "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFilter(tt.include, tt.exclude)
			require.NoError(t, err)

			got, err := f.Apply(context.Background(), filterModel())
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestNewFilterInvalid(t *testing.T) {
	_, err := NewFilter(".sys.id ==", "")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidRequestError(err))
	assert.NotEmpty(t, errors.GetAllHints(err))

	_, err = NewFilter("", "undefined_function(1)")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidRequestError(err))
}

func TestFilterRuntimeError(t *testing.T) {
	f, err := NewFilter(`.sys.id + 1`, "")
	require.NoError(t, err)

	_, err = f.Apply(context.Background(), filterModel())
	assert.ErrorContains(t, err, "include expression on blogPost")
}

func TestFilterEmptyAndString(t *testing.T) {
	var nilFilter *Filter
	assert.True(t, nilFilter.Empty())

	f, err := NewFilter("  ", "")
	require.NoError(t, err)
	assert.True(t, f.Empty())

	f, err = NewFilter(`.sys.id == "a"`, `.name == "b"`)
	require.NoError(t, err)
	assert.False(t, f.Empty())
	assert.Equal(t, `include .sys.id == "a", exclude .name == "b"`, f.String())
}

func TestFiltered(t *testing.T) {
	static := Static(filterModel())
	assert.Equal(t, "3 static content types", static.Describe())

	assert.Equal(t, static.Describe(), Filtered(static, nil).Describe())

	f, err := NewFilter(`.sys.id | startswith("landing")`, "")
	require.NoError(t, err)
	src := Filtered(static, f)
	assert.Equal(t, `3 static content types (include .sys.id | startswith("landing"))`, src.Describe())

	got, err := src.ContentTypes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"landingPage"}, ids(got))
}
