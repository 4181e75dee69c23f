package source

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/itchyny/gojq"

	"github.com/teranos/contentful-typegen/contentful"
	"github.com/teranos/contentful-typegen/errors"
)

// Filter selects content types with jq expressions evaluated against each
// content type's JSON, e.g. `.sys.id | startswith("blog")`.
//
// A content type is kept when Include (if set) yields a truthy value and
// Exclude (if set) does not. Order is preserved.
type Filter struct {
	include    *gojq.Code
	exclude    *gojq.Code
	includeSrc string
	excludeSrc string
}

// NewFilter compiles the include and exclude expressions. Empty expressions
// are skipped.
func NewFilter(include, exclude string) (*Filter, error) {
	f := &Filter{includeSrc: strings.TrimSpace(include), excludeSrc: strings.TrimSpace(exclude)}

	var err error
	if f.include, err = compile("include", f.includeSrc); err != nil {
		return nil, err
	}
	if f.exclude, err = compile("exclude", f.excludeSrc); err != nil {
		return nil, err
	}
	return f, nil
}

func compile(name, expression string) (*gojq.Code, error) {
	if expression == "" {
		return nil, nil
	}
	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, errors.WithHint(
			errors.Wrapf(errors.ErrInvalidRequest, "invalid %s expression %q: %s", name, expression, err),
			`expressions are jq, e.g. '.sys.id | startswith("blog")'`,
		)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidRequest, "failed to compile %s expression %q: %s", name, expression, err)
	}
	return code, nil
}

// Empty reports whether the filter keeps everything.
func (f *Filter) Empty() bool {
	return f == nil || (f.include == nil && f.exclude == nil)
}

// String describes the expressions.
func (f *Filter) String() string {
	var parts []string
	if f.includeSrc != "" {
		parts = append(parts, "include "+f.includeSrc)
	}
	if f.excludeSrc != "" {
		parts = append(parts, "exclude "+f.excludeSrc)
	}
	return strings.Join(parts, ", ")
}

// Apply returns the content types the filter keeps.
func (f *Filter) Apply(ctx context.Context, types []contentful.ContentType) ([]contentful.ContentType, error) {
	if f.Empty() {
		return types, nil
	}

	kept := make([]contentful.ContentType, 0, len(types))
	for _, ct := range types {
		input, err := toJQInput(ct)
		if err != nil {
			return nil, err
		}

		if f.include != nil {
			ok, err := truthy(ctx, f.include, input)
			if err != nil {
				return nil, errors.Wrapf(err, "include expression on %s", ct.ID())
			}
			if !ok {
				continue
			}
		}
		if f.exclude != nil {
			drop, err := truthy(ctx, f.exclude, input)
			if err != nil {
				return nil, errors.Wrapf(err, "exclude expression on %s", ct.ID())
			}
			if drop {
				continue
			}
		}
		kept = append(kept, ct)
	}
	return kept, nil
}

// toJQInput converts a content type to the plain map/slice form gojq expects.
func toJQInput(ct contentful.ContentType) (any, error) {
	data, err := json.Marshal(ct)
	if err != nil {
		return nil, errors.Wrapf(err, "encode content type %s", ct.ID())
	}
	var input any
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, errors.Wrapf(err, "decode content type %s", ct.ID())
	}
	return input, nil
}

// truthy reports whether any output of code is neither false nor null.
func truthy(ctx context.Context, code *gojq.Code, input any) (bool, error) {
	iter := code.RunWithContext(ctx, input)
	for {
		v, ok := iter.Next()
		if !ok {
			return false, nil
		}
		if err, isErr := v.(error); isErr {
			return false, err
		}
		if v != nil && v != false {
			return true, nil
		}
	}
}
