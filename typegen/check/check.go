// Package check verifies that a generated declaration file matches what a
// fresh generation would write.
package check

import (
	"os"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/teranos/contentful-typegen/errors"
)

// Result holds the outcome of comparing an existing file with fresh output.
type Result struct {
	Path     string
	UpToDate bool
	// Missing is set when the file does not exist yet
	Missing bool
	// Diff is a unified diff from the file on disk to the fresh output
	Diff string
}

// CompareFile compares the file at path with fresh.
func CompareFile(path, fresh string) (*Result, error) {
	existing, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read %s", path)
		}
		diff, err := unified(path, "", fresh)
		if err != nil {
			return nil, err
		}
		return &Result{Path: path, Missing: true, Diff: diff}, nil
	}
	return Compare(path, string(existing), fresh)
}

// Compare compares existing text with fresh text. name labels the diff.
func Compare(name, existing, fresh string) (*Result, error) {
	if existing == fresh {
		return &Result{Path: name, UpToDate: true}, nil
	}
	diff, err := unified(name, existing, fresh)
	if err != nil {
		return nil, err
	}
	return &Result{Path: name, Diff: diff}, nil
}

// Err returns errors.ErrOutOfDate (with the path) unless the file is up to date.
func (r *Result) Err() error {
	if r.UpToDate {
		return nil
	}
	if r.Missing {
		return errors.WithHint(
			errors.Wrapf(errors.ErrOutOfDate, "%s does not exist", r.Path),
			"run contentful-typegen to generate it",
		)
	}
	return errors.WithHint(
		errors.Wrapf(errors.ErrOutOfDate, "%s differs from the current content model", r.Path),
		"run contentful-typegen to regenerate it",
	)
}

func unified(name, existing, fresh string) (string, error) {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(existing),
		B:        difflib.SplitLines(fresh),
		FromFile: name,
		ToFile:   name + " (generated)",
		Context:  3,
	})
	if err != nil {
		return "", errors.Wrap(err, "build diff")
	}
	return diff, nil
}
