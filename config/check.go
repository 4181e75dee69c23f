package config

import (
	"os"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/teranos/contentful-typegen/errors"
)

// CheckResult reports how a config file decodes against Config.
type CheckResult struct {
	Path string
	// Unknown lists keys that do not map onto any setting, e.g. "render.brand_id"
	Unknown []string
}

// OK reports whether every key in the file is known.
func (r *CheckResult) OK() bool {
	return len(r.Unknown) == 0
}

// Err returns an ErrInvalidRequest listing the unknown keys, or nil.
func (r *CheckResult) Err() error {
	if r.OK() {
		return nil
	}
	return errors.WithHint(
		errors.Wrapf(errors.ErrInvalidRequest, "%s has %d unknown key(s): %v", r.Path, len(r.Unknown), r.Unknown),
		"run 'contentful-typegen config init' to see every supported key",
	)
}

// CheckFile strictly decodes path. Syntax and type errors are returned as
// errors; unknown keys are reported in the result.
func CheckFile(path string) (*CheckResult, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.NewNotFoundError("config file %s does not exist", path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidRequest, "%s: %s", path, err)
	}

	result := &CheckResult{Path: path}
	for _, key := range meta.Undecoded() {
		result.Unknown = append(result.Unknown, key.String())
	}
	sort.Strings(result.Unknown)
	return result, nil
}
