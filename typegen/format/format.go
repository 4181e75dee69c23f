// Package format beautifies generated declarations.
//
// Formatting is best-effort: a missing or failing formatter never fails a
// generation run, the unformatted text is written instead (see BestEffort).
package format

import (
	"bytes"
	"context"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
	"go.uber.org/zap"

	"github.com/teranos/contentful-typegen/errors"
	"github.com/teranos/contentful-typegen/logger"
)

// DefaultCommand runs a locally installed prettier. `{file}` is replaced with
// the output path so prettier can resolve the project's configuration.
const DefaultCommand = "npx --no-install prettier --parser typescript --stdin-filepath {file}"

// FilePlaceholder is substituted with the output path in command arguments.
const FilePlaceholder = "{file}"

// DefaultTimeout bounds a single formatter invocation.
const DefaultTimeout = 30 * time.Second

// Builtin names the Normalize formatter where a command line is expected.
const Builtin = "builtin"

// Formatter turns declaration text into formatted declaration text.
// filename is the path the text will be written to.
type Formatter interface {
	Format(ctx context.Context, src, filename string) (string, error)
}

// FormatterFunc adapts a function to Formatter.
type FormatterFunc func(ctx context.Context, src, filename string) (string, error)

// Format calls f.
func (f FormatterFunc) Format(ctx context.Context, src, filename string) (string, error) {
	return f(ctx, src, filename)
}

// Command pipes the text through an external program: stdin in, stdout out.
type Command struct {
	name    string
	args    []string
	Dir     string
	Timeout time.Duration
}

// NewCommand parses a shell-style command line.
func NewCommand(line string) (*Command, error) {
	words, err := shellquote.Split(line)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidRequest, "parse formatter command %q: %s", line, err)
	}
	if len(words) == 0 {
		return nil, errors.NewInvalidRequestError("formatter command is empty")
	}
	return &Command{name: words[0], args: words[1:], Timeout: DefaultTimeout}, nil
}

// New returns Normalizer for Builtin and a Command for anything else. A
// non-zero timeout replaces DefaultTimeout.
func New(line string, timeout time.Duration) (Formatter, error) {
	if strings.TrimSpace(line) == Builtin {
		return Normalizer, nil
	}
	cmd, err := NewCommand(line)
	if err != nil {
		return nil, err
	}
	if timeout > 0 {
		cmd.Timeout = timeout
	}
	return cmd, nil
}

// String returns the command line, re-quoted.
func (c *Command) String() string {
	return shellquote.Join(append([]string{c.name}, c.args...)...)
}

// Format runs the command.
func (c *Command) Format(ctx context.Context, src, filename string) (string, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	args := make([]string, len(c.args))
	for i, a := range c.args {
		args[i] = strings.ReplaceAll(a, FilePlaceholder, filename)
	}

	cmd := exec.CommandContext(ctx, c.name, args...)
	cmd.Dir = c.Dir
	cmd.Stdin = strings.NewReader(src)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", errors.Mark(errors.Wrapf(err, "formatter %s timed out", c.name), errors.ErrTimeout)
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", errors.WithDetail(errors.Wrapf(err, "formatter %s failed", c.name), msg)
		}
		return "", errors.Wrapf(err, "formatter %s failed", c.name)
	}
	if stdout.Len() == 0 {
		return "", errors.Newf("formatter %s produced no output", c.name)
	}
	return stdout.String(), nil
}

var (
	trailingSpace = regexp.MustCompile(`[ \t]+\n`)
	blankRuns     = regexp.MustCompile(`\n{3,}`)
)

// Normalize is a built-in deterministic formatter: LF line endings, no
// trailing whitespace, at most one blank line in a row, a single final newline.
func Normalize(src string) string {
	out := strings.ReplaceAll(src, "\r\n", "\n")
	out = trailingSpace.ReplaceAllString(out, "\n")
	out = blankRuns.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out) + "\n"
}

// Normalizer is Normalize as a Formatter.
var Normalizer Formatter = FormatterFunc(func(_ context.Context, src, _ string) (string, error) {
	return Normalize(src), nil
})

type chain []Formatter

// Chain tries each formatter in turn and returns the first success.
func Chain(formatters ...Formatter) Formatter {
	return chain(formatters)
}

func (c chain) Format(ctx context.Context, src, filename string) (string, error) {
	var errs error
	for _, f := range c {
		out, err := f.Format(ctx, src, filename)
		if err == nil {
			return out, nil
		}
		if errs == nil {
			errs = err
		} else {
			errs = errors.WithSecondaryError(errs, err)
		}
	}
	if errs == nil {
		return "", errors.New("no formatter configured")
	}
	return "", errs
}

// BestEffort formats src with f, falling back to src verbatim when f is nil
// or fails. The second result reports whether formatting was applied.
func BestEffort(ctx context.Context, f Formatter, src, filename string, log *zap.SugaredLogger) (string, bool) {
	if f == nil {
		return src, false
	}
	if log == nil {
		log = logger.Logger
	}

	out, err := f.Format(ctx, src, filename)
	if err != nil {
		log.Debugw("formatter failed, keeping unformatted output",
			logger.FieldFile, filename,
			logger.FieldError, err.Error(),
		)
		return src, false
	}
	return out, true
}
