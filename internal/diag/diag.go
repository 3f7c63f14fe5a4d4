package diag

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// Kind classifies a conversion failure.
type Kind string

const (
	KindUnknown        Kind = "unknown"
	KindFileNotFound   Kind = "file_not_found"
	KindDecode         Kind = "decode"
	KindEncode         Kind = "encode"
	KindMalformedEntry Kind = "malformed_entry"
	KindEmptyResult    Kind = "empty_result"
)

// Sentinels matched by errors.Is against an *Error of the same kind.
var (
	ErrFileNotFound   = errors.New("file not found")
	ErrDecode         = errors.New("decode error")
	ErrEncode         = errors.New("encode error")
	ErrMalformedEntry = errors.New("malformed entry")
	ErrEmptyResult    = errors.New("empty result")
)

var sentinels = map[Kind]error{
	KindFileNotFound:   ErrFileNotFound,
	KindDecode:         ErrDecode,
	KindEncode:         ErrEncode,
	KindMalformedEntry: ErrMalformedEntry,
	KindEmptyResult:    ErrEmptyResult,
}

// Error is a failure tied to one file, optionally to a line in it.
type Error struct {
	Kind Kind
	Path string
	// Line is 1-based; 0 when the failure concerns the whole file.
	Line int
	// Hint carries a suggestion, e.g. the detected encoding after a decode failure.
	Hint string
	Err  error
}

// New creates an Error of the given kind.
func New(kind Kind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

// Errorf creates an Error with a formatted cause.
func Errorf(kind Kind, path, format string, args ...any) *Error {
	return &Error{Kind: kind, Path: path, Err: fmt.Errorf(format, args...)}
}

// WithLine returns e after recording the line number.
func (e *Error) WithLine(line int) *Error {
	e.Line = line
	return e
}

// WithHint returns e after recording a hint.
func (e *Error) WithHint(hint string) *Error {
	e.Hint = hint
	return e
}

// WithPath returns e after recording the file path.
func (e *Error) WithPath(path string) *Error {
	e.Path = path
	return e
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Path != "" {
		b.WriteString(": ")
		b.WriteString(e.Path)
		if e.Line > 0 {
			fmt.Fprintf(&b, ":%d", e.Line)
		}
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if e.Hint != "" {
		b.WriteString(" (hint: ")
		b.WriteString(e.Hint)
		b.WriteString(")")
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s, ok := sentinels[e.Kind]; ok {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Classify maps err to a Kind using sentinels and standard library error types.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	if errors.Is(err, fs.ErrNotExist) {
		return KindFileNotFound
	}
	for kind, s := range sentinels {
		if errors.Is(err, s) {
			return kind
		}
	}
	return KindUnknown
}
