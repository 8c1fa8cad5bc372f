package artifact

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// DefaultMinSize is the smallest plausible artifact size in bytes. Anything
// smaller is treated as truncated and is never decoded.
const DefaultMinSize int64 = 10000

// Load failure reasons. A LoadError always unwraps to one of these.
var (
	ErrNotFound   = errors.New("model file not found")
	ErrTooSmall   = errors.New("model file too small")
	ErrCorrupt    = errors.New("model file corrupt")
	ErrIncomplete = errors.New("model missing required components")
)

// LoadError carries the human diagnostic for a failed load.
type LoadError struct {
	Reason error
	Detail string
}

func (e *LoadError) Error() string { return e.Detail }

func (e *LoadError) Unwrap() error { return e.Reason }

type loadOptions struct {
	logger  *slog.Logger
	minSize int64
}

// Option configures Load.
type Option func(*loadOptions)

// WithMinSize overrides DefaultMinSize.
func WithMinSize(n int64) Option {
	return func(o *loadOptions) { o.minSize = n }
}

// WithLogger sets the logger used for load diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *loadOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// Load reads, decodes and validates the artifact at path. It returns either a
// complete Artifact or a *LoadError, never a partial artifact.
func Load(path string, opts ...Option) (*Artifact, error) {
	o := loadOptions{minSize: DefaultMinSize, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &LoadError{Reason: ErrNotFound, Detail: "Model file does not exist: " + path}
		}
		return nil, &LoadError{Reason: ErrCorrupt, Detail: fmt.Sprintf("Model loading error: %v", err)}
	}
	if info.IsDir() {
		return nil, &LoadError{Reason: ErrCorrupt, Detail: "Model loading error: " + path + " is a directory"}
	}
	if info.Size() < o.minSize {
		return nil, &LoadError{
			Reason: ErrTooSmall,
			Detail: fmt.Sprintf("Model file too small (%d bytes), may be corrupted", info.Size()),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Reason: ErrCorrupt, Detail: fmt.Sprintf("Model loading error: %v", err)}
	}

	b, err := decode(data)
	if err != nil {
		return nil, &LoadError{Reason: ErrCorrupt, Detail: fmt.Sprintf("Model loading error: %v", err)}
	}

	a, err := New(b)
	if err != nil {
		return nil, err
	}
	a.Path = path
	a.Size = info.Size()
	a.Checksum = strconv.FormatUint(xxhash.Sum64(data), 16)

	o.logger.Debug("Loaded model artifact",
		"path", path,
		"size", a.Size,
		"model_type", a.ModelType(),
		"capability", a.Capability(),
		"schema_version", a.Schema.Version)
	return a, nil
}

// decode turns raw bytes into a Bundle, converting decoder panics on hostile
// input into errors.
func decode(data []byte) (b *Bundle, err error) {
	defer func() {
		if r := recover(); r != nil {
			b, err = nil, fmt.Errorf("decoder panic: %v", r)
		}
	}()

	b = &Bundle{}
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(b); err != nil {
		return nil, err
	}
	return b, nil
}
