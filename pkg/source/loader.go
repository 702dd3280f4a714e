package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	berrors "github.com/bamboo-dev/bamboo/internal/errors"
	"github.com/bamboo-dev/bamboo/pkg/dom"
	"github.com/bamboo-dev/bamboo/pkg/telemetry"
)

// DefaultMaxSize caps how much a single reference may hold.
const DefaultMaxSize = 10 << 20

// Loader resolves references to templates and data.
type Loader struct {
	disk    Store
	s3      Store
	maxSize int64
	logger  *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithDisk replaces the store used for file paths.
func WithDisk(s Store) Option {
	return func(l *Loader) {
		l.disk = s
	}
}

// WithS3 sets the store used for s3:// references.
func WithS3(s Store) Option {
	return func(l *Loader) {
		l.s3 = s
	}
}

// WithMaxSize sets the size limit in bytes (0 = no limit).
func WithMaxSize(n int64) Option {
	return func(l *Loader) {
		l.maxSize = n
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader creates a Loader that reads files from the working directory.
// s3:// references fail with E004 unless WithS3 is given.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		disk:    NewDiskStore(""),
		maxSize: DefaultMaxSize,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Read returns the content behind ref. Failures are E004 errors.
func (l *Loader) Read(ctx context.Context, ref string) ([]byte, error) {
	store := l.disk
	if IsS3(ref) {
		store = l.s3
	}
	if store == nil {
		return nil, berrors.New("E004").WithDetailf("no store configured for %s", ref)
	}

	rc, err := store.Open(ctx, ref)
	if err != nil {
		return nil, berrors.New("E004").WithDetail(ref).Wrap(err)
	}
	defer rc.Close()

	var r io.Reader = rc
	if l.maxSize > 0 {
		r = io.LimitReader(rc, l.maxSize+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, berrors.New("E004").WithDetail(ref).Wrap(err)
	}
	if l.maxSize > 0 && int64(len(data)) > l.maxSize {
		return nil, berrors.New("E004").WithDetail(ref).Wrap(ErrTooLarge)
	}

	l.logger.Debug("source read", "ref", ref, "bytes", len(data))
	return data, nil
}

// Template loads and parses an HTML document.
func (l *Loader) Template(ctx context.Context, ref string) (doc *dom.Node, err error) {
	ctx, span := telemetry.Start(ctx, "source.template", telemetry.KeySource.String(ref))
	defer func() { telemetry.End(span, err) }()

	data, err := l.Read(ctx, ref)
	if err != nil {
		return nil, err
	}
	doc, err = dom.ParseDocument(bytes.NewReader(data))
	if err != nil {
		return nil, berrors.New("E002").WithDetail(ref).Wrap(err)
	}
	return doc, nil
}

// Data loads a JSON or YAML object.
func (l *Loader) Data(ctx context.Context, ref string) (out map[string]any, err error) {
	ctx, span := telemetry.Start(ctx, "source.data", telemetry.KeySource.String(ref))
	defer func() { telemetry.End(span, err) }()

	data, err := l.Read(ctx, ref)
	if err != nil {
		return nil, err
	}
	out, err = Decode(data, path.Ext(ref))
	if err != nil {
		return nil, berrors.New("E003").WithDetail(ref).Wrap(err)
	}
	return out, nil
}

// Decode parses data as a JSON object when ext is ".json", as YAML
// otherwise. Empty input is an empty object.
func Decode(data []byte, ext string) (map[string]any, error) {
	out := map[string]any{}
	if len(bytes.TrimSpace(data)) == 0 {
		return out, nil
	}

	var v any
	if strings.EqualFold(ext, ".json") {
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
	} else {
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, err
		}
	}

	m, ok := v.(map[string]any)
	if !ok {
		return nil, errors.New("top level is not an object")
	}
	return m, nil
}
