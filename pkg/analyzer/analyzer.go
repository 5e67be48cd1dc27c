// Package analyzer runs the metrics pipeline over batches of source files:
// read, extract the structural model, build the class registry, compute the
// metric vectors and evaluate them against the configured limits.
package analyzer

import (
	"context"
	"time"

	"github.com/corvidae/augur/internal/cache"
	"github.com/corvidae/augur/internal/fileproc"
	"github.com/corvidae/augur/pkg/frontend"
	"github.com/corvidae/augur/pkg/metrics"
	"github.com/corvidae/augur/pkg/model"
	"github.com/corvidae/augur/pkg/source"
	"github.com/corvidae/augur/pkg/syntax"
	"github.com/corvidae/augur/pkg/thresholds"
)

// ContentSource is an alias for source.ContentSource.
type ContentSource = source.ContentSource

// FileAnalyzer is the interface batch analyzers implement: process a
// collection of files with context support, release resources on Close.
type FileAnalyzer[T any] interface {
	Analyze(ctx context.Context, paths []string) (T, error)
	Close()
}

// Ensure Analyzer implements FileAnalyzer.
var _ FileAnalyzer[*Analysis] = (*Analyzer)(nil)

// Analyzer is the configured metrics pipeline.
type Analyzer struct {
	limits      thresholds.Limits
	src         ContentSource
	cache       *cache.Cache
	frontend    *frontend.Frontend
	minEvents   int
	maxFileSize int64
	onProgress  func()
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithLimits sets the threshold limits.
func WithLimits(l thresholds.Limits) Option {
	return func(a *Analyzer) { a.limits = l }
}

// WithSource sets where unit content is read from. Defaults to the
// filesystem.
func WithSource(src ContentSource) Option {
	return func(a *Analyzer) { a.src = src }
}

// WithCache enables unit caching.
func WithCache(c *cache.Cache) Option {
	return func(a *Analyzer) { a.cache = c }
}

// WithDuplicateMinEvents sets the smallest method body considered for
// duplicate-shape detection. Values below one use the metrics default.
func WithDuplicateMinEvents(n int) Option {
	return func(a *Analyzer) { a.minEvents = n }
}

// WithMaxFileSize rejects units larger than n bytes. Zero means no limit.
func WithMaxFileSize(n int64) Option {
	return func(a *Analyzer) { a.maxFileSize = n }
}

// WithProgress sets a callback invoked once per unit, including failed
// ones.
func WithProgress(fn func()) Option {
	return func(a *Analyzer) { a.onProgress = fn }
}

// New creates an analyzer with the given options.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		limits: thresholds.DefaultLimits(),
		src:    source.NewFilesystem(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.frontend = frontend.New(frontend.WithMaxFileSize(a.maxFileSize))
	return a
}

// Close releases resources. Extraction uses per-call parsers, so there is
// nothing to release today; the method keeps the FileAnalyzer contract.
func (a *Analyzer) Close() {}

type loadedUnit struct {
	unit   *syntax.Unit
	cached bool
}

// loadUnit reads and extracts one unit, consulting the cache when enabled.
func (a *Analyzer) loadUnit(_ context.Context, path string) (loadedUnit, error) {
	content, err := a.src.Read(path)
	if err != nil {
		return loadedUnit{}, &UnitError{Path: path, Kind: ErrUnreadableInput, Err: err}
	}

	var hash string
	if a.cache != nil && a.cache.Enabled() {
		hash = cache.HashBytes(content)
		if unit, ok := a.cache.GetUnit(path, hash); ok {
			return loadedUnit{unit: unit, cached: true}, nil
		}
	}

	unit, err := a.frontend.ExtractFile(content, path)
	if err != nil {
		return loadedUnit{}, &UnitError{Path: path, Kind: ErrMalformedUnit, Err: err}
	}

	if hash != "" {
		// Cache write failures are not worth failing the unit over.
		_ = a.cache.SetUnit(path, hash, unit)
	}
	return loadedUnit{unit: unit}, nil
}

// Analyze runs the pipeline over the given paths. Units are read and
// extracted on a bounded pool, then built and measured per unit. A failed
// unit is dropped and recorded; siblings always complete. When some units
// failed the returned Analysis covers the survivors and the error is the
// batch's failure collection, so callers can render partial results.
func (a *Analyzer) Analyze(ctx context.Context, paths []string) (*Analysis, error) {
	loaded, errs := fileproc.MapPaths(ctx, paths, a.loadUnit, a.onProgress)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	units := make([]*syntax.Unit, len(loaded))
	for i, l := range loaded {
		units[i] = l.unit
	}
	registries := model.BuildAll(units)

	analysis := &Analysis{
		GeneratedAt: time.Now().UTC(),
		Limits:      a.limits,
	}

	for i, r := range registries {
		u := units[i]
		ur := UnitResult{
			Path:      u.Path,
			Language:  u.Language,
			FromCache: loaded[i].cached,
			Lines:     u.Lines,
			Warnings:  r.Warnings(),
			Cycles:    metrics.NewGraph(r).Cycles(),
		}
		for _, cm := range metrics.ComputeAll(r) {
			ur.Classes = append(ur.Classes, ClassResult{
				ClassMetrics: cm,
				Unit:         u.Path,
				Flags:        thresholds.Evaluate(cm.Vector, a.limits),
			})
		}
		analysis.Lines.Add(u.Lines)
		analysis.Units = append(analysis.Units, ur)
	}

	analysis.Duplicates = metrics.DuplicatesAll(registries, a.minEvents)
	analysis.Summary = summarize(analysis.Units)

	if errs != nil {
		return analysis, errs
	}
	return analysis, nil
}
