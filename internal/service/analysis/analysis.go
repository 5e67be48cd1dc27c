// Package analysis wires configuration into the metrics pipeline. The CLI
// and MCP surfaces go through this service instead of assembling the
// analyzer themselves.
package analysis

import (
	"context"

	"github.com/corvidae/augur/internal/cache"
	"github.com/corvidae/augur/internal/vcs"
	"github.com/corvidae/augur/pkg/analyzer"
	"github.com/corvidae/augur/pkg/config"
	"github.com/corvidae/augur/pkg/source"
)

// Service orchestrates analysis runs.
type Service struct {
	config *config.Config
	opener vcs.Opener
}

// Option configures a Service.
type Option func(*Service)

// WithConfig sets the configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		s.config = cfg
	}
}

// WithOpener sets the VCS opener (for testing).
func WithOpener(opener vcs.Opener) Option {
	return func(s *Service) {
		s.opener = opener
	}
}

// New creates an analysis service.
func New(opts ...Option) *Service {
	s := &Service{
		config: config.LoadOrDefault(),
		opener: vcs.DefaultOpener(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config returns the service's configuration.
func (s *Service) Config() *config.Config {
	return s.config
}

// Options configures one analysis run.
type Options struct {
	// Source overrides where unit content is read from. Nil means the
	// filesystem.
	Source source.ContentSource
	// NoCache disables the unit cache for this run even when the
	// configuration enables it.
	NoCache bool
	// ComplexityCeiling overrides the configured ceiling when positive.
	ComplexityCeiling int
	// OnProgress is invoked once per unit.
	OnProgress func()
}

// Analyze runs the metrics pipeline over the given files. The returned
// analysis covers every unit that survived; a non-nil error alongside a
// non-nil analysis is the batch's per-unit failure collection.
func (s *Service) Analyze(ctx context.Context, files []string, opts Options) (*analyzer.Analysis, error) {
	limits := s.config.Thresholds
	if opts.ComplexityCeiling > 0 {
		limits.ComplexityCeiling = opts.ComplexityCeiling
	}

	analyzerOpts := []analyzer.Option{
		analyzer.WithLimits(limits),
		analyzer.WithDuplicateMinEvents(s.config.Analysis.DuplicateMinEvents),
		analyzer.WithMaxFileSize(s.config.Analysis.MaxFileSize),
	}
	if opts.Source != nil {
		analyzerOpts = append(analyzerOpts, analyzer.WithSource(opts.Source))
	}
	if opts.OnProgress != nil {
		analyzerOpts = append(analyzerOpts, analyzer.WithProgress(opts.OnProgress))
	}

	if c := s.openCache(opts.NoCache); c != nil {
		analyzerOpts = append(analyzerOpts, analyzer.WithCache(c))
	}

	a := analyzer.New(analyzerOpts...)
	defer a.Close()

	return a.Analyze(ctx, files)
}

// AnalyzeRevision runs the pipeline over a git revision: files are scanned
// from and read through the commit tree instead of the working copy.
func (s *Service) AnalyzeRevision(ctx context.Context, files []string, tree vcs.Tree, opts Options) (*analyzer.Analysis, error) {
	opts.Source = source.NewTree(tree)
	// Unit hashes are content-based, so the cache stays valid across
	// working tree and revision reads.
	return s.Analyze(ctx, files, opts)
}

// openCache builds the unit cache per configuration. Nil when disabled.
func (s *Service) openCache(noCache bool) *cache.Cache {
	if noCache || !s.config.Cache.Enabled {
		return nil
	}
	c, err := cache.New(s.config.Cache.Dir, s.config.Cache.TTL, true)
	if err != nil {
		// A broken cache directory degrades to uncached analysis.
		return nil
	}
	return c
}
