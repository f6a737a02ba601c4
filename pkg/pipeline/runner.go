package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gliffydb/pkg/blueprint"
	"github.com/matzehuels/gliffydb/pkg/cache"
	gio "github.com/matzehuels/gliffydb/pkg/io"
	"github.com/matzehuels/gliffydb/pkg/observability"
	"github.com/matzehuels/gliffydb/pkg/preview"
	"github.com/matzehuels/gliffydb/pkg/schema"
	"github.com/matzehuels/gliffydb/pkg/sink"
	"github.com/matzehuels/gliffydb/pkg/stage"
	"github.com/matzehuels/gliffydb/pkg/tables"
)

// Runner executes the pipeline with caching and an optional sink.
//
// A Runner keeps no per-run state, so one runner can serve concurrent
// requests with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Sink   sink.Sink
	Logger *log.Logger
}

// NewRunner creates a runner. A nil keyer is the DefaultKeyer, a nil cache
// disables caching and a nil sink skips the store step.
func NewRunner(c cache.Cache, keyer cache.Keyer, s sink.Sink, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Sink: s, Logger: logger}
}

// Execute runs build, serialize, preview and store.
func (r *Runner) Execute(ctx context.Context, opts Options) (result *Result, err error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	source := opts.Source()
	start := time.Now()
	observability.Document().OnBuildStart(ctx, source)
	defer func() {
		nodes := 0
		if result != nil {
			nodes = result.Stats.NodeCount
		}
		observability.Document().OnBuildComplete(ctx, source, nodes, time.Since(start), err)
	}()

	result = &Result{}

	// Stage 1: Build and serialize
	buildStart := time.Now()
	doc, s, hit, err := r.documentWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Document = doc
	result.Stage = s
	result.Hash = cache.Hash(doc)
	result.CacheInfo.DocumentHit = hit
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.NodeCount, err = countNodes(s, doc)
	if err != nil {
		return nil, err
	}

	r.Logger.Info("built document",
		"source", source,
		"nodes", result.Stats.NodeCount,
		"cached", hit,
		"duration", result.Stats.BuildTime)

	// Stage 2: Preview
	if opts.Preview {
		previewStart := time.Now()
		svg, s, hit, err := r.previewWithCacheInfo(ctx, opts, result)
		if err != nil {
			return nil, fmt.Errorf("preview: %w", err)
		}
		result.Preview = svg
		result.Stage = s
		result.CacheInfo.PreviewHit = hit
		result.Stats.PreviewTime = time.Since(previewStart)
	}

	// Stage 3: Store
	if r.Sink != nil && !opts.DryRun {
		writeStart := time.Now()
		location, err := r.Sink.Write(ctx, opts.Name, doc)
		if err != nil {
			return nil, fmt.Errorf("store: %w", err)
		}
		result.Location = location
		result.Stats.WriteTime = time.Since(writeStart)
		r.Logger.Info("stored document", "location", location, "bytes", len(doc), "duration", result.Stats.WriteTime)
	}

	return result, nil
}

func (r *Runner) documentKey(opts Options) string {
	return r.Keyer.DocumentKey(opts.Source(), opts.Blueprint, cache.DocumentKeyOpts{
		Title:      opts.Title,
		Background: opts.Background,
		Format:     string(opts.Format),
		Indent:     opts.Indent,
	})
}

func (r *Runner) documentWithCacheInfo(ctx context.Context, opts Options) ([]byte, *stage.Stage, bool, error) {
	cacheable := opts.Source() == SourceBlueprint
	key := r.documentKey(opts)

	if cacheable && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			return data, nil, true, nil
		}
	}

	s, err := BuildStage(ctx, opts)
	if err != nil {
		return nil, nil, false, err
	}
	doc, err := Serialize(s, opts.Indent)
	if err != nil {
		return nil, nil, false, err
	}

	if cacheable {
		if err := r.Cache.Set(ctx, key, doc, TTLDocument); err != nil {
			r.Logger.Debug("cache write failed", "key", key, "error", err)
		}
	}
	return doc, s, false, nil
}

func (r *Runner) previewWithCacheInfo(ctx context.Context, opts Options, result *Result) ([]byte, *stage.Stage, bool, error) {
	key := r.Keyer.PreviewKey(result.Hash)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			return data, result.Stage, true, nil
		}
	}

	s := result.Stage
	if s == nil {
		var err error
		if s, err = BuildStage(ctx, opts); err != nil {
			return nil, nil, false, err
		}
	}
	svg, err := preview.Stage(ctx, s, preview.Options{})
	if err != nil {
		return nil, nil, false, err
	}
	if err := r.Cache.Set(ctx, key, svg, TTLPreview); err != nil {
		r.Logger.Debug("cache write failed", "key", key, "error", err)
	}
	return svg, s, false, nil
}

// BuildStage builds the indexed stage for opts without caching. opts must
// have passed ValidateAndSetDefaults.
func BuildStage(ctx context.Context, opts Options) (*stage.Stage, error) {
	if opts.Source() == SourceBlueprint {
		bp, err := blueprint.DecodeBytes(opts.Blueprint, opts.Format)
		if err != nil {
			return nil, err
		}
		s, err := blueprint.Build(bp,
			blueprint.WithLogger(opts.Logger),
			blueprint.WithStageOptions(opts.stageOptions()...))
		if err != nil {
			return nil, fmt.Errorf("build blueprint: %w", err)
		}
		return s, nil
	}

	tbls, err := inspect(ctx, opts)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("inspected schema", "tables", len(tbls))
	s, err := tables.Document(tbls, opts.style(), opts.stageOptions(), tables.WithLogger(opts.Logger))
	if err != nil {
		return nil, fmt.Errorf("build tables: %w", err)
	}
	return s, nil
}

func inspect(ctx context.Context, opts Options) ([]schema.Table, error) {
	insp := opts.Inspector
	if insp == nil {
		var err error
		if insp, err = schema.Open(ctx, opts.Dialect, opts.DSN); err != nil {
			return nil, err
		}
		defer insp.Close()
	}
	return insp.Tables(ctx, opts.Tables...)
}

// Serialize encodes s, pretty-printed when indent is non-empty.
func Serialize(s *stage.Stage, indent string) ([]byte, error) {
	var buf bytes.Buffer
	if err := gio.WriteDocument(s, &buf, indent); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// countNodes counts from the stage when one was built and decodes cached
// documents otherwise.
func countNodes(s *stage.Stage, doc []byte) (int, error) {
	if s != nil {
		return s.NodeCount(), nil
	}
	d, err := gio.ReadDocument(bytes.NewReader(doc))
	if err != nil {
		return 0, fmt.Errorf("cached document: %w", err)
	}
	return d.Count(), nil
}
