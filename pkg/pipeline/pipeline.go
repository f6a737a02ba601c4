// Package pipeline builds Gliffy documents from blueprints or live database
// schemas.
//
// The CLI and the HTTP API share this package so both take the same path
// from input to stored document:
//
//  1. Build: decode a blueprint or inspect a schema, then index a stage
//  2. Serialize: encode the stage as Gliffy JSON
//  3. Preview: optionally render the stage to SVG
//  4. Store: write the document to a sink
//
// Blueprint documents and previews are cached by a hash of their input and
// options. Schema documents are always rebuilt, since a database can change
// under the same DSN.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, fileSink, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Blueprint: data,
//	    Format:    blueprint.FormatTOML,
//	    Name:      "checkout",
//	})
//	fmt.Println(result.Location)
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gliffydb/pkg/blueprint"
	"github.com/matzehuels/gliffydb/pkg/errors"
	"github.com/matzehuels/gliffydb/pkg/schema"
	"github.com/matzehuels/gliffydb/pkg/stage"
	"github.com/matzehuels/gliffydb/pkg/tables"
)

// Sources of a document.
const (
	SourceBlueprint = "blueprint"
	SourceSchema    = "schema"
)

// Cache lifetimes.
const (
	TTLDocument = 24 * time.Hour
	TTLPreview  = 7 * 24 * time.Hour
)

// Options describes one pipeline run. Exactly one source is set: Blueprint
// bytes, or a schema through Inspector or Dialect and DSN.
type Options struct {
	// Blueprint input in Format.
	Blueprint []byte
	Format    blueprint.Format

	// Schema input. An Inspector takes precedence over Dialect and DSN and
	// is not closed by the runner.
	Inspector schema.Inspector
	Dialect   string
	DSN       string
	Tables    []string
	Style     *tables.Style

	// Title and Background override the document envelope.
	Title      string
	Background string

	// Indent pretty-prints the JSON when non-empty.
	Indent string
	// Name is the document name in the sink; empty names are generated.
	Name string
	// Preview also renders an SVG preview.
	Preview bool
	// Refresh bypasses cached documents and previews.
	Refresh bool
	// DryRun skips the store step.
	DryRun bool

	Logger *log.Logger
}

// Source reports which input the options describe.
func (o *Options) Source() string {
	if len(o.Blueprint) > 0 {
		return SourceBlueprint
	}
	return SourceSchema
}

// ValidateAndSetDefaults checks the options and fills in defaults.
func (o *Options) ValidateAndSetDefaults() error {
	hasSchema := o.Inspector != nil || o.DSN != ""
	switch {
	case len(o.Blueprint) > 0 && hasSchema:
		return errors.New(errors.ErrCodeInvalidArgument, "set either a blueprint or a schema source, not both")
	case len(o.Blueprint) == 0 && !hasSchema:
		return errors.New(errors.ErrCodeInvalidArgument, "no input: set a blueprint or a schema source")
	}

	if len(o.Blueprint) > 0 {
		if o.Format == "" {
			o.Format = blueprint.FormatTOML
		}
		if _, err := blueprint.ParseFormat(string(o.Format)); err != nil {
			return err
		}
	} else if o.Inspector == nil {
		dialect, err := schema.NormalizeDialect(o.Dialect)
		if err != nil {
			return err
		}
		o.Dialect = dialect
	}

	for _, t := range o.Tables {
		if err := errors.ValidateIdentifier(t); err != nil {
			return err
		}
	}
	if o.Style != nil {
		if err := o.Style.Validate(); err != nil {
			return err
		}
	}
	if o.Title != "" {
		if err := errors.ValidateTitle(o.Title); err != nil {
			return err
		}
	}
	if err := errors.ValidateDocumentName(o.Name); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return nil
}

func (o *Options) stageOptions() []stage.Option {
	return []stage.Option{
		stage.WithTitle(o.Title),
		stage.WithBackground(o.Background),
		stage.WithLogger(o.Logger),
	}
}

func (o *Options) style() tables.Style {
	if o.Style != nil {
		return *o.Style
	}
	return tables.DefaultStyle()
}

// Result holds the outputs of a run.
type Result struct {
	// Stage is nil when the document came from the cache and no preview was
	// rendered.
	Stage    *stage.Stage
	Document []byte
	// Hash identifies the document content.
	Hash string
	// Location is where the sink stored the document; empty without a sink.
	Location string
	Preview  []byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats records the size and timing of a run.
type Stats struct {
	NodeCount   int
	BuildTime   time.Duration
	PreviewTime time.Duration
	WriteTime   time.Duration
}

// CacheInfo reports which steps were served from the cache.
type CacheInfo struct {
	DocumentHit bool
	PreviewHit  bool
}
