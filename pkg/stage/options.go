package stage

import "github.com/charmbracelet/log"

// Default envelope values.
const (
	DefaultTitle      = "GliffyDB"
	DefaultBackground = "#FFFFFF"
	DefaultMaxWidth   = 5000
	DefaultMaxHeight  = 5000
	DefaultPrintPaper = "LETTER"
)

// Option configures a Stage.
type Option func(*Stage)

// WithTitle sets the metadata title.
func WithTitle(title string) Option {
	return func(s *Stage) {
		if title != "" {
			s.title = title
		}
	}
}

// WithBackground sets the page background color.
func WithBackground(color string) Option {
	return func(s *Stage) {
		if color != "" {
			s.background = color
		}
	}
}

// WithMaxSize sets the maximum page size. Non-positive values keep the default.
func WithMaxSize(width, height int) Option {
	return func(s *Stage) {
		if width > 0 {
			s.maxWidth = width
		}
		if height > 0 {
			s.maxHeight = height
		}
	}
}

// WithPrintPaper sets the print paper format ("LETTER", "A4", ...).
func WithPrintPaper(paper string) Option {
	return func(s *Stage) {
		if paper != "" {
			s.printPaper = paper
		}
	}
}

// WithLogger sets the logger for indexing diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(s *Stage) {
		if logger != nil {
			s.logger = logger
		}
	}
}
