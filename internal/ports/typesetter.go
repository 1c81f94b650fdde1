package ports

import "context"

// CompileOpts configures a typesetting run.
type CompileOpts struct {
	Entrypoint string // main .sil file
	Output     string // PDF path
	DataJSON   string // exported to the document as REPORT_DATA_JSON
}

// Typesetter compiles markup into a PDF.
type Typesetter interface {
	// IsAvailable checks if the compiler binary can be found.
	IsAvailable() bool

	// GetBinaryPath returns the resolved compiler path, empty if missing.
	GetBinaryPath() string

	// Compile runs the compiler. Returns domain.ErrTypesetterNotFound when
	// the binary is missing.
	Compile(ctx context.Context, opts CompileOpts) error
}
