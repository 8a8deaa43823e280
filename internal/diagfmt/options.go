package diagfmt

// PrettyOpts controls the human-readable renderer.
type PrettyOpts struct {
	// Color enables ANSI styling.
	Color bool
	// FullPath prints absolute paths instead of paths relative to the
	// file set base directory.
	FullPath bool
	// WithNotes renders secondary spans beneath the primary one.
	WithNotes bool
}
