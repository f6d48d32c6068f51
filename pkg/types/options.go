package types

// ConflictPolicy controls what happens when a destination file already exists.
type ConflictPolicy string

const (
	// ConflictOverwrite replaces the existing destination file
	ConflictOverwrite ConflictPolicy = "overwrite"

	// ConflictSkip leaves the existing destination file untouched
	ConflictSkip ConflictPolicy = "skip"

	// ConflictPrompt asks for confirmation per conflicting file.
	// Without an interactive terminal it behaves like ConflictSkip.
	ConflictPrompt ConflictPolicy = "prompt"
)

// Valid reports whether the policy is one of the known values.
func (p ConflictPolicy) Valid() bool {
	switch p {
	case ConflictOverwrite, ConflictSkip, ConflictPrompt:
		return true
	}
	return false
}

// Options holds the effective settings for a single run, after defaults,
// options file, environment, and flags have been merged.
type Options struct {
	// Configs lists the configuration documents to resolve, in order
	Configs []string `koanf:"configs"`

	// Destination is the root directory files are copied into
	Destination string `koanf:"destination"`

	// Labels are the requested labels, ordered and case-sensitive
	Labels []string `koanf:"labels"`

	// Conflict is the policy for existing destination files
	Conflict ConflictPolicy `koanf:"conflict"`

	// Verbose enables per-file output
	Verbose bool `koanf:"verbose"`

	// Purge removes destination files that are not part of the mapping
	Purge bool `koanf:"purge"`

	// DryRun reports what would happen without touching the filesystem
	DryRun bool `koanf:"dry_run"`

	// DefaultIgnore enables the built-in ignore patterns
	DefaultIgnore bool `koanf:"default_ignore"`

	// ExtraIgnore extends the active ignore patterns
	ExtraIgnore []string `koanf:"extra_ignore"`

	// ConcatOutput, when set, receives the concatenated text content of
	// the copied tree after a successful run
	ConcatOutput string `koanf:"concat_output"`
}
