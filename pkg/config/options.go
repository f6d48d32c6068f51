package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	koanftoml "github.com/knadh/koanf/parsers/toml"
	koanfyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/lcopy/pkg/errors"
	"github.com/arthur-debert/lcopy/pkg/paths"
	"github.com/arthur-debert/lcopy/pkg/types"
)

// EnvPrefix is the prefix for environment variable overrides, e.g.
// LCOPY_DRY_RUN=1 or LCOPY_LABELS=app,docs.
const EnvPrefix = "LCOPY_"

// DefaultOptions returns the option values every run starts from. The
// conflict policy stays unset so document options sections can still
// claim it; the overwrite fallback applies at run level.
func DefaultOptions() types.Options {
	return types.Options{
		DefaultIgnore: true,
	}
}

// LoadOptions builds the run options by merging, lowest precedence
// first: built-in defaults, the user-level options file under the XDG
// config dir, the explicit options file (when given), and LCOPY_*
// environment variables. Flag overrides happen in the command layer.
//
// Relative destination, configs, and concat_output entries resolve
// against the explicit options file's directory when one is given,
// otherwise against the working directory.
func LoadOptions(optionsFile string) (*types.Options, error) {
	k := koanf.New(".")

	defaults := DefaultOptions()
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"default_ignore": defaults.DefaultIgnore,
	}, "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load default options")
	}

	// User-level options are optional
	userFile := paths.DefaultOptionsFile()
	if _, err := os.Stat(userFile); err == nil {
		if err := k.Load(file.Provider(userFile), parserFor(userFile)); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad,
				"failed to load user options from %s", userFile)
		}
	}

	var baseDir string
	if optionsFile != "" {
		norm := paths.Normalize(optionsFile, "")
		if err := k.Load(file.Provider(norm), parserFor(norm)); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad,
				"failed to load options from %s", norm)
		}
		baseDir = filepath.Dir(norm)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment options")
	}

	var opts types.Options
	if err := unmarshalOptions(k, &opts); err != nil {
		return nil, err
	}

	normalizeOptionPaths(&opts, baseDir)
	opts.Labels = DedupLabels(opts.Labels)

	// An empty conflict policy is not an error here: documents may
	// still fill it, and the run applies the overwrite fallback.
	if opts.Conflict != "" && !opts.Conflict.Valid() {
		return nil, errors.Newf(errors.ErrConfigValid,
			"invalid conflict policy %q (want overwrite, skip, or prompt)", opts.Conflict)
	}

	return &opts, nil
}

// ApplyDocumentOptions fills still-empty option fields from a
// document's reserved options section. Documents sit at the lowest
// file precedence: they never override a value another layer set.
// Boolean options only move off their defaults (purge, dry_run, and
// verbose switch on; default_ignore switches off). Relative paths
// resolve against the document's directory.
func ApplyDocumentOptions(opts *types.Options, doc *ConfigDocument) error {
	if len(doc.Options) == 0 {
		return nil
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(doc.Options, "."), nil); err != nil {
		return errors.Wrapf(err, errors.ErrConfigLoad,
			"failed to load options section of %s", doc.Path)
	}

	var docOpts types.Options
	if err := unmarshalOptions(k, &docOpts); err != nil {
		return errors.Wrapf(err, errors.ErrConfigValid,
			"options section of %s", doc.Path)
	}

	if opts.Destination == "" && docOpts.Destination != "" {
		opts.Destination = paths.Normalize(docOpts.Destination, doc.SourceDir)
	}
	if len(opts.Labels) == 0 && len(docOpts.Labels) > 0 {
		opts.Labels = DedupLabels(docOpts.Labels)
	}
	if opts.ConcatOutput == "" && docOpts.ConcatOutput != "" {
		opts.ConcatOutput = paths.Normalize(docOpts.ConcatOutput, doc.SourceDir)
	}
	if opts.Conflict == "" && docOpts.Conflict != "" {
		opts.Conflict = docOpts.Conflict
	}
	if len(docOpts.ExtraIgnore) > 0 {
		opts.ExtraIgnore = append(opts.ExtraIgnore, docOpts.ExtraIgnore...)
	}
	if docOpts.Purge {
		opts.Purge = true
	}
	if docOpts.DryRun {
		opts.DryRun = true
	}
	if docOpts.Verbose {
		opts.Verbose = true
	}
	if _, ok := doc.Options["default_ignore"]; ok && !docOpts.DefaultIgnore {
		opts.DefaultIgnore = false
	}

	return nil
}

// FinalizeOptions applies label templating to the destination and
// concat output paths. Call once every source of labels has been
// merged.
func FinalizeOptions(opts *types.Options) {
	opts.Labels = DedupLabels(opts.Labels)
	opts.Destination = paths.ExpandLabels(opts.Destination, opts.Labels)
	opts.ConcatOutput = paths.ExpandLabels(opts.ConcatOutput, opts.Labels)
}

// DedupLabels removes duplicate labels preserving first-occurrence
// order. Labels are case-sensitive.
func DedupLabels(labels []string) []string {
	if len(labels) == 0 {
		return labels
	}
	seen := make(map[string]bool, len(labels))
	out := labels[:0]
	for _, label := range labels {
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		out = append(out, label)
	}
	return out
}

// IgnorePatterns returns the active ignore set for a run.
func IgnorePatterns(opts *types.Options) []string {
	var patterns []string
	if opts.DefaultIgnore {
		patterns = append(patterns, DefaultIgnorePatterns()...)
	}
	patterns = append(patterns, opts.ExtraIgnore...)
	return patterns
}

func unmarshalOptions(k *koanf.Koanf, opts *types.Options) error {
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           opts,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", opts, unmarshalConf); err != nil {
		return errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal options")
	}
	return nil
}

func normalizeOptionPaths(opts *types.Options, baseDir string) {
	if opts.Destination != "" {
		opts.Destination = paths.Normalize(opts.Destination, baseDir)
	}
	for i, c := range opts.Configs {
		opts.Configs[i] = paths.Normalize(c, baseDir)
	}
	if opts.ConcatOutput != "" {
		opts.ConcatOutput = paths.Normalize(opts.ConcatOutput, baseDir)
	}
}

func parserFor(path string) koanf.Parser {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return koanftoml.Parser()
	}
	return koanfyaml.Parser()
}
