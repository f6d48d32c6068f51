// Package config owns the two configuration surfaces of lcopy: the
// target documents (.lcopy.yaml / .lcopy.toml) that declare what goes
// where, and the layered run options merged from defaults, options
// files, environment, and flags.
package config

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/lcopy/pkg/errors"
	"github.com/arthur-debert/lcopy/pkg/paths"
	"github.com/arthur-debert/lcopy/pkg/types"
)

// Reserved top-level document keys. Everything else names a label section.
const (
	SectionSources  = "sources"
	SectionOptions  = "options"
	SectionSnippets = "snippets"
)

// Node directives.
const (
	DirectiveSourceDir = "__source_dir__"
	DirectiveCD        = "__cd__"
	DirectiveLabels    = "__labels__"
	DirectiveInclude   = "__include__"
	DirectiveSnippets  = "__snippets__"
)

// ConfigDocument is one parsed target document. It is immutable after
// load; resolution never writes back into it.
type ConfigDocument struct {
	// Path is the normalized absolute path of the document file
	Path string

	// SourceDir is the directory containing the document
	SourceDir string

	// Targets maps label section names to their decoded node specs
	Targets map[string]*NodeSpec

	// Sources maps alias names to absolute directories of other
	// projects whose documents can be included
	Sources map[string]string

	// Snippets holds reusable node fragments referenced by the
	// __snippets__ directive
	Snippets map[string]*NodeSpec

	// Options carries the document's raw options section, merged into
	// the run options at the lowest file precedence
	Options map[string]interface{}
}

// NodeSpec is the tagged form of one raw document node. Downstream
// stages work exclusively on this; raw maps never travel past decode.
type NodeSpec struct {
	// Includes are glob patterns mapped to true
	Includes []string

	// Excludes are glob patterns mapped to false
	Excludes []string

	// Children are nested node objects, in sorted key order
	Children []ChildSpec

	// Variables are "(pattern<var>)" keys, in sorted key order
	Variables []VariableSpec

	// SourceDir re-roots the node absolutely (normalized against the
	// document directory at resolution time)
	SourceDir string

	// CD re-roots the node relative to its inherited source directory
	CD string

	// Labels gate the node; empty means visible under all labels
	Labels []string

	// IncludeRefs are __include__ directives ("alias" or "alias.label")
	IncludeRefs []string

	// SnippetRefs name fragments to merge into this node
	SnippetRefs []string
}

// ChildSpec is a named nested node.
type ChildSpec struct {
	Name string
	Spec *NodeSpec
}

// VariableSpec is a variable-pattern key with its subtree. Pattern is
// the text between the parentheses.
type VariableSpec struct {
	Pattern string
	Spec    *NodeSpec
}

// LoadDocument reads and decodes a target document. The format follows
// the file extension: .toml decodes as TOML, everything else as YAML.
func LoadDocument(fsys types.FS, path string) (*ConfigDocument, error) {
	norm := paths.Normalize(path, "")

	data, err := fsys.ReadFile(norm)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot read config document %s", norm)
	}

	raw := map[string]interface{}{}
	if strings.EqualFold(filepath.Ext(norm), ".toml") {
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "cannot parse TOML document %s", norm)
		}
	} else {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "cannot parse YAML document %s", norm)
		}
	}

	doc := &ConfigDocument{
		Path:      norm,
		SourceDir: filepath.Dir(norm),
		Targets:   make(map[string]*NodeSpec),
		Sources:   make(map[string]string),
		Snippets:  make(map[string]*NodeSpec),
	}

	for key, value := range raw {
		switch key {
		case SectionSources:
			if err := doc.decodeSources(value); err != nil {
				return nil, err
			}
		case SectionOptions:
			section, ok := value.(map[string]interface{})
			if !ok {
				return nil, errors.Newf(errors.ErrConfigValid,
					"%s: options section must be a mapping", norm)
			}
			doc.Options = section
		case SectionSnippets:
			if err := doc.decodeSnippets(value); err != nil {
				return nil, err
			}
		default:
			section, ok := value.(map[string]interface{})
			if !ok {
				return nil, errors.Newf(errors.ErrConfigValid,
					"%s: label section %q must be a mapping", norm, key)
			}
			spec, err := DecodeNode(section)
			if err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigValid,
					"%s: label section %q", norm, key)
			}
			doc.Targets[key] = spec
		}
	}

	return doc, nil
}

func (d *ConfigDocument) decodeSources(value interface{}) error {
	section, ok := value.(map[string]interface{})
	if !ok {
		return errors.Newf(errors.ErrConfigValid,
			"%s: sources section must be a mapping", d.Path)
	}
	for alias, v := range section {
		dir, ok := v.(string)
		if !ok {
			return errors.Newf(errors.ErrConfigValid,
				"%s: source alias %q must be a path string", d.Path, alias)
		}
		d.Sources[alias] = paths.Normalize(dir, d.SourceDir)
	}
	return nil
}

func (d *ConfigDocument) decodeSnippets(value interface{}) error {
	section, ok := value.(map[string]interface{})
	if !ok {
		return errors.Newf(errors.ErrConfigValid,
			"%s: snippets section must be a mapping", d.Path)
	}
	for name, v := range section {
		body, ok := v.(map[string]interface{})
		if !ok {
			return errors.Newf(errors.ErrConfigValid,
				"%s: snippet %q must be a mapping", d.Path, name)
		}
		spec, err := DecodeNode(body)
		if err != nil {
			return errors.Wrapf(err, errors.ErrConfigValid, "%s: snippet %q", d.Path, name)
		}
		d.Snippets[name] = spec
	}
	return nil
}

// LabelNames returns the document's label section names, sorted.
func (d *ConfigDocument) LabelNames() []string {
	names := make([]string, 0, len(d.Targets))
	for name := range d.Targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DecodeNode turns one raw node mapping into its tagged form. Keys are
// partitioned into include patterns (true), exclude patterns (false),
// child nodes (mappings), variable keys ("(…)"), and directives
// ("__…__"). Keys within each bucket are processed in sorted order so
// decoding is deterministic.
func DecodeNode(raw map[string]interface{}) (*NodeSpec, error) {
	spec := &NodeSpec{}

	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := raw[key]

		switch {
		case strings.HasPrefix(key, "__") && strings.HasSuffix(key, "__"):
			if err := spec.applyDirective(key, value); err != nil {
				return nil, err
			}

		case strings.HasPrefix(key, "(") && strings.HasSuffix(key, ")"):
			body, ok := value.(map[string]interface{})
			if !ok {
				return nil, errors.Newf(errors.ErrConfigValid,
					"variable key %q must hold a nested node", key)
			}
			sub, err := DecodeNode(body)
			if err != nil {
				return nil, err
			}
			pattern := strings.TrimSuffix(strings.TrimPrefix(key, "("), ")")
			spec.Variables = append(spec.Variables, VariableSpec{Pattern: pattern, Spec: sub})

		default:
			switch v := value.(type) {
			case bool:
				if v {
					spec.Includes = append(spec.Includes, key)
				} else {
					spec.Excludes = append(spec.Excludes, key)
				}
			case map[string]interface{}:
				sub, err := DecodeNode(v)
				if err != nil {
					return nil, err
				}
				spec.Children = append(spec.Children, ChildSpec{Name: key, Spec: sub})
			default:
				return nil, errors.Newf(errors.ErrConfigValid,
					"key %q must be a boolean or a nested node, got %T", key, value)
			}
		}
	}

	return spec, nil
}

func (s *NodeSpec) applyDirective(key string, value interface{}) error {
	switch key {
	case DirectiveSourceDir:
		str, ok := value.(string)
		if !ok {
			return errors.Newf(errors.ErrConfigValid, "%s must be a path string", key)
		}
		s.SourceDir = str

	case DirectiveCD:
		str, ok := value.(string)
		if !ok {
			return errors.Newf(errors.ErrConfigValid, "%s must be a path string", key)
		}
		s.CD = str

	case DirectiveLabels:
		list, err := scalarList(key, value)
		if err != nil {
			return err
		}
		s.Labels = list

	case DirectiveInclude:
		list, err := scalarList(key, value)
		if err != nil {
			return err
		}
		s.IncludeRefs = list

	case DirectiveSnippets:
		list, err := scalarList(key, value)
		if err != nil {
			return err
		}
		s.SnippetRefs = list

	default:
		return errors.Newf(errors.ErrConfigValid, "unknown directive %q", key)
	}
	return nil
}

// scalarList accepts a bare string or a list of strings.
func scalarList(key string, value interface{}) ([]string, error) {
	switch v := value.(type) {
	case string:
		return []string{v}, nil
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, errors.Newf(errors.ErrConfigValid,
					"%s entries must be strings, got %T", key, item)
			}
			out = append(out, str)
		}
		return out, nil
	default:
		return nil, errors.Newf(errors.ErrConfigValid,
			"%s must be a string or list of strings, got %T", key, value)
	}
}

// MergeSnippet merges a fragment's keys into the node. The node's own
// keys win on every conflict. Fragments are merged one level deep: a
// fragment's own __snippets__ directive is not expanded.
func MergeSnippet(node, fragment *NodeSpec) {
	node.Includes = appendMissing(node.Includes, fragment.Includes)
	node.Excludes = appendMissing(node.Excludes, fragment.Excludes)
	node.IncludeRefs = appendMissing(node.IncludeRefs, fragment.IncludeRefs)

	if len(node.Labels) == 0 {
		node.Labels = append([]string(nil), fragment.Labels...)
	}
	if node.SourceDir == "" {
		node.SourceDir = fragment.SourceDir
	}
	if node.CD == "" {
		node.CD = fragment.CD
	}

	have := make(map[string]bool, len(node.Children))
	for _, child := range node.Children {
		have[child.Name] = true
	}
	for _, child := range fragment.Children {
		if !have[child.Name] {
			node.Children = append(node.Children, child)
		}
	}

	haveVar := make(map[string]bool, len(node.Variables))
	for _, v := range node.Variables {
		haveVar[v.Pattern] = true
	}
	for _, v := range fragment.Variables {
		if !haveVar[v.Pattern] {
			node.Variables = append(node.Variables, v)
		}
	}
}

func appendMissing(dst, src []string) []string {
	have := make(map[string]bool, len(dst))
	for _, s := range dst {
		have[s] = true
	}
	for _, s := range src {
		if !have[s] {
			dst = append(dst, s)
		}
	}
	return dst
}
