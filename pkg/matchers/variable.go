package matchers

import (
	"regexp"
	"strings"

	"github.com/arthur-debert/lcopy/pkg/errors"
)

// varNameRe limits capture names to what Go's regexp group syntax accepts.
var varNameRe = regexp.MustCompile(`^\w+$`)

// VariablePattern is a directory key of the form "prefix<name>suffix"
// compiled into its two working forms: a glob that finds candidate
// directories and a regexp that extracts the variable's value from a
// match.
type VariablePattern struct {
	// Glob is the pattern with the placeholder replaced by *
	Glob string

	// Var is the placeholder name
	Var string

	re *regexp.Regexp
}

// CompileVariablePattern compiles the text between the parentheses of a
// variable key. Exactly one <name> placeholder is required; its absence
// is a configuration error charged to the node that used the key.
func CompileVariablePattern(pattern string) (*VariablePattern, error) {
	start := strings.Index(pattern, "<")
	end := strings.Index(pattern, ">")
	if start == -1 || end == -1 || end < start {
		return nil, errors.Newf(errors.ErrPatternInvalid,
			"variable pattern %q must contain a <name> placeholder", pattern)
	}

	name := pattern[start+1 : end]
	if !varNameRe.MatchString(name) {
		return nil, errors.Newf(errors.ErrPatternInvalid,
			"variable pattern %q has an invalid placeholder name %q", pattern, name)
	}

	prefix := pattern[:start]
	suffix := pattern[end+1:]
	if strings.Contains(suffix, "<") {
		return nil, errors.Newf(errors.ErrPatternInvalid,
			"variable pattern %q must contain exactly one placeholder", pattern)
	}

	re, err := regexp.Compile("^" + regexp.QuoteMeta(prefix) + "(?P<" + name + ">.*)" + regexp.QuoteMeta(suffix) + "$")
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrPatternInvalid,
			"variable pattern %q does not compile", pattern)
	}

	return &VariablePattern{
		Glob: prefix + "*" + suffix,
		Var:  name,
		re:   re,
	}, nil
}

// Extract returns the text captured by the placeholder for a path
// relative to the node's source directory. ok is false when the path
// does not match the pattern.
func (vp *VariablePattern) Extract(rel string) (string, bool) {
	m := vp.re.FindStringSubmatch(rel)
	if m == nil {
		return "", false
	}
	idx := vp.re.SubexpIndex(vp.Var)
	if idx < 0 || idx >= len(m) {
		return "", false
	}
	return m[idx], true
}
