package config

// defaultIgnorePatterns knock out editor droppings, VCS internals, and
// compiled artifacts whenever default_ignore is on. Patterns ending in
// a slash name directories; the rest match basenames.
var defaultIgnorePatterns = []string{
	"*.pyc",
	"__pycache__/",
	".DS_Store",
	".git/",
	".gitignore",
	".svn/",
	".hg/",
	".idea/",
	"*.swp",
	"*.bak",
	"*.tmp",
	"*.log",
	"node_modules/",
}

// DefaultIgnorePatterns returns a copy of the built-in ignore set.
func DefaultIgnorePatterns() []string {
	return append([]string(nil), defaultIgnorePatterns...)
}
