package resolver

// VisitKey identifies one (document, label) resolution. The document
// part is the normalized absolute path of the config file, so two
// aliases pointing at the same file deduplicate.
type VisitKey struct {
	Doc   string
	Label string
}

// Context carries the ambient state of one resolution run. A single
// Context is shared across every document of the run, which is what
// makes the visited set effective across include diamonds and cycles.
type Context struct {
	// Labels are the labels the user requested, in order. Empty means
	// every label section participates and label gates pass.
	Labels []string

	// Ignores are the active ignore patterns
	Ignores []string

	// Visited guards the include graph. An entry is added before the
	// (document, label) pair is resolved, never after.
	Visited map[VisitKey]bool

	// Problems collects node-local configuration errors. They abort
	// only the subtree that raised them; the run itself continues.
	Problems []error

	// seen tracks which requested labels matched anything, either a
	// top-level section or a __labels__ gate. Labels still unseen at
	// the end of a run are reported as unknown.
	seen map[string]bool
}

// NewContext creates a resolution context for one run.
func NewContext(labels, ignores []string) *Context {
	return &Context{
		Labels:  labels,
		Ignores: ignores,
		Visited: make(map[VisitKey]bool),
		seen:    make(map[string]bool),
	}
}

// AddProblem records a node-local error.
func (c *Context) AddProblem(err error) {
	c.Problems = append(c.Problems, err)
}

// markSeen records that a requested label matched something.
func (c *Context) markSeen(label string) {
	c.seen[label] = true
}

// gatePasses applies a node's __labels__ gate against the requested
// set. Any intersection passes; an empty gate always passes, and so
// does a run that requested no labels.
func (c *Context) gatePasses(gate []string) bool {
	if len(gate) == 0 || len(c.Labels) == 0 {
		return true
	}
	pass := false
	for _, g := range gate {
		for _, want := range c.Labels {
			if g == want {
				c.seen[want] = true
				pass = true
			}
		}
	}
	return pass
}
