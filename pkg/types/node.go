package types

// TargetNode is one node of a resolved copy tree. A node owns the files
// matched directly at its level plus any child nodes created by nested
// configuration, directory matches, or variable patterns.
type TargetNode struct {
	// SourceDir is the absolute directory the node's patterns were
	// resolved against. It may not exist, in which case the node simply
	// matched nothing.
	SourceDir string

	// Basename is the directory name the node contributes under its
	// parent's destination. "." targets the parent's directory itself.
	Basename string

	// Files are the absolute source paths matched at this node
	Files []string

	// Labels gate the node. An empty list means the node is visible
	// under every requested label.
	Labels []string

	// Children are exclusively owned subtrees
	Children []*TargetNode
}

// CountFiles returns the number of files in the subtree rooted at n.
func (n *TargetNode) CountFiles() int {
	total := len(n.Files)
	for _, child := range n.Children {
		total += child.CountFiles()
	}
	return total
}
