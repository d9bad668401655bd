// Package commenttree assembles one fetched page of flat comments into a
// renderable parent/child tree.
package commenttree

import "github.com/clipstream/clipstream/pkg/client"

// Node is one comment plus its replies. Children keep fetch order and are
// never re-sorted independently of the page.
type Node struct {
	Comment  client.Comment
	Children []*Node
}

// Build converts a flat page into a tree, preserving the server-provided
// order for roots. A comment whose parent is part of the page attaches under
// it; a reply whose parent fell outside the fetched page is promoted to a
// root rather than attached or dropped. That promotion is deliberate: the
// builder only ever sees one page, and surfacing the orphan beats hiding a
// comment the viewer may have just been linked to.
func Build(comments []client.Comment) []*Node {
	nodes := make(map[string]*Node, len(comments))
	for _, comment := range comments {
		nodes[comment.ID] = &Node{Comment: comment}
	}

	roots := make([]*Node, 0, len(comments))
	for _, comment := range comments {
		node := nodes[comment.ID]
		if comment.ParentCommentID != nil {
			if parent, ok := nodes[*comment.ParentCommentID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}

// Count returns the total number of nodes in a tree, at any depth
func Count(roots []*Node) int {
	total := 0
	for _, root := range roots {
		total += 1 + Count(root.Children)
	}
	return total
}
