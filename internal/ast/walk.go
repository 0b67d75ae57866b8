package ast

// Walk traverses the tree in source order. pre runs before a node's children
// and may return false to skip the subtree; post runs after the children.
// Either callback may be nil.
func Walk(n *Node, pre func(*Node) bool, post func(*Node)) {
	if n == nil {
		return
	}
	if pre != nil && !pre(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, pre, post)
	}
	if post != nil {
		post(n)
	}
}

// FindAll returns every node in the subtree matching the predicate, in
// source order.
func FindAll(root *Node, match func(*Node) bool) []*Node {
	var out []*Node
	Walk(root, func(n *Node) bool {
		if match(n) {
			out = append(out, n)
		}
		return true
	}, nil)
	return out
}
