package structural

import "structdiff/internal/parser"

// ExtractImmediateChildren selects the declaration-bearing nodes one level
// below node. It does not recurse into declarations it finds: each
// declaration is extracted by exactly one caller, which is what prevents
// the same node from being reported at both a flat and a nested level.
//
// Non-declaration wrappers (declaration lists, bodies) are transparent:
// extraction descends through them until it hits a declaration or runs out
// of children.
func ExtractImmediateChildren(node parser.Node) []NodeInfo {
	var infos []NodeInfo
	collect(node, &infos)
	return infos
}

func collect(node parser.Node, out *[]NodeInfo) {
	for _, child := range node.Children() {
		if child.Kind().IsDeclaration() {
			*out = append(*out, NodeInfo{
				Node:      child,
				Name:      child.Name(),
				Kind:      child.Kind(),
				Signature: child.Signature(),
			})
			continue
		}
		collect(child, out)
	}
}
