package routing

// trieNode is one level of the static-route prefix trie. Each node is
// exclusively owned by its parent; terminal nodes carry the fully static
// routes whose pattern ends there.
type trieNode struct {
	children map[string]*trieNode
	routes   []*CompiledRoute
}

func newTrieNode() *trieNode {
	return &trieNode{}
}

// insert walks the literal segments, creating nodes as needed, and appends
// the route at the terminal node.
func (n *trieNode) insert(parts []string, route *CompiledRoute) {
	node := n
	for _, part := range parts {
		if node.children == nil {
			node.children = make(map[string]*trieNode)
		}
		child, ok := node.children[part]
		if !ok {
			child = newTrieNode()
			node.children[part] = child
		}
		node = child
	}
	node.routes = append(node.routes, route)
}

// lookup returns the terminal routes for an exact segment sequence, or nil
// when the sequence is not a complete key.
func (n *trieNode) lookup(parts []string) []*CompiledRoute {
	node := n
	for _, part := range parts {
		child, ok := node.children[part]
		if !ok {
			return nil
		}
		node = child
	}
	return node.routes
}
