// Package ast defines the MyScript abstract syntax tree: a single tagged
// Node type (component design favors a closed sum type over runtime type
// assertions — see, "AST polymorphism") allocated from a bump
// arena whose lifetime spans from parse start through IR compilation.
package ast

// chunkSize is the number of Nodes preallocated per arena chunk. Node
// pointers handed out by Arena.New remain valid for the arena's lifetime
// because a chunk, once allocated at its full capacity, is never grown
// (growing a slice can relocate its backing array and invalidate every
// pointer already taken from it).
const chunkSize = 256

// Arena is a bump allocator for Node values. It owns every Node reachable
// from a Program; there is no per-node free, only Arena-wide release when
// the compiler is done with the tree.
type Arena struct {
	chunks [][]Node
}

// New allocates and returns a pointer to a zeroed Node owned by the arena.
func (a *Arena) New() *Node {
	if len(a.chunks) == 0 || len(a.chunks[len(a.chunks)-1]) == cap(a.chunks[len(a.chunks)-1]) {
		a.chunks = append(a.chunks, make([]Node, 0, chunkSize))
	}
	last := &a.chunks[len(a.chunks)-1]
	*last = append(*last, Node{})
	return &(*last)[len(*last)-1]
}

// Len reports the number of nodes allocated so far, mostly useful for
// tests and diagnostics.
func (a *Arena) Len() int {
	n := 0
	for _, c := range a.chunks {
		n += len(c)
	}
	return n
}
