package ast

// NodeID identifies a node inside one module. Functions and blocks use it as
// the key of the scope they open.
type NodeID uint32

// NoNodeID marks the absence of a node reference.
const NoNodeID NodeID = 0

// IsValid reports whether the id refers to an allocated node.
func (id NodeID) IsValid() bool { return id != NoNodeID }
