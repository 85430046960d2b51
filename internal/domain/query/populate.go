package query

import "fmt"

// UnwindMode controls how a joined array is shaped on the parent document.
type UnwindMode int

const (
	// UnwindNone keeps the joined documents as an array.
	UnwindNone UnwindMode = iota
	// Unwind embeds a single document, or nothing when the join is empty.
	Unwind
	// UnwindFlatten hoists the projected fields onto the parent and drops the embedded document.
	UnwindFlatten
)

// Valid reports whether m is a known mode.
func (m UnwindMode) Valid() bool {
	return m >= UnwindNone && m <= UnwindFlatten
}

func (m UnwindMode) String() string {
	switch m {
	case UnwindNone:
		return "none"
	case Unwind:
		return "unwind"
	case UnwindFlatten:
		return "flatten"
	default:
		return fmt.Sprintf("UnwindMode(%d)", int(m))
	}
}

// PopulateNode declares one related entity to embed. Children join against the
// embedded document through this node's alias.
type PopulateNode struct {
	Relation string
	Alias    string
	Project  []string
	Match    FilterMap
	Unwind   UnwindMode
	Sort     SortSpec
	Children []PopulateNode
}

// As is the output field name: the alias, or the relation name when unset.
func (n PopulateNode) As() string {
	if n.Alias != "" {
		return n.Alias
	}
	return n.Relation
}
