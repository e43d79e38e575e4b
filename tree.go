package nlcodec

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// DefaultMaxDepth bounds ParseTree recursion. Real families nest a handful
// of levels.
const DefaultMaxDepth = 8

// Names describes an attribute space for ParseTree and Dump. Nested marks
// the kinds whose value is another attribute list, named by the entry;
// List marks the space as an array whose elements all use *List.
type Names struct {
	Prefix string
	Names  map[uint16]string
	Nested map[uint16]*Names
	List   *Names
}

func (self *Names) name(kind uint16) string {
	if self != nil {
		if n, ok := self.Names[kind]; ok {
			return n
		}
	}
	return fmt.Sprint(kind)
}

func (self *Names) child(kind uint16) *Names {
	if self == nil {
		return nil
	}
	if self.List != nil {
		return self.List
	}
	return self.Nested[kind]
}

// TreeNode is an attribute decoded without knowing its value type.
type TreeNode struct {
	Type     uint16
	Data     []byte
	Children []TreeNode
}

func (self TreeNode) Field() uint16 {
	return self.Type & NLA_TYPE_MASK
}

// ParseTree decodes an attribute stream generically. An attribute is
// descended into when it carries NLA_F_NESTED or when names says so; the
// descent fails past maxDepth levels.
func ParseTree(b []byte, names *Names, maxDepth int) ([]TreeNode, error) {
	return parseTree(b, names, 0, maxDepth)
}

func parseTree(b []byte, names *Names, depth, maxDepth int) ([]TreeNode, error) {
	if depth > maxDepth {
		return nil, Errorf(NLE_RANGE, "nesting too deep: more than %d levels", maxDepth)
	}
	return ParseNlas(b, func(nla NlaBuffer) (TreeNode, error) {
		node := TreeNode{
			Type: nla.RawKind(),
			Data: ParseBytes(nla.Value()),
		}
		child := names.child(nla.Kind())
		if nla.Nested() || child != nil {
			if children, err := parseTree(nla.Value(), child, depth+1, maxDepth); err != nil {
				return node, errors.Wrapf(err, "invalid %s value", names.name(nla.Kind()))
			} else {
				node.Children = children
			}
		}
		return node, nil
	})
}

// Dump renders nodes as PREFIX(NAME: value, ...), nested values in the
// same form and arrays as [...].
func Dump(nodes []TreeNode, names *Names) string {
	var comps []string
	for _, node := range nodes {
		field := node.Field()
		child := names.child(field)
		var value string
		if node.Children != nil || child != nil {
			value = Dump(node.Children, child)
		} else {
			value = fmt.Sprintf("%x", node.Data)
		}
		if names != nil && names.List != nil {
			comps = append(comps, value)
		} else {
			comps = append(comps, fmt.Sprintf("%s: %s", names.name(field), value))
		}
	}
	if names != nil && names.List != nil {
		return fmt.Sprintf("[%s]", strings.Join(comps, ", "))
	}
	prefix := ""
	if names != nil {
		prefix = names.Prefix
	}
	return fmt.Sprintf("%s(%s)", prefix, strings.Join(comps, ", "))
}
