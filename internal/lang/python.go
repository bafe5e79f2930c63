package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

func init() {
	Languages["python"] = &Language{
		Name:       "python",
		Extensions: []string{".py"},
		lang:       python.GetLanguage(),
	}
}

// FindEnclosingClass walks up from a function_definition node to the
// class_definition that contains it, handling the decorated case
// (func -> decorated_definition -> block -> class_definition). Returns nil
// if the function is not a method.
func FindEnclosingClass(funcNode *sitter.Node) *sitter.Node {
	parent := funcNode.Parent()
	if parent == nil {
		return nil
	}

	if parent.Type() == "block" && parent.Parent() != nil && parent.Parent().Type() == "class_definition" {
		return parent.Parent()
	}

	if parent.Type() == "decorated_definition" {
		gp := parent.Parent()
		if gp != nil && gp.Type() == "block" && gp.Parent() != nil && gp.Parent().Type() == "class_definition" {
			return gp.Parent()
		}
	}

	return nil
}

// ClassName returns the identifier child of a class_definition node.
func ClassName(classNode *sitter.Node, source []byte) string {
	for i := 0; i < int(classNode.ChildCount()); i++ {
		child := classNode.Child(i)
		if child.Type() == "identifier" {
			return NodeText(child, source)
		}
	}
	return ""
}

// FindEnclosingDef returns the qualified name of the function or method
// containing node (e.g. "MyClass.method" or "funcName"), or "" if node sits
// at module top level.
func FindEnclosingDef(node *sitter.Node, source []byte) string {
	current := node.Parent()
	for current != nil {
		if current.Type() == "function_definition" {
			var funcName string
			for i := 0; i < int(current.ChildCount()); i++ {
				child := current.Child(i)
				if child.Type() == "identifier" {
					funcName = NodeText(child, source)
					break
				}
			}
			if funcName == "" {
				return ""
			}
			if cls := FindEnclosingClass(current); cls != nil {
				return ClassName(cls, source) + "." + funcName
			}
			return funcName
		}
		current = current.Parent()
	}
	return ""
}

// Params extracts bare parameter names from a parameters node, dropping
// "self"/"cls" and default values/annotations.
func Params(node *sitter.Node, source []byte) []string {
	var params *sitter.Node
	for i := 0; i < int(node.ChildCount()); i++ {
		if node.Child(i).Type() == "parameters" {
			params = node.Child(i)
			break
		}
	}
	if params == nil {
		return nil
	}

	var names []string
	for i := 0; i < int(params.ChildCount()); i++ {
		child := params.Child(i)
		var nameNode *sitter.Node
		switch child.Type() {
		case "identifier":
			nameNode = child
		case "typed_parameter", "default_parameter", "typed_default_parameter":
			for j := 0; j < int(child.ChildCount()); j++ {
				if child.Child(j).Type() == "identifier" {
					nameNode = child.Child(j)
					break
				}
			}
		}
		if nameNode == nil {
			continue
		}
		name := NodeText(nameNode, source)
		if name == "self" || name == "cls" {
			continue
		}
		names = append(names, name)
	}
	return names
}
