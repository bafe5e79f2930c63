package extract

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codegraph/liquidmap/internal/entity"
	"github.com/codegraph/liquidmap/internal/lang"
)

// pythonBuiltins filters call targets and type refs that are language-native
// and carry no cross-file linking value.
var pythonBuiltins = map[string]struct{}{
	"print": {}, "len": {}, "range": {}, "enumerate": {}, "zip": {}, "map": {},
	"filter": {}, "sorted": {}, "reversed": {}, "sum": {}, "min": {}, "max": {},
	"abs": {}, "round": {}, "int": {}, "float": {}, "str": {}, "bool": {},
	"list": {}, "dict": {}, "set": {}, "tuple": {}, "frozenset": {}, "bytes": {},
	"isinstance": {}, "issubclass": {}, "hasattr": {}, "getattr": {}, "setattr": {},
	"super": {}, "type": {}, "object": {}, "open": {}, "iter": {}, "next": {},
	"repr": {}, "format": {}, "vars": {}, "dir": {}, "id": {}, "hash": {},
	"property": {}, "staticmethod": {}, "classmethod": {}, "Exception": {},
	"ValueError": {}, "TypeError": {}, "KeyError": {}, "None": {}, "True": {}, "False": {},
}

// PythonExtractor is the reference full-AST extractor for Python source.
type PythonExtractor struct {
	lang *lang.Language
}

// NewPythonExtractor constructs the reference extractor.
func NewPythonExtractor() *PythonExtractor {
	return &PythonExtractor{lang: lang.Languages["python"]}
}

func (e *PythonExtractor) LanguageID() string      { return "python" }
func (e *PythonExtractor) Extensions() []string    { return []string{".py"} }
func (e *PythonExtractor) CanHandle(path string) bool {
	return strings.HasSuffix(path, ".py")
}

// Extract is total: it never panics across the extraction boundary. Source
// with syntax errors still yields whatever definitions tree-sitter's
// error-tolerant tree contains; only empty source, a missing grammar, or a
// parser failure returns nil.
func (e *PythonExtractor) Extract(source []byte, filePath string) []entity.Entity {
	if len(source) == 0 || e.lang == nil {
		return nil
	}

	parser := e.lang.NewParser()
	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil || tree == nil {
		return nil
	}
	defer tree.Close()

	var out []entity.Entity
	walkPythonDefs(tree.RootNode(), source, filePath, &out)
	return out
}

func walkPythonDefs(root *sitter.Node, source []byte, filePath string, out *[]entity.Entity) {
	var visit func(node *sitter.Node)
	visit = func(node *sitter.Node) {
		switch node.Type() {
		case "function_definition":
			*out = append(*out, buildPythonFunction(node, source, filePath))
		case "class_definition":
			*out = append(*out, buildPythonClass(node, source, filePath))
			// Methods are scoped under the class but still emitted as
			// top-level entities with a qualified name.
		case "import_statement", "import_from_statement":
			*out = append(*out, buildPythonImports(node, source, filePath)...)
		}
		for i := 0; i < int(node.ChildCount()); i++ {
			visit(node.Child(i))
		}
	}
	visit(root)
}

func buildPythonFunction(node *sitter.Node, source []byte, filePath string) entity.Entity {
	var rawName string
	for i := 0; i < int(node.ChildCount()); i++ {
		if node.Child(i).Type() == "identifier" {
			rawName = lang.NodeText(node.Child(i), source)
			break
		}
	}

	qualified := rawName
	if cls := lang.FindEnclosingClass(node); cls != nil {
		qualified = lang.ClassName(cls, source) + "." + rawName
	}

	text := lang.NodeText(node, source)
	decoNode := decoratorParent(node)
	startNode := node
	if decoNode != nil {
		startNode = decoNode
		text = lang.NodeText(decoNode, source)
	}

	calls := collectPythonCalls(node, source)
	decorators := collectPythonDecorators(decoNode, source)
	typeRefs := collectPythonTypeRefs(node, source)

	return entity.Entity{
		EntityType:    entity.Function,
		Name:          qualified,
		FilePath:      filePath,
		LineStart:     int(startNode.StartPoint().Row) + 1,
		LineEnd:       int(startNode.EndPoint().Row) + 1,
		SignatureHash: entity.SignatureHash(text),
		StructureHash: entity.StructureHash(text, rawName),
		Calls:         calls,
		Decorators:    decorators,
		TypeRefs:      typeRefs,
		Params:        lang.Params(node, source),
	}
}

func buildPythonClass(node *sitter.Node, source []byte, filePath string) entity.Entity {
	var rawName string
	for i := 0; i < int(node.ChildCount()); i++ {
		if node.Child(i).Type() == "identifier" {
			rawName = lang.NodeText(node.Child(i), source)
			break
		}
	}

	text := lang.NodeText(node, source)
	decoNode := decoratorParent(node)
	startNode := node
	if decoNode != nil {
		startNode = decoNode
		text = lang.NodeText(decoNode, source)
	}

	inherits := collectPythonBases(node, source)
	decorators := collectPythonDecorators(decoNode, source)

	return entity.Entity{
		EntityType:    entity.Class,
		Name:          rawName,
		FilePath:      filePath,
		LineStart:     int(startNode.StartPoint().Row) + 1,
		LineEnd:       int(startNode.EndPoint().Row) + 1,
		SignatureHash: entity.SignatureHash(text),
		StructureHash: entity.StructureHash(text, rawName),
		Inherits:      inherits,
		Decorators:    decorators,
	}
}

func buildPythonImports(node *sitter.Node, source []byte, filePath string) []entity.Entity {
	text := lang.NodeText(node, source)
	line := int(node.StartPoint().Row) + 1

	var ents []entity.Entity
	for _, pair := range parsePythonImportText(text) {
		ents = append(ents, entity.Entity{
			EntityType:    entity.ImportType,
			Name:          pair.Symbol,
			FilePath:      filePath,
			LineStart:     line,
			LineEnd:       line,
			SignatureHash: entity.SignatureHash(text),
			StructureHash: entity.StructureHash(text, pair.Symbol),
			Imports:       []entity.Import{pair},
		})
	}
	return ents
}

// parsePythonImportText handles the two statement shapes textually rather
// than via full child-node traversal, since import grammar varies widely in
// shape (plain, dotted, aliased, multi-name, from-import, star-import).
func parsePythonImportText(text string) []entity.Import {
	text = strings.TrimSpace(text)
	var pairs []entity.Import

	if strings.HasPrefix(text, "from ") {
		rest := strings.TrimPrefix(text, "from ")
		parts := strings.SplitN(rest, " import ", 2)
		if len(parts) != 2 {
			return nil
		}
		module := strings.TrimSpace(parts[0])
		names := strings.Trim(strings.TrimSpace(parts[1]), "()")
		for _, n := range strings.Split(names, ",") {
			n = strings.TrimSpace(n)
			if n == "" {
				continue
			}
			if n == "*" {
				pairs = append(pairs, entity.Import{Module: module, Symbol: "*"})
				continue
			}
			if idx := strings.Index(n, " as "); idx >= 0 {
				alias := strings.TrimSpace(n[idx+len(" as "):])
				pairs = append(pairs, entity.Import{Module: module, Symbol: alias})
			} else {
				pairs = append(pairs, entity.Import{Module: module, Symbol: n})
			}
		}
		return pairs
	}

	if strings.HasPrefix(text, "import ") {
		rest := strings.TrimPrefix(text, "import ")
		for _, n := range strings.Split(rest, ",") {
			n = strings.TrimSpace(n)
			if n == "" {
				continue
			}
			if idx := strings.Index(n, " as "); idx >= 0 {
				alias := strings.TrimSpace(n[idx+len(" as "):])
				module := strings.TrimSpace(n[:idx])
				pairs = append(pairs, entity.Import{Module: module, Symbol: alias})
			} else {
				pairs = append(pairs, entity.Import{Module: n, Symbol: n})
			}
		}
		return pairs
	}

	return nil
}

func decoratorParent(node *sitter.Node) *sitter.Node {
	parent := node.Parent()
	if parent != nil && parent.Type() == "decorated_definition" {
		return parent
	}
	return nil
}

func collectPythonDecorators(decoNode *sitter.Node, source []byte) []string {
	if decoNode == nil {
		return nil
	}
	var names []string
	for i := 0; i < int(decoNode.ChildCount()); i++ {
		child := decoNode.Child(i)
		if child.Type() != "decorator" {
			continue
		}
		text := lang.NodeText(child, source)
		text = strings.TrimPrefix(strings.TrimSpace(text), "@")
		if idx := strings.IndexAny(text, "(."); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		// Standard property/classmethod/staticmethod annotations are
		// filtered: they carry no cross-file linking value.
		if _, skip := pythonBuiltins[text]; skip {
			continue
		}
		names = append(names, text)
	}
	return names
}

func collectPythonBases(classNode *sitter.Node, source []byte) []string {
	var argList *sitter.Node
	for i := 0; i < int(classNode.ChildCount()); i++ {
		if classNode.Child(i).Type() == "argument_list" {
			argList = classNode.Child(i)
			break
		}
	}
	if argList == nil {
		return nil
	}
	var bases []string
	for i := 0; i < int(argList.ChildCount()); i++ {
		child := argList.Child(i)
		if child.Type() == "identifier" || child.Type() == "attribute" {
			name := lang.NodeText(child, source)
			if name != "" && name != "object" {
				bases = append(bases, name)
			}
		}
	}
	return bases
}

// collectPythonCalls walks defNode's body (excluding any nested
// function/class definitions, whose own calls belong to them) collecting
// call targets, filtered against the builtin deny-set.
func collectPythonCalls(defNode *sitter.Node, source []byte) []string {
	body := findBody(defNode)
	if body == nil {
		return nil
	}

	seen := make(map[string]struct{})
	var calls []string

	var visit func(node *sitter.Node, depth int)
	visit = func(node *sitter.Node, depth int) {
		if depth > 0 && (node.Type() == "function_definition" || node.Type() == "class_definition") {
			return
		}
		if node.Type() == "call" {
			fn := node.Child(0)
			if fn != nil {
				name := calleeName(fn, source)
				if name != "" {
					if _, isBuiltin := pythonBuiltins[name]; !isBuiltin {
						if _, dup := seen[name]; !dup {
							seen[name] = struct{}{}
							calls = append(calls, name)
						}
					}
				}
			}
		}
		for i := 0; i < int(node.ChildCount()); i++ {
			visit(node.Child(i), depth+1)
		}
	}
	visit(body, 0)
	return calls
}

func calleeName(fn *sitter.Node, source []byte) string {
	switch fn.Type() {
	case "identifier":
		return lang.NodeText(fn, source)
	case "attribute":
		// The attribute node's last child is the attribute name itself,
		// e.g. self.helper() -> "helper".
		if n := fn.ChildCount(); n > 0 {
			last := fn.Child(int(n) - 1)
			if last.Type() == "identifier" {
				return lang.NodeText(last, source)
			}
		}
	}
	return ""
}

func collectPythonTypeRefs(defNode *sitter.Node, source []byte) []string {
	var refs []string
	seen := make(map[string]struct{})
	var visit func(node *sitter.Node)
	visit = func(node *sitter.Node) {
		if node.Type() == "type" {
			text := lang.NodeText(node, source)
			text = strings.Trim(text, "\"'")
			if text != "" {
				if _, dup := seen[text]; !dup {
					seen[text] = struct{}{}
					refs = append(refs, text)
				}
			}
			return
		}
		for i := 0; i < int(node.ChildCount()); i++ {
			visit(node.Child(i))
		}
	}
	for i := 0; i < int(defNode.ChildCount()); i++ {
		visit(defNode.Child(i))
	}
	return refs
}

func findBody(defNode *sitter.Node) *sitter.Node {
	for i := 0; i < int(defNode.ChildCount()); i++ {
		if defNode.Child(i).Type() == "block" {
			return defNode.Child(i)
		}
	}
	return nil
}
