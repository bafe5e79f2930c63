package extract

import (
	"regexp"

	"github.com/codegraph/liquidmap/internal/entity"
)

// javaBuiltins and javaCommonMethods cover the java.lang/java.util surface
// area common enough to be noise if treated as cross-file call targets.
var javaBuiltins = setOf(
	"System", "String", "Object", "Integer", "Long", "Double", "Float",
	"Boolean", "Character", "Byte", "Short", "Void", "Math", "Thread",
	"List", "ArrayList", "LinkedList", "Map", "HashMap", "TreeMap",
	"Set", "HashSet", "TreeSet", "Collection", "Collections", "Arrays",
	"Optional", "Stream", "Comparator", "Iterator", "Exception",
	"RuntimeException", "IllegalArgumentException", "IllegalStateException",
	"int", "long", "double", "float", "boolean", "char", "byte", "short", "void",
	"this", "super", "null", "true", "false",
)

var javaCommonMethods = setOf(
	"toString", "equals", "hashCode", "compareTo", "clone",
	"get", "set", "put", "add", "remove", "contains", "size", "isEmpty",
	"iterator", "stream", "forEach", "map", "filter", "reduce", "collect",
	"of", "valueOf", "parseInt", "parseDouble", "println", "print", "format",
	"getName", "getClass", "builder", "build",
)

var (
	javaClassPattern = regexp.MustCompile(
		`(?m)(?:public\s+|private\s+|protected\s+)?(?:static\s+)?(?:final\s+|abstract\s+)?` +
			`class\s+(?P<name>[A-Za-z_]\w*)\s*(?:<[^>]*>)?` +
			`(?:\s+extends\s+(?P<inherits>[A-Za-z_][\w.]*(?:\s*<[^>]*>)?))?` +
			`(?:\s+implements\s+[^{]*?)?\s*\{`)

	javaInterfacePattern = regexp.MustCompile(
		`(?m)(?:public\s+)?interface\s+(?P<name>[A-Za-z_]\w*)\s*(?:<[^>]*>)?` +
			`(?:\s+extends\s+(?P<inherits>[A-Za-z_][\w.]*(?:\s*,\s*[A-Za-z_][\w.]*)*))?\s*\{`)

	javaEnumPattern = regexp.MustCompile(
		`(?m)(?:public\s+)?enum\s+(?P<name>[A-Za-z_]\w*)\s*\{`)

	javaMethodPattern = regexp.MustCompile(
		`(?m)^\s*(?:public\s+|private\s+|protected\s+)?(?:static\s+)?(?:final\s+|abstract\s+|synchronized\s+)*` +
			`(?:<[^>]*>\s*)?[A-Za-z_][\w.]*(?:<[^>]*>)?(?:\[\])?\s+` +
			`(?P<name>[A-Za-z_]\w*)\s*\([^;{]*\)\s*(?:throws\s+[^{]*)?\{`)

	javaImportPattern = regexp.MustCompile(`(?m)import\s+(?:static\s+)?([\w.]+)(\.\*)?\s*;`)

	javaAnnotationPattern = regexp.MustCompile(`@([A-Za-z_][\w.]*)`)
)

// NewJavaExtractor builds the regex-based Java extractor: class/interface/
// enum/method declarations, package-qualified imports, annotations treated
// as decorators.
func NewJavaExtractor() *RegexExtractor {
	return NewRegexExtractor(RegexConfig{
		LanguageID: "java",
		Extensions: []string{".java"},
		Declarations: []DeclPattern{
			{Kind: entity.Function, Pattern: javaMethodPattern, HasBody: true},
			{Kind: entity.Class, Pattern: javaClassPattern, HasBody: true},
			{Kind: entity.Class, Pattern: javaInterfacePattern, HasBody: true},
			{Kind: entity.Class, Pattern: javaEnumPattern, HasBody: true},
		},
		Imports: []ImportPattern{
			{
				Pattern: javaImportPattern,
				Parse: func(g []string) []entity.Import {
					path := g[1]
					symbol := path
					wildcard := g[2] != ""
					if idx := lastDot(path); idx >= 0 {
						symbol = path[idx+1:]
					}
					if wildcard {
						symbol = "*"
					}
					return []entity.Import{{Module: path, Symbol: symbol}}
				},
			},
		},
		Builtins:      javaBuiltins,
		CommonMethods: javaCommonMethods,
		Comments:      Comments{Line: "//", BlockStart: "/*", BlockEnd: "*/"},
		Decorators:    javaAnnotationPattern,
	})
}

func lastDot(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '.' {
			return i
		}
	}
	return -1
}
