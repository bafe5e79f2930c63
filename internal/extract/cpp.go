package extract

import (
	"regexp"

	"github.com/codegraph/liquidmap/internal/entity"
)

var cppBuiltins = mergeSets(cBuiltins, setOf(
	"std", "cout", "cin", "cerr", "endl", "nullptr", "this",
	"string", "vector", "map", "set", "unordered_map", "unordered_set",
	"shared_ptr", "unique_ptr", "make_shared", "make_unique",
	"static_cast", "dynamic_cast", "const_cast", "reinterpret_cast",
	"new", "delete", "template", "typename", "namespace", "class",
))

func mergeSets(sets ...map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{})
	for _, s := range sets {
		for k := range s {
			out[k] = struct{}{}
		}
	}
	return out
}

var (
	cppClassPattern = regexp.MustCompile(
		`(?m)(?:template\s*<[^>]*>\s*)?class\s+(?P<name>[A-Za-z_]\w*)` +
			`(?:\s*:\s*(?:public|private|protected)\s+(?P<inherits>[A-Za-z_][\w:]*(?:\s*,\s*(?:public|private|protected)\s+[A-Za-z_][\w:]*)*))?\s*\{`)

	cppMethodPattern = regexp.MustCompile(
		`(?m)^\s*(?:virtual\s+|static\s+|inline\s+|explicit\s+)*[A-Za-z_][\w:<>]*(?:\s*\*+|\s*&+)?\s+` +
			`(?P<name>[A-Za-z_]\w*)\s*\([^;{]*\)\s*(?:const\s*)?(?:override\s*)?\{`)

	cppNamespacePattern = regexp.MustCompile(`(?m)namespace\s+(?P<name>[A-Za-z_]\w*)\s*\{`)
)

// NewCppExtractor builds the regex-based C++ extractor, adding class/
// namespace/inheritance handling on top of the shared C declaration set.
func NewCppExtractor() *RegexExtractor {
	return NewRegexExtractor(RegexConfig{
		LanguageID: "cpp",
		Extensions: []string{".cpp", ".cc", ".cxx", ".hpp", ".hh"},
		Declarations: []DeclPattern{
			{Kind: entity.Function, Pattern: cFuncPattern, HasBody: true},
			{Kind: entity.Function, Pattern: cppMethodPattern, HasBody: true},
			{Kind: entity.Class, Pattern: cppClassPattern, HasBody: true},
			{Kind: entity.Class, Pattern: cStructPattern, HasBody: true},
			{Kind: entity.Class, Pattern: cEnumPattern, HasBody: true},
			{Kind: entity.Class, Pattern: cppNamespacePattern, HasBody: true},
		},
		Imports: []ImportPattern{
			{
				Pattern: cIncludePattern,
				Parse: func(g []string) []entity.Import {
					header := g[1]
					return []entity.Import{{Module: header, Symbol: header}}
				},
			},
		},
		Builtins:      cppBuiltins,
		CommonMethods: cCommonMethods,
		Comments:      Comments{Line: "//", BlockStart: "/*", BlockEnd: "*/"},
	})
}
