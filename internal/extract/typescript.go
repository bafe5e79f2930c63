package extract

import (
	"regexp"
	"strings"

	"github.com/codegraph/liquidmap/internal/entity"
)

// tsBuiltins and tsCommonMethods cover the categories that matter for call
// filtering: globals, constructors, Node globals, utility types.
var tsBuiltins = setOf(
	"console", "window", "document", "navigator", "location", "history",
	"Math", "JSON", "Date", "RegExp", "Error", "Symbol", "Proxy", "Reflect",
	"Promise", "Array", "Map", "Set", "WeakMap", "WeakSet", "WeakRef",
	"Object", "Function", "Number", "String", "Boolean",
	"parseInt", "parseFloat", "isNaN", "isFinite",
	"setTimeout", "setInterval", "clearTimeout", "clearInterval",
	"fetch", "require", "module", "process", "Buffer",
	"Record", "Partial", "Required", "Readonly", "Pick", "Omit",
)

var tsCommonMethods = setOf(
	"push", "pop", "shift", "unshift", "splice", "slice", "concat",
	"map", "filter", "reduce", "forEach", "find", "findIndex", "some",
	"every", "includes", "indexOf", "sort", "reverse", "join", "split",
	"replace", "trim", "startsWith", "endsWith", "toLowerCase", "toUpperCase",
	"hasOwnProperty", "toString", "valueOf", "toJSON",
	"get", "set", "has", "delete", "clear", "add",
	"then", "catch", "finally", "resolve", "reject",
	"log", "warn", "error", "info", "bind", "call", "apply",
	"on", "once", "off", "emit", "parse", "stringify",
)

func setOf(names ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[n] = struct{}{}
	}
	return m
}

var (
	tsFuncPattern = regexp.MustCompile(
		`(?m)(?:export\s+)?(?:default\s+)?(?:async\s+)?function\s*\*?\s+` +
			`(?P<name>[A-Za-z_$]\w*)\s*(?:<[^>]*>)?\s*\(`)

	tsArrowPattern = regexp.MustCompile(
		`(?m)(?:export\s+)?(?:const|let|var)\s+` +
			`(?P<name>[A-Za-z_$]\w*)\s*` +
			`(?::\s*[^=]+?)?\s*=\s*(?:async\s+)?` +
			`(?:\([^)]*\)|[A-Za-z_$]\w*)\s*(?::\s*[^=]*?)?\s*=>`)

	tsClassPattern = regexp.MustCompile(
		`(?m)(?:export\s+)?(?:default\s+)?(?:abstract\s+)?class\s+` +
			`(?P<name>[A-Za-z_$]\w*)\s*(?:<[^>]*>)?` +
			`(?:\s+extends\s+(?P<inherits>[A-Za-z_$][\w.]*(?:\s*<[^>]*>)?` +
			`(?:\s*,\s*[A-Za-z_$][\w.]*(?:\s*<[^>]*>)?)*))?` +
			`(?:\s+implements\s+[^{]*?)?\s*\{`)

	tsInterfacePattern = regexp.MustCompile(
		`(?m)(?:export\s+)?(?:default\s+)?interface\s+` +
			`(?P<name>[A-Za-z_$]\w*)\s*(?:<[^>]*>)?` +
			`(?:\s+extends\s+(?P<inherits>[A-Za-z_$][\w.]*(?:\s*<[^>]*>)?` +
			`(?:\s*,\s*[A-Za-z_$][\w.]*(?:\s*<[^>]*>)?)*))?\s*\{`)

	tsEnumPattern = regexp.MustCompile(
		`(?m)(?:export\s+)?(?:const\s+)?enum\s+(?P<name>[A-Za-z_$]\w*)\s*\{`)

	tsTypeAliasPattern = regexp.MustCompile(
		`(?m)(?:export\s+)?type\s+(?P<name>[A-Za-z_$]\w*)\s*(?:<[^>]*>)?\s*=`)

	tsMethodPattern = regexp.MustCompile(
		`(?m)^\s+(?:public\s+|private\s+|protected\s+)?` +
			`(?:static\s+)?(?:readonly\s+)?(?:async\s+)?(?:get\s+|set\s+)?` +
			`(?P<name>[A-Za-z_$]\w*)\s*(?:<[^>]*>)?\s*\(`)

	tsImportNamed = regexp.MustCompile(
		`(?m)import\s+\{([^}]+)\}\s+from\s+['"]([^'"]+)['"]`)
	tsImportDefault = regexp.MustCompile(
		`(?m)import\s+([A-Za-z_$]\w*)\s+from\s+['"]([^'"]+)['"]`)
	tsImportStar = regexp.MustCompile(
		`(?m)import\s+\*\s+as\s+([A-Za-z_$]\w*)\s+from\s+['"]([^'"]+)['"]`)

	tsDecoratorPattern = regexp.MustCompile(`@([A-Za-z_$][\w.]*)`)
)

// NewTypeScriptExtractor builds the regex-based TypeScript/TSX extractor.
func NewTypeScriptExtractor() *RegexExtractor {
	return NewRegexExtractor(RegexConfig{
		LanguageID: "typescript",
		Extensions: []string{".ts", ".tsx"},
		Declarations: []DeclPattern{
			{Kind: entity.Function, Pattern: tsFuncPattern, HasBody: true},
			{Kind: entity.Function, Pattern: tsArrowPattern, HasBody: true},
			{Kind: entity.Function, Pattern: tsMethodPattern, HasBody: true},
			{Kind: entity.Class, Pattern: tsClassPattern, HasBody: true},
			{Kind: entity.Class, Pattern: tsInterfacePattern, HasBody: true},
			{Kind: entity.Class, Pattern: tsEnumPattern, HasBody: true},
			{Kind: entity.Variable, Pattern: tsTypeAliasPattern, HasBody: false},
		},
		Imports:       tsImportPatterns(),
		Builtins:      tsBuiltins,
		CommonMethods: tsCommonMethods,
		Comments:      Comments{Line: "//", BlockStart: "/*", BlockEnd: "*/"},
		Decorators:    tsDecoratorPattern,
	})
}

func tsImportPatterns() []ImportPattern {
	return []ImportPattern{
		{
			Pattern: tsImportNamed,
			Parse: func(g []string) []entity.Import {
				return parseNamedImportList(g[1], g[2])
			},
		},
		{
			Pattern: tsImportDefault,
			Parse: func(g []string) []entity.Import {
				return []entity.Import{{Module: g[2], Symbol: g[1]}}
			},
		},
		{
			Pattern: tsImportStar,
			Parse: func(g []string) []entity.Import {
				return []entity.Import{{Module: g[2], Symbol: g[1]}}
			},
		},
	}
}

func parseNamedImportList(namesStr, module string) []entity.Import {
	var pairs []entity.Import
	for _, part := range strings.Split(namesStr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if idx := strings.Index(part, " as "); idx >= 0 {
			pairs = append(pairs, entity.Import{Module: module, Symbol: strings.TrimSpace(part[idx+4:])})
		} else {
			pairs = append(pairs, entity.Import{Module: module, Symbol: part})
		}
	}
	return pairs
}
