package extract

import (
	"regexp"

	"github.com/codegraph/liquidmap/internal/entity"
)

// cBuiltins covers libc functions and standard types; C has no inheritance,
// so the Class decl below only ever produces empty Inherits.
var cBuiltins = setOf(
	"printf", "fprintf", "sprintf", "snprintf", "scanf", "fscanf", "sscanf",
	"malloc", "calloc", "realloc", "free", "memcpy", "memmove", "memset", "memcmp",
	"strcpy", "strncpy", "strcat", "strncat", "strcmp", "strncmp", "strlen",
	"strchr", "strstr", "strtok", "strdup",
	"fopen", "fclose", "fread", "fwrite", "fseek", "ftell", "fflush",
	"exit", "abort", "assert", "sizeof",
	"int", "char", "float", "double", "void", "long", "short", "unsigned", "signed",
)

var cCommonMethods = setOf()

var (
	cFuncPattern = regexp.MustCompile(
		`(?m)^(?:static\s+|inline\s+|extern\s+)*[A-Za-z_]\w*(?:\s*\*+)?\s+` +
			`(?P<name>[A-Za-z_]\w*)\s*\([^;{]*\)\s*\{`)

	cStructPattern = regexp.MustCompile(
		`(?m)(?:typedef\s+)?struct\s+(?P<name>[A-Za-z_]\w*)\s*\{`)

	cEnumPattern = regexp.MustCompile(
		`(?m)(?:typedef\s+)?enum\s+(?P<name>[A-Za-z_]\w*)\s*\{`)

	cIncludePattern = regexp.MustCompile(`(?m)#include\s*[<"]([^>"]+)[>"]`)
)

// NewCExtractor builds the regex-based C extractor.
func NewCExtractor() *RegexExtractor {
	return NewRegexExtractor(RegexConfig{
		LanguageID: "c",
		Extensions: []string{".c", ".h"},
		Declarations: []DeclPattern{
			{Kind: entity.Function, Pattern: cFuncPattern, HasBody: true},
			{Kind: entity.Class, Pattern: cStructPattern, HasBody: true},
			{Kind: entity.Class, Pattern: cEnumPattern, HasBody: true},
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
		Builtins:      cBuiltins,
		CommonMethods: cCommonMethods,
		Comments:      Comments{Line: "//", BlockStart: "/*", BlockEnd: "*/"},
	})
}
