package extract

import "github.com/codegraph/liquidmap/internal/entity"

// NewJavaScriptExtractor builds the regex-based JavaScript/JSX extractor,
// reusing the TypeScript extractor's function/class/method/import patterns
// and dropping the type-only declaration forms (interface, enum, type alias).
func NewJavaScriptExtractor() *RegexExtractor {
	return NewRegexExtractor(RegexConfig{
		LanguageID: "javascript",
		Extensions: []string{".js", ".jsx", ".mjs", ".cjs"},
		Declarations: []DeclPattern{
			{Kind: entity.Function, Pattern: tsFuncPattern, HasBody: true},
			{Kind: entity.Function, Pattern: tsArrowPattern, HasBody: true},
			{Kind: entity.Function, Pattern: tsMethodPattern, HasBody: true},
			{Kind: entity.Class, Pattern: tsClassPattern, HasBody: true},
		},
		Imports:       tsImportPatterns(),
		Builtins:      tsBuiltins,
		CommonMethods: tsCommonMethods,
		Comments:      Comments{Line: "//", BlockStart: "/*", BlockEnd: "*/"},
		Decorators:    tsDecoratorPattern,
	})
}
