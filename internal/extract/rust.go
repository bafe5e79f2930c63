package extract

import (
	"regexp"
	"strings"

	"github.com/codegraph/liquidmap/internal/entity"
)

// rustBuiltins covers macros, primitive types, prelude types/traits,
// keywords, and std module names.
var rustBuiltins = setOf(
	"println", "eprintln", "print", "eprint", "format", "write", "writeln",
	"vec", "panic", "todo", "unimplemented", "unreachable",
	"assert", "assert_eq", "assert_ne", "debug_assert",
	"bool", "char", "str", "i8", "i16", "i32", "i64", "i128", "isize",
	"u8", "u16", "u32", "u64", "u128", "usize", "f32", "f64",
	"Box", "Vec", "String", "Option", "Result", "Some", "None", "Ok", "Err",
	"self", "Self", "crate", "super",
	"HashMap", "HashSet", "BTreeMap", "BTreeSet", "VecDeque",
	"Arc", "Rc", "Mutex", "RwLock", "Cell", "RefCell",
)

var rustCommonMethods = setOf(
	"new", "default", "clone", "to_string", "to_owned",
	"unwrap", "expect", "unwrap_or", "unwrap_or_else", "unwrap_or_default",
	"is_some", "is_none", "is_ok", "is_err",
	"map", "and_then", "or_else", "ok",
	"as_ref", "as_mut", "as_str", "as_bytes", "into", "from",
	"iter", "into_iter", "iter_mut", "collect", "filter", "fold", "for_each",
	"len", "is_empty", "contains", "push", "pop", "insert", "remove",
	"get", "get_mut", "entry", "or_insert", "lock", "read", "write", "clone",
)

var (
	rustFnPattern = regexp.MustCompile(
		`(?m)(?:pub(?:\([^)]*\))?\s+)?(?:async\s+)?(?:unsafe\s+)?fn\s+` +
			`(?P<name>[A-Za-z_]\w*)\s*(?:<[^>]*>)?\s*\(`)

	rustStructPattern = regexp.MustCompile(
		`(?m)(?:pub(?:\([^)]*\))?\s+)?struct\s+(?P<name>[A-Za-z_]\w*)\s*(?:<[^>]*>)?`)

	rustEnumPattern = regexp.MustCompile(
		`(?m)(?:pub(?:\([^)]*\))?\s+)?enum\s+(?P<name>[A-Za-z_]\w*)\s*(?:<[^>]*>)?\s*\{`)

	rustTraitPattern = regexp.MustCompile(
		`(?m)(?:pub(?:\([^)]*\))?\s+)?trait\s+(?P<name>[A-Za-z_]\w*)\s*(?:<[^>]*>)?` +
			`(?:\s*:\s*(?P<inherits>[A-Za-z_][\w:]*(?:\s*\+\s*[A-Za-z_][\w:]*)*))?\s*\{`)

	rustImplPattern = regexp.MustCompile(
		`(?m)impl(?:<[^>]*>)?\s+(?:(?P<inherits>[A-Za-z_][\w:]*(?:<[^>]*>)?)\s+for\s+)?` +
			`(?P<name>[A-Za-z_][\w:]*)\s*(?:<[^>]*>)?\s*\{`)

	rustUsePattern = regexp.MustCompile(`(?m)use\s+([\w:]+)(?:::\{([^}]+)\})?(?:\s+as\s+(\w+))?\s*;`)

	rustAttrPattern = regexp.MustCompile(`#\[\s*([A-Za-z_][\w:]*)`)
)

// NewRustExtractor builds the regex-based Rust extractor: function/struct/
// enum/trait/impl declarations, "use" imports, attribute macros as
// decorators.
func NewRustExtractor() *RegexExtractor {
	return NewRegexExtractor(RegexConfig{
		LanguageID: "rust",
		Extensions: []string{".rs"},
		Declarations: []DeclPattern{
			{Kind: entity.Function, Pattern: rustFnPattern, HasBody: true},
			{Kind: entity.Class, Pattern: rustStructPattern, HasBody: false},
			{Kind: entity.Class, Pattern: rustEnumPattern, HasBody: true},
			{Kind: entity.Class, Pattern: rustTraitPattern, HasBody: true},
			{Kind: entity.Class, Pattern: rustImplPattern, HasBody: true},
		},
		Imports: []ImportPattern{
			{
				Pattern: rustUsePattern,
				Parse: func(g []string) []entity.Import {
					module, list, alias := g[1], g[2], g[3]
					if list != "" {
						var pairs []entity.Import
						for _, part := range strings.Split(list, ",") {
							part = strings.TrimSpace(part)
							if part != "" && part != "self" {
								pairs = append(pairs, entity.Import{Module: module, Symbol: part})
							}
						}
						return pairs
					}
					symbol := module
					if idx := strings.LastIndex(module, "::"); idx >= 0 {
						symbol = module[idx+2:]
					}
					if alias != "" {
						symbol = alias
					}
					return []entity.Import{{Module: module, Symbol: symbol}}
				},
			},
		},
		Builtins:      rustBuiltins,
		CommonMethods: rustCommonMethods,
		Comments:      Comments{Line: "//", BlockStart: "/*", BlockEnd: "*/"},
		Decorators:    rustAttrPattern,
	})
}
