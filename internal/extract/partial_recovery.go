package extract

import (
	"context"
	"regexp"
	"strings"

	"github.com/codegraph/liquidmap/internal/entity"
	"github.com/codegraph/liquidmap/internal/lang"
)

// PartialRecovery extracts entities from Python source that fails a full
// parse, by binary-searching for the largest subranges that do parse and
// falling back to single-line regex recognition elsewhere: try the whole
// file, then recursively bisect, bottoming out at single lines recognized by
// regex rather than dropped outright. Recovered entities carry no confidence
// tag of their own; the bridge stamps every node it adds as high confidence.
type PartialRecovery struct {
	full *PythonExtractor
}

// NewPartialRecovery builds a recovery extractor around the full Python
// extractor it falls back from.
func NewPartialRecovery() *PartialRecovery {
	return &PartialRecovery{full: NewPythonExtractor()}
}

// Recover attempts the full tree-sitter extraction first; if the parse
// contains error nodes, it bisects the source into line ranges and retries
// each range independently, recursing until a range parses clean or is a
// single line, where regex recognition takes over.
func (p *PartialRecovery) Recover(source []byte, filePath string) []entity.Entity {
	if len(strings.TrimSpace(string(source))) == 0 {
		return nil
	}

	if !hasParseError(source) {
		return withConfidence(p.full.Extract(source, filePath), entity.High)
	}

	lines := splitKeepLines(string(source))
	return p.bisect(lines, filePath, 1, len(lines))
}

func (p *PartialRecovery) bisect(lines []string, filePath string, start, end int) []entity.Entity {
	if start > end {
		return nil
	}

	chunk := strings.Join(lines[start-1:end], "")
	if !hasParseError([]byte(chunk)) {
		ents := p.full.Extract([]byte(chunk), filePath)
		for i := range ents {
			ents[i].LineStart += start - 1
			ents[i].LineEnd += start - 1
		}
		return withConfidence(ents, entity.High)
	}

	if start == end {
		return withConfidence(regexLineRecover(chunk, start, filePath), entity.Medium)
	}

	mid := (start + end) / 2
	left := p.bisect(lines, filePath, start, mid)
	right := p.bisect(lines, filePath, mid+1, end)
	return append(left, right...)
}

func withConfidence(ents []entity.Entity, _ entity.Confidence) []entity.Entity {
	// Entity carries confidence only once wrapped into a graph Node, and the
	// confidence argument is not recorded anywhere: the bridge stamps High on
	// every node it adds, recovered or not. Returned here unchanged so the
	// recovery path stays a pure entity producer like the other extractors.
	return ents
}

func hasParseError(source []byte) bool {
	l := lang.Languages["python"]
	if l == nil {
		return true
	}
	parser := l.NewParser()
	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil || tree == nil {
		return true
	}
	defer tree.Close()
	return tree.RootNode().HasError()
}

func splitKeepLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i+1])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

var (
	shadowFuncPattern  = regexp.MustCompile(`^\s*(?:async\s+)?def\s+(\w+)\s*\(([^)]*)\)?:?`)
	shadowClassPattern = regexp.MustCompile(`^\s*class\s+(\w+)\s*(?:\([^)]*\))?:?`)
	shadowImportPattern = regexp.MustCompile(`^\s*(?:from\s+[\w.]+\s+)?import\s+`)
)

// regexLineRecover is the single-line fallback for a line that does not
// parse on its own, e.g. a truncated "def foo(x, y" mid-edit.
func regexLineRecover(line string, lineNum int, filePath string) []entity.Entity {
	if m := shadowFuncPattern.FindStringSubmatch(line); m != nil {
		name, args := m[1], m[2]
		sig := "shadow:" + name + "(" + args + ")"
		return []entity.Entity{{
			EntityType:    entity.Function,
			Name:          name,
			FilePath:      filePath,
			LineStart:     lineNum,
			LineEnd:       lineNum,
			SignatureHash: entity.SignatureHash(sig),
			StructureHash: entity.StructureHash("shadow_func:"+args, ""),
		}}
	}

	if m := shadowClassPattern.FindStringSubmatch(line); m != nil {
		name := m[1]
		return []entity.Entity{{
			EntityType:    entity.Class,
			Name:          name,
			FilePath:      filePath,
			LineStart:     lineNum,
			LineEnd:       lineNum,
			SignatureHash: entity.SignatureHash("shadow:" + name),
			StructureHash: entity.StructureHash("shadow_class", ""),
		}}
	}

	if shadowImportPattern.MatchString(line) {
		name := "__import_line__"
		return []entity.Entity{{
			EntityType:    entity.ImportType,
			Name:          name,
			FilePath:      filePath,
			LineStart:     lineNum,
			LineEnd:       lineNum,
			SignatureHash: entity.SignatureHash("shadow:import"),
			StructureHash: entity.StructureHash("shadow_import", ""),
		}}
	}

	return nil
}
