package chunker

import (
	"fmt"

	"github.com/cortex-research/cortex/internal/chunk"

	sitter "github.com/tree-sitter/go-tree-sitter"
	c "github.com/tree-sitter/tree-sitter-c/bindings/go"
	java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	php "github.com/tree-sitter/tree-sitter-php/bindings/go"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	ruby "github.com/tree-sitter/tree-sitter-ruby/bindings/go"
	rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// treeSitterExtractor walks a grammar's tree using the node-kind spec for
// one language. It is grounded on the teacher's treeSitterParser plus
// per-language parsers (internal/indexer/parsers/*.go), generalized into one
// table-driven walker instead of one hand-written walker per language, since
// every one of the teacher's per-language parsers performs the same
// walk-and-classify shape over a different grammar.
type treeSitterExtractor struct {
	language *sitter.Language
	lang     chunk.Language
	spec     nodeKindSpec
}

func newTreeSitterExtractor(lang chunk.Language) *treeSitterExtractor {
	var tsLang *sitter.Language
	switch lang {
	case chunk.LanguageTypeScript, chunk.LanguageJavaScript:
		// The teacher's JavaScript parser reuses the TypeScript grammar
		// (internal/indexer/parsers/typescript.go NewJavaScriptParser).
		tsLang = sitter.NewLanguage(typescript.LanguageTypescript())
	case chunk.LanguagePython:
		tsLang = sitter.NewLanguage(python.Language())
	case chunk.LanguageRust:
		tsLang = sitter.NewLanguage(rust.Language())
	case chunk.LanguageC, chunk.LanguageCPP:
		// No separate C++ grammar is vendored; the teacher's c.go parses
		// .cpp/.cc/.hpp files with the C grammar too.
		tsLang = sitter.NewLanguage(c.Language())
	case chunk.LanguageJava:
		tsLang = sitter.NewLanguage(java.Language())
	case chunk.LanguagePHP:
		tsLang = sitter.NewLanguage(php.LanguagePHP())
	case chunk.LanguageRuby:
		tsLang = sitter.NewLanguage(ruby.Language())
	default:
		panic(fmt.Sprintf("chunker: no tree-sitter grammar registered for %s", lang))
	}
	return &treeSitterExtractor{language: tsLang, lang: lang, spec: langSpecs[lang]}
}

func (e *treeSitterExtractor) extract(source []byte, lines []string) (extraction, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(e.language)

	tree := parser.Parse(source, nil)
	if tree == nil {
		return extraction{}, fmt.Errorf("tree-sitter returned no tree for %s", e.lang)
	}
	defer tree.Close()

	root := tree.RootNode()
	result := extraction{Partial: root.HasError()}

	moduleEnd := 0
	var decls []rawDecl

	childCount := int(root.ChildCount())
	for i := 0; i < childCount; i++ {
		child := root.Child(uint(i))
		kind := child.Kind()

		switch {
		case contains(e.spec.Import, kind) && (e.lang != chunk.LanguageRuby ||
			e.fieldText(child, source, "method") == "require" ||
			e.fieldText(child, source, "method") == "require_relative"):
			result.ImportCount++
			end := int(child.EndPosition().Row) + 1
			if end > moduleEnd {
				moduleEnd = end
			}
		case contains(e.spec.Class, kind):
			decls = append(decls, e.classDecl(child, source, kind)...)
			if moduleEnd == 0 && len(decls) > 0 {
				moduleEnd = decls[0].StartLine - 1
			}
		case contains(e.spec.Function, kind), contains(e.spec.Struct, kind),
			contains(e.spec.Enum, kind), contains(e.spec.Interface, kind):
			d := e.leafDecl(child, source, kind, "")
			decls = append(decls, d)
		default:
			// Anything else (comments, package/namespace decls, blank
			// top-level statements) before the first real declaration
			// extends the leading MODULE region.
			if len(decls) == 0 {
				end := int(child.EndPosition().Row) + 1
				if end > moduleEnd {
					moduleEnd = end
				}
			}
		}
	}

	result.ModuleEnd = moduleEnd
	result.Decls = decls
	return result, nil
}

// classDecl emits the class/impl/struct-with-methods chunk itself plus one
// standalone chunk per direct method child (spec §4.A double
// representation).
func (e *treeSitterExtractor) classDecl(node *sitter.Node, source []byte, kind string) []rawDecl {
	classKind := chunk.KindClass
	name := e.fieldText(node, source, e.spec.NameField)
	decls := []rawDecl{e.leafDeclNamed(node, source, classKind, name, "")}

	if e.spec.BodyField == "" {
		return decls
	}
	body := node.ChildByFieldName(e.spec.BodyField)
	if body == nil {
		return decls
	}
	count := int(body.ChildCount())
	for i := 0; i < count; i++ {
		member := body.Child(uint(i))
		if !contains(e.spec.Method, member.Kind()) {
			continue
		}
		decls = append(decls, e.leafDecl(member, source, member.Kind(), name))
	}
	return decls
}

func (e *treeSitterExtractor) leafDecl(node *sitter.Node, source []byte, kind, parentName string) rawDecl {
	name := e.fieldText(node, source, e.spec.NameField)
	return e.leafDeclNamed(node, source, classifyLeaf(e.spec, kind, parentName != ""), name, parentName)
}

func (e *treeSitterExtractor) leafDeclNamed(node *sitter.Node, source []byte, k chunk.Kind, name, parentName string) rawDecl {
	return rawDecl{
		Name:       name,
		Kind:       k,
		StartLine:  int(node.StartPosition().Row) + 1,
		EndLine:    int(node.EndPosition().Row) + 1,
		ParentName: parentName,
	}
}

func (e *treeSitterExtractor) fieldText(node *sitter.Node, source []byte, field string) string {
	if field == "" {
		return ""
	}
	n := node.ChildByFieldName(field)
	if n == nil {
		return ""
	}
	return string(source[n.StartByte():n.EndByte()])
}

// classifyLeaf maps a raw grammar node kind onto the closed chunk.Kind
// vocabulary, given whether it was found nested inside a class body.
func classifyLeaf(spec nodeKindSpec, kind string, nested bool) chunk.Kind {
	switch {
	case nested && contains(spec.Method, kind):
		return chunk.KindMethod
	case contains(spec.Interface, kind):
		return chunk.KindInterface
	case contains(spec.Enum, kind):
		return chunk.KindEnum
	case contains(spec.Struct, kind):
		return chunk.KindStruct
	case contains(spec.Function, kind):
		return chunk.KindFunction
	default:
		return chunk.KindOther
	}
}

func contains(set []string, kind string) bool {
	for _, s := range set {
		if s == kind {
			return true
		}
	}
	return false
}
