package chunker

import (
	"go/ast"
	"go/parser"
	"go/token"

	"github.com/cortex-research/cortex/internal/chunk"
)

// goExtractor chunks Go source with go/ast, the one language the teacher
// never routes through tree-sitter (internal/indexer/parser.go's
// parseGoFile). Unlike the teacher, which keeps only a function's signature
// in Definitions, this extractor keeps each declaration's full body as the
// chunk's content, per the spec's chunk.Content contract.
type goExtractor struct{}

func (goExtractor) extract(source []byte, lines []string) (extraction, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "", source, parser.ParseComments|parser.AllErrors)
	partial := err != nil
	if file == nil {
		// A syntax error severe enough that go/parser returned no tree at
		// all; nothing to chunk beyond a whole-file MODULE.
		return extraction{}, err
	}

	pos := func(p token.Pos) int { return fset.Position(p).Line }

	moduleEnd := pos(file.Name.End())
	// Methods are emitted twice (once inside their receiver type's chunk,
	// once standalone); collect receiver-type method source here so the
	// type's own chunk content can include them to match §4.A's "class
	// chunk's content includes its signature and body" rule.
	methodsByReceiver := map[string][]rawDecl{}
	var topDecls []rawDecl

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			end := pos(d.End())
			if d.Tok == token.IMPORT {
				if end > moduleEnd {
					moduleEnd = end
				}
				continue
			}
			for _, spec := range d.Specs {
				switch s := spec.(type) {
				case *ast.TypeSpec:
					topDecls = append(topDecls, rawDecl{
						Name:      s.Name.Name,
						Kind:      goTypeKind(s.Type),
						StartLine: pos(s.Pos()),
						EndLine:   pos(s.End()),
					})
				case *ast.ValueSpec:
					k := chunk.KindOther
					if d.Tok == token.CONST {
						k = chunk.KindConstant
					}
					for _, name := range s.Names {
						topDecls = append(topDecls, rawDecl{
							Name:      name.Name,
							Kind:      k,
							StartLine: pos(d.Pos()),
							EndLine:   pos(d.End()),
						})
					}
				}
			}
		case *ast.FuncDecl:
			recv := goReceiverTypeName(d)
			rd := rawDecl{
				Name:       d.Name.Name,
				Kind:       chunk.KindFunction,
				StartLine:  pos(d.Pos()),
				EndLine:    pos(d.End()),
				ParentName: recv,
			}
			if recv != "" {
				rd.Kind = chunk.KindMethod
				methodsByReceiver[recv] = append(methodsByReceiver[recv], rd)
			}
			topDecls = append(topDecls, rd)
		}
	}

	// Fold receiver-type methods into their type's span so the type chunk's
	// content spans signature through last method, matching the
	// tree-sitter-backed languages' class/body representation.
	for i, d := range topDecls {
		if ms, ok := methodsByReceiver[d.Name]; ok && (d.Kind == chunk.KindStruct || d.Kind == chunk.KindInterface) {
			for _, m := range ms {
				if m.EndLine > topDecls[i].EndLine {
					topDecls[i].EndLine = m.EndLine
				}
			}
		}
	}

	return extraction{ModuleEnd: moduleEnd, Decls: topDecls, Partial: partial}, nil
}

func goTypeKind(expr ast.Expr) chunk.Kind {
	switch expr.(type) {
	case *ast.StructType:
		return chunk.KindStruct
	case *ast.InterfaceType:
		return chunk.KindInterface
	default:
		return chunk.KindOther
	}
}

func goReceiverTypeName(d *ast.FuncDecl) string {
	if d.Recv == nil || len(d.Recv.List) == 0 {
		return ""
	}
	expr := d.Recv.List[0].Type
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	if ident, ok := expr.(*ast.Ident); ok {
		return ident.Name
	}
	return ""
}
