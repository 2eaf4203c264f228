package chunker

import "github.com/cortex-research/cortex/internal/chunk"

// nodeKindSpec maps one language's tree-sitter grammar node kinds onto the
// closed chunk.Kind vocabulary. Node-kind names are grounded on the grammars
// the teacher already vendors (tree-sitter-python, -typescript, -rust, -c,
// -java, -php, -ruby; JavaScript reuses the TypeScript grammar exactly as
// internal/indexer/parsers/typescript.go's NewJavaScriptParser does).
type nodeKindSpec struct {
	// Class-like nodes whose direct children (via bodyField) are walked
	// for methods.
	Class []string
	// Function-like nodes that are NOT inside a class body.
	Function []string
	// Method-like nodes found directly inside a class/struct/impl body.
	Method []string
	// Interface-like nodes.
	Interface []string
	Enum      []string
	Struct    []string
	Import    []string
	// bodyField is the field name holding a class/impl's member list.
	BodyField string
	// nameField is the field name holding a declaration's identifier.
	NameField string
}

var langSpecs = map[chunk.Language]nodeKindSpec{
	chunk.LanguagePython: {
		Class:     []string{"class_definition"},
		Function:  []string{"function_definition"},
		Method:    []string{"function_definition"},
		Import:    []string{"import_statement", "import_from_statement"},
		BodyField: "body",
		NameField: "name",
	},
	chunk.LanguageTypeScript: {
		Class:     []string{"class_declaration"},
		Function:  []string{"function_declaration"},
		Method:    []string{"method_definition"},
		Interface: []string{"interface_declaration"},
		Enum:      []string{"enum_declaration"},
		Import:    []string{"import_statement"},
		BodyField: "body",
		NameField: "name",
	},
	chunk.LanguageJavaScript: {
		Class:     []string{"class_declaration"},
		Function:  []string{"function_declaration"},
		Method:    []string{"method_definition"},
		Import:    []string{"import_statement"},
		BodyField: "body",
		NameField: "name",
	},
	chunk.LanguageRust: {
		Class:     []string{"impl_item", "trait_item"},
		Function:  []string{"function_item"},
		Method:    []string{"function_item"},
		Struct:    []string{"struct_item"},
		Enum:      []string{"enum_item"},
		Import:    []string{"use_declaration"},
		BodyField: "body",
		NameField: "name",
	},
	chunk.LanguageC: {
		Function:  []string{"function_definition"},
		Struct:    []string{"struct_specifier"},
		Enum:      []string{"enum_specifier"},
		Import:    []string{"preproc_include"},
		NameField: "name",
	},
	chunk.LanguageCPP: {
		Class:     []string{"class_specifier"},
		Function:  []string{"function_definition"},
		Method:    []string{"function_definition"},
		Struct:    []string{"struct_specifier"},
		Enum:      []string{"enum_specifier"},
		Import:    []string{"preproc_include"},
		BodyField: "body",
		NameField: "name",
	},
	chunk.LanguageJava: {
		Class:     []string{"class_declaration"},
		Function:  []string{"method_declaration"},
		Method:    []string{"method_declaration"},
		Interface: []string{"interface_declaration"},
		Enum:      []string{"enum_declaration"},
		Import:    []string{"import_declaration"},
		BodyField: "body",
		NameField: "name",
	},
	chunk.LanguagePHP: {
		Class:     []string{"class_declaration"},
		Function:  []string{"function_definition"},
		Method:    []string{"method_declaration"},
		Interface: []string{"interface_declaration"},
		Import:    []string{"namespace_use_declaration"},
		BodyField: "body",
		NameField: "name",
	},
	chunk.LanguageRuby: {
		Class:     []string{"class"},
		Function:  []string{"method"},
		Method:    []string{"method"},
		Import:    []string{"call"}, // require/require_relative are call nodes; filtered by name in walker
		BodyField: "body",
		NameField: "name",
	},
}
