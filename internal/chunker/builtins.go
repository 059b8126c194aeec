package chunker

import sitter "github.com/smacker/go-tree-sitter"

// NewTypeScriptEngine builds the full §4.1 engine over the TypeScript
// grammar: classes, abstract classes, interfaces, type aliases, enums,
// namespaces, exports/imports, lexical declarations, satisfies/as
// wrappers, arrow functions, and object literals.
func NewTypeScriptEngine(lang *sitter.Language) Chunker {
	return newTSEngine(blockGrammar{
		language: lang,
		comment:  kinds("comment"),
		topLevelSemantic: kinds(
			"function_declaration", "generator_function_declaration",
			"class_declaration", "abstract_class_declaration",
			"interface_declaration", "type_alias_declaration", "enum_declaration",
			"internal_module", "module", "namespace_declaration",
			"export_statement", "import_statement",
			"lexical_declaration", "variable_declaration", "expression_statement",
		),
		container: kinds("class_declaration", "abstract_class_declaration", "interface_declaration"),
		containerMembers: kinds(
			"method_definition", "public_field_definition", "property_signature",
			"method_signature", "index_signature", "abstract_method_signature",
		),
		functionLike: kinds(
			"function_declaration", "generator_function_declaration",
			"function_expression", "generator_function", "arrow_function",
			"method_definition",
		),
		logicalBlocks: kinds(
			"if_statement", "for_statement", "for_in_statement", "while_statement",
			"do_statement", "switch_statement", "try_statement", "return_statement",
			"throw_statement", "lexical_declaration", "variable_declaration",
			"expression_statement",
		),
		objectLiteral: "object",
		objectMembers: kinds("pair", "method_definition", "shorthand_property_identifier", "spread_element"),
	})
}

// NewJavaScriptEngine reuses the same engine over the narrower JavaScript
// grammar (no interfaces, type aliases, or satisfies/as wrappers).
func NewJavaScriptEngine(lang *sitter.Language) Chunker {
	return newTSEngine(blockGrammar{
		language: lang,
		comment:  kinds("comment"),
		topLevelSemantic: kinds(
			"function_declaration", "generator_function_declaration",
			"class_declaration", "export_statement", "import_statement",
			"lexical_declaration", "variable_declaration", "expression_statement",
		),
		container:        kinds("class_declaration"),
		containerMembers: kinds("method_definition", "field_definition"),
		functionLike: kinds(
			"function_declaration", "generator_function_declaration",
			"function_expression", "arrow_function", "method_definition",
		),
		logicalBlocks: kinds(
			"if_statement", "for_statement", "for_in_statement", "while_statement",
			"do_statement", "switch_statement", "try_statement", "return_statement",
			"throw_statement", "lexical_declaration", "variable_declaration",
			"expression_statement",
		),
		objectLiteral: "object",
		objectMembers: kinds("pair", "method_definition", "shorthand_property_identifier", "spread_element"),
	})
}

// NewGoEngine builds the simpler query-capture engine (§4.1's Non-goal:
// cross-language chunking beyond the one curly-brace/block family is
// only specified abstractly) over the Go grammar: top-level functions,
// methods, and type declarations, with the shared oversize/merge passes.
func NewGoEngine(lang *sitter.Language) Chunker {
	return newQueryEngine(querySpec{
		language: lang,
		query: `
			(function_declaration name: (identifier) @name) @chunk
			(method_declaration name: (field_identifier) @name) @chunk
			(type_declaration (type_spec name: (type_identifier) @name)) @chunk
		`,
	})
}

// NewPythonEngine builds the simpler query-capture engine over the Python
// grammar: top-level functions and classes, including decorated forms.
func NewPythonEngine(lang *sitter.Language) Chunker {
	return newQueryEngine(querySpec{
		language: lang,
		query: `
			(function_definition name: (identifier) @name) @chunk
			(class_definition name: (identifier) @name) @chunk
			(decorated_definition definition: (function_definition name: (identifier) @name)) @chunk
			(decorated_definition definition: (class_definition name: (identifier) @name)) @chunk
		`,
	})
}
