// Package csharp wraps tree-sitter parsing pinned to the C# grammar and
// exposes the node-type vocabulary the semantic walker needs to find type
// declarations, member declarations, base lists, and call expressions.
package csharp

// DeclarationKind identifies the kind of type or member a declaration node
// represents.
type DeclarationKind string

const (
	DeclClass     DeclarationKind = "class"
	DeclInterface DeclarationKind = "interface"
	DeclStruct    DeclarationKind = "struct"
	DeclEnum      DeclarationKind = "enum"
	DeclMethod    DeclarationKind = "method"
	DeclProperty  DeclarationKind = "property"
	DeclField     DeclarationKind = "field"
)

// TypeDeclarationNodeTypes maps the tree-sitter-c-sharp node type name for
// each top-level type declaration to the DeclarationKind it represents.
var TypeDeclarationNodeTypes = map[string]DeclarationKind{
	"class_declaration":     DeclClass,
	"interface_declaration": DeclInterface,
	"struct_declaration":    DeclStruct,
	"enum_declaration":      DeclEnum,
}

// MemberDeclarationNodeTypes maps the tree-sitter-c-sharp node type name for
// each member declaration to the DeclarationKind it represents.
var MemberDeclarationNodeTypes = map[string]DeclarationKind{
	"method_declaration":      DeclMethod,
	"constructor_declaration": DeclMethod,
	"property_declaration":    DeclProperty,
	"field_declaration":       DeclField,
	"indexer_declaration":     DeclProperty,
}

// InvocationNodeType is the node type for a method call expression.
const InvocationNodeType = "invocation_expression"

// MemberAccessNodeType is the node type for a receiver.member expression,
// the left-hand side of most invocation expressions.
const MemberAccessNodeType = "member_access_expression"

// BaseListNodeType is the node type for a type's `: Base, IInterface` list.
const BaseListNodeType = "base_list"

// NamespaceDeclarationNodeTypes covers both classic block-scoped and C# 10
// file-scoped namespace declarations.
var NamespaceDeclarationNodeTypes = []string{
	"namespace_declaration",
	"file_scoped_namespace_declaration",
}

// ModifierNodeType is the node type of a single modifier token
// (public, abstract, static, sealed, ...) inside a modifier list.
const ModifierNodeType = "modifier"
