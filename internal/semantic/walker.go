package semantic

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"grafo/internal/csharp"
)

// ParsedFile is the unit of input C1 hands to the walker: one source file
// already read into memory, tagged with the project that owns it.
type ParsedFile struct {
	Path    string
	Project string
	Source  []byte
}

// Walker traverses parsed C# files and emits SymbolRecords and raw
// relations. A Walker is built once per project and is not safe for
// concurrent use by multiple goroutines on the same instance; callers
// parallelize across projects, each with its own Walker.
type Walker struct {
	parser *csharp.Parser
}

// NewWalker creates a Walker backed by a fresh C# parser.
func NewWalker() *Walker {
	return &Walker{parser: csharp.NewParser()}
}

// interfaceNamePattern implements the fallback "leading I followed by
// uppercase" heuristic used only when the bound symbol kind is unavailable.
var interfaceNamePattern = regexp.MustCompile(`^I[A-Z]`)

// WalkProject parses every file belonging to one project and returns its
// combined symbols and raw relations.
func (w *Walker) WalkProject(ctx context.Context, project string, files []ParsedFile) (WalkResult, error) {
	var result WalkResult
	for _, f := range files {
		fileResult, err := w.walkFile(ctx, project, f)
		if err != nil {
			return result, fmt.Errorf("%s: %w", f.Path, err)
		}
		result.merge(fileResult)
	}
	return result, nil
}

func (w *Walker) walkFile(ctx context.Context, project string, file ParsedFile) (WalkResult, error) {
	var result WalkResult

	root, err := w.parser.Parse(ctx, file.Source)
	if err != nil {
		return result, err
	}

	// Pass 1: collect every declared type/member with its fully qualified
	// name, derived from enclosing namespace and type declarations rather
	// than source text.
	types := collectTypeDeclarations(root, file.Source)

	for _, t := range types {
		result.Symbols = append(result.Symbols, SymbolRecord{
			Name:               t.name,
			FullyQualifiedName: t.fqn,
			Kind:               t.kind,
			Project:            project,
			File:               file.Path,
			Line:               t.line,
			Column:             t.column,
			Accessibility:      t.accessibility,
			Modifiers:          t.modifiers,
		})

		for _, base := range t.baseTypes {
			if isInterfaceName(base) {
				result.Implementations = append(result.Implementations, ImplementationRelation{
					ImplementingType: t.fqn,
					InterfaceType:    base,
				})
			} else {
				result.Inheritance = append(result.Inheritance, InheritanceRelation{
					DerivedType: t.fqn,
					BaseType:    base,
				})
			}
			result.TypeUsages = append(result.TypeUsages, TypeUsage{
				UsedInType:    t.fqn,
				UsedInProject: project,
				TypeName:      base,
			})
		}

		fieldTypes := map[string]string{}
		for _, m := range t.members {
			if (m.kind == "Field" || m.kind == "Property") && len(m.referencedTypes) > 0 {
				fieldTypes[m.name] = stripGenericArity(m.referencedTypes[0])
			}
		}

		for _, m := range t.members {
			memberFQN := t.fqn + "." + m.name
			result.Symbols = append(result.Symbols, SymbolRecord{
				Name:               m.name,
				FullyQualifiedName: memberFQN,
				Kind:               m.kind,
				Project:            project,
				File:               file.Path,
				Line:               m.line,
				Column:             m.column,
				Accessibility:      m.accessibility,
				Modifiers:          m.modifiers,
				Signature:          m.signature,
			})

			for _, typeName := range m.referencedTypes {
				result.TypeUsages = append(result.TypeUsages, TypeUsage{
					UsedInType:    t.fqn,
					UsedInMethod:  memberFQN,
					UsedInProject: project,
					TypeName:      typeName,
				})
			}

			for _, inv := range m.invocations {
				result.Invocations = append(result.Invocations, MethodInvocation{
					CallerType:           t.fqn,
					CallerMethod:         memberFQN,
					CallerProject:        project,
					InvocationExpression: inv,
					ReceiverType:         receiverTypeFor(inv, fieldTypes),
				})
			}
		}
	}

	return result, nil
}

// isInterfaceName applies the naming-convention fallback: a leading 'I'
// followed by an uppercase letter. Used only when no bound symbol kind is
// available to classify a base-list entry.
func isInterfaceName(name string) bool {
	return interfaceNamePattern.MatchString(stripGenericArity(name))
}

// stripGenericArity truncates a type name at its first '<', per the
// type-usage resolution contract.
func stripGenericArity(name string) string {
	if idx := strings.IndexByte(name, '<'); idx >= 0 {
		return name[:idx]
	}
	return name
}

type memberDecl struct {
	name            string
	kind            string
	line, column    int
	accessibility   Accessibility
	modifiers       Modifiers
	signature       string
	referencedTypes []string
	invocations     []string
}

type typeDecl struct {
	name          string
	fqn           string
	kind          string
	line, column  int
	accessibility Accessibility
	modifiers     Modifiers
	baseTypes     []string
	members       []memberDecl
}

// collectTypeDeclarations walks the file's namespace declarations and type
// declarations, producing fully qualified names from the namespace/type
// nesting rather than from a real semantic binder (none is available in
// this toolchain; see the design notes on the CompilationHost contract).
func collectTypeDeclarations(root *sitter.Node, source []byte) []typeDecl {
	var out []typeDecl

	namespaceTypes := map[string]bool{}
	for _, t := range csharp.NamespaceDeclarationNodeTypes {
		namespaceTypes[t] = true
	}
	wantTypeDecls := map[string]bool{}
	for t := range csharp.TypeDeclarationNodeTypes {
		wantTypeDecls[t] = true
	}

	var walkNamespace func(node *sitter.Node, namespace string)
	walkNamespace = func(node *sitter.Node, namespace string) {
		count := int(node.ChildCount())
		for i := 0; i < count; i++ {
			child := node.Child(i)
			if child == nil {
				continue
			}
			switch {
			case namespaceTypes[child.Type()]:
				name := csharp.FieldValue(child, "name", source)
				nested := name
				if namespace != "" {
					nested = namespace + "." + name
				}
				walkNamespace(child, nested)
			case wantTypeDecls[child.Type()]:
				out = append(out, collectTypeDecl(child, source, namespace))
			default:
				walkNamespace(child, namespace)
			}
		}
	}
	walkNamespace(root, "")

	return out
}

func collectTypeDecl(node *sitter.Node, source []byte, namespace string) typeDecl {
	name := csharp.FieldValue(node, "name", source)
	fqn := name
	if namespace != "" {
		fqn = namespace + "." + name
	}

	kind := string(csharp.TypeDeclarationNodeTypes[node.Type()])
	mods := csharp.Modifiers(node, source)

	td := typeDecl{
		name:          name,
		fqn:           fqn,
		kind:          capitalize(kind),
		accessibility: accessibilityFromModifiers(mods),
		modifiers: Modifiers{
			Abstract: csharp.HasModifier(mods, "abstract"),
			Static:   csharp.HasModifier(mods, "static"),
			Sealed:   csharp.HasModifier(mods, "sealed"),
		},
	}
	td.line, td.column = csharp.Position(node.StartPoint())

	if baseList := node.ChildByFieldName("bases"); baseList != nil {
		td.baseTypes = baseListEntries(baseList, source)
	}

	wantMembers := map[string]bool{}
	for t := range csharp.MemberDeclarationNodeTypes {
		wantMembers[t] = true
	}
	if body := node.ChildByFieldName("body"); body != nil {
		for _, child := range csharp.ChildrenOfType(body, wantMembers) {
			td.members = append(td.members, collectMemberDecl(child, source))
		}
	}

	return td
}

func baseListEntries(baseList *sitter.Node, source []byte) []string {
	var entries []string
	count := int(baseList.ChildCount())
	for i := 0; i < count; i++ {
		child := baseList.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case ",", ":":
			continue
		default:
			text := strings.TrimSpace(string(source[child.StartByte():child.EndByte()]))
			if text != "" {
				entries = append(entries, text)
			}
		}
	}
	return entries
}

func collectMemberDecl(node *sitter.Node, source []byte) memberDecl {
	name := csharp.FieldValue(node, "name", source)
	typeNode := node.ChildByFieldName("type")
	if name == "" && node.Type() == "field_declaration" {
		// A field's type and declarator sit on its variable_declaration child.
		for _, decl := range csharp.ChildrenOfType(node, map[string]bool{"variable_declaration": true}) {
			typeNode = decl.ChildByFieldName("type")
			for _, v := range csharp.ChildrenOfType(decl, map[string]bool{"variable_declarator": true}) {
				if ids := csharp.ChildrenOfType(v, map[string]bool{"identifier": true}); len(ids) > 0 && name == "" {
					name = string(source[ids[0].StartByte():ids[0].EndByte()])
				}
			}
		}
	}
	if name == "" {
		name = string(csharp.MemberDeclarationNodeTypes[node.Type()])
	}
	mods := csharp.Modifiers(node, source)

	md := memberDecl{
		name:          name,
		kind:          capitalize(string(csharp.MemberDeclarationNodeTypes[node.Type()])),
		accessibility: accessibilityFromModifiers(mods),
		modifiers: Modifiers{
			Abstract: csharp.HasModifier(mods, "abstract"),
			Static:   csharp.HasModifier(mods, "static"),
			Sealed:   csharp.HasModifier(mods, "sealed"),
		},
	}
	md.line, md.column = csharp.Position(node.StartPoint())

	start := node.StartByte()
	end := node.EndByte()
	sig := string(source[start:end])
	if idx := strings.IndexByte(sig, '{'); idx >= 0 {
		sig = sig[:idx]
	}
	md.signature = strings.TrimSpace(sig)

	if retType := typeNode; retType != nil {
		md.referencedTypes = append(md.referencedTypes, string(source[retType.StartByte():retType.EndByte()]))
	}
	if params := node.ChildByFieldName("parameters"); params != nil {
		md.referencedTypes = append(md.referencedTypes, parameterTypes(params, source)...)
	}

	invocationTypes := map[string]bool{csharp.InvocationNodeType: true}
	csharp.Descendants(node, invocationTypes, func(inv *sitter.Node) bool {
		if expr := invocationExpression(inv, source); expr != "" {
			md.invocations = append(md.invocations, expr)
		}
		return true
	})

	return md
}

func parameterTypes(params *sitter.Node, source []byte) []string {
	var types []string
	wantTypes := map[string]bool{"parameter": true}
	csharp.Descendants(params, wantTypes, func(p *sitter.Node) bool {
		if t := p.ChildByFieldName("type"); t != nil {
			types = append(types, string(source[t.StartByte():t.EndByte()]))
		}
		return false
	})
	return types
}

// invocationExpression renders the call target as receiver tokens joined
// by '.', method name, with the argument list stripped.
func invocationExpression(inv *sitter.Node, source []byte) string {
	fn := inv.ChildByFieldName("function")
	if fn == nil {
		return ""
	}
	return string(source[fn.StartByte():fn.EndByte()])
}

// receiverTypeFor resolves a call's receiver to its declared field/property
// type, when the receiver is (optionally "this."-qualified) a single field
// or property declared on the enclosing type. This is the "bound symbol"
// path for invocation resolution: when it succeeds, RelationResolver can
// terminate the Calls edge at the receiver's declared type (e.g. an
// interface) instead of guessing from the method name alone. Multi-hop
// receivers (`a.b.Method()`) and receivers that aren't local fields/properties
// fall back to an empty ReceiverType, leaving resolution to the textual
// tiers in RelationResolver.
func receiverTypeFor(expr string, fieldTypes map[string]string) string {
	expr = strings.TrimSuffix(strings.TrimSpace(expr), "()")
	idx := strings.LastIndexByte(expr, '.')
	if idx < 0 {
		return ""
	}
	receiverPath := strings.TrimPrefix(expr[:idx], "this.")
	if strings.ContainsRune(receiverPath, '.') {
		return "" // multi-hop receiver; no local symbol table to chase it
	}
	return fieldTypes[receiverPath]
}

func accessibilityFromModifiers(mods []string) Accessibility {
	switch {
	case csharp.HasModifier(mods, "public"):
		return AccessPublic
	case csharp.HasModifier(mods, "protected"):
		return AccessProtected
	case csharp.HasModifier(mods, "internal"):
		return AccessInternal
	default:
		return AccessPrivate
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
