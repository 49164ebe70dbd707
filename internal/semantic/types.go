// Package semantic implements the SemanticWalker (C4): it traverses each
// parsed C# file against its project's local symbol table and emits
// SymbolRecords plus the four raw relation streams that RelationResolver
// later turns into graph edges.
package semantic

// Accessibility mirrors the C# access modifiers relevant to graph output.
type Accessibility string

const (
	AccessPublic    Accessibility = "public"
	AccessInternal  Accessibility = "internal"
	AccessProtected Accessibility = "protected"
	AccessPrivate   Accessibility = "private"
)

// Modifiers captures the three structural modifiers the graph assembler
// surfaces on Component nodes.
type Modifiers struct {
	Abstract bool
	Static   bool
	Sealed   bool
}

// SymbolRecord describes one declared type or member. fullyQualifiedName is
// unique per solution across records of the same kind.
type SymbolRecord struct {
	Name               string
	FullyQualifiedName string
	Kind               string // Class, Interface, Struct, Enum, Method, Property, Field
	Project            string
	File               string
	Line               int // 1-indexed
	Column             int // 1-indexed
	Accessibility      Accessibility
	Modifiers          Modifiers
	Signature          string
}

// MethodInvocation is a raw call-site relation: the textual callable path
// as written at the call site, not yet resolved to a symbol.
type MethodInvocation struct {
	CallerType           string
	CallerMethod         string // empty when the call occurs outside a method body
	CallerProject        string
	InvocationExpression string // receiver tokens joined by '.', trailing method name, no parens
	ReceiverType         string // declared type of the receiver's leading field/property, when locally known; empty otherwise
}

// TypeUsage is a raw reference to a type name, from a parameter, a member's
// declared or return type, or a base list entry. Local variable types are
// not recorded, and a generic type is recorded as written, arguments
// included.
type TypeUsage struct {
	UsedInType    string
	UsedInMethod  string // empty when the usage occurs outside a method body
	UsedInProject string
	TypeName      string
}

// InheritanceRelation is a raw non-interface base-type reference.
type InheritanceRelation struct {
	DerivedType string
	BaseType    string
}

// ImplementationRelation is a raw interface base-type reference.
type ImplementationRelation struct {
	ImplementingType string
	InterfaceType    string
}

// WalkResult is C4's output: the symbol table plus the four raw relation
// streams for one project.
type WalkResult struct {
	Symbols         []SymbolRecord
	Invocations     []MethodInvocation
	TypeUsages      []TypeUsage
	Inheritance     []InheritanceRelation
	Implementations []ImplementationRelation
}

func (r *WalkResult) merge(other WalkResult) {
	r.Symbols = append(r.Symbols, other.Symbols...)
	r.Invocations = append(r.Invocations, other.Invocations...)
	r.TypeUsages = append(r.TypeUsages, other.TypeUsages...)
	r.Inheritance = append(r.Inheritance, other.Inheritance...)
	r.Implementations = append(r.Implementations, other.Implementations...)
}
