package resolve

import (
	"strings"

	"grafo/internal/semantic"
)

// cacheKey memoizes a resolution by the token being resolved and the
// project the reference originated in.
type cacheKey struct {
	token   string
	project string
}

// Resolver implements C5 over one solution's symbol set and raw relation
// streams.
type Resolver struct {
	index                     *Index
	permitExternalBaseClasses bool
	invocationCache           map[cacheKey]*semantic.SymbolRecord
	typeUsageCache            map[cacheKey]*semantic.SymbolRecord
	seenEdges                 map[string]bool
}

// NewResolver builds the symbol index and a fresh Resolver.
func NewResolver(symbols []semantic.SymbolRecord, permitExternalBaseClasses bool) *Resolver {
	return &Resolver{
		index:                     BuildIndex(symbols),
		permitExternalBaseClasses: permitExternalBaseClasses,
		invocationCache:           make(map[cacheKey]*semantic.SymbolRecord),
		typeUsageCache:            make(map[cacheKey]*semantic.SymbolRecord),
		seenEdges:                 make(map[string]bool),
	}
}

// splitInvocation parses an invocationExpression into its type path and
// trailing method token.
func splitInvocation(expr string) (typePath, method string) {
	expr = strings.TrimSuffix(strings.TrimSpace(expr), "()")
	idx := strings.LastIndex(expr, ".")
	if idx < 0 {
		return "", expr
	}
	return expr[:idx], expr[idx+1:]
}

// resolveByToken runs the shared two-tier simple-name-then-suffix
// resolution used by both invocation and type-usage resolution, with the
// caller-project preference applied at tier 1.
func (r *Resolver) resolveByToken(token, callerProject string) (semantic.SymbolRecord, bool) {
	candidates := r.index.BySimpleName(token)
	if s, ok := preferProject(candidates, callerProject); ok {
		return s, true
	}
	return r.index.suffixScan(token)
}

// resolveOwnerFQN resolves a receiver's declared type token (as written at
// the declaration site, not yet a fully qualified name) to the fully
// qualified name of the symbol it names.
func (r *Resolver) resolveOwnerFQN(typeToken, callerProject string) (string, bool) {
	if s, ok := r.index.ExactFQN(typeToken); ok {
		return s.FullyQualifiedName, true
	}
	if s, ok := r.resolveByToken(typeToken, callerProject); ok {
		return s.FullyQualifiedName, true
	}
	return "", false
}

// resolveInvocationTarget prefers the receiver's bound declared type (set by
// the walker when the receiver is a local field/property) over the
// textual-only tiers: "this.Logger.LogInfo" with Logger declared as ILogger
// resolves to ILogger.LogInfo even if a concrete Logger implementation also
// declares LogInfo, matching the receiver's static type rather than a
// same-named method anywhere in the index.
func (r *Resolver) resolveInvocationTarget(inv semantic.MethodInvocation, method string) (semantic.SymbolRecord, bool) {
	if inv.ReceiverType != "" {
		if ownerFQN, ok := r.resolveOwnerFQN(inv.ReceiverType, inv.CallerProject); ok {
			if s, ok := r.index.ExactFQN(ownerFQN + "." + method); ok {
				return s, true
			}
		}
	}
	return r.resolveByToken(method, inv.CallerProject)
}

// ResolveInvocations turns raw method invocations into Calls edges.
func (r *Resolver) ResolveInvocations(invocations []semantic.MethodInvocation) ([]GraphEdge, int) {
	var edges []GraphEdge
	dropped := 0

	for _, inv := range invocations {
		if inv.CallerMethod == "" {
			dropped++
			continue
		}
		_, method := splitInvocation(inv.InvocationExpression)
		if method == "" {
			dropped++
			continue
		}

		key := cacheKey{token: inv.ReceiverType + "\x00" + method, project: inv.CallerProject}
		target, cached := r.invocationCache[key]
		if !cached {
			if s, ok := r.resolveInvocationTarget(inv, method); ok {
				target = &s
			}
			r.invocationCache[key] = target
		}
		if target == nil {
			dropped++
			continue
		}

		edge := GraphEdge{
			Kind:   Calls,
			Source: inv.CallerMethod,
			Target: target.FullyQualifiedName,
			Style:  StyleFor(Calls),
		}
		if r.addEdge(edge) {
			edges = append(edges, edge)
		}
	}

	return edges, dropped
}

// ResolveTypeUsages turns raw type-usage references into Uses edges.
func (r *Resolver) ResolveTypeUsages(usages []semantic.TypeUsage) ([]GraphEdge, int) {
	var edges []GraphEdge
	dropped := 0

	for _, u := range usages {
		if u.UsedInType == "" {
			dropped++
			continue
		}
		typeName := stripGenericArity(u.TypeName)

		key := cacheKey{token: typeName, project: u.UsedInProject}
		target, cached := r.typeUsageCache[key]
		if !cached {
			target = r.resolveTypeUsage(typeName, u.UsedInProject)
			r.typeUsageCache[key] = target
		}
		if target == nil {
			dropped++
			continue
		}

		edge := GraphEdge{
			Kind:   Uses,
			Source: u.UsedInType,
			Target: target.FullyQualifiedName,
			Style:  StyleFor(Uses),
		}
		if r.addEdge(edge) {
			edges = append(edges, edge)
		}
	}

	return edges, dropped
}

// resolveTypeUsage runs the type-usage-specific three-tier process: exact
// fullyQualifiedName, then simple-name-with-project-preference, then
// suffix scan.
func (r *Resolver) resolveTypeUsage(typeName, project string) *semantic.SymbolRecord {
	if s, ok := r.index.ExactFQN(typeName); ok {
		return &s
	}
	if s, ok := r.resolveByToken(typeName, project); ok {
		return &s
	}
	return nil
}

// stripGenericArity truncates a type name at its first '<'.
func stripGenericArity(name string) string {
	if i := strings.IndexByte(name, '<'); i >= 0 {
		return name[:i]
	}
	return name
}

// ResolveInheritance turns raw inheritance/implementation references into
// Inherits/Implements edges, per the asymmetric external-base-type rule.
func (r *Resolver) ResolveInheritance(inheritance []semantic.InheritanceRelation, implementations []semantic.ImplementationRelation) ([]GraphEdge, int) {
	var edges []GraphEdge
	dropped := 0

	for _, inh := range inheritance {
		derived, derivedOK := r.index.ExactFQN(inh.DerivedType)
		if !derivedOK {
			dropped++
			continue
		}
		base, baseOK := r.index.ExactFQN(stripGenericArity(inh.BaseType))
		if !baseOK && !r.permitExternalBaseClasses {
			dropped++
			continue
		}
		target := inh.BaseType
		if baseOK {
			target = base.FullyQualifiedName
		}
		edge := GraphEdge{Kind: Inherits, Source: derived.FullyQualifiedName, Target: target, Style: StyleFor(Inherits)}
		if r.addEdge(edge) {
			edges = append(edges, edge)
		}
	}

	for _, impl := range implementations {
		implementing, ok := r.index.ExactFQN(impl.ImplementingType)
		if !ok {
			dropped++
			continue
		}
		target := impl.InterfaceType
		if ifaceFQN, ok := r.resolveOwnerFQN(stripGenericArity(impl.InterfaceType), implementing.Project); ok {
			target = ifaceFQN
		}
		edge := GraphEdge{Kind: Implements, Source: implementing.FullyQualifiedName, Target: target, Style: StyleFor(Implements)}
		if r.addEdge(edge) {
			edges = append(edges, edge)
		}
	}

	return edges, dropped
}

// addEdge reports whether (source, target, kind) is new, registering it in
// the dedup set if so. Only Calls edges are documented as deduplicated,
// but the same key shape is harmless to apply to every kind.
func (r *Resolver) addEdge(edge GraphEdge) bool {
	key := string(edge.Kind) + "\x00" + edge.Source + "\x00" + edge.Target
	if r.seenEdges[key] {
		return false
	}
	r.seenEdges[key] = true
	return true
}

// Resolve runs the full C5 pipeline over one solution's raw relation
// streams and returns every resolved edge.
func (r *Resolver) Resolve(walk semantic.WalkResult) Result {
	callEdges, droppedCalls := r.ResolveInvocations(walk.Invocations)
	useEdges, droppedUses := r.ResolveTypeUsages(walk.TypeUsages)
	inheritEdges, droppedInherit := r.ResolveInheritance(walk.Inheritance, walk.Implementations)

	result := Result{DroppedCalls: droppedCalls, DroppedUses: droppedUses, DroppedInherit: droppedInherit}
	result.Edges = append(result.Edges, callEdges...)
	result.Edges = append(result.Edges, useEdges...)
	result.Edges = append(result.Edges, inheritEdges...)
	return result
}
