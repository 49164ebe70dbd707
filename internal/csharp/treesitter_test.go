//go:build cgo

package csharp

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
)

const sampleSource = `
namespace Core.Business
{
    public interface IOrderService
    {
        void Place(Order order);
    }

    public class OrderService : IOrderService
    {
        private readonly IRepository _repo;

        public void Place(Order order)
        {
            _repo.Save(order);
        }
    }
}
`

func TestParse(t *testing.T) {
	p := NewParser()
	root, err := p.Parse(context.Background(), []byte(sampleSource))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if root == nil {
		t.Fatal("Parse() returned nil root")
	}
	if root.HasError() {
		t.Error("Parse() produced a tree with syntax errors")
	}
}

func TestDescendantsFindsTypeDeclarations(t *testing.T) {
	p := NewParser()
	root, err := p.Parse(context.Background(), []byte(sampleSource))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	wantTypes := map[string]bool{
		"interface_declaration": true,
		"class_declaration":     true,
	}

	var found []string
	Descendants(root, wantTypes, func(n *sitter.Node) bool {
		found = append(found, n.Type())
		return true
	})

	if len(found) != 2 {
		t.Fatalf("found %d type declarations, want 2: %v", len(found), found)
	}
}

func TestModifiers(t *testing.T) {
	p := NewParser()
	source := []byte(`public abstract class Base {}`)
	root, err := p.Parse(context.Background(), source)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	var classNode *sitter.Node
	Descendants(root, map[string]bool{"class_declaration": true}, func(n *sitter.Node) bool {
		classNode = n
		return false
	})
	if classNode == nil {
		t.Fatal("did not find class_declaration node")
	}

	mods := Modifiers(classNode, source)
	if !HasModifier(mods, "abstract") {
		t.Errorf("Modifiers() = %v, want to contain \"abstract\"", mods)
	}
}
