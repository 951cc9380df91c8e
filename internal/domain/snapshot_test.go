package domain

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formshift/formshift/internal/adapter"
	m "github.com/formshift/formshift/internal/model"
)

func TestCleanTypeName(t *testing.T) {
	cases := map[string]string{
		"Order":                  "Order",
		"Order?":                 "Order",
		"Order[]":                "Order",
		"Order[][]":              "Order",
		"List<Order>":            "List",
		"global::App.Order":      "App.Order",
		"  Dictionary<K, V>  ":   "Dictionary",
		"global::App.Order<T>[]": "App.Order",
		"":                       "",
	}

	for raw, want := range cases {
		assert.Equalf(t, want, CleanTypeName(raw), "CleanTypeName(%q)", raw)
	}
}

func TestSimpleName(t *testing.T) {
	assert.Equal(t, "Order", SimpleName("App.Domain.Order"))
	assert.Equal(t, "Order", SimpleName("Order"))
}

func TestDependentsOfMatchesWholeIdentifiers(t *testing.T) {
	target := testDecl("Foo", "App", "app/Foo.cs", nil)
	snap := newTestSnapshot(nil,
		target,
		testDecl("UsesSimple", "App", "app/UsesSimple.cs", nil, field("Foo")),
		testDecl("UsesQualified", "App", "app/UsesQualified.cs", nil, field("App.Foo")),
		testDecl("UsesArray", "App", "app/UsesArray.cs", nil, field("Foo[]")),
		testDecl("UsesLonger", "App", "app/UsesLonger.cs", nil, field("FooControl")),
		testDecl("UsesOtherNs", "App", "app/UsesOtherNs.cs", nil, field("Other.App.Foo")),
	)

	dependents := snap.DependentsOf(target)

	names := make([]string, 0, len(dependents))
	for _, d := range dependents {
		names = append(names, d.Name)
	}

	assert.ElementsMatch(t, []string{"UsesSimple", "UsesQualified", "UsesArray"}, names)
}

func TestFindBasePrefersSameFileThenSameDirectory(t *testing.T) {
	sameFile := testDecl("Base", "App", "app/Derived.cs", nil)
	sameDir := testDecl("Base", "App", "app/Base.cs", nil)
	elsewhere := testDecl("Base", "Lib", "lib/Base.cs", nil)
	derived := testDecl("Derived", "App", "app/Derived.cs", []string{"Base"})

	snap := newTestSnapshot(nil, elsewhere, sameDir, sameFile, derived)
	assert.Same(t, sameFile, snap.FindBase(derived, "Base"))

	snap = newTestSnapshot(nil, elsewhere, sameDir, derived)
	assert.Same(t, sameDir, snap.FindBase(derived, "Base"))

	snap = newTestSnapshot(nil, elsewhere, derived)
	assert.Same(t, elsewhere, snap.FindBase(derived, "Base"))

	snap = newTestSnapshot(nil, derived)
	assert.Nil(t, snap.FindBase(derived, "Base"))
}

func TestSnapshotBuilderWalksAndParses(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "obj"), 0o750))

	writeSource(t, dir, "Order.cs", "namespace App\nusing Legacy.Web;\nclass Order { int n; }\n")
	writeSource(t, dir, "Customer.cs", "namespace App\nclass Customer { Order o; }\n")
	writeSource(t, filepath.Join(dir, "obj"), "Generated.cs", "namespace App\nclass Generated { int n; }\n")
	writeSource(t, dir, "notes.txt", "not C# at all")

	builder := NewSnapshotBuilder(adapter.NewLocalSourceFSAdapter(), &lineParser{})

	snap, err := builder.Build(context.Background(), m.Path(dir), []string{`[\\/]obj[\\/]`}, 2)
	require.NoError(t, err)

	assert.Len(t, snap.Files, 2)
	assert.Len(t, snap.Declarations, 2)
	assert.Empty(t, snap.ByQualified("App.Generated"))
	assert.Len(t, snap.ByQualified("App.Order"), 1)
	assert.Equal(t, []string{"Legacy.Web"}, snap.UsingsFor(m.Path(filepath.Join(dir, "Order.cs"))))
}

func TestSnapshotBuilderIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "B.cs", "namespace App\nclass B { int n; }\n")
	writeSource(t, dir, "A.cs", "namespace App\nclass A { int n; }\nclass A2 { int n; }\n")

	builder := NewSnapshotBuilder(adapter.NewLocalSourceFSAdapter(), &lineParser{})

	var orders [][]string

	for iter := 0; iter < 3; iter++ {
		snap, err := builder.Build(context.Background(), m.Path(dir), nil, 4)
		require.NoError(t, err)

		names := make([]string, 0, len(snap.Declarations))
		for _, d := range snap.Declarations {
			names = append(names, d.QualifiedName())
		}

		orders = append(orders, names)
	}

	assert.Equal(t, []string{"App.A", "App.A2", "App.B"}, orders[0])
	assert.Equal(t, orders[0], orders[1])
	assert.Equal(t, orders[1], orders[2])
}

func TestSnapshotBuilderRejectsBadExcludePattern(t *testing.T) {
	builder := NewSnapshotBuilder(adapter.NewLocalSourceFSAdapter(), &lineParser{})

	_, err := builder.Build(context.Background(), m.Path(t.TempDir()), []string{"["}, 1)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid exclude pattern")
}
