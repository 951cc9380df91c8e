package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	m "github.com/formshift/formshift/internal/model"
)

func TestResolveSameNamespace(t *testing.T) {
	snap := newTestSnapshot(nil,
		testDecl("Order", "App.Domain", "app/Order.cs", nil),
		testDecl("OrderService", "App.Domain", "app/OrderService.cs", nil),
	)
	resolver := NewResolver(snap, testRules())

	res := resolver.Resolve("Order", snap.Declarations[1])

	assert.Equal(t, m.Resolved, res.Kind)
	assert.Equal(t, "App.Domain.Order", res.Qualified)
}

func TestResolveWalksOuterNamespaces(t *testing.T) {
	snap := newTestSnapshot(nil,
		testDecl("Shared", "App", "app/Shared.cs", nil),
		testDecl("Inner", "App.Domain.Sub", "app/Inner.cs", nil),
	)
	resolver := NewResolver(snap, testRules())

	res := resolver.Resolve("Shared", snap.Declarations[1])

	assert.Equal(t, m.Resolved, res.Kind)
	assert.Equal(t, "App.Shared", res.Qualified)
}

func TestResolveQualifiedKnownName(t *testing.T) {
	snap := newTestSnapshot(nil,
		testDecl("Consumer", "App", "app/Consumer.cs", nil),
	)
	resolver := NewResolver(snap, testRules())

	res := resolver.Resolve("Legacy.Web.LegacyPage", snap.Declarations[0])

	assert.Equal(t, m.Resolved, res.Kind)
	assert.Equal(t, "Legacy.Web.LegacyPage", res.Qualified)
}

func TestResolveQualifiedUnknownNameFallsBack(t *testing.T) {
	snap := newTestSnapshot(nil,
		testDecl("Consumer", "App", "app/Consumer.cs", nil),
	)
	resolver := NewResolver(snap, testRules())

	res := resolver.Resolve("System.Text.StringBuilder", snap.Declarations[0])

	assert.Equal(t, m.FallbackResolved, res.Kind)
	assert.Equal(t, "System.Text.StringBuilder", res.Qualified)
}

func TestResolveUniqueProjectWideName(t *testing.T) {
	snap := newTestSnapshot(nil,
		testDecl("Widget", "Lib.Controls", "lib/Widget.cs", nil),
		testDecl("Consumer", "App", "app/Consumer.cs", nil),
	)
	resolver := NewResolver(snap, testRules())

	res := resolver.Resolve("Widget", snap.Declarations[1])

	assert.Equal(t, m.Resolved, res.Kind)
	assert.Equal(t, "Lib.Controls.Widget", res.Qualified)
}

func TestResolveAmbiguousNameIsUnresolved(t *testing.T) {
	snap := newTestSnapshot(nil,
		testDecl("Widget", "Lib.A", "lib/a/Widget.cs", nil),
		testDecl("Widget", "Lib.B", "lib/b/Widget.cs", nil),
		testDecl("Consumer", "App", "app/Consumer.cs", nil),
	)
	resolver := NewResolver(snap, testRules())

	res := resolver.Resolve("Widget", snap.Declarations[2])

	assert.Equal(t, m.Unresolved, res.Kind)
	assert.False(t, res.Ok())
}

func TestResolveUsingDirectiveFallback(t *testing.T) {
	usings := map[m.Path][]string{"app/Consumer.cs": {"System", "Legacy.Web"}}
	snap := newTestSnapshot(usings,
		testDecl("Consumer", "App", "app/Consumer.cs", nil),
	)
	resolver := NewResolver(snap, testRules())

	res := resolver.Resolve("LegacyPage", snap.Declarations[0])

	assert.Equal(t, m.FallbackResolved, res.Kind)
	assert.Equal(t, "Legacy.Web.LegacyPage", res.Qualified)
}

func TestResolveUnknownNameIsSilent(t *testing.T) {
	snap := newTestSnapshot(nil,
		testDecl("Consumer", "App", "app/Consumer.cs", nil),
	)
	resolver := NewResolver(snap, testRules())

	res := resolver.Resolve("TotallyUnknown", snap.Declarations[0])

	assert.Equal(t, m.Unresolved, res.Kind)
}

func TestResolveCleansWrittenForms(t *testing.T) {
	snap := newTestSnapshot(nil,
		testDecl("Order", "App", "app/Order.cs", nil),
		testDecl("Consumer", "App", "app/Consumer.cs", nil),
	)
	resolver := NewResolver(snap, testRules())

	for _, written := range []string{"Order?", "Order[]", "Order<int>", "global::App.Order"} {
		res := resolver.Resolve(written, snap.Declarations[1])
		assert.Truef(t, res.Ok(), "written form %q should resolve", written)
	}
}
