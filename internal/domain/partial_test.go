package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/formshift/formshift/internal/model"
)

func partialDecl(name, namespace string, file m.Path, bases []string) *m.Declaration {
	d := testDecl(name, namespace, file, bases)
	d.IsPartial = true

	return d
}

func TestFragmentsNonPartialIsItsOwnGroup(t *testing.T) {
	snap := newTestSnapshot(nil,
		testDecl("Order", "App", "app/Order.cs", nil),
		testDecl("Order", "App", "app/Order.Designer.cs", nil),
	)
	pc := NewPartialCoordinator(snap, NewProtectionPolicy(snap, testRules(), false))

	fragments := pc.Fragments(snap.Declarations[0])

	require.Len(t, fragments, 1)
	assert.Same(t, snap.Declarations[0], fragments[0])
}

func TestFragmentsGroupsPartialSiblingsInSameDirectory(t *testing.T) {
	snap := newTestSnapshot(nil,
		partialDecl("OrdersPage", "App", "app/OrdersPage.aspx.cs", nil),
		partialDecl("OrdersPage", "App", "app/OrdersPage.aspx.designer.cs", nil),
		partialDecl("OrdersPage", "App", "other/OrdersPage.cs", nil),
	)
	pc := NewPartialCoordinator(snap, NewProtectionPolicy(snap, testRules(), false))

	fragments := pc.Fragments(snap.Declarations[0])

	require.Len(t, fragments, 2)

	files := []m.Path{fragments[0].File, fragments[1].File}
	assert.Contains(t, files, m.Path("app/OrdersPage.aspx.cs"))
	assert.Contains(t, files, m.Path("app/OrdersPage.aspx.designer.cs"))
}

func TestFragmentsIgnoreNonPartialNamesakes(t *testing.T) {
	snap := newTestSnapshot(nil,
		partialDecl("Report", "App", "app/Report.cs", nil),
		testDecl("Report", "App", "app/Report.Designer.cs", nil),
	)
	pc := NewPartialCoordinator(snap, NewProtectionPolicy(snap, testRules(), false))

	fragments := pc.Fragments(snap.Declarations[0])

	require.Len(t, fragments, 1)
	assert.Same(t, snap.Declarations[0], fragments[0])
}

func TestGroupProtectedWhenAnyFragmentIsProtected(t *testing.T) {
	// The designer fragment carries no bases; the code-behind fragment derives
	// from a protected base. The whole group is protected from either entry.
	snap := newTestSnapshot(nil,
		partialDecl("OrdersModule", "App", "app/OrdersModule.cs", []string{"ModuleBase"}),
		partialDecl("OrdersModule", "App", "app/OrdersModule.Designer.cs", nil),
	)
	pc := NewPartialCoordinator(snap, NewProtectionPolicy(snap, testRules(), false))

	assert.True(t, pc.GroupProtected(snap.Declarations[0]))
	assert.True(t, pc.GroupProtected(snap.Declarations[1]))
}

func TestCascadePartialFragmentSymmetry(t *testing.T) {
	// One protected fragment flags the whole logical declaration and the
	// cascade does not continue past it.
	usings := map[m.Path][]string{"app/OrdersModule.Designer.cs": {"Legacy.Web"}}
	snap := newTestSnapshot(usings,
		partialDecl("OrdersModule", "App", "app/OrdersModule.cs", []string{"ModuleBase"}),
		testDecl("Downstream", "App", "app/Downstream.cs", nil, field("OrdersModule")),
	)

	designer := partialDecl("OrdersModule", "App", "app/OrdersModule.Designer.cs", nil)
	designer.References = append(designer.References, field("LegacyPage"))
	snap = newTestSnapshot(usings, snap.Declarations[0], designer, snap.Declarations[1])

	result := propagate(t, snap, false)

	assert.Equal(t, m.Flagged, result.Outcomes.Get("App.OrdersModule"))
	assert.Equal(t, m.Untouched, result.Outcomes.Get("App.Downstream"))
}

func TestCascadePartialGroupRemovesAllFragments(t *testing.T) {
	// No fragment is protected: the logical declaration is removed, and the
	// dependent found through either fragment cascades.
	usings := map[m.Path][]string{"app/LegacyForm.cs": {"Legacy.Web"}}
	snap := newTestSnapshot(usings,
		partialDecl("LegacyForm", "App", "app/LegacyForm.cs", nil),
		partialDecl("LegacyForm", "App", "app/LegacyForm.Designer.cs", nil),
		testDecl("Downstream", "App", "app/Downstream.cs", nil, field("LegacyForm")),
	)
	snap.Declarations[0].References = append(snap.Declarations[0].References, field("LegacyPage"))

	result := propagate(t, snap, false)

	assert.Equal(t, m.Removed, result.Outcomes.Get("App.LegacyForm"))
	assert.Equal(t, m.Removed, result.Outcomes.Get("App.Downstream"))
}
