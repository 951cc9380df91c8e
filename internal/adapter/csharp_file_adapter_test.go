package adapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/formshift/formshift/internal/model"
)

const sampleSource = `using System;
using DevExpress.Web;

namespace Acme.Orders
{
    // Shows the open orders grid.
    public partial class OrdersPage : ASPxGridView
    {
        private OrderRepository repository;

        public OrderDetail Detail { get; set; }

        public OrderSummary Load(int id, CustomerFilter filter)
        {
            var page = new LegacyRenderer();
            HttpContext.Current.Trace.Write("load");
            return null;
        }
    }

    internal interface IOrderSource
    {
    }
}
`

func parseSample(t *testing.T, src string) *ParsedFile {
	t.Helper()

	parsed, err := NewTreeSitterCSharpAdapter().Parse(context.Background(), "Orders.cs", []byte(src))
	require.NoError(t, err)

	return parsed
}

func declByName(t *testing.T, parsed *ParsedFile, name string) *m.Declaration {
	t.Helper()

	for _, decl := range parsed.Declarations {
		if decl.Name == name {
			return decl
		}
	}

	t.Fatalf("declaration %q not found", name)

	return nil
}

func refNames(decl *m.Declaration) []string {
	names := make([]string, 0, len(decl.References))
	for _, ref := range decl.References {
		names = append(names, ref.Name)
	}

	return names
}

func TestParseCollectsUsingsAndDeclarations(t *testing.T) {
	parsed := parseSample(t, sampleSource)

	assert.Equal(t, []string{"System", "DevExpress.Web"}, parsed.Usings)
	require.Len(t, parsed.Declarations, 2)

	page := declByName(t, parsed, "OrdersPage")
	assert.Equal(t, "Acme.Orders", page.Namespace)
	assert.Equal(t, "Acme.Orders.OrdersPage", page.QualifiedName())
	assert.Equal(t, m.DeclClass, page.Kind)
	assert.True(t, page.IsPartial)
	assert.Equal(t, "    ", page.Indent)
	assert.Equal(t, []string{"ASPxGridView"}, page.BaseTypes)

	source := declByName(t, parsed, "IOrderSource")
	assert.Equal(t, m.DeclInterface, source.Kind)
	assert.False(t, source.IsPartial)
}

func TestParseScansReferencePositions(t *testing.T) {
	parsed := parseSample(t, sampleSource)
	page := declByName(t, parsed, "OrdersPage")

	names := refNames(page)

	assert.Contains(t, names, "ASPxGridView")
	assert.Contains(t, names, "OrderRepository")
	assert.Contains(t, names, "OrderDetail")
	assert.Contains(t, names, "OrderSummary")
	assert.Contains(t, names, "CustomerFilter")
	assert.Contains(t, names, "LegacyRenderer")
	assert.Contains(t, names, "HttpContext")

	// Builtin type keywords never count as references.
	assert.NotContains(t, names, "int")
	assert.NotContains(t, names, "var")
}

func TestParseSpanCoversLeadingComment(t *testing.T) {
	parsed := parseSample(t, sampleSource)
	page := declByName(t, parsed, "OrdersPage")

	span := sampleSource[page.Span.Start:page.Span.End]
	assert.True(t, len(span) > 0)
	assert.Contains(t, span, "// Shows the open orders grid.")
	assert.Contains(t, span, "public partial class OrdersPage")
}

func TestParseGenericTypeArguments(t *testing.T) {
	src := `namespace App
{
    public class Holder
    {
        private List<OrderDetail> items;
    }
}
`
	parsed := parseSample(t, src)
	holder := declByName(t, parsed, "Holder")

	names := refNames(holder)
	assert.Contains(t, names, "List")
	assert.Contains(t, names, "OrderDetail")
}

func TestParseFileScopedNamespace(t *testing.T) {
	src := `namespace App.Modern;

public class Thing
{
}
`
	parsed := parseSample(t, src)
	thing := declByName(t, parsed, "Thing")

	assert.Equal(t, "App.Modern.Thing", thing.QualifiedName())
}

func TestParseCommentedOutCodeIsNotLive(t *testing.T) {
	src := `namespace App
{
    // public class Ghost : ASPxGridView
    // {
    // }

    public class Present
    {
    }
}
`
	parsed := parseSample(t, src)

	require.Len(t, parsed.Declarations, 1)
	assert.Equal(t, "Present", parsed.Declarations[0].Name)
}
