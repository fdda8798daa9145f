package symtab_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bora-lang/bora/internal/ast"
	"github.com/bora-lang/bora/internal/symtab"
)

func TestDeclareAssignsIncreasingAddresses(t *testing.T) {
	tbl := symtab.New()
	a, ok := tbl.Declare("a", ast.TInt, 1, 1)
	require.True(t, ok)
	b, ok := tbl.Declare("b", ast.TFloat, 2, 1)
	require.True(t, ok)
	require.Equal(t, a.Address+1, b.Address)
}

func TestDeclareRejectsDuplicateName(t *testing.T) {
	tbl := symtab.New()
	_, ok := tbl.Declare("a", ast.TInt, 1, 1)
	require.True(t, ok)
	_, ok = tbl.Declare("a", ast.TFloat, 2, 1)
	require.False(t, ok)
}

func TestLookupReturnsNilForUndeclaredName(t *testing.T) {
	tbl := symtab.New()
	require.Nil(t, tbl.Lookup("missing"))
}

func TestCrossRefsSortLinesAscendingAndDeduplicate(t *testing.T) {
	tbl := symtab.New()
	tbl.Declare("x", ast.TInt, 1, 1)
	tbl.Touch("x", 5)
	tbl.Touch("x", 2)
	tbl.Touch("x", 5)

	refs := tbl.CrossRefs()
	require.Len(t, refs, 1)
	require.Equal(t, []int{2, 5}, refs[0].Lines)
}

func TestRenderWritesNameTypeAddressLinesHeader(t *testing.T) {
	tbl := symtab.New()
	tbl.Declare("x", ast.TInt, 1, 1)
	tbl.Touch("x", 1)

	var buf bytes.Buffer
	tbl.Render(&buf)
	require.Contains(t, buf.String(), "NAME")
	require.Contains(t, buf.String(), "x")
}
