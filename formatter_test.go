package jsonpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titleNode() *LocatedNode {
	obj := NewObjectSize(1)
	obj.Set("title", "A")
	root := NewObjectSize(1)
	root.Set("book", obj)
	return &LocatedNode{
		Value:          "A",
		Path:           NormalizedPath{NameElement("book"), NameElement("title")},
		Parent:         obj,
		ParentProperty: NameElement("title"),
		AncestorChain:  []any{root, obj},
	}
}

func TestProject_ResultValue(t *testing.T) {
	n := titleNode()
	r := project(n, ResultValue)
	assert.Equal(t, "A", r.Value)
	assert.Empty(t, r.Path)
	assert.Empty(t, r.Pointer)
	assert.Nil(t, r.Parent)
	assert.Nil(t, r.ParentProperty)
	assert.Nil(t, r.ParentChain)
}

func TestProject_ResultPath(t *testing.T) {
	n := titleNode()
	r := project(n, ResultPath)
	assert.Equal(t, "A", r.Value)
	assert.Equal(t, `$['book']['title']`, r.Path.String())
}

func TestProject_ResultPointer(t *testing.T) {
	n := titleNode()
	r := project(n, ResultPointer)
	assert.Equal(t, "/book/title", r.Pointer)
}

func TestProject_ResultParent(t *testing.T) {
	n := titleNode()
	r := project(n, ResultParent)
	assert.Same(t, n.Parent, r.Parent)
}

func TestProject_ResultParentProperty(t *testing.T) {
	n := titleNode()
	r := project(n, ResultParentProperty)
	assert.Equal(t, NameElement("title"), r.ParentProperty)
}

func TestProject_ResultParentChain(t *testing.T) {
	n := titleNode()
	r := project(n, ResultParentChain)
	assert.Equal(t, n.AncestorChain, r.ParentChain)
}

func TestProject_ResultAll(t *testing.T) {
	n := titleNode()
	r := project(n, ResultAll)
	assert.Equal(t, "A", r.Value)
	assert.Equal(t, `$['book']['title']`, r.Path.String())
	assert.Equal(t, "/book/title", r.Pointer)
	assert.Same(t, n.Parent, r.Parent)
	assert.Equal(t, NameElement("title"), r.ParentProperty)
	assert.Equal(t, n.AncestorChain, r.ParentChain)
}

func TestFlattenDepth_NoOp(t *testing.T) {
	nodes := LocatedNodeList{{Value: []any{1, 2, 3}}}
	got := flattenDepth(nodes, 0)
	assert.Equal(t, nodes, got)
}

func TestFlattenDepth_Array(t *testing.T) {
	nodes := LocatedNodeList{{
		Value: []any{1, 2, 3},
		Path:  NormalizedPath{NameElement("a")},
	}}
	got := flattenDepth(nodes, 1)
	require.Len(t, got, 3)
	assert.Equal(t, 1, got[0].Value)
	assert.Equal(t, IndexElement(0), got[0].ParentProperty)
	assert.Equal(t, `$['a'][0]`, got[0].Path.String())
	assert.Equal(t, 3, got[2].Value)
	assert.Equal(t, `$['a'][2]`, got[2].Path.String())
}

func TestFlattenDepth_Object(t *testing.T) {
	obj := NewObjectSize(2)
	obj.Set("x", 1)
	obj.Set("y", 2)
	nodes := LocatedNodeList{{
		Value: obj,
		Path:  NormalizedPath{NameElement("o")},
	}}
	got := flattenDepth(nodes, 1)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Value)
	assert.Equal(t, NameElement("x"), got[0].ParentProperty)
	assert.Equal(t, `$['o']['x']`, got[0].Path.String())
}

func TestFlattenDepth_Scalar_PassesThrough(t *testing.T) {
	nodes := LocatedNodeList{{Value: 42}}
	got := flattenDepth(nodes, 1)
	require.Len(t, got, 1)
	assert.Equal(t, 42, got[0].Value)
}

func TestFlattenDepth_RepeatedPasses(t *testing.T) {
	nested := []any{[]any{1, 2}, []any{3, 4}}
	nodes := LocatedNodeList{{Value: nested, Path: NormalizedPath{NameElement("n")}}}

	got := flattenDepth(nodes, 2)
	require.Len(t, got, 4)
	assert.Equal(t, 1, got[0].Value)
	assert.Equal(t, 2, got[1].Value)
	assert.Equal(t, 3, got[2].Value)
	assert.Equal(t, 4, got[3].Value)
}

func TestFormatResults_WithFlattenAndResultType(t *testing.T) {
	src := []any{10, 20}
	nodes := LocatedNodeList{{
		Value: src,
		Path:  NormalizedPath{NameElement("a")},
	}}

	results := formatResults(nodes, Options{Flatten: 1, ResultType: ResultPath})
	require.Len(t, results, 2)
	assert.Equal(t, 10, results[0].Value)
	assert.Equal(t, `$['a'][0]`, results[0].Path.String())
	assert.Equal(t, 20, results[1].Value)
	assert.Equal(t, `$['a'][1]`, results[1].Path.String())
}

func TestFormatResults_ResultAllIgnoresFlatten(t *testing.T) {
	nodes := LocatedNodeList{{
		Value: []any{10, 20},
		Path:  NormalizedPath{NameElement("a")},
	}}

	results := formatResults(nodes, Options{Flatten: 2, ResultType: ResultAll})
	require.Len(t, results, 1)
	assert.Equal(t, []any{10, 20}, results[0].Value)
}
