package jsonpath

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookstore() any {
	return toValueTree(map[string]any{
		"store": map[string]any{
			"book": []any{
				map[string]any{"title": "A", "price": 5},
				map[string]any{"title": "B", "price": 15},
			},
		},
	})
}

func TestQuerySync_FilterMode_Terminal(t *testing.T) {
	doc := bookstore()

	tests := []struct {
		name string
		mode FilterMode
		want []any
	}{
		{
			name: "rfc expands and selects matching children",
			mode: ModeRFC,
			want: []any{map[string]any{"title": "A", "price": 5}},
		},
		{
			name: "jsonpath terminal behaves like rfc",
			mode: ModeJSONPath,
			want: []any{map[string]any{"title": "A", "price": 5}},
		},
		{
			name: "xpath never expands, whole array fails the test",
			mode: ModeXPath,
			want: []any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := QuerySync("$.store.book[?@.price < 10]", doc, Options{FilterMode: tt.mode})
			require.NoError(t, err)
			got := make([]any, len(results))
			for i, r := range results {
				got[i] = normalizeValue(r.Value)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQuerySync_FilterMode_NonTerminal(t *testing.T) {
	doc := bookstore()

	tests := []struct {
		name string
		mode FilterMode
		want []any
	}{
		{
			name: "rfc expands, then continues to .title",
			mode: ModeRFC,
			want: []any{"A"},
		},
		{
			name: "jsonpath non-terminal constrains without re-expanding",
			mode: ModeJSONPath,
			want: []any{},
		},
		{
			name: "xpath never expands",
			mode: ModeXPath,
			want: []any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := QuerySync("$.store.book[?@.price < 10].title", doc, Options{FilterMode: tt.mode})
			require.NoError(t, err)
			got := make([]any, len(results))
			for i, r := range results {
				got[i] = r.Value
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQuerySync_ResultType(t *testing.T) {
	doc := bookstore()

	t.Run("value is the default", func(t *testing.T) {
		results, err := QuerySync("$.store.book[0].title", doc, Options{})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "A", results[0].Value)
		assert.Empty(t, results[0].Path)
	})

	t.Run("path", func(t *testing.T) {
		results, err := QuerySync("$.store.book[0].title", doc, Options{ResultType: ResultPath})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, `$['store']['book'][0]['title']`, results[0].Path.String())
	})

	t.Run("pointer", func(t *testing.T) {
		results, err := QuerySync("$.store.book[0].title", doc, Options{ResultType: ResultPointer})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "/store/book/0/title", results[0].Pointer)
	})

	t.Run("parent", func(t *testing.T) {
		results, err := QuerySync("$.store.book[0].title", doc, Options{ResultType: ResultParent})
		require.NoError(t, err)
		require.Len(t, results, 1)
		obj, ok := results[0].Parent.(*Object)
		require.True(t, ok)
		title, _ := obj.Get("title")
		assert.Equal(t, "A", title)
	})

	t.Run("parent_property", func(t *testing.T) {
		results, err := QuerySync("$.store.book[0].title", doc, Options{ResultType: ResultParentProperty})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, NameElement("title"), results[0].ParentProperty)
	})

	t.Run("parent_chain", func(t *testing.T) {
		results, err := QuerySync("$.store.book[0].title", doc, Options{ResultType: ResultParentChain})
		require.NoError(t, err)
		require.Len(t, results, 1)
		// root, store object, book array, book[0] object -- outermost first,
		// ending in the immediate parent.
		require.Len(t, results[0].ParentChain, 4)
	})

	t.Run("all", func(t *testing.T) {
		results, err := QuerySync("$.store.book[0].title", doc, Options{ResultType: ResultAll})
		require.NoError(t, err)
		require.Len(t, results, 1)
		r := results[0]
		assert.Equal(t, "A", r.Value)
		assert.Equal(t, `$['store']['book'][0]['title']`, r.Path.String())
		assert.Equal(t, "/store/book/0/title", r.Pointer)
		assert.NotNil(t, r.Parent)
		assert.Equal(t, NameElement("title"), r.ParentProperty)
		assert.Len(t, r.ParentChain, 4)
	})
}

func TestQuerySync_Flatten(t *testing.T) {
	doc := toValueTree(map[string]any{
		"a": []any{1, 2, 3},
	})

	t.Run("zero value does not flatten", func(t *testing.T) {
		results, err := QuerySync("$.a", doc, Options{})
		require.NoError(t, err)
		require.Len(t, results, 1)
		_, ok := results[0].Value.([]any)
		assert.True(t, ok)
	})

	t.Run("one level unpacks the array", func(t *testing.T) {
		results, err := QuerySync("$.a", doc, Options{Flatten: 1})
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, 1, results[0].Value)
		assert.Equal(t, 2, results[1].Value)
		assert.Equal(t, 3, results[2].Value)
	})
}

func TestQuery_ContextCancellation(t *testing.T) {
	doc := bookstore()

	// A ScriptEvaluator that blocks until released holds QuerySync open long
	// enough that the already-canceled ctx is guaranteed to win the select.
	release := make(chan struct{})
	opts := Options{
		ScriptEvaluator: func(expr string, current, root any) (any, error) {
			<-release
			return nil, nil
		},
	}
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := Query(ctx, "$.store.book[(@.missing)]", doc, opts)
	assert.Nil(t, results)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestQuery_CompletesBeforeDeadline(t *testing.T) {
	doc := bookstore()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	results, err := Query(ctx, "$.store.book[0].title", doc, Options{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "A", results[0].Value)
}

func TestNormalize(t *testing.T) {
	got, err := Normalize("$.store.book[0].title")
	require.NoError(t, err)
	assert.Equal(t, `$["store"]["book"][0]["title"]`, got)
}

func TestNormalize_InvalidExpr(t *testing.T) {
	_, err := Normalize("not a path")
	assert.Error(t, err)
}
