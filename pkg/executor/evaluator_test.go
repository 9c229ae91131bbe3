package executor

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adfharrison1/go-docstore/pkg/domain"
	"github.com/adfharrison1/go-docstore/pkg/query"
	"github.com/adfharrison1/go-docstore/pkg/storage"
)

func newTestEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	store := storage.NewStorageEngine()
	t.Cleanup(store.StopBackgroundWorkers)
	return NewEvaluator(store, zerolog.Nop())
}

func mustEval(t *testing.T, ev *Evaluator, expr query.Expr) interface{} {
	t.Helper()
	result, err := ev.Evaluate(context.Background(), expr)
	require.NoError(t, err)
	return result
}

func seedUsers(t *testing.T, ev *Evaluator) {
	t.Helper()
	mustEval(t, ev, query.CreateCollection(map[string]interface{}{"name": "users"}))
	mustEval(t, ev, query.CreateIndex(map[string]interface{}{
		"name":   "by_role",
		"source": query.Collection("users"),
		"terms":  []string{"data.role"},
	}))
	for _, user := range []map[string]interface{}{
		{"name": "Alice", "role": "admin"},
		{"name": "Bob", "role": "user"},
		{"name": "Carol", "role": "admin"},
	} {
		mustEval(t, ev, query.Create(query.Collection("users"), map[string]interface{}{"data": user}))
	}
}

func TestEvaluator_SchemaRefs(t *testing.T) {
	ev := newTestEvaluator(t)

	assert.Equal(t, domain.CollectionRef("users"), mustEval(t, ev, query.Collection("users")))
	assert.Equal(t, domain.IndexRef("by_role"), mustEval(t, ev, query.Index("by_role")))
	assert.Equal(t, domain.DocumentRef("users", "7"), mustEval(t, ev, query.Ref(query.Collection("users"), "7")))
}

func TestEvaluator_Documents(t *testing.T) {
	ev := newTestEvaluator(t)
	seedUsers(t, ev)

	doc := mustEval(t, ev, query.Get(query.Ref(query.Collection("users"), "1"))).(*domain.Document)
	assert.Equal(t, "Alice", doc.Data["name"])

	updated := mustEval(t, ev, query.Update(query.Ref(query.Collection("users"), "1"), map[string]interface{}{
		"data": map[string]interface{}{"role": "owner"},
	})).(*domain.Document)
	assert.Equal(t, map[string]interface{}{"name": "Alice", "role": "owner"}, updated.Data)

	deleted := mustEval(t, ev, query.Delete(query.Ref(query.Collection("users"), "2"))).(*domain.Document)
	assert.Equal(t, "Bob", deleted.Data["name"])

	assert.Equal(t, false, mustEval(t, ev, query.Exists(query.Ref(query.Collection("users"), "2"))))
	_, err := ev.Evaluate(context.Background(), query.Get(query.Ref(query.Collection("users"), "2")))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEvaluator_NestedDataIsLiteral(t *testing.T) {
	ev := newTestEvaluator(t)
	mustEval(t, ev, query.CreateCollection(map[string]interface{}{"name": "notes"}))

	data := map[string]interface{}{
		"body": map[string]interface{}{"get": "this is not a query", "count": 3},
	}
	doc := mustEval(t, ev, query.Create(query.Collection("notes"), map[string]interface{}{"data": data})).(*domain.Document)
	assert.Equal(t, data, doc.Data)
}

func TestEvaluator_Match(t *testing.T) {
	ev := newTestEvaluator(t)
	seedUsers(t, ev)

	admins := query.Match(query.Index("by_role"), "admin")

	tests := []struct {
		name     string
		expr     query.Expr
		expected interface{}
	}{
		{name: "exists", expr: query.Exists(admins), expected: true},
		{name: "count", expr: query.Count(admins), expected: int64(2)},
		{name: "exists without match", expr: query.Exists(query.Match(query.Index("by_role"), "guest")), expected: false},
		{name: "count without match", expr: query.Count(query.Match(query.Index("by_role"), "guest")), expected: int64(0)},
		{name: "collection exists", expr: query.Exists(query.Collection("users")), expected: true},
		{name: "index exists", expr: query.Exists(query.Index("missing")), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, mustEval(t, ev, tt.expr))
		})
	}

	// Get on a set picks the first member in ref order
	first := mustEval(t, ev, query.Get(admins)).(*domain.Document)
	assert.Equal(t, "1", first.Ref.ID)

	_, err := ev.Evaluate(context.Background(), query.Get(query.Match(query.Index("by_role"), "guest")))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = ev.Evaluate(context.Background(), query.Count(query.Match(query.Index("missing"), "x")))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEvaluator_PaginateMap(t *testing.T) {
	ev := newTestEvaluator(t)
	seedUsers(t, ev)

	refs := mustEval(t, ev, query.Paginate(query.Documents(query.Collection("users")), query.Size(2))).(*domain.Page)
	assert.Equal(t, []interface{}{domain.DocumentRef("users", "1"), domain.DocumentRef("users", "2")}, refs.Data)
	require.NotEmpty(t, refs.After)

	docs := mustEval(t, ev, query.Map(
		query.Paginate(query.Documents(query.Collection("users")), query.After(refs.After)),
		query.Lambda("ref", query.Get(query.Var("ref"))),
	)).(*domain.Page)
	require.Len(t, docs.Data, 1)
	assert.Equal(t, "Carol", docs.Data[0].(*domain.Document).Data["name"])
	assert.Empty(t, docs.After)
}

func TestEvaluator_Schema(t *testing.T) {
	ev := newTestEvaluator(t)
	seedUsers(t, ev)

	info := mustEval(t, ev, query.Get(query.Index("by_role"))).(*domain.IndexInfo)
	assert.Equal(t, []string{"data.role"}, info.Terms)
	assert.False(t, info.Unique)

	termless := mustEval(t, ev, query.CreateIndex(map[string]interface{}{
		"name":   "all_users",
		"source": query.Collection("users"),
	})).(*domain.IndexInfo)
	assert.Empty(t, termless.Terms)
	assert.Equal(t, int64(3), mustEval(t, ev, query.Count(query.Match(query.Index("all_users"), nil))))
	assert.Equal(t, int64(0), mustEval(t, ev, query.Count(query.Match(query.Index("all_users"), "x"))))

	mustEval(t, ev, query.Delete(query.Index("by_role")))
	assert.Equal(t, false, mustEval(t, ev, query.Exists(query.Index("by_role"))))
	assert.Equal(t, true, mustEval(t, ev, query.Exists(query.Ref(query.Collection("users"), "1"))))

	coll := mustEval(t, ev, query.Delete(query.Collection("users"))).(*domain.CollectionInfo)
	assert.Equal(t, "users", coll.Name)
	assert.Equal(t, false, mustEval(t, ev, query.Exists(query.Collection("users"))))
	assert.Equal(t, false, mustEval(t, ev, query.Exists(query.Index("all_users"))))
}

func TestEvaluator_InvalidExpressions(t *testing.T) {
	ev := newTestEvaluator(t)
	seedUsers(t, ev)

	tests := []struct {
		name    string
		expr    interface{}
		wantErr error
	}{
		{name: "unknown form", expr: map[string]interface{}{"frobnicate": 1}, wantErr: domain.ErrInvalidExpression},
		{name: "bare set", expr: query.Documents(query.Collection("users")), wantErr: domain.ErrInvalidExpression},
		{name: "bare lambda", expr: query.Lambda("x", query.Var("x")), wantErr: domain.ErrInvalidExpression},
		{name: "unbound var", expr: query.Var("x"), wantErr: domain.ErrInvalidExpression},
		{name: "match on a collection", expr: query.Count(query.Match(query.Collection("users"), "x")), wantErr: domain.ErrInvalidExpression},
		{name: "ref without id", expr: query.Expr{"ref": query.Collection("users")}, wantErr: domain.ErrInvalidExpression},
		{name: "update a collection", expr: query.Update(query.Collection("users"), nil), wantErr: domain.ErrInvalidExpression},
		{name: "paginate a ref", expr: query.Paginate(query.Collection("users")), wantErr: domain.ErrInvalidExpression},
		{name: "oversized page", expr: query.Paginate(query.Documents(query.Collection("users")), query.Size(domain.MaxPageSize+1)), wantErr: domain.ErrInvalidArgument},
		{
			name:    "index on a missing collection",
			expr:    query.CreateIndex(map[string]interface{}{"name": "x", "source": query.Collection("nope")}),
			wantErr: domain.ErrNotFound,
		},
		{
			name:    "index source is not a collection",
			expr:    query.CreateIndex(map[string]interface{}{"name": "x", "source": "users"}),
			wantErr: domain.ErrInvalidArgument,
		},
		{
			name:    "duplicate collection",
			expr:    query.CreateCollection(map[string]interface{}{"name": "users"}),
			wantErr: domain.ErrAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ev.Evaluate(context.Background(), tt.expr)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEvaluator_CancelledContext(t *testing.T) {
	ev := newTestEvaluator(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ev.Evaluate(ctx, query.Collection("users"))
	assert.ErrorIs(t, err, context.Canceled)
}
