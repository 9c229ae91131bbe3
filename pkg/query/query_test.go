package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObj_EscapesNestedObjects(t *testing.T) {
	type address struct {
		City string `json:"city"`
	}

	tests := []struct {
		name     string
		fields   map[string]interface{}
		expected Expr
	}{
		{
			name:     "flat scalars",
			fields:   map[string]interface{}{"name": "Alice", "age": 30},
			expected: Expr{"object": map[string]interface{}{"name": "Alice", "age": 30}},
		},
		{
			name: "nested map with a form-like key",
			fields: map[string]interface{}{
				"meta": map[string]interface{}{"get": "not a query"},
			},
			expected: Expr{"object": map[string]interface{}{
				"meta": Expr{"object": map[string]interface{}{"get": "not a query"}},
			}},
		},
		{
			name: "maps inside arrays",
			fields: map[string]interface{}{
				"tags": []interface{}{"a", map[string]interface{}{"ref": "x"}},
			},
			expected: Expr{"object": map[string]interface{}{
				"tags": []interface{}{"a", Expr{"object": map[string]interface{}{"ref": "x"}}},
			}},
		},
		{
			name:   "struct travels as its object form",
			fields: map[string]interface{}{"address": address{City: "Leeds"}},
			expected: Expr{"object": map[string]interface{}{
				"address": Expr{"object": map[string]interface{}{"city": "Leeds"}},
			}},
		},
		{
			name:     "expressions are kept",
			fields:   map[string]interface{}{"source": Collection("users")},
			expected: Expr{"object": map[string]interface{}{"source": Collection("users")}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Obj(tt.fields))
		})
	}
}

func TestMatch(t *testing.T) {
	t.Run("value is escaped under terms", func(t *testing.T) {
		expr := Match(Index("by_email"), "a@example.com")
		assert.Equal(t, Expr{"match": Index("by_email"), "terms": "a@example.com"}, expr)
	})

	t.Run("nil value is omitted", func(t *testing.T) {
		expr := Match(Index("all_users"), nil)
		_, hasTerms := expr["terms"]
		assert.False(t, hasTerms)
	})
}

func TestIndexParams_Object(t *testing.T) {
	source := Collection("users")

	tests := []struct {
		name       string
		params     IndexParams
		wantTerms  interface{}
		wantUnique bool
	}{
		{name: "nothing supplied", params: IndexParams{}},
		{name: "empty terms", params: IndexParams{Terms: Some([]string{})}},
		{name: "unique false", params: IndexParams{Unique: Some(false)}},
		{name: "explicitly absent", params: IndexParams{Terms: None[[]string](), Unique: None[bool]()}},
		{
			name:       "terms and unique",
			params:     IndexParams{Terms: Some([]string{"data.email"}), Unique: Some(true)},
			wantTerms:  []string{"data.email"},
			wantUnique: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.params.Name = "by_email"
			tt.params.Source = source
			obj := tt.params.Object()

			assert.Equal(t, "by_email", obj["name"])
			assert.Equal(t, source, obj["source"])

			terms, hasTerms := obj["terms"]
			if tt.wantTerms == nil {
				assert.False(t, hasTerms)
			} else {
				assert.Equal(t, tt.wantTerms, terms)
			}

			unique, hasUnique := obj["unique"]
			if tt.wantUnique {
				assert.Equal(t, true, unique)
			} else {
				assert.False(t, hasUnique)
			}
		})
	}
}

func TestOptional(t *testing.T) {
	value, ok := None[int]().Get()
	assert.False(t, ok)
	assert.Zero(t, value)

	value, ok = Some(0).Get()
	require.True(t, ok)
	assert.Equal(t, 0, value)
	assert.True(t, Some(false).IsSet())
}

func TestPaginate(t *testing.T) {
	set := Documents(Collection("users"))

	assert.Equal(t, Expr{"paginate": set}, Paginate(set, Size(0), After("")))
	assert.Equal(t,
		Expr{"paginate": set, "size": 10, "after": "cursor"},
		Paginate(set, Size(10), After("cursor")))
}

func TestMapLambda(t *testing.T) {
	expr := Map(Paginate(Documents(Collection("users"))), Lambda("ref", Get(Var("ref"))))

	assert.Equal(t, Expr{"lambda": "ref", "expr": Expr{"get": Expr{"var": "ref"}}}, expr["map"])
	assert.Equal(t, Expr{"paginate": Expr{"documents": Expr{"collection": "users"}}}, expr["over"])
}
