package indexing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adfharrison1/go-docstore/pkg/domain"
	"github.com/adfharrison1/go-docstore/pkg/indexing"
)

func doc(id string, data map[string]interface{}) *domain.Document {
	return &domain.Document{Ref: domain.DocumentRef("users", id), TS: 1, Data: data}
}

func TestCreateIndex(t *testing.T) {
	engine := indexing.NewIndexEngine()

	_, err := engine.CreateIndex(domain.IndexDefinition{Name: "by_email", Source: "users", Terms: []string{"data.email"}}, 1)
	require.NoError(t, err)

	// Test creating duplicate index (should fail)
	_, err = engine.CreateIndex(domain.IndexDefinition{Name: "by_email", Source: "users"}, 2)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	_, err = engine.CreateIndex(domain.IndexDefinition{Source: "users"}, 2)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	index, ok := engine.GetIndex("by_email")
	require.True(t, ok)
	info := index.Info()
	assert.Equal(t, domain.IndexRef("by_email"), info.Ref)
	assert.Equal(t, domain.CollectionRef("users"), info.Source)
	assert.True(t, info.Active)
}

func TestIndexQuery(t *testing.T) {
	tests := []struct {
		name     string
		terms    []string
		docs     map[string]*domain.Document
		value    interface{}
		present  bool
		expected []string
	}{
		{
			name:  "single term string",
			terms: []string{"data.role"},
			docs: map[string]*domain.Document{
				"1": doc("1", map[string]interface{}{"role": "admin"}),
				"2": doc("2", map[string]interface{}{"role": "user"}),
				"3": doc("3", map[string]interface{}{"role": "admin"}),
			},
			value:    "admin",
			present:  true,
			expected: []string{"1", "3"},
		},
		{
			name:  "strings match exactly",
			terms: []string{"data.role"},
			docs: map[string]*domain.Document{
				"1": doc("1", map[string]interface{}{"role": "Admin"}),
			},
			value:    "admin",
			present:  true,
			expected: []string{},
		},
		{
			name:  "numbers compare by value across types",
			terms: []string{"data.age"},
			docs: map[string]*domain.Document{
				"1": doc("1", map[string]interface{}{"age": float64(30)}),
				"2": doc("2", map[string]interface{}{"age": int8(30)}),
				"3": doc("3", map[string]interface{}{"age": 31}),
			},
			value:    int64(30),
			present:  true,
			expected: []string{"1", "2"},
		},
		{
			name:  "single term accepts a one element tuple",
			terms: []string{"data.role"},
			docs: map[string]*domain.Document{
				"1": doc("1", map[string]interface{}{"role": "admin"}),
			},
			value:    []interface{}{"admin"},
			present:  true,
			expected: []string{"1"},
		},
		{
			name:  "multi term tuple",
			terms: []string{"data.first", "data.last"},
			docs: map[string]*domain.Document{
				"1": doc("1", map[string]interface{}{"first": "Ada", "last": "Lovelace"}),
				"2": doc("2", map[string]interface{}{"first": "Ada", "last": "Byron"}),
			},
			value:    []string{"Ada", "Lovelace"},
			present:  true,
			expected: []string{"1"},
		},
		{
			name:  "documents missing a term are not indexed",
			terms: []string{"data.email"},
			docs: map[string]*domain.Document{
				"1": doc("1", map[string]interface{}{"name": "no email"}),
			},
			value:    nil,
			present:  true,
			expected: []string{},
		},
		{
			name:  "termless index without value selects everything",
			terms: nil,
			docs: map[string]*domain.Document{
				"10": doc("10", map[string]interface{}{}),
				"9":  doc("9", map[string]interface{}{}),
			},
			present:  false,
			expected: []string{"9", "10"},
		},
		{
			name:  "termless index with a value selects nothing",
			terms: nil,
			docs: map[string]*domain.Document{
				"1": doc("1", map[string]interface{}{}),
			},
			value:    "anything",
			present:  true,
			expected: []string{},
		},
		{
			name:  "nested path",
			terms: []string{"data.address.city"},
			docs: map[string]*domain.Document{
				"1": doc("1", map[string]interface{}{"address": map[string]interface{}{"city": "Leeds"}}),
			},
			value:    "Leeds",
			present:  true,
			expected: []string{"1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := indexing.NewIndexEngine()
			index, err := engine.CreateIndex(domain.IndexDefinition{Name: "idx", Source: "users", Terms: tt.terms}, 1)
			require.NoError(t, err)
			require.NoError(t, engine.BuildIndex(index, tt.docs))

			ids := index.Query(tt.value, tt.present)
			if len(tt.expected) == 0 {
				assert.Empty(t, ids)
				return
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestIndexMaintenance(t *testing.T) {
	engine := indexing.NewIndexEngine()
	index, err := engine.CreateIndex(domain.IndexDefinition{Name: "by_category", Source: "products", Terms: []string{"data.category"}}, 1)
	require.NoError(t, err)

	laptop := doc("1", map[string]interface{}{"category": "electronics"})
	phone := doc("2", map[string]interface{}{"category": "electronics"})
	engine.UpdateIndexForDocument("products", "1", nil, laptop)
	engine.UpdateIndexForDocument("products", "2", nil, phone)
	assert.Equal(t, []string{"1", "2"}, index.Query("electronics", true))

	// Update a document
	computer := doc("1", map[string]interface{}{"category": "computers"})
	engine.UpdateIndexForDocument("products", "1", laptop, computer)
	assert.Equal(t, []string{"2"}, index.Query("electronics", true))
	assert.Equal(t, []string{"1"}, index.Query("computers", true))

	// Delete a document
	engine.UpdateIndexForDocument("products", "2", phone, nil)
	assert.Empty(t, index.Query("electronics", true))

	// Other collections are not touched
	engine.UpdateIndexForDocument("users", "3", nil, doc("3", map[string]interface{}{"category": "computers"}))
	assert.Equal(t, []string{"1"}, index.Query("computers", true))
}

func TestUniqueIndex(t *testing.T) {
	engine := indexing.NewIndexEngine()
	_, err := engine.CreateIndex(domain.IndexDefinition{Name: "by_email", Source: "users", Terms: []string{"data.email"}, Unique: true}, 1)
	require.NoError(t, err)

	alice := doc("1", map[string]interface{}{"email": "alice@example.com"})
	require.NoError(t, engine.CheckUnique("users", "1", alice))
	engine.UpdateIndexForDocument("users", "1", nil, alice)

	// Same tuple on another document conflicts, rewriting the holder does not
	assert.ErrorIs(t, engine.CheckUnique("users", "2", doc("2", map[string]interface{}{"email": "alice@example.com"})), domain.ErrNotUnique)
	assert.NoError(t, engine.CheckUnique("users", "1", alice))

	// Building over duplicates fails
	dup, err := engine.CreateIndex(domain.IndexDefinition{Name: "by_name", Source: "users", Terms: []string{"data.name"}, Unique: true}, 1)
	require.NoError(t, err)
	err = engine.BuildIndex(dup, map[string]*domain.Document{
		"1": doc("1", map[string]interface{}{"name": "Bob"}),
		"2": doc("2", map[string]interface{}{"name": "Bob"}),
	})
	assert.ErrorIs(t, err, domain.ErrNotUnique)
}

func TestDropCollection(t *testing.T) {
	engine := indexing.NewIndexEngine()
	for _, def := range []domain.IndexDefinition{
		{Name: "b", Source: "users"},
		{Name: "a", Source: "users"},
		{Name: "c", Source: "orders"},
	} {
		_, err := engine.CreateIndex(def, 1)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"a", "b"}, engine.GetIndexes("users"))
	assert.Equal(t, []string{"a", "b"}, engine.DropCollection("users"))
	assert.Empty(t, engine.GetIndexes("users"))
	assert.Equal(t, []string{"c"}, engine.GetIndexes("orders"))

	_, err := engine.DropIndex("a")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExportImportIndexes(t *testing.T) {
	engine := indexing.NewIndexEngine()
	_, err := engine.CreateIndex(domain.IndexDefinition{Name: "by_email", Source: "users", Terms: []string{"data.email"}, Unique: true}, 7)
	require.NoError(t, err)

	restored := indexing.NewIndexEngine()
	restored.ImportIndexes(engine.ExportIndexes())

	index, ok := restored.GetIndex("by_email")
	require.True(t, ok)
	assert.Equal(t, []string{"data.email"}, index.Terms)
	assert.True(t, index.Unique)
	assert.Equal(t, int64(7), index.TS)
}

func TestResolvePath(t *testing.T) {
	d := doc("5", map[string]interface{}{"profile": map[string]interface{}{"name": "Ada"}})

	value, ok := indexing.ResolvePath(d, "data.profile.name")
	require.True(t, ok)
	assert.Equal(t, "Ada", value)

	value, ok = indexing.ResolvePath(d, "ref")
	require.True(t, ok)
	assert.Equal(t, domain.DocumentRef("users", "5"), value)

	_, ok = indexing.ResolvePath(d, "data.profile.age")
	assert.False(t, ok)
	_, ok = indexing.ResolvePath(d, "unknown")
	assert.False(t, ok)
}
