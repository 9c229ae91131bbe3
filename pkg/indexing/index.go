package indexing

import (
	"reflect"
	"sort"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/adfharrison1/go-docstore/pkg/domain"
)

// Index maps the term tuple of each document of its source collection to the
// document ids carrying it.
type Index struct {
	Name   string
	Source string
	Terms  []string
	Unique bool
	TS     int64

	entries map[string]map[string]struct{} // term key -> doc ids
	keys    map[string]string              // doc id -> term key
}

// NewIndex creates an empty index from its definition
func NewIndex(def domain.IndexDefinition, ts int64) *Index {
	return &Index{
		Name:    def.Name,
		Source:  def.Source,
		Terms:   def.Terms,
		Unique:  def.Unique,
		TS:      ts,
		entries: make(map[string]map[string]struct{}),
		keys:    make(map[string]string),
	}
}

// Info describes the index the way the backend reports it
func (idx *Index) Info() domain.IndexInfo {
	return domain.IndexInfo{
		Ref:    domain.IndexRef(idx.Name),
		Name:   idx.Name,
		Source: domain.CollectionRef(idx.Source),
		Terms:  idx.Terms,
		Unique: idx.Unique,
		Active: true,
		TS:     idx.TS,
	}
}

// UpdateIndex moves a document from its old term tuple to its new one
func (idx *Index) UpdateIndex(docID string, oldDoc, newDoc *domain.Document) {
	if oldKey, ok := idx.keys[docID]; ok {
		if ids := idx.entries[oldKey]; ids != nil {
			delete(ids, docID)
			if len(ids) == 0 {
				delete(idx.entries, oldKey)
			}
		}
		delete(idx.keys, docID)
	}
	if newDoc == nil {
		return
	}
	key, ok := idx.documentKey(newDoc)
	if !ok {
		return
	}
	if idx.entries[key] == nil {
		idx.entries[key] = make(map[string]struct{})
	}
	idx.entries[key][docID] = struct{}{}
	idx.keys[docID] = key
}

// Conflicts reports whether another document already holds doc's term tuple
func (idx *Index) Conflicts(docID string, doc *domain.Document) bool {
	key, ok := idx.documentKey(doc)
	if !ok {
		return false
	}
	for id := range idx.entries[key] {
		if id != docID {
			return true
		}
	}
	return false
}

// Query returns the ids of documents matching value, in ascending id order.
// present is false when the match carried no value at all.
func (idx *Index) Query(value interface{}, present bool) []string {
	key, ok := idx.matchKey(value, present)
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(idx.entries[key]))
	for id := range idx.entries[key] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return domain.LessID(ids[i], ids[j]) })
	return ids
}

// matchKey turns a match value into the term key it selects. A termless index
// only matches a value-less match; a single-term index takes the value itself
// (or a one-element tuple); a multi-term index needs the full tuple.
func (idx *Index) matchKey(value interface{}, present bool) (string, bool) {
	if len(idx.Terms) == 0 {
		if present {
			return "", false
		}
		return termKey(nil)
	}
	if !present {
		return "", false
	}

	tuple, isTuple := asTuple(value)
	switch {
	case len(idx.Terms) == 1 && isTuple && len(tuple) == 1:
		return termKey(tuple)
	case len(idx.Terms) == 1:
		return termKey([]interface{}{value})
	case isTuple && len(tuple) == len(idx.Terms):
		return termKey(tuple)
	default:
		return "", false
	}
}

func (idx *Index) documentKey(doc *domain.Document) (string, bool) {
	values := make([]interface{}, 0, len(idx.Terms))
	for _, path := range idx.Terms {
		value, ok := ResolvePath(doc, path)
		if !ok {
			return "", false
		}
		values = append(values, value)
	}
	return termKey(values)
}

// ResolvePath reads a dotted field path ("data.email", "ref", "ts") from the
// document envelope.
func ResolvePath(doc *domain.Document, path string) (interface{}, bool) {
	segments := strings.Split(path, ".")
	var current interface{}
	switch segments[0] {
	case "data":
		current = doc.Data
	case "ref":
		current = doc.Ref
	case "ts":
		current = doc.TS
	default:
		return nil, false
	}

	for _, segment := range segments[1:] {
		fields, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = fields[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// termKey canonicalises a term tuple. Numbers compare by value whatever their
// Go type, strings compare exactly.
func termKey(values []interface{}) (string, bool) {
	normalized := make([]interface{}, len(values))
	for i, v := range values {
		normalized[i] = normalize(v)
	}
	key, err := sonic.ConfigStd.MarshalToString(normalized)
	if err != nil {
		return "", false
	}
	return key, true
}

func normalize(value interface{}) interface{} {
	if f, ok := ToFloat64(value); ok {
		return f
	}
	switch v := value.(type) {
	case domain.Ref:
		return map[string]interface{}{"id": v.ID, "collection": v.Collection}
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, elem := range v {
			out[k] = normalize(elem)
		}
		return out
	}
	if tuple, ok := asTuple(value); ok {
		out := make([]interface{}, len(tuple))
		for i, elem := range tuple {
			out[i] = normalize(elem)
		}
		return out
	}
	return value
}

func asTuple(value interface{}) ([]interface{}, bool) {
	switch v := value.(type) {
	case []interface{}:
		return v, true
	case []string:
		out := make([]interface{}, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice || rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make([]interface{}, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// ToFloat64 converts various numeric types to float64 for comparison
func ToFloat64(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}
