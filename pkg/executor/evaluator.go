// Package executor evaluates query expressions against the storage engine.
package executor

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/adfharrison1/go-docstore/pkg/domain"
	"github.com/adfharrison1/go-docstore/pkg/indexing"
	"github.com/adfharrison1/go-docstore/pkg/query"
	"github.com/adfharrison1/go-docstore/pkg/storage"
)

// Evaluator interprets decoded query expressions. It holds no per-query state
// and is safe for concurrent use.
type Evaluator struct {
	store  *storage.StorageEngine
	logger zerolog.Logger
}

// NewEvaluator creates an evaluator over a storage engine
func NewEvaluator(store *storage.StorageEngine, logger zerolog.Logger) *Evaluator {
	return &Evaluator{store: store, logger: logger}
}

// Store returns the storage engine queries run against
func (ev *Evaluator) Store() *storage.StorageEngine {
	return ev.store
}

// set is a lazily evaluated set of document refs
type set struct {
	collection string // every document of a collection
	index      string // or the match of an index...
	value      interface{}
	present    bool // ...with or without a value
}

type lambda struct {
	param string
	body  interface{}
}

type scope map[string]interface{}

func (s scope) with(name string, value interface{}) scope {
	next := make(scope, len(s)+1)
	for k, v := range s {
		next[k] = v
	}
	next[name] = value
	return next
}

// Evaluate runs one expression and returns its result value
func (ev *Evaluator) Evaluate(ctx context.Context, expr interface{}) (interface{}, error) {
	result, err := ev.eval(ctx, expr, scope{})
	if err != nil {
		return nil, err
	}
	switch result.(type) {
	case set, lambda:
		return nil, fmt.Errorf("a set or lambda cannot be returned, wrap it in paginate, count or exists: %w", domain.ErrInvalidExpression)
	}
	return result, nil
}

func (ev *Evaluator) eval(ctx context.Context, expr interface{}, sc scope) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch v := expr.(type) {
	case query.Expr:
		return ev.evalForm(ctx, v, sc)
	case map[string]interface{}:
		return ev.evalForm(ctx, v, sc)
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, elem := range v {
			value, err := ev.eval(ctx, elem, sc)
			if err != nil {
				return nil, err
			}
			out[i] = value
		}
		return out, nil
	default:
		return v, nil
	}
}

func (ev *Evaluator) evalForm(ctx context.Context, form map[string]interface{}, sc scope) (interface{}, error) {
	switch {
	case has(form, "object"):
		return ev.evalObject(ctx, form["object"], sc)
	case has(form, "lambda"):
		param, ok := form["lambda"].(string)
		if !ok {
			return nil, invalid("lambda parameter must be a string")
		}
		return lambda{param: param, body: form["expr"]}, nil
	case has(form, "var"):
		name, _ := form["var"].(string)
		value, ok := sc[name]
		if !ok {
			return nil, invalid("unbound variable %q", name)
		}
		return value, nil
	case has(form, "map"):
		return ev.evalMap(ctx, form, sc)
	case has(form, "paginate"):
		return ev.evalPaginate(ctx, form, sc)
	case has(form, "match"):
		return ev.evalMatch(ctx, form, sc)
	case has(form, "ref"):
		return ev.evalRef(ctx, form, sc)
	case has(form, "create_collection"):
		return ev.evalCreateCollection(ctx, form, sc)
	case has(form, "create_index"):
		return ev.evalCreateIndex(ctx, form, sc)
	case has(form, "create"):
		return ev.evalCreate(ctx, form, sc)
	case has(form, "update"):
		return ev.evalUpdate(ctx, form, sc)
	case has(form, "delete"):
		return ev.evalDelete(ctx, form, sc)
	case has(form, "exists"):
		return ev.evalExists(ctx, form, sc)
	case has(form, "get"):
		return ev.evalGet(ctx, form, sc)
	case has(form, "count"):
		return ev.evalCount(ctx, form, sc)
	case has(form, "documents"):
		ref, err := ev.evalSchemaRef(ctx, form["documents"], sc, domain.CollectionsCollection)
		if err != nil {
			return nil, err
		}
		return set{collection: ref.ID}, nil
	case has(form, "collection"):
		name, ok := form["collection"].(string)
		if !ok {
			return nil, invalid("collection name must be a string")
		}
		return domain.CollectionRef(name), nil
	case has(form, "index"):
		name, ok := form["index"].(string)
		if !ok {
			return nil, invalid("index name must be a string")
		}
		return domain.IndexRef(name), nil
	default:
		return nil, invalid("unknown query form with keys %v", keys(form))
	}
}

func (ev *Evaluator) evalObject(ctx context.Context, raw interface{}, sc scope) (map[string]interface{}, error) {
	fields, ok := asMap(raw)
	if !ok {
		return nil, invalid("object must wrap a map")
	}
	out := make(map[string]interface{}, len(fields))
	for key, value := range fields {
		evaluated, err := ev.eval(ctx, value, sc)
		if err != nil {
			return nil, err
		}
		out[key] = evaluated
	}
	return out, nil
}

func (ev *Evaluator) evalMap(ctx context.Context, form map[string]interface{}, sc scope) (interface{}, error) {
	fn, err := ev.eval(ctx, form["map"], sc)
	if err != nil {
		return nil, err
	}
	lam, ok := fn.(lambda)
	if !ok {
		return nil, invalid("map needs a lambda")
	}
	over, err := ev.eval(ctx, form["over"], sc)
	if err != nil {
		return nil, err
	}

	apply := func(elems []interface{}) ([]interface{}, error) {
		out := make([]interface{}, 0, len(elems))
		for _, elem := range elems {
			value, err := ev.eval(ctx, lam.body, sc.with(lam.param, elem))
			if err != nil {
				return nil, err
			}
			out = append(out, value)
		}
		return out, nil
	}

	switch v := over.(type) {
	case *domain.Page:
		data, err := apply(v.Data)
		if err != nil {
			return nil, err
		}
		return &domain.Page{Data: data, After: v.After, Before: v.Before}, nil
	case []interface{}:
		return apply(v)
	default:
		return nil, invalid("map works over an array or a page, got %T", over)
	}
}

func (ev *Evaluator) evalPaginate(ctx context.Context, form map[string]interface{}, sc scope) (interface{}, error) {
	target, err := ev.eval(ctx, form["paginate"], sc)
	if err != nil {
		return nil, err
	}
	s, ok := target.(set)
	if !ok {
		return nil, invalid("paginate needs a set, got %T", target)
	}

	options := domain.DefaultPaginationOptions()
	if raw, ok := form["size"]; ok {
		size, ok := indexing.ToFloat64(raw)
		if !ok {
			return nil, invalid("page size must be a number")
		}
		options.Size = int(size)
	}
	if raw, ok := form["after"]; ok {
		after, ok := raw.(string)
		if !ok {
			return nil, invalid("after cursor must be a string")
		}
		options.After = after
	}

	refs, err := ev.members(s)
	if err != nil {
		return nil, err
	}
	return storage.PaginateRefs(refs, options)
}

func (ev *Evaluator) evalMatch(ctx context.Context, form map[string]interface{}, sc scope) (interface{}, error) {
	ref, err := ev.evalSchemaRef(ctx, form["match"], sc, domain.IndexesCollection)
	if err != nil {
		return nil, err
	}
	s := set{index: ref.ID}
	if raw, ok := form["terms"]; ok {
		value, err := ev.eval(ctx, raw, sc)
		if err != nil {
			return nil, err
		}
		s.value, s.present = value, true
	}
	return s, nil
}

func (ev *Evaluator) evalRef(ctx context.Context, form map[string]interface{}, sc scope) (interface{}, error) {
	coll, err := ev.evalSchemaRef(ctx, form["ref"], sc, domain.CollectionsCollection)
	if err != nil {
		return nil, err
	}
	id, ok := form["id"].(string)
	if !ok || id == "" {
		return nil, invalid("document ref needs a string id")
	}
	return domain.DocumentRef(coll.ID, id), nil
}

// evalSchemaRef evaluates expr and requires a collection or index ref
func (ev *Evaluator) evalSchemaRef(ctx context.Context, expr interface{}, sc scope, kind string) (domain.Ref, error) {
	value, err := ev.eval(ctx, expr, sc)
	if err != nil {
		return domain.Ref{}, err
	}
	ref, ok := value.(domain.Ref)
	if !ok || ref.Collection != kind {
		return domain.Ref{}, invalid("expected a ref in %s, got %v", kind, value)
	}
	return ref, nil
}

func (ev *Evaluator) evalCreateCollection(ctx context.Context, form map[string]interface{}, sc scope) (interface{}, error) {
	params, err := ev.evalParams(ctx, form["create_collection"], sc)
	if err != nil {
		return nil, err
	}
	name, _ := params["name"].(string)
	return ev.store.CreateCollection(name)
}

func (ev *Evaluator) evalCreateIndex(ctx context.Context, form map[string]interface{}, sc scope) (interface{}, error) {
	params, err := ev.evalParams(ctx, form["create_index"], sc)
	if err != nil {
		return nil, err
	}

	def := domain.IndexDefinition{}
	def.Name, _ = params["name"].(string)
	source, ok := params["source"].(domain.Ref)
	if !ok || source.Collection != domain.CollectionsCollection {
		return nil, fmt.Errorf("index source must be a collection ref: %w", domain.ErrInvalidArgument)
	}
	def.Source = source.ID

	if raw, ok := params["terms"]; ok && raw != nil {
		terms, err := termPaths(raw)
		if err != nil {
			return nil, err
		}
		def.Terms = terms
	}
	if raw, ok := params["unique"]; ok && raw != nil {
		unique, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("index unique must be a boolean: %w", domain.ErrInvalidArgument)
		}
		def.Unique = unique
	}

	return ev.store.CreateIndex(def)
}

// termPaths reads the field paths of an index definition
func termPaths(raw interface{}) ([]string, error) {
	var terms []interface{}
	switch v := raw.(type) {
	case []interface{}:
		terms = v
	case []string:
		for _, path := range v {
			terms = append(terms, path)
		}
	default:
		return nil, fmt.Errorf("index terms must be an array: %w", domain.ErrInvalidArgument)
	}

	paths := make([]string, 0, len(terms))
	for _, term := range terms {
		path, ok := term.(string)
		if !ok || path == "" {
			return nil, fmt.Errorf("index terms must be field paths: %w", domain.ErrInvalidArgument)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (ev *Evaluator) evalCreate(ctx context.Context, form map[string]interface{}, sc scope) (interface{}, error) {
	coll, err := ev.evalSchemaRef(ctx, form["create"], sc, domain.CollectionsCollection)
	if err != nil {
		return nil, err
	}
	data, err := ev.evalData(ctx, form["params"], sc)
	if err != nil {
		return nil, err
	}
	return ev.store.Insert(coll.ID, data)
}

func (ev *Evaluator) evalUpdate(ctx context.Context, form map[string]interface{}, sc scope) (interface{}, error) {
	target, err := ev.eval(ctx, form["update"], sc)
	if err != nil {
		return nil, err
	}
	ref, ok := target.(domain.Ref)
	if !ok || isSchemaRef(ref) {
		return nil, invalid("update needs a document ref, got %v", target)
	}
	data, err := ev.evalData(ctx, form["params"], sc)
	if err != nil {
		return nil, err
	}
	return ev.store.UpdateById(ref.Collection, ref.ID, data)
}

func (ev *Evaluator) evalDelete(ctx context.Context, form map[string]interface{}, sc scope) (interface{}, error) {
	target, err := ev.eval(ctx, form["delete"], sc)
	if err != nil {
		return nil, err
	}
	ref, ok := target.(domain.Ref)
	if !ok {
		return nil, invalid("delete needs a ref, got %T", target)
	}
	switch ref.Collection {
	case domain.CollectionsCollection:
		return ev.store.DeleteCollection(ref.ID)
	case domain.IndexesCollection:
		return ev.store.DropIndex(ref.ID)
	default:
		return ev.store.DeleteById(ref.Collection, ref.ID)
	}
}

func (ev *Evaluator) evalExists(ctx context.Context, form map[string]interface{}, sc scope) (interface{}, error) {
	target, err := ev.eval(ctx, form["exists"], sc)
	if err != nil {
		return nil, err
	}
	switch v := target.(type) {
	case set:
		refs, err := ev.members(v)
		if err != nil {
			return nil, err
		}
		return len(refs) > 0, nil
	case domain.Ref:
		switch v.Collection {
		case domain.CollectionsCollection:
			return ev.store.CollectionExists(v.ID), nil
		case domain.IndexesCollection:
			_, err := ev.store.GetIndex(v.ID)
			return err == nil, nil
		default:
			return ev.store.DocumentExists(v.Collection, v.ID), nil
		}
	default:
		return nil, invalid("exists needs a ref or a set, got %T", target)
	}
}

// evalGet fetches a ref, or the first member of a set in ascending ref order
func (ev *Evaluator) evalGet(ctx context.Context, form map[string]interface{}, sc scope) (interface{}, error) {
	target, err := ev.eval(ctx, form["get"], sc)
	if err != nil {
		return nil, err
	}
	switch v := target.(type) {
	case set:
		refs, err := ev.members(v)
		if err != nil {
			return nil, err
		}
		if len(refs) == 0 {
			return nil, fmt.Errorf("set is empty: %w", domain.ErrNotFound)
		}
		return ev.store.GetById(refs[0].Collection, refs[0].ID)
	case domain.Ref:
		switch v.Collection {
		case domain.CollectionsCollection:
			return ev.store.GetCollection(v.ID)
		case domain.IndexesCollection:
			return ev.store.GetIndex(v.ID)
		default:
			return ev.store.GetById(v.Collection, v.ID)
		}
	default:
		return nil, invalid("get needs a ref or a set, got %T", target)
	}
}

func (ev *Evaluator) evalCount(ctx context.Context, form map[string]interface{}, sc scope) (interface{}, error) {
	target, err := ev.eval(ctx, form["count"], sc)
	if err != nil {
		return nil, err
	}
	switch v := target.(type) {
	case set:
		refs, err := ev.members(v)
		if err != nil {
			return nil, err
		}
		return int64(len(refs)), nil
	case []interface{}:
		return int64(len(v)), nil
	case *domain.Page:
		return int64(len(v.Data)), nil
	default:
		return nil, invalid("count needs a set or an array, got %T", target)
	}
}

func (ev *Evaluator) evalParams(ctx context.Context, raw interface{}, sc scope) (map[string]interface{}, error) {
	value, err := ev.eval(ctx, raw, sc)
	if err != nil {
		return nil, err
	}
	params, ok := value.(map[string]interface{})
	if !ok {
		return nil, invalid("params must be an object")
	}
	return params, nil
}

// evalData extracts the "data" field of a params object
func (ev *Evaluator) evalData(ctx context.Context, raw interface{}, sc scope) (map[string]interface{}, error) {
	if raw == nil {
		return map[string]interface{}{}, nil
	}
	params, err := ev.evalParams(ctx, raw, sc)
	if err != nil {
		return nil, err
	}
	rawData, ok := params["data"]
	if !ok || rawData == nil {
		return map[string]interface{}{}, nil
	}
	data, ok := rawData.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("data must be an object: %w", domain.ErrInvalidArgument)
	}
	return data, nil
}

func (ev *Evaluator) members(s set) ([]domain.Ref, error) {
	if s.collection != "" {
		return ev.store.ListRefs(s.collection)
	}
	return ev.store.FindByIndex(s.index, s.value, s.present)
}

func isSchemaRef(ref domain.Ref) bool {
	return ref.Collection == domain.CollectionsCollection || ref.Collection == domain.IndexesCollection
}

func has(form map[string]interface{}, key string) bool {
	_, ok := form[key]
	return ok
}

func asMap(value interface{}) (map[string]interface{}, bool) {
	switch v := value.(type) {
	case map[string]interface{}:
		return v, true
	case query.Expr:
		return v, true
	}
	return nil, false
}

func keys(form map[string]interface{}) []string {
	out := make([]string, 0, len(form))
	for k := range form {
		out = append(out, k)
	}
	return out
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, domain.ErrInvalidExpression)...)
}
