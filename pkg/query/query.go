// Package query builds expressions of the document database's declarative
// query algebra. Expressions are plain maps so any wire codec can carry them;
// literal objects are escaped under "object" so their keys are never mistaken
// for query forms.
package query

// Expr is a single query expression
type Expr map[string]interface{}

// Collection refers to a collection by name
func Collection(name string) Expr {
	return Expr{"collection": name}
}

// Index refers to an index by name
func Index(name string) Expr {
	return Expr{"index": name}
}

// Ref refers to a document of a collection by id
func Ref(collection Expr, id string) Expr {
	return Expr{"ref": collection, "id": id}
}

// Documents is the set of every document ref in a collection
func Documents(collection Expr) Expr {
	return Expr{"documents": collection}
}

// Match is the set of documents whose index terms equal value. A nil value is
// omitted from the expression.
func Match(index Expr, value interface{}) Expr {
	expr := Expr{"match": index}
	if value != nil {
		expr["terms"] = escape(value)
	}
	return expr
}

// Exists reports whether a ref or set has at least one member
func Exists(expr Expr) Expr {
	return Expr{"exists": expr}
}

// Get fetches the instance a ref points to, or the first member of a set
func Get(expr Expr) Expr {
	return Expr{"get": expr}
}

// Count counts the members of a set
func Count(expr Expr) Expr {
	return Expr{"count": expr}
}

// Delete removes a collection, an index or a document
func Delete(ref Expr) Expr {
	return Expr{"delete": ref}
}

// Create creates a document in the collection ref with params
func Create(collection Expr, params map[string]interface{}) Expr {
	return Expr{"create": collection, "params": Obj(params)}
}

// Update merges params into the document ref
func Update(ref Expr, params map[string]interface{}) Expr {
	return Expr{"update": ref, "params": Obj(params)}
}

// CreateCollection creates a collection described by params
func CreateCollection(params map[string]interface{}) Expr {
	return Expr{"create_collection": Obj(params)}
}

// CreateIndex creates an index described by params
func CreateIndex(params map[string]interface{}) Expr {
	return Expr{"create_index": Obj(params)}
}

// Lambda binds each value it is applied to under name while evaluating expr
func Lambda(name string, expr Expr) Expr {
	return Expr{"lambda": name, "expr": expr}
}

// Var reads a lambda binding
func Var(name string) Expr {
	return Expr{"var": name}
}

// Map applies lambda to every element of over (an array or a page)
func Map(over Expr, lambda Expr) Expr {
	return Expr{"map": lambda, "over": over}
}
