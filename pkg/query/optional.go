package query

// Optional carries a value together with whether it was supplied at all, so
// "not given" stays distinct from a zero value.
type Optional[T any] struct {
	value T
	set   bool
}

// Some returns a present Optional
func Some[T any](value T) Optional[T] {
	return Optional[T]{value: value, set: true}
}

// None returns an absent Optional
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it was supplied
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet reports whether a value was supplied
func (o Optional[T]) IsSet() bool {
	return o.set
}

// IndexParams describes a CreateIndex call. Name and Source are always sent;
// Terms only when supplied and non-empty, Unique only when supplied and true,
// leaving every other case to the backend's defaults.
type IndexParams struct {
	Name   string
	Source Expr
	Terms  Optional[[]string]
	Unique Optional[bool]
}

// Object renders the parameter object sent to CreateIndex
func (p IndexParams) Object() map[string]interface{} {
	params := map[string]interface{}{
		"name":   p.Name,
		"source": p.Source,
	}
	if terms, ok := p.Terms.Get(); ok && len(terms) > 0 {
		params["terms"] = terms
	}
	if unique, ok := p.Unique.Get(); ok && unique {
		params["unique"] = true
	}
	return params
}
