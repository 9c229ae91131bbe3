package query

// PaginateOption configures a Paginate expression
type PaginateOption func(Expr)

// Size sets the page size. Zero leaves the backend default in place.
func Size(size int) PaginateOption {
	return func(e Expr) {
		if size > 0 {
			e["size"] = size
		}
	}
}

// After starts the page after the given cursor
func After(cursor string) PaginateOption {
	return func(e Expr) {
		if cursor != "" {
			e["after"] = cursor
		}
	}
}

// Paginate turns a set into one page of its members
func Paginate(set Expr, options ...PaginateOption) Expr {
	expr := Expr{"paginate": set}
	for _, option := range options {
		option(expr)
	}
	return expr
}
