package repository

// Page represents a simple limit/offset window for listing operations.
// Values arrive already clamped by the service layer; the repository applies them verbatim.
type Page struct {
	Limit  int
	Offset int
}

// PageResult carries one page of items, the total row count of the whole table
// and the window that was actually applied, echoed back for the caller.
type PageResult[T any] struct {
	Items  []T
	Total  int
	Limit  int
	Offset int
}
