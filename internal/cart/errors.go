package cart

import "errors"

var (
	// ErrOptionNotFound: the referenced option id is not in the catalog.
	ErrOptionNotFound = errors.New("option not found")

	// ErrEmptyCart: checkout attempted on a cart with no items.
	ErrEmptyCart = errors.New("cart is empty")
)
