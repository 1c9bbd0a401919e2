package models

// Product represents a catalog entry as returned by the remote service.
// The ID is server-assigned and immutable; the client never invents one.
type Product struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// ProductInput is the payload sent on create and update. Price is already
// validated and parsed by the caller.
type ProductInput struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}
