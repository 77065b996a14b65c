// Package store defines the document-store contract the service persists
// through: named collections of string-keyed records addressed by document id.
// MongoStore is the production implementation; MemoryStore backs tests.
package store

import "context"

// Document is a single stored record. Values are scalars or timestamps.
// Documents returned by a Store carry their id under the "id" key.
type Document map[string]any

// Operator selects the comparison used by Query.
type Operator string

const OpEqual Operator = "=="

// Store is the six-operation document-store contract.
type Store interface {
	// Create writes a new document. An empty id asks the store to generate
	// one. Returns the document id.
	Create(ctx context.Context, collection, id string, doc Document) (string, error)

	// Get returns the document with the given id, or nil if absent.
	Get(ctx context.Context, collection, id string) (Document, error)

	// Update applies the given fields to an existing document.
	Update(ctx context.Context, collection, id string, fields Document) error

	// Delete removes the document with the given id.
	Delete(ctx context.Context, collection, id string) error

	// List returns up to limit documents, in store order.
	List(ctx context.Context, collection string, limit int64) ([]Document, error)

	// Query returns up to limit documents whose field matches value under op.
	// No ordering is guaranteed.
	Query(ctx context.Context, collection, field string, op Operator, value any, limit int64) ([]Document, error)
}
