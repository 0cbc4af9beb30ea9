package interfaces

import (
	"context"
	"errors"
)

// ErrNoDocument is returned by FindOne when nothing matches the filter.
var ErrNoDocument = errors.New("no document found")

// Document is a generic interface to represent data that can be stored
// and retrieved from the database. It could be a struct, a map[string]interface{},
// or any type that can be marshaled/unmarshaled by the specific database driver.
type Document interface{}

// DBClient defines the interface for a generic database client.
// It abstracts the operations the user repositories need across MongoDB and PostgreSQL.
type DBClient interface {
	// Connect establishes a connection to the database using a DSN (Data Source Name).
	Connect(ctx context.Context, dsn string) error

	// Disconnect closes the database connection.
	Disconnect(ctx context.Context) error

	// InsertOne inserts a single document into the specified collection/table
	// and returns the ID of the inserted document.
	InsertOne(ctx context.Context, collectionName string, document Document) (interface{}, error)

	// FindOne decodes the first document matching filter into result.
	// A missing document is reported through ErrNoDocument.
	FindOne(ctx context.Context, collectionName string, filter Document, result Document) error

	// DeleteOne deletes the first document matching filter.
	// Returns the count of deleted documents.
	DeleteOne(ctx context.Context, collectionName string, filter Document) (int64, error)

	// EnsureSchema creates the collection/table constraints described by schema.
	// The schema type is driver specific (mongo.IndexModel, CREATE TABLE statement).
	EnsureSchema(ctx context.Context, collectionName string, schema Document) error

	// Ping checks the health of the database connection.
	Ping(ctx context.Context) error
}
