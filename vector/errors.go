package vector

import "fmt"

// SchemaError reports an invalid table definition or a reference to a table
// unknown to the catalog.
type SchemaError struct {
	Table  string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("vector: schema error on table %q: %s", e.Table, e.Reason)
}

// DimensionMismatchError reports a vector whose length does not equal the
// table's fixed dimensionality. Raised on insertion and on query.
type DimensionMismatchError struct {
	Table string
	Want  int
	Got   int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("vector: dimension mismatch on table %q: want %d, got %d", e.Table, e.Want, e.Got)
}

// StorageError wraps a failure of the underlying persistence layer. Unwrap
// exposes the driver error.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("vector: storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
