// Package memorystorage is the in-memory storage backend: the jsondb cache
// without a backing file. Used when neither a DSN nor a file path is set, and
// throughout the tests.
package memorystorage

import (
	"context"

	"github.com/akraevsky/bkmrks/internal/db/jsondb"
)

type MemoryStorage struct {
	*jsondb.JSONDB
}

func New() (*MemoryStorage, error) {
	return &MemoryStorage{
		JSONDB: &jsondb.JSONDB{
			Cache: jsondb.CacheStruct{},
		},
	}, nil
}

func (theStorage *MemoryStorage) Close() error {
	return nil
}

func (theStorage *MemoryStorage) Ping(ctx context.Context) error {
	return nil
}
