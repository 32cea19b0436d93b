// Package orm is a small fluent wrapper over the shared GORM handle, with an
// optional Redis read-through for hot list queries.
package orm

import (
	"time"

	"github.com/nkhandel/bookstock/pkg/cache"
	"github.com/nkhandel/bookstock/pkg/database"
	"gorm.io/gorm"
)

type Query struct {
	db *gorm.DB
}

// DB starts a query chain on the shared connection.
func DB() *Query {
	return &Query{db: database.DB}
}

// Use starts a query chain on an explicit connection (tests pass an
// in-memory sqlite handle here).
func Use(db *gorm.DB) *Query {
	return &Query{db: db}
}

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Where(query string, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

// Unscoped bypasses the soft-delete scope so deletes remove the row for
// real and its unique index entries with it.
func (q *Query) Unscoped() *Query {
	return &Query{db: q.db.Unscoped()}
}

// Get loads all matching rows into dest.
func (q *Query) Get(dest interface{}) error {
	return q.db.Find(dest).Error
}

// First loads the first matching row; gorm.ErrRecordNotFound when absent.
func (q *Query) First(dest interface{}) error {
	return q.db.First(dest).Error
}

func (q *Query) Count(n *int64) error {
	return q.db.Count(n).Error
}

func (q *Query) Create(v interface{}) error {
	return q.db.Create(v).Error
}

func (q *Query) Save(v interface{}) error {
	return q.db.Save(v).Error
}

func (q *Query) Delete(v interface{}) error {
	return q.db.Delete(v).Error
}

// Cache serves dest from Redis under key when present, otherwise runs the
// query and stores the result for ttl. Falls through to the database
// whenever Redis is down.
func (q *Query) Cache(key string, ttl time.Duration, dest interface{}) error {
	if cache.Get(key, dest) {
		return nil
	}

	if err := q.db.Find(dest).Error; err != nil {
		return err
	}

	cache.Set(key, dest, ttl) //nolint:errcheck
	return nil
}
