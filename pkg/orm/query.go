// Package orm is a small chainable wrapper over *gorm.DB used by the
// repositories. Every Query is immutable: each call returns a new Query.
package orm

import (
	"context"
	"errors"
	"math"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned by First when no row matches.
var ErrNotFound = gorm.ErrRecordNotFound

const (
	DefaultPerPage = 15
	MaxPerPage     = 100
)

// Pagination describes one page of a listing.
type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// NewPagination clamps page and perPage into sane bounds.
func NewPagination(page, perPage int) Pagination {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return Pagination{Page: page, PerPage: perPage}
}

func (p Pagination) offset() int { return (p.Page - 1) * p.PerPage }

type Query struct {
	db *gorm.DB
}

// On starts a query on db, typically a transaction handle.
func On(db *gorm.DB) *Query {
	return &Query{db: db}
}

func (q *Query) WithContext(ctx context.Context) *Query {
	return &Query{db: q.db.WithContext(ctx)}
}

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Where(query interface{}, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

func (q *Query) Order(value interface{}) *Query {
	return &Query{db: q.db.Order(value)}
}

func (q *Query) Preload(query string, args ...interface{}) *Query {
	return &Query{db: q.db.Preload(query, args...)}
}

func (q *Query) Select(query interface{}, args ...interface{}) *Query {
	return &Query{db: q.db.Select(query, args...)}
}

func (q *Query) Clauses(conds ...clause.Expression) *Query {
	return &Query{db: q.db.Clauses(conds...)}
}

func (q *Query) Limit(n int) *Query {
	return &Query{db: q.db.Limit(n)}
}

// ForUpdate locks the selected rows until the surrounding transaction ends.
// SQLite has no row locks; it serializes writers on its own.
func (q *Query) ForUpdate() *Query {
	if q.db.Dialector.Name() == "sqlite" {
		return q
	}
	return q.Clauses(clause.Locking{Strength: "UPDATE"})
}

func (q *Query) Get(dest interface{}) error {
	return q.db.Find(dest).Error
}

func (q *Query) First(dest interface{}) error {
	return q.db.First(dest).Error
}

// Exists reports whether at least one row matches.
func (q *Query) Exists() (bool, error) {
	var n int64
	if err := q.db.Limit(1).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (q *Query) Count() (int64, error) {
	var n int64
	err := q.db.Count(&n).Error
	return n, err
}

func (q *Query) Scan(dest interface{}) error {
	return q.db.Scan(dest).Error
}

// Pluck loads a single column into a slice.
func (q *Query) Pluck(column string, dest interface{}) error {
	return q.db.Pluck(column, dest).Error
}

// Updates writes the given columns on the rows selected by Model/Where.
func (q *Query) Updates(values interface{}) error {
	return q.db.Updates(values).Error
}

// Delete removes the matching rows and reports how many went.
func (q *Query) Delete(value interface{}) (int64, error) {
	res := q.db.Delete(value)
	return res.RowsAffected, res.Error
}

func (q *Query) Create(v interface{}) error {
	return q.db.Create(v).Error
}

func (q *Query) Save(v interface{}) error {
	return q.db.Save(v).Error
}

// Paginate counts the matching rows and loads one page into dest.
func (q *Query) Paginate(dest interface{}, page, perPage int) (Pagination, error) {
	p := NewPagination(page, perPage)
	if err := q.db.Session(&gorm.Session{}).Count(&p.Total).Error; err != nil {
		return p, err
	}
	p.TotalPages = int(math.Ceil(float64(p.Total) / float64(p.PerPage)))
	if err := q.db.Offset(p.offset()).Limit(p.PerPage).Find(dest).Error; err != nil {
		return p, err
	}
	return p, nil
}

// IsNotFound reports whether err means "no such row".
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
