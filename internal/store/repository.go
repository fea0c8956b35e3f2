// Package store persists records through GORM with the write rules every
// record type shares: defaults, normalization, validation, unique keys,
// parent references and delete propagation, all inside one transaction.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/apperrors"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/validation"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entity is implemented by every stored record.
type Entity interface {
	GetID() uuid.UUID
}

// Defaulter sets declared defaults on a fresh record before input is decoded onto it.
type Defaulter interface {
	ApplyDefaults()
}

// Normalizer canonicalizes field values before validation on every write.
type Normalizer interface {
	Normalize()
}

// Checker validates rules that span several fields.
type Checker interface {
	Check() error
}

// Unique declares a unique key. Columns and Values line up one to one.
type Unique[T any] struct {
	Name    string
	Fields  []string
	Columns []string
	Values  func(*T) []interface{}
}

// Reference declares a link to a row of another table. A nil Value is not checked.
type Reference[T any] struct {
	Field string
	Table string
	Value func(*T) *uuid.UUID
}

type OnDelete int

const (
	Cascade OnDelete = iota
	SetNull
)

// Deleter removes the rows whose column matches one of ids, applying their own
// dependents first.
type Deleter interface {
	DeleteWhere(tx *gorm.DB, column string, ids []uuid.UUID, summary Summary) error
}

// Dependent is a table holding a reference to this repository's rows.
// Cascaded rows are removed through Rows when set, or directly from Table.
type Dependent struct {
	Table    string
	Column   string
	OnDelete OnDelete
	Rows     Deleter
}

// Summary counts rows removed or detached by a delete, keyed by table.
type Summary map[string]int64

type Options[T any] struct {
	Table      string
	Uniques    []Unique[T]
	References []Reference[T]
	Preload    []string
	// BeforeWrite runs after validation and before the transaction opens.
	BeforeWrite func(ctx context.Context, rec *T) error
	// AfterWrite runs inside the write transaction once the row is stored.
	AfterWrite func(tx *gorm.DB, rec *T) error
	// AfterCommit runs once a create, update or delete of id has committed.
	AfterCommit func(id uuid.UUID)
}

// InTx is a per-call step of a create or update. It runs inside the write
// transaction, after AfterWrite, on the record as reloaded through tx.
type InTx[T any] func(tx *gorm.DB, rec *T) error

type Repository[T any] struct {
	db         *gorm.DB
	opts       Options[T]
	dependents []Dependent
}

func New[T any](db *gorm.DB, opts Options[T]) *Repository[T] {
	if opts.Table == "" {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(new(T)); err == nil {
			opts.Table = stmt.Schema.Table
		}
	}
	return &Repository[T]{db: db, opts: opts}
}

func (r *Repository[T]) Table() string { return r.opts.Table }

// AddDependent registers a table whose rows reference this repository's rows.
func (r *Repository[T]) AddDependent(d Dependent) {
	r.dependents = append(r.dependents, d)
}

// Model returns a query over the records without preloads.
func (r *Repository[T]) Model(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(new(T))
}

// Query returns a query over the records with declared relations preloaded.
func (r *Repository[T]) Query(ctx context.Context) *gorm.DB {
	q := r.Model(ctx)
	for _, p := range r.opts.Preload {
		q = q.Preload(p)
	}
	return q
}

// New returns an empty record with its declared defaults applied.
func (r *Repository[T]) New() *T {
	rec := new(T)
	if d, ok := any(rec).(Defaulter); ok {
		d.ApplyDefaults()
	}
	return rec
}

func (r *Repository[T]) Get(ctx context.Context, id uuid.UUID) (*T, error) {
	rec := new(T)
	if err := r.Query(ctx).Where(r.opts.Table+".id = ?", id).First(rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s %s: %w", r.opts.Table, id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("get %s %s: %w", r.opts.Table, id, err)
	}
	return rec, nil
}

// Prepare normalizes and validates rec without touching storage.
func (r *Repository[T]) Prepare(rec *T) error {
	if n, ok := any(rec).(Normalizer); ok {
		n.Normalize()
	}
	if err := validation.Struct(rec); err != nil {
		return err
	}
	if c, ok := any(rec).(Checker); ok {
		if err := c.Check(); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository[T]) Create(ctx context.Context, rec *T, also ...InTx[T]) error {
	if err := r.Prepare(rec); err != nil {
		return err
	}
	if r.opts.BeforeWrite != nil {
		if err := r.opts.BeforeWrite(ctx, rec); err != nil {
			return err
		}
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.checkUniques(tx, rec, uuid.Nil); err != nil {
			return err
		}
		if err := r.checkReferences(tx, rec); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(rec).Error; err != nil {
			return r.translate(err)
		}
		if r.opts.AfterWrite != nil {
			if err := r.opts.AfterWrite(tx, rec); err != nil {
				return err
			}
		}
		return r.runInTx(tx, rec, also)
	})
	if err != nil {
		return r.wrap("create", err)
	}
	r.committed(rec)
	if len(also) > 0 {
		return nil
	}
	return r.reload(ctx, rec)
}

// Update writes every column of rec except its id and creation time.
func (r *Repository[T]) Update(ctx context.Context, rec *T, also ...InTx[T]) error {
	id, err := entityID(rec)
	if err != nil {
		return err
	}
	if err := r.Prepare(rec); err != nil {
		return err
	}
	if r.opts.BeforeWrite != nil {
		if err := r.opts.BeforeWrite(ctx, rec); err != nil {
			return err
		}
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Table(r.opts.Table).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("%s %s: %w", r.opts.Table, id, apperrors.ErrNotFound)
		}
		if err := r.checkUniques(tx, rec, id); err != nil {
			return err
		}
		if err := r.checkReferences(tx, rec); err != nil {
			return err
		}
		res := tx.Model(rec).
			Select("*").
			Omit("id", "created_at", clause.Associations).
			Updates(rec)
		if res.Error != nil {
			return r.translate(res.Error)
		}
		if r.opts.AfterWrite != nil {
			if err := r.opts.AfterWrite(tx, rec); err != nil {
				return err
			}
		}
		return r.runInTx(tx, rec, also)
	})
	if err != nil {
		return r.wrap("update", err)
	}
	r.committed(rec)
	if len(also) > 0 {
		return nil
	}
	return r.reload(ctx, rec)
}

// Delete removes the record and applies every registered dependent. Each of
// also runs last inside the same transaction.
func (r *Repository[T]) Delete(ctx context.Context, id uuid.UUID, also ...func(tx *gorm.DB) error) (Summary, error) {
	summary := Summary{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Table(r.opts.Table).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("%s %s: %w", r.opts.Table, id, apperrors.ErrNotFound)
		}
		if err := r.deleteIDs(tx, []uuid.UUID{id}, summary); err != nil {
			return err
		}
		for _, fn := range also {
			if err := fn(tx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, r.wrap("delete", err)
	}
	if r.opts.AfterCommit != nil {
		r.opts.AfterCommit(id)
	}
	return summary, nil
}

// DeleteWhere implements Deleter.
func (r *Repository[T]) DeleteWhere(tx *gorm.DB, column string, ids []uuid.UUID, summary Summary) error {
	if len(ids) == 0 {
		return nil
	}
	var childIDs []uuid.UUID
	if err := tx.Table(r.opts.Table).Where(column+" IN ?", ids).Pluck("id", &childIDs).Error; err != nil {
		return fmt.Errorf("select %s by %s: %w", r.opts.Table, column, err)
	}
	return r.deleteIDs(tx, childIDs, summary)
}

func (r *Repository[T]) deleteIDs(tx *gorm.DB, ids []uuid.UUID, summary Summary) error {
	if len(ids) == 0 {
		return nil
	}
	for _, d := range r.dependents {
		if err := applyDependent(tx, d, ids, summary); err != nil {
			return err
		}
	}
	res := tx.Exec("DELETE FROM ? WHERE id IN ?", clause.Table{Name: r.opts.Table}, ids)
	if res.Error != nil {
		return fmt.Errorf("delete %s: %w", r.opts.Table, res.Error)
	}
	summary[r.opts.Table] += res.RowsAffected
	return nil
}

func applyDependent(tx *gorm.DB, d Dependent, ids []uuid.UUID, summary Summary) error {
	switch d.OnDelete {
	case SetNull:
		res := tx.Exec("UPDATE ? SET ? = NULL WHERE ? IN ?",
			clause.Table{Name: d.Table}, clause.Column{Name: d.Column}, clause.Column{Name: d.Column}, ids)
		if res.Error != nil {
			return fmt.Errorf("detach %s.%s: %w", d.Table, d.Column, res.Error)
		}
		return nil
	case Cascade:
		if d.Rows != nil {
			return d.Rows.DeleteWhere(tx, d.Column, ids, summary)
		}
		res := tx.Exec("DELETE FROM ? WHERE ? IN ?", clause.Table{Name: d.Table}, clause.Column{Name: d.Column}, ids)
		if res.Error != nil {
			return fmt.Errorf("delete %s: %w", d.Table, res.Error)
		}
		summary[d.Table] += res.RowsAffected
		return nil
	}
	return fmt.Errorf("unknown delete rule %d for %s", d.OnDelete, d.Table)
}

func (r *Repository[T]) checkUniques(tx *gorm.DB, rec *T, self uuid.UUID) error {
	for _, u := range r.opts.Uniques {
		values := u.Values(rec)
		q := tx.Table(r.opts.Table)
		for i, col := range u.Columns {
			q = q.Where(col+" = ?", values[i])
		}
		if self != uuid.Nil {
			q = q.Where("id <> ?", self)
		}
		var count int64
		if err := q.Count(&count).Error; err != nil {
			return fmt.Errorf("check %s: %w", u.Name, err)
		}
		if count > 0 {
			return &apperrors.UniquenessViolation{Constraint: u.Name, Fields: u.Fields}
		}
	}
	return nil
}

func (r *Repository[T]) checkReferences(tx *gorm.DB, rec *T) error {
	verr := &apperrors.ValidationError{}
	for _, ref := range r.opts.References {
		id := ref.Value(rec)
		if id == nil || *id == uuid.Nil {
			continue
		}
		var count int64
		if err := tx.Table(ref.Table).Where("id = ?", *id).Count(&count).Error; err != nil {
			return fmt.Errorf("check %s: %w", ref.Field, err)
		}
		if count == 0 {
			verr.Errors = append(verr.Errors, apperrors.FieldError{
				Field:   ref.Field,
				Message: "Select a valid choice. That choice is not one of the available choices.",
			})
		}
	}
	if len(verr.Errors) > 0 {
		return verr
	}
	return nil
}

// translate maps a storage-level unique violation onto the declared key it broke.
func (r *Repository[T]) translate(err error) error {
	uv, ok := database.AsUniqueViolation(err)
	if !ok {
		return err
	}
	for _, u := range r.opts.Uniques {
		if uv.Constraint != "" && uv.Constraint == u.Name {
			return &apperrors.UniquenessViolation{Constraint: u.Name, Fields: u.Fields}
		}
		if len(uv.Columns) > 0 && sameColumns(uv.Columns, u.Columns) {
			return &apperrors.UniquenessViolation{Constraint: u.Name, Fields: u.Fields}
		}
	}
	name := uv.Constraint
	if name == "" {
		name = r.opts.Table + "_" + strings.Join(uv.Columns, "_")
	}
	return &apperrors.UniquenessViolation{Constraint: name, Fields: uv.Columns}
}

func (r *Repository[T]) wrap(op string, err error) error {
	if _, ok := apperrors.AsValidation(err); ok {
		return err
	}
	if _, ok := apperrors.AsUniqueness(err); ok {
		return err
	}
	if errors.Is(err, apperrors.ErrNotFound) {
		return err
	}
	return fmt.Errorf("%s %s: %w", op, r.opts.Table, err)
}

// runInTx reloads rec through tx and hands it to each step.
func (r *Repository[T]) runInTx(tx *gorm.DB, rec *T, also []InTx[T]) error {
	if len(also) == 0 {
		return nil
	}
	id, err := entityID(rec)
	if err != nil {
		return err
	}
	q := tx.Model(new(T))
	for _, p := range r.opts.Preload {
		q = q.Preload(p)
	}
	fresh := new(T)
	if err := q.Where(r.opts.Table+".id = ?", id).First(fresh).Error; err != nil {
		return fmt.Errorf("reload %s %s: %w", r.opts.Table, id, err)
	}
	*rec = *fresh
	for _, fn := range also {
		if err := fn(tx, rec); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository[T]) reload(ctx context.Context, rec *T) error {
	id, err := entityID(rec)
	if err != nil {
		return err
	}
	fresh, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	*rec = *fresh
	return nil
}

func (r *Repository[T]) committed(rec *T) {
	if r.opts.AfterCommit == nil {
		return
	}
	if id, err := entityID(rec); err == nil {
		r.opts.AfterCommit(id)
	}
}

func entityID(rec interface{}) (uuid.UUID, error) {
	e, ok := rec.(Entity)
	if !ok {
		return uuid.Nil, fmt.Errorf("%T does not implement store.Entity", rec)
	}
	return e.GetID(), nil
}

func sameColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]bool, len(a))
	for _, c := range a {
		seen[c] = true
	}
	for _, c := range b {
		if !seen[c] {
			return false
		}
	}
	return true
}
