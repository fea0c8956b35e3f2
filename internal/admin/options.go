// Package admin serves a generic CRUD API over registered record types. Each
// type declares how it is listed, searched, filtered and edited; the site
// turns those declarations into endpoints under /api/admin/<slug>.
package admin

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/choices"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/store"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store is the persistence a model admin needs.
type Store[T any] interface {
	Table() string
	// Model starts a query over the records without preloads.
	Model(ctx context.Context) *gorm.DB
	// Query starts a query over the records with declared relations preloaded.
	Query(ctx context.Context) *gorm.DB
	New() *T
	Get(ctx context.Context, id uuid.UUID) (*T, error)
	// Create and Update run each of also inside the write transaction.
	Create(ctx context.Context, rec *T, also ...store.InTx[T]) error
	Update(ctx context.Context, rec *T, also ...store.InTx[T]) error
	Delete(ctx context.Context, id uuid.UUID, also ...func(tx *gorm.DB) error) (store.Summary, error)
}

// Column is one list column. Order is the SQL expression used to sort by the
// column; columns without one cannot be sorted on.
type Column[T any] struct {
	Name  string
	Label string
	Value func(*T) interface{}
	Order string
}

type FilterKind string

const (
	FilterChoice FilterKind = "choice"
	FilterExact  FilterKind = "exact"
	FilterBool   FilterKind = "bool"
	FilterDate   FilterKind = "date"
)

// OptionsFunc lists the values an exact filter can take.
type OptionsFunc func(ctx context.Context, db *gorm.DB) ([]choices.Option, error)

// Filter narrows the list by one query parameter. Column is the SQL expression
// compared against the parameter value.
type Filter struct {
	Param   string
	Column  string
	Label   string
	Kind    FilterKind
	Choices []choices.Option
	Lookup  OptionsFunc
}

type Fieldset struct {
	Name    string   `json:"name"`
	Fields  []string `json:"fields"`
	Classes []string `json:"classes,omitempty"`
}

// Options declares how one record type is presented.
//
// App and Model form permission codenames ("<app>.<action>_<model>") and the
// content type recorded in the admin log. Search, Filters, DateHierarchy and
// Ordering take SQL expressions qualified by table; Joins supplies the joins
// they need.
type Options[T any] struct {
	App               string
	Model             string
	Slug              string
	VerboseName       string
	VerboseNamePlural string

	Columns       []Column[T]
	Search        []string
	Joins         []string
	Filters       []Filter
	DateHierarchy string
	Ordering      []string

	Fieldsets    []Fieldset
	AddFieldsets []Fieldset
	Readonly     []string
	PageSize     int

	// Repr renders a record for list links and the admin log.
	Repr func(*T) string
}

var boolChoices = []choices.Option{
	{Value: "true", Label: "Yes"},
	{Value: "false", Label: "No"},
}

var dateChoices = []choices.Option{
	{Value: "today", Label: "Today"},
	{Value: "past_7_days", Label: "Past 7 days"},
	{Value: "this_month", Label: "This month"},
	{Value: "this_year", Label: "This year"},
}

// Distinct lists the distinct non-null values of column as filter options.
func Distinct(table, column string, joins ...string) OptionsFunc {
	return func(ctx context.Context, db *gorm.DB) ([]choices.Option, error) {
		q := db.WithContext(ctx).Table(table)
		for _, j := range joins {
			q = q.Joins(j)
		}
		var values []string
		if err := q.Where(column+" IS NOT NULL").Distinct(column).Order(column).Pluck(column, &values).Error; err != nil {
			return nil, err
		}
		out := make([]choices.Option, 0, len(values))
		for _, v := range values {
			out = append(out, choices.Option{Value: v, Label: v})
		}
		return out, nil
	}
}
