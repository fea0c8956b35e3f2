package admin

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/apperrors"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/choices"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/types"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// scope applies the joins, search and filters of a list request to a query.
// It is applied to fresh queries so counting and fetching never share state.
type scope func(*gorm.DB) *gorm.DB

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (m *ModelAdmin[T]) filters(c *fiber.Ctx) (scope, error) {
	type cond struct {
		sql  string
		args []interface{}
	}
	var conds []cond

	for _, word := range strings.Fields(c.Query("q")) {
		if len(m.opts.Search) == 0 {
			break
		}
		pattern := "%" + likeEscaper.Replace(strings.ToLower(word)) + "%"
		parts := make([]string, 0, len(m.opts.Search))
		args := make([]interface{}, 0, len(m.opts.Search))
		for _, col := range m.opts.Search {
			parts = append(parts, "LOWER("+col+`) LIKE ? ESCAPE '\'`)
			args = append(args, pattern)
		}
		conds = append(conds, cond{sql: "(" + strings.Join(parts, " OR ") + ")", args: args})
	}

	for _, f := range m.opts.Filters {
		raw := c.Query(f.Param)
		if raw == "" {
			continue
		}
		switch f.Kind {
		case FilterChoice:
			if !hasOption(f.Choices, raw) {
				return nil, apperrors.NewValidationError(f.Param, fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", raw))
			}
			conds = append(conds, cond{sql: f.Column + " = ?", args: []interface{}{raw}})
		case FilterExact:
			conds = append(conds, cond{sql: f.Column + " = ?", args: []interface{}{raw}})
		case FilterBool:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return nil, apperrors.NewValidationError(f.Param, "Must be a valid boolean.")
			}
			conds = append(conds, cond{sql: f.Column + " = ?", args: []interface{}{b}})
		case FilterDate:
			from, to, ok := dateRange(raw, types.Today())
			if !ok {
				return nil, apperrors.NewValidationError(f.Param, fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", raw))
			}
			conds = append(conds, cond{sql: f.Column + " >= ? AND " + f.Column + " < ?", args: []interface{}{from, to}})
		}
	}

	if m.opts.DateHierarchy != "" {
		from, to, ok, err := drillRange(c)
		if err != nil {
			return nil, err
		}
		if ok {
			col := m.opts.DateHierarchy
			conds = append(conds, cond{sql: col + " >= ? AND " + col + " < ?", args: []interface{}{from, to}})
		}
	}

	joins := m.opts.Joins
	return func(db *gorm.DB) *gorm.DB {
		for _, j := range joins {
			db = db.Joins(j)
		}
		for _, cd := range conds {
			db = db.Where(cd.sql, cd.args...)
		}
		return db
	}, nil
}

func hasOption(opts []choices.Option, v string) bool {
	for _, o := range opts {
		if o.Value == v {
			return true
		}
	}
	return false
}

// dateRange turns a date facet into a half-open [from, to) range.
func dateRange(facet string, today types.Date) (types.Date, types.Date, bool) {
	switch facet {
	case "today":
		return today, today.AddDays(1), true
	case "past_7_days":
		return today.AddDays(-7), today.AddDays(1), true
	case "this_month":
		first := types.NewDate(today.Year(), today.Month(), 1)
		return first, types.Date{Time: first.AddDate(0, 1, 0)}, true
	case "this_year":
		first := types.NewDate(today.Year(), time.January, 1)
		return first, types.Date{Time: first.AddDate(1, 0, 0)}, true
	}
	return types.Date{}, types.Date{}, false
}

// drillRange reads year, month and day parameters into a half-open range.
func drillRange(c *fiber.Ctx) (types.Date, types.Date, bool, error) {
	year, month, day, err := drillParams(c)
	if err != nil || year == 0 {
		return types.Date{}, types.Date{}, false, err
	}
	switch {
	case day != 0:
		from := types.NewDate(year, time.Month(month), day)
		return from, from.AddDays(1), true, nil
	case month != 0:
		from := types.NewDate(year, time.Month(month), 1)
		return from, types.Date{Time: from.AddDate(0, 1, 0)}, true, nil
	default:
		from := types.NewDate(year, time.January, 1)
		return from, types.Date{Time: from.AddDate(1, 0, 0)}, true, nil
	}
}

func drillParams(c *fiber.Ctx) (year, month, day int, err error) {
	parse := func(name string, lo, hi int) (int, error) {
		raw := c.Query(name)
		if raw == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < lo || n > hi {
			return 0, apperrors.NewValidationError(name, fmt.Sprintf("Ensure this value is between %d and %d.", lo, hi))
		}
		return n, nil
	}
	if year, err = parse("year", 1, 9999); err != nil {
		return
	}
	if month, err = parse("month", 1, 12); err != nil {
		return
	}
	if day, err = parse("day", 1, 31); err != nil {
		return
	}
	if month != 0 && year == 0 {
		err = apperrors.NewValidationError("month", "A year is required to filter by month.")
		return
	}
	if day != 0 && month == 0 {
		err = apperrors.NewValidationError("day", "A month is required to filter by day.")
		return
	}
	if day != 0 {
		d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		if d.Day() != day {
			err = apperrors.NewValidationError("day", "Enter a valid date.")
		}
	}
	return
}

// ordering resolves the o parameter, or the declared default, to ORDER BY terms.
func (m *ModelAdmin[T]) ordering(param string) ([]string, error) {
	var terms []string
	if param == "" {
		for _, o := range m.opts.Ordering {
			terms = append(terms, orderTerm(o))
		}
	} else {
		for _, name := range strings.Split(param, ",") {
			name = strings.TrimSpace(name)
			desc := strings.HasPrefix(name, "-")
			name = strings.TrimPrefix(name, "-")
			expr := ""
			for _, col := range m.opts.Columns {
				if col.Name == name {
					expr = col.Order
					break
				}
			}
			if expr == "" {
				return nil, apperrors.NewValidationError("o", fmt.Sprintf("Cannot order by %q.", name))
			}
			if desc {
				expr += " DESC"
			}
			terms = append(terms, expr)
		}
	}
	return append(terms, m.store.Table()+".id"), nil
}

func orderTerm(o string) string {
	if strings.HasPrefix(o, "-") {
		return strings.TrimPrefix(o, "-") + " DESC"
	}
	return o
}

type hierarchy struct {
	Field   string           `json:"field"`
	Year    int              `json:"year,omitempty"`
	Month   int              `json:"month,omitempty"`
	Day     int              `json:"day,omitempty"`
	Choices []choices.Option `json:"choices"`
}

// hierarchy lists the next level of dates that have records under the current filters.
func (m *ModelAdmin[T]) hierarchy(c *fiber.Ctx, build scope) (*hierarchy, error) {
	year, month, day, err := drillParams(c)
	if err != nil {
		return nil, err
	}
	col := m.opts.DateHierarchy
	var dates []types.Date
	if err := build(m.store.Model(c.UserContext())).
		Where(col + " IS NOT NULL").
		Distinct(col).
		Pluck(col, &dates).Error; err != nil {
		return nil, fmt.Errorf("date hierarchy %s: %w", m.opts.Slug, err)
	}

	h := &hierarchy{Field: col, Year: year, Month: month, Day: day, Choices: []choices.Option{}}
	if day != 0 {
		return h, nil
	}
	seen := map[int]bool{}
	var keys []int
	for _, d := range dates {
		var k int
		switch {
		case month != 0:
			k = d.Day()
		case year != 0:
			k = int(d.Month())
		default:
			k = d.Year()
		}
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Ints(keys)
	for _, k := range keys {
		label := strconv.Itoa(k)
		switch {
		case month != 0:
			label = fmt.Sprintf("%s %d", time.Month(month).String(), k)
		case year != 0:
			label = fmt.Sprintf("%s %d", time.Month(k).String(), year)
		}
		h.Choices = append(h.Choices, choices.Option{Value: strconv.Itoa(k), Label: label})
	}
	return h, nil
}
