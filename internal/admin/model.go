package admin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/apperrors"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/store"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/types"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Always read-only, whatever the model declares.
var systemFields = []string{"id", "created_at", "updated_at"}

// ModelAdmin serves the admin endpoints of one record type.
type ModelAdmin[T any] struct {
	site   *Site
	store  Store[T]
	opts   Options[T]
	fields map[string]reflect.StructField
}

func (m *ModelAdmin[T]) info() ModelInfo {
	return ModelInfo{
		App:               m.opts.App,
		Model:             m.opts.Model,
		Slug:              m.opts.Slug,
		VerboseName:       m.opts.VerboseName,
		VerboseNamePlural: m.opts.VerboseNamePlural,
	}
}

// authorize checks that the current user is active staff holding the
// permission for action. Holding change permission also grants view.
func (m *ModelAdmin[T]) authorize(c *fiber.Ctx, action string) (*models.User, error) {
	user, err := currentUser(c)
	if err != nil {
		return nil, err
	}
	perms := permissionsFor(user, m.info())
	allowed := false
	switch action {
	case "view":
		allowed = perms.View || perms.Change
	case "add":
		allowed = perms.Add
	case "change":
		allowed = perms.Change
	case "delete":
		allowed = perms.Delete
	}
	if !allowed {
		return nil, fmt.Errorf("%s: %w", Codename(m.info(), action), apperrors.ErrPermissionDenied)
	}
	return user, nil
}

func (m *ModelAdmin[T]) repr(rec *T) string {
	if m.opts.Repr != nil {
		return m.opts.Repr(rec)
	}
	if s, ok := any(rec).(fmt.Stringer); ok {
		return s.String()
	}
	return m.opts.VerboseName
}

func recordID(rec interface{}) uuid.UUID {
	if e, ok := rec.(store.Entity); ok {
		return e.GetID()
	}
	return uuid.Nil
}

func (m *ModelAdmin[T]) parseID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s %q: %w", m.opts.Slug, c.Params("id"), apperrors.ErrNotFound)
	}
	return id, nil
}

type columnInfo struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Sortable bool   `json:"sortable"`
}

type listResponse struct {
	Count         int64                    `json:"count"`
	Limit         int                      `json:"limit"`
	Offset        int                      `json:"offset"`
	Columns       []columnInfo             `json:"columns"`
	Results       []map[string]interface{} `json:"results"`
	DateHierarchy *hierarchy               `json:"date_hierarchy,omitempty"`
}

func (m *ModelAdmin[T]) columns() []columnInfo {
	out := make([]columnInfo, 0, len(m.opts.Columns))
	for _, col := range m.opts.Columns {
		out = append(out, columnInfo{Name: col.Name, Label: col.Label, Sortable: col.Order != ""})
	}
	return out
}

func (m *ModelAdmin[T]) list(c *fiber.Ctx) error {
	if _, err := m.authorize(c, "view"); err != nil {
		return err
	}
	limit, err := intParam(c, "limit", m.opts.PageSize)
	if err != nil {
		return err
	}
	if limit == 0 || limit > maxPageSize {
		limit = maxPageSize
	}
	offset, err := intParam(c, "offset", 0)
	if err != nil {
		return err
	}
	build, err := m.filters(c)
	if err != nil {
		return err
	}
	order, err := m.ordering(c.Query("o"))
	if err != nil {
		return err
	}

	ctx := c.UserContext()
	var count int64
	if err := build(m.store.Model(ctx)).Count(&count).Error; err != nil {
		return fmt.Errorf("count %s: %w", m.opts.Slug, err)
	}

	q := build(m.store.Query(ctx)).Select(m.store.Table() + ".*")
	for _, o := range order {
		q = q.Order(o)
	}
	var recs []T
	if err := q.Limit(limit).Offset(offset).Find(&recs).Error; err != nil {
		return fmt.Errorf("list %s: %w", m.opts.Slug, err)
	}

	rows := make([]map[string]interface{}, 0, len(recs))
	for i := range recs {
		rec := &recs[i]
		row := map[string]interface{}{
			"id":   recordID(rec),
			"repr": m.repr(rec),
		}
		for _, col := range m.opts.Columns {
			row[col.Name] = col.Value(rec)
		}
		rows = append(rows, row)
	}

	resp := listResponse{
		Count:   count,
		Limit:   limit,
		Offset:  offset,
		Columns: m.columns(),
		Results: rows,
	}
	if m.opts.DateHierarchy != "" {
		h, err := m.hierarchy(c, build)
		if err != nil {
			return err
		}
		resp.DateHierarchy = h
	}
	return c.JSON(resp)
}

type filterInfo struct {
	Param   string      `json:"param"`
	Label   string      `json:"label"`
	Kind    FilterKind  `json:"kind"`
	Choices interface{} `json:"choices"`
}

func (m *ModelAdmin[T]) meta(c *fiber.Ctx) error {
	user, err := m.authorize(c, "view")
	if err != nil {
		return err
	}

	filters := make([]filterInfo, 0, len(m.opts.Filters))
	for _, f := range m.opts.Filters {
		info := filterInfo{Param: f.Param, Label: f.Label, Kind: f.Kind}
		switch f.Kind {
		case FilterChoice:
			info.Choices = f.Choices
		case FilterBool:
			info.Choices = boolChoices
		case FilterDate:
			info.Choices = dateChoices
		case FilterExact:
			if f.Lookup != nil {
				opts, err := f.Lookup(c.UserContext(), m.site.db)
				if err != nil {
					return fmt.Errorf("filter options %s: %w", f.Param, err)
				}
				info.Choices = opts
			}
		}
		filters = append(filters, info)
	}

	return c.JSON(fiber.Map{
		"model":          m.info(),
		"columns":        m.columns(),
		"search_fields":  m.opts.Search,
		"filters":        filters,
		"date_hierarchy": m.opts.DateHierarchy,
		"ordering":       m.opts.Ordering,
		"fieldsets":      m.opts.Fieldsets,
		"add_fieldsets":  m.opts.AddFieldsets,
		"readonly":       m.readonly(),
		"page_size":      m.opts.PageSize,
		"perms":          permissionsFor(user, m.info()),
	})
}

func (m *ModelAdmin[T]) readonly() []string {
	out := make([]string, 0, len(systemFields)+len(m.opts.Readonly))
	out = append(out, systemFields...)
	for _, f := range m.opts.Readonly {
		if !contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

func (m *ModelAdmin[T]) detail(c *fiber.Ctx) error {
	user, err := m.authorize(c, "view")
	if err != nil {
		return err
	}
	id, err := m.parseID(c)
	if err != nil {
		return err
	}
	rec, err := m.store.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"id":        id,
		"repr":      m.repr(rec),
		"object":    rec,
		"fieldsets": m.opts.Fieldsets,
		"readonly":  m.readonly(),
		"perms":     permissionsFor(user, m.info()),
	})
}

func (m *ModelAdmin[T]) create(c *fiber.Ctx) error {
	user, err := m.authorize(c, "add")
	if err != nil {
		return err
	}
	rec := m.store.New()
	if _, err := m.decode(c.Body(), rec); err != nil {
		return err
	}
	added := []map[string]interface{}{{"added": map[string]interface{}{}}}
	err = m.store.Create(c.UserContext(), rec, func(tx *gorm.DB, rec *T) error {
		return m.site.logAction(tx, user, m.info(), recordID(rec), m.repr(rec), models.ActionAddition, added)
	})
	if err != nil {
		return err
	}
	m.site.countAction(m.info(), models.ActionAddition)

	id := recordID(rec)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":     id,
		"repr":   m.repr(rec),
		"object": rec,
	})
}

func (m *ModelAdmin[T]) update(c *fiber.Ctx) error {
	user, err := m.authorize(c, "change")
	if err != nil {
		return err
	}
	id, err := m.parseID(c)
	if err != nil {
		return err
	}
	ctx := c.UserContext()
	rec, err := m.store.Get(ctx, id)
	if err != nil {
		return err
	}
	before, err := snapshot(rec)
	if err != nil {
		return err
	}
	input, err := m.decode(c.Body(), rec)
	if err != nil {
		return err
	}
	err = m.store.Update(ctx, rec, func(tx *gorm.DB, rec *T) error {
		after, err := snapshot(rec)
		if err != nil {
			return err
		}
		message := []map[string]interface{}{}
		if changed := m.changedFields(before, after, input); len(changed) > 0 {
			message = append(message, map[string]interface{}{"changed": map[string]interface{}{"fields": changed}})
		}
		return m.site.logAction(tx, user, m.info(), id, m.repr(rec), models.ActionChange, message)
	})
	if err != nil {
		return err
	}
	m.site.countAction(m.info(), models.ActionChange)
	return c.JSON(fiber.Map{
		"id":     id,
		"repr":   m.repr(rec),
		"object": rec,
	})
}

func (m *ModelAdmin[T]) remove(c *fiber.Ctx) error {
	user, err := m.authorize(c, "delete")
	if err != nil {
		return err
	}
	id, err := m.parseID(c)
	if err != nil {
		return err
	}
	ctx := c.UserContext()
	rec, err := m.store.Get(ctx, id)
	if err != nil {
		return err
	}
	repr := m.repr(rec)
	summary, err := m.store.Delete(ctx, id, func(tx *gorm.DB) error {
		return m.site.logAction(tx, user, m.info(), id, repr, models.ActionDeletion, []interface{}{})
	})
	if err != nil {
		return err
	}
	m.site.countAction(m.info(), models.ActionDeletion)
	return c.JSON(fiber.Map{
		"id":      id,
		"repr":    repr,
		"deleted": summary,
	})
}

func (m *ModelAdmin[T]) history(c *fiber.Ctx) error {
	if _, err := m.authorize(c, "view"); err != nil {
		return err
	}
	id, err := m.parseID(c)
	if err != nil {
		return err
	}
	var entries []models.AdminLogEntry
	info := m.info()
	if err := m.site.db.WithContext(c.UserContext()).
		Preload("User").
		Where("content_type = ? AND object_id = ?", info.App+"."+info.Model, id.String()).
		Order("action_time ASC").
		Find(&entries).Error; err != nil {
		return fmt.Errorf("history %s %s: %w", m.opts.Slug, id, err)
	}
	return c.JSON(fiber.Map{"results": entries})
}

// decode applies a JSON object onto rec one field at a time so each bad value
// is reported against its own field. Read-only and unknown fields are ignored.
// It returns the names of the fields that were applied.
func (m *ModelAdmin[T]) decode(body []byte, rec *T) ([]string, error) {
	var input map[string]json.RawMessage
	if err := json.Unmarshal(body, &input); err != nil || input == nil {
		return nil, apperrors.NewValidationError("non_field_errors", "Invalid data. Expected a JSON object.")
	}
	readonly := m.readonly()

	keys := make([]string, 0, len(input))
	for k := range input {
		if _, known := m.fields[k]; known && !contains(readonly, k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	verr := &apperrors.ValidationError{}
	for _, k := range keys {
		f := m.fields[k]
		if bytes.Equal(bytes.TrimSpace(input[k]), []byte("null")) && !nullable(f.Type) {
			// encoding/json leaves the field untouched on null
			reflect.ValueOf(rec).Elem().FieldByIndex(f.Index).SetZero()
			continue
		}
		var single bytes.Buffer
		single.WriteByte('{')
		name, _ := json.Marshal(k)
		single.Write(name)
		single.WriteByte(':')
		single.Write(input[k])
		single.WriteByte('}')
		if err := json.Unmarshal(single.Bytes(), rec); err != nil {
			verr.Errors = append(verr.Errors, apperrors.FieldError{Field: k, Message: decodeMessage(f.Type)})
		}
	}
	if len(verr.Errors) > 0 {
		return nil, verr
	}
	return keys, nil
}

var (
	decimalType = reflect.TypeOf(decimal.Decimal{})
	dateType    = reflect.TypeOf(types.Date{})
	uuidType    = reflect.TypeOf(uuid.UUID{})
)

func decodeMessage(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t {
	case decimalType:
		return "A valid number is required."
	case dateType:
		return "Date has wrong format. Use YYYY-MM-DD."
	case uuidType:
		return "Must be a valid UUID."
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "A valid integer is required."
	case reflect.Bool:
		return "Must be a valid boolean."
	case reflect.String:
		return "Not a valid string."
	case reflect.Slice:
		return "Expected a list of items."
	}
	return "Invalid value."
}

func nullable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Interface:
		return true
	}
	return false
}

// jsonFields maps JSON names of the exported fields of t to the fields.
func jsonFields(t reflect.Type) map[string]reflect.StructField {
	out := make(map[string]reflect.StructField)
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		out[name] = f
	}
	return out
}

func snapshot(rec interface{}) (map[string]json.RawMessage, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	var out map[string]json.RawMessage
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	return out, nil
}

// changedFields lists the edited fields whose stored value changed, plus
// write-only fields that were supplied.
func (m *ModelAdmin[T]) changedFields(before, after map[string]json.RawMessage, input []string) []string {
	var changed []string
	for _, k := range input {
		a, inAfter := after[k]
		if !inAfter {
			changed = append(changed, k)
			continue
		}
		if !bytes.Equal(before[k], a) {
			changed = append(changed, k)
		}
	}
	return changed
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
