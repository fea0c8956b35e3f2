package admin

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/apperrors"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/session"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 100
	maxPageSize     = 1000
)

var reservedSlugs = map[string]bool{"log": true}

// entry is the type-erased view of a registered ModelAdmin.
type entry interface {
	info() ModelInfo
	list(c *fiber.Ctx) error
	meta(c *fiber.Ctx) error
	detail(c *fiber.Ctx) error
	create(c *fiber.Ctx) error
	update(c *fiber.Ctx) error
	remove(c *fiber.Ctx) error
	history(c *fiber.Ctx) error
}

// ModelInfo describes a registered model on the site index.
type ModelInfo struct {
	App               string `json:"app"`
	Model             string `json:"model"`
	Slug              string `json:"slug"`
	VerboseName       string `json:"verbose_name"`
	VerboseNamePlural string `json:"verbose_name_plural"`
}

// Permissions lists what the current user may do with a model.
type Permissions struct {
	View   bool `json:"view"`
	Add    bool `json:"add"`
	Change bool `json:"change"`
	Delete bool `json:"delete"`
}

// Site is the registry of model admins.
type Site struct {
	db       *gorm.DB
	metrics  *metrics.Registry
	pageSize int

	mu      sync.RWMutex
	entries map[string]entry
}

func NewSite(db *gorm.DB, m *metrics.Registry, pageSize int) *Site {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Site{
		db:       db,
		metrics:  m,
		pageSize: pageSize,
		entries:  make(map[string]entry),
	}
}

// Register adds a model admin for T. It panics when the slug is taken, since
// that is a wiring mistake.
func Register[T any](s *Site, st Store[T], opts Options[T]) *ModelAdmin[T] {
	if opts.Slug == "" {
		opts.Slug = opts.Model
	}
	if opts.VerboseName == "" {
		opts.VerboseName = opts.Model
	}
	if opts.VerboseNamePlural == "" {
		opts.VerboseNamePlural = opts.VerboseName + "s"
	}
	if opts.PageSize <= 0 {
		opts.PageSize = s.pageSize
	}
	if opts.AddFieldsets == nil {
		opts.AddFieldsets = opts.Fieldsets
	}

	m := &ModelAdmin[T]{
		site:   s,
		store:  st,
		opts:   opts,
		fields: jsonFields(reflect.TypeOf(new(T)).Elem()),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if reservedSlugs[opts.Slug] {
		panic(fmt.Sprintf("admin: slug %q is reserved", opts.Slug))
	}
	if _, ok := s.entries[opts.Slug]; ok {
		panic(fmt.Sprintf("admin: %q is already registered", opts.Slug))
	}
	s.entries[opts.Slug] = m
	return m
}

func (s *Site) lookup(slug string) (entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[slug]
	return e, ok
}

func (s *Site) sortedEntries() []entry {
	s.mu.RLock()
	out := make([]entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].info(), out[j].info()
		if a.App != b.App {
			return a.App < b.App
		}
		return a.VerboseNamePlural < b.VerboseNamePlural
	})
	return out
}

// Mount registers the site endpoints on router. The router must already
// authenticate the request and load the current user.
func (s *Site) Mount(router fiber.Router) {
	router.Get("/", s.index)
	router.Get("/log", s.recentActions)
	router.Get("/:slug", s.dispatch(entry.list))
	router.Get("/:slug/_meta", s.dispatch(entry.meta))
	router.Post("/:slug", s.dispatch(entry.create))
	router.Get("/:slug/:id/history", s.dispatch(entry.history))
	router.Get("/:slug/:id", s.dispatch(entry.detail))
	router.Put("/:slug/:id", s.dispatch(entry.update))
	router.Delete("/:slug/:id", s.dispatch(entry.remove))
}

func (s *Site) dispatch(h func(entry, *fiber.Ctx) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		e, ok := s.lookup(c.Params("slug"))
		if !ok {
			return fmt.Errorf("admin model %q: %w", c.Params("slug"), apperrors.ErrNotFound)
		}
		return h(e, c)
	}
}

type indexApp struct {
	App    string       `json:"app"`
	Models []indexModel `json:"models"`
}

type indexModel struct {
	ModelInfo
	Perms Permissions `json:"perms"`
}

func (s *Site) index(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	apps := []indexApp{}
	for _, e := range s.sortedEntries() {
		info := e.info()
		perms := permissionsFor(user, info)
		if !perms.View && !perms.Change {
			continue
		}
		if len(apps) == 0 || apps[len(apps)-1].App != info.App {
			apps = append(apps, indexApp{App: info.App})
		}
		last := &apps[len(apps)-1]
		last.Models = append(last.Models, indexModel{ModelInfo: info, Perms: perms})
	}
	return c.JSON(fiber.Map{"apps": apps})
}

// recentActions lists the current user's latest admin writes.
func (s *Site) recentActions(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	limit, err := intParam(c, "limit", 10)
	if err != nil {
		return err
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	var entries []models.AdminLogEntry
	if err := s.db.WithContext(c.UserContext()).
		Where("user_id = ?", user.ID).
		Order("action_time DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return fmt.Errorf("recent admin actions: %w", err)
	}
	return c.JSON(fiber.Map{"results": entries})
}

const maxReprRunes = 200

// logAction writes the log entry through tx, the transaction that stores the
// change itself.
func (s *Site) logAction(tx *gorm.DB, user *models.User, info ModelInfo, objectID uuid.UUID, repr string, action models.AdminAction, message interface{}) error {
	raw, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("encode change message: %w", err)
	}
	entry := models.AdminLogEntry{
		ActionTime:    time.Now(),
		UserID:        user.ID,
		ContentType:   info.App + "." + info.Model,
		ObjectID:      objectID.String(),
		ObjectRepr:    truncateRunes(repr, maxReprRunes),
		Action:        action,
		ChangeMessage: datatypes.JSON(raw),
	}
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("write admin log: %w", err)
	}
	return nil
}

// countAction records a committed admin action.
func (s *Site) countAction(info ModelInfo, action models.AdminAction) {
	s.metrics.AdminActionsTotal.WithLabelValues(info.Slug, action.String()).Inc()
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func currentUser(c *fiber.Ctx) (*models.User, error) {
	user, ok := session.CurrentUser(c)
	if !ok {
		return nil, fmt.Errorf("no authenticated user: %w", apperrors.ErrPermissionDenied)
	}
	return user, nil
}

// Codename returns the permission codename for action on a model.
func Codename(info ModelInfo, action string) string {
	return info.App + "." + action + "_" + info.Model
}

func permissionsFor(user *models.User, info ModelInfo) Permissions {
	if !user.IsActive() || !user.IsStaff() {
		return Permissions{}
	}
	return Permissions{
		View:   user.HasPerm(Codename(info, "view")),
		Add:    user.HasPerm(Codename(info, "add")),
		Change: user.HasPerm(Codename(info, "change")),
		Delete: user.HasPerm(Codename(info, "delete")),
	}
}

func intParam(c *fiber.Ctx, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperrors.NewValidationError(name, "Enter a whole number.")
	}
	return n, nil
}
