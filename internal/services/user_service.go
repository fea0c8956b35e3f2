package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/apperrors"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/session"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/store"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("no active account found with the given credentials")
	ErrInactiveUser       = errors.New("user is inactive")
)

// unusablePrefix marks a password hash that never matches, as for accounts
// created without a password.
const unusablePrefix = "!"

var EmailKey = store.Unique[models.User]{
	Name:    "idx_users_email",
	Fields:  []string{"email"},
	Columns: []string{"email"},
	Values:  func(u *models.User) []interface{} { return []interface{}{u.Email} },
}

var GroupNameKey = store.Unique[models.Group]{
	Name:    "idx_groups_name",
	Fields:  []string{"name"},
	Columns: []string{"name"},
	Values:  func(g *models.Group) []interface{} { return []interface{}{g.Name} },
}

// UserService manages accounts and groups. Writes drop the affected users
// from the session cache once committed.
type UserService struct {
	db     *gorm.DB
	users  *store.Repository[models.User]
	groups *store.Repository[models.Group]
	cache  *session.UserCache
}

func NewUserService(db *gorm.DB, cache *session.UserCache) *UserService {
	s := &UserService{db: db, cache: cache}

	s.users = store.New(db, store.Options[models.User]{
		Table:       "users",
		Uniques:     []store.Unique[models.User]{EmailKey},
		Preload:     []string{"Groups"},
		BeforeWrite: s.hashPassword,
		AfterWrite:  s.replaceGroups,
		AfterCommit: func(id uuid.UUID) {
			if s.cache != nil {
				s.cache.Invalidate(id)
			}
		},
	})
	s.groups = store.New(db, store.Options[models.Group]{
		Table:   "groups",
		Uniques: []store.Unique[models.Group]{GroupNameKey},
		AfterCommit: func(uuid.UUID) {
			if s.cache != nil {
				s.cache.Flush()
			}
		},
	})

	s.users.AddDependent(store.Dependent{Table: "user_groups", Column: "user_id", OnDelete: store.Cascade})
	s.users.AddDependent(store.Dependent{Table: "refresh_tokens", Column: "user_id", OnDelete: store.Cascade})
	s.users.AddDependent(store.Dependent{Table: "admin_log_entries", Column: "user_id", OnDelete: store.Cascade})
	s.groups.AddDependent(store.Dependent{Table: "user_groups", Column: "group_id", OnDelete: store.Cascade})
	return s
}

func (s *UserService) Users() *store.Repository[models.User]   { return s.users }
func (s *UserService) Groups() *store.Repository[models.Group] { return s.groups }

// hashPassword replaces a supplied plain-text password with its bcrypt hash.
// New accounts without one get an unusable password.
func (s *UserService) hashPassword(ctx context.Context, u *models.User) error {
	if u.RawPassword == "" {
		if u.Password == "" {
			u.Password = unusablePassword()
		}
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(u.RawPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	u.Password = string(hash)
	u.RawPassword = ""
	return nil
}

func unusablePassword() string {
	b := make([]byte, 20)
	_, _ = rand.Read(b)
	return unusablePrefix + hex.EncodeToString(b)
}

func (s *UserService) replaceGroups(tx *gorm.DB, u *models.User) error {
	if u.GroupIDs == nil {
		return nil
	}
	var groups []models.Group
	if len(u.GroupIDs) > 0 {
		if err := tx.Where("id IN ?", u.GroupIDs).Find(&groups).Error; err != nil {
			return fmt.Errorf("load groups: %w", err)
		}
	}
	if len(groups) != len(uniqueIDs(u.GroupIDs)) {
		return apperrors.NewValidationError("group_ids", "Select a valid choice. That choice is not one of the available choices.")
	}
	assoc := tx.Model(u).Association("Groups")
	var err error
	if len(groups) == 0 {
		err = assoc.Clear()
	} else {
		err = assoc.Replace(groups)
	}
	if err != nil {
		return fmt.Errorf("replace groups: %w", err)
	}
	u.GroupIDs = nil
	return nil
}

func uniqueIDs(ids []uuid.UUID) map[uuid.UUID]bool {
	out := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out
}

// Register creates an account. A password is required.
func (s *UserService) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	if req.Password == "" {
		return nil, apperrors.NewValidationError("password", "This field is required.")
	}
	u := s.users.New()
	u.Email = req.Email
	u.RawPassword = req.Password
	u.FirstName = req.FirstName
	u.LastName = req.LastName
	u.Username = req.Username
	u.CompanyName = req.CompanyName
	u.Role = models.UserRole(req.Role)

	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateProfile applies the provided profile fields to the user.
func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, req *dto.ProfileRequest) (*models.User, error) {
	u, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		u.LastName = *req.LastName
	}
	if req.Username != nil {
		u.Username = req.Username
	}
	if req.CompanyName != nil {
		u.CompanyName = req.CompanyName
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// CreateSuperuser creates an active superuser, or promotes the existing
// account with that email. created reports which happened.
func (s *UserService) CreateSuperuser(ctx context.Context, email, password, firstName, lastName string) (u *models.User, created bool, err error) {
	u, err = s.findByEmail(ctx, email)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		u = s.users.New()
		u.Email = email
		u.FirstName = firstName
		u.LastName = lastName
		u.Role = models.RoleAdmin
		created = true
	case err != nil:
		return nil, false, err
	}

	u.Active = true
	u.Staff = true
	u.Superuser = true
	u.RawPassword = password

	if created {
		err = s.users.Create(ctx, u)
	} else {
		err = s.users.Update(ctx, u)
	}
	if err != nil {
		return nil, false, err
	}
	return u, created, nil
}

// Authenticate checks credentials and records the login time.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.findByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive() {
		return nil, ErrInactiveUser
	}

	now := time.Now()
	if err := s.db.WithContext(ctx).Model(u).UpdateColumn("last_login", now).Error; err != nil {
		return nil, fmt.Errorf("record login: %w", err)
	}
	u.LastLogin = &now
	if s.cache != nil {
		s.cache.Invalidate(u.ID)
	}
	return u, nil
}

func (s *UserService) findByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.users.Query(ctx).Where("email = ?", models.NormalizeEmail(email)).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", email, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

// ToResponse maps a user onto the public profile shape.
func ToResponse(u *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		CompanyName: u.CompanyName,
		Role:        string(u.Role),
		IsStaff:     u.Staff,
		IsSuperuser: u.Superuser,
		LastLogin:   u.LastLogin,
		DateJoined:  u.DateJoined,
	}
}
