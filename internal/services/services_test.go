package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/apperrors"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/session"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"gorm.io/gorm"
)

type fixture struct {
	db    *gorm.DB
	cfg   *config.Config
	m     *metrics.Registry
	cache *session.UserCache
	users *UserService
	auth  *AuthService
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	if err := database.Migrate(db, &models.User{}, &models.Group{}, &models.RefreshToken{}, &models.AdminLogEntry{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  5 * time.Minute,
		JWTRefreshExpiry: time.Hour,
	}
	m := metrics.NewRegistry(prometheus.NewRegistry())
	cache := session.NewUserCache(db, time.Minute, m)
	users := NewUserService(db, cache)
	return &fixture{
		db:    db,
		cfg:   cfg,
		m:     m,
		cache: cache,
		users: users,
		auth:  NewAuthService(db, cfg, users, m),
	}
}

func registerRequest(email string) *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Email:     email,
		Password:  "s3cure-passw0rd",
		FirstName: "Amelia",
		LastName:  "Earhart",
		Role:      string(models.RolePilot),
	}
}

func (f *fixture) register(t *testing.T, email string) *models.User {
	t.Helper()
	u, err := f.users.Register(context.Background(), registerRequest(email))
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return u
}

func TestRegisterHashesPassword(t *testing.T) {
	f := setup(t)
	u := f.register(t, "amelia@Example.com")

	if u.Email != "amelia@example.com" {
		t.Errorf("email = %q", u.Email)
	}
	if u.Password == "" || u.Password == "s3cure-passw0rd" || u.RawPassword != "" {
		t.Errorf("password not hashed: %q", u.Password)
	}
	if !u.IsActive() || u.IsStaff() || u.IsSuperuser() {
		t.Errorf("flags active=%v staff=%v super=%v", u.Active, u.Staff, u.Superuser)
	}
}

func TestRegisterRejects(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.register(t, "amelia@example.com")

	_, err := f.users.Register(ctx, registerRequest("amelia@EXAMPLE.com"))
	if _, ok := apperrors.AsUniqueness(err); !ok {
		t.Errorf("duplicate email: err = %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*dto.RegisterRequest)
		field  string
	}{
		{"bad role", func(r *dto.RegisterRequest) { r.Role = "astronaut" }, "role"},
		{"bad email", func(r *dto.RegisterRequest) { r.Email = "not-an-email" }, "email"},
		{"short password", func(r *dto.RegisterRequest) { r.Password = "short" }, "password"},
		{"missing password", func(r *dto.RegisterRequest) { r.Password = "" }, "password"},
		{"missing first name", func(r *dto.RegisterRequest) { r.FirstName = "" }, "first_name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := registerRequest("new@example.com")
			tt.mutate(req)
			_, err := f.users.Register(ctx, req)
			ve, ok := apperrors.AsValidation(err)
			if !ok || !ve.Has(tt.field) {
				t.Errorf("err = %v, want error on %s", err, tt.field)
			}
		})
	}
}

func TestCreateSuperuser(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	u, created, err := f.users.CreateSuperuser(ctx, "root@example.com", "rootpassword", "Root", "Admin")
	if err != nil || !created {
		t.Fatalf("create: created=%v err=%v", created, err)
	}
	if !u.IsSuperuser() || !u.IsStaff() || !u.IsActive() || u.Role != models.RoleAdmin {
		t.Errorf("flags = %+v", u)
	}

	existing := f.register(t, "pilot@example.com")
	u, created, err = f.users.CreateSuperuser(ctx, "pilot@example.com", "newpassword1", "", "")
	if err != nil || created {
		t.Fatalf("promote: created=%v err=%v", created, err)
	}
	if u.ID != existing.ID || !u.IsSuperuser() || u.FirstName != "Amelia" {
		t.Errorf("promoted = %+v", u)
	}
	if _, err := f.users.Authenticate(ctx, "pilot@example.com", "newpassword1"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	u := f.register(t, "amelia@example.com")

	got, err := f.users.Authenticate(ctx, "amelia@EXAMPLE.COM", "s3cure-passw0rd")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.LastLogin == nil {
		t.Error("last_login not recorded")
	}

	if _, err := f.users.Authenticate(ctx, "amelia@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v", err)
	}
	if _, err := f.users.Authenticate(ctx, "nobody@example.com", "x"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: err = %v", err)
	}

	u.Active = false
	if err := f.users.Users().Update(ctx, u); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := f.users.Authenticate(ctx, "amelia@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("inactive, wrong password: err = %v", err)
	}
	if _, err := f.users.Authenticate(ctx, "amelia@example.com", "s3cure-passw0rd"); !errors.Is(err, ErrInactiveUser) {
		t.Errorf("inactive: err = %v", err)
	}
}

func TestUnusablePasswordNeverMatches(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	u := f.users.Users().New()
	u.Email = "nopass@example.com"
	u.FirstName = "No"
	u.LastName = "Pass"
	u.Role = models.RoleMechanic
	if err := f.users.Users().Create(ctx, u); err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.HasPrefix(u.Password, unusablePrefix) {
		t.Errorf("password = %q", u.Password)
	}
	if _, err := f.users.Authenticate(ctx, u.Email, ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("err = %v", err)
	}
}

func TestGroupMembership(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	g := f.users.Groups().New()
	g.Name = "Mechanics"
	g.Permissions = []string{"engines.change_engine"}
	if err := f.users.Groups().Create(ctx, g); err != nil {
		t.Fatalf("create group: %v", err)
	}

	u := f.register(t, "mech@example.com")
	u.GroupIDs = []uuid.UUID{g.ID}
	if err := f.users.Users().Update(ctx, u); err != nil {
		t.Fatalf("add group: %v", err)
	}
	if len(u.Groups) != 1 || !u.HasPerm("engines.change_engine") || u.HasPerm("engines.delete_engine") {
		t.Errorf("groups = %v", u.Groups)
	}

	u.GroupIDs = []uuid.UUID{uuid.New()}
	err := f.users.Users().Update(ctx, u)
	if ve, ok := apperrors.AsValidation(err); !ok || !ve.Has("group_ids") {
		t.Errorf("unknown group: err = %v", err)
	}

	u, _ = f.users.Users().Get(ctx, u.ID)
	u.GroupIDs = []uuid.UUID{}
	if err := f.users.Users().Update(ctx, u); err != nil {
		t.Fatalf("clear groups: %v", err)
	}
	if len(u.Groups) != 0 {
		t.Errorf("groups after clear = %v", u.Groups)
	}

	dup := f.users.Groups().New()
	dup.Name = "Mechanics"
	if _, ok := apperrors.AsUniqueness(f.users.Groups().Create(ctx, dup)); !ok {
		t.Error("duplicate group name accepted")
	}
}

func TestUserWritesInvalidateCache(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	u := f.register(t, "amelia@example.com")

	cached, err := f.cache.Load(ctx, u.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cached.Staff {
		t.Fatal("unexpected staff flag")
	}

	u.Staff = true
	if err := f.users.Users().Update(ctx, u); err != nil {
		t.Fatalf("update: %v", err)
	}
	cached, err = f.cache.Load(ctx, u.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !cached.Staff {
		t.Error("cache served stale user after update")
	}
	if misses := testutil.ToFloat64(f.m.UserCacheMissesTotal); misses != 2 {
		t.Errorf("cache misses = %v, want 2", misses)
	}
}

func TestUpdateProfile(t *testing.T) {
	f := setup(t)
	u := f.register(t, "amelia@example.com")
	company := "Lockheed"
	first := "Millie"
	got, err := f.users.UpdateProfile(context.Background(), u.ID, &dto.ProfileRequest{FirstName: &first, CompanyName: &company})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.FirstName != "Millie" || got.LastName != "Earhart" || got.CompanyName == nil || *got.CompanyName != company {
		t.Errorf("profile = %+v", got)
	}

	empty := ""
	_, err = f.users.UpdateProfile(context.Background(), u.ID, &dto.ProfileRequest{LastName: &empty})
	if ve, ok := apperrors.AsValidation(err); !ok || !ve.Has("last_name") {
		t.Errorf("blank last name: err = %v", err)
	}
}

func TestDeleteUserRemovesTokens(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	u := f.register(t, "amelia@example.com")
	if _, err := f.auth.IssuePair(ctx, u); err != nil {
		t.Fatalf("issue: %v", err)
	}
	summary, err := f.users.Users().Delete(ctx, u.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if summary["users"] != 1 || summary["refresh_tokens"] != 1 {
		t.Errorf("summary = %v", summary)
	}
}

func TestLoginIssuesTokenPair(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	u := f.register(t, "amelia@example.com")

	pair, err := f.auth.Login(ctx, &dto.TokenRequest{Email: "amelia@example.com", Password: "s3cure-passw0rd"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := f.auth.ParseToken(pair.Access, TokenTypeAccess)
	if err != nil {
		t.Fatalf("parse access: %v", err)
	}
	if claims["user_id"] != u.ID.String() || claims["email"] != u.Email || claims["role"] != "pilot" {
		t.Errorf("claims = %v", claims)
	}
	if _, err := f.auth.ParseToken(pair.Access, TokenTypeRefresh); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("access accepted as refresh: %v", err)
	}

	var stored models.RefreshToken
	if err := f.db.First(&stored, "user_id = ?", u.ID).Error; err != nil {
		t.Fatalf("refresh token not stored: %v", err)
	}
	if len(stored.TokenHash) != 64 || strings.Contains(pair.Refresh, stored.TokenHash) {
		t.Errorf("token hash = %q", stored.TokenHash)
	}

	_, err = f.auth.Login(ctx, &dto.TokenRequest{Email: "amelia@example.com", Password: "nope"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("bad password: err = %v", err)
	}
	if n := testutil.ToFloat64(f.m.AuthFailuresTotal.WithLabelValues("bad_credentials")); n != 1 {
		t.Errorf("auth failures = %v", n)
	}
}

func TestRefresh(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	u := f.register(t, "amelia@example.com")
	pair, err := f.auth.IssuePair(ctx, u)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	resp, err := f.auth.Refresh(ctx, pair.Refresh)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if resp.Access == "" || resp.Refresh != "" {
		t.Errorf("resp = %+v", resp)
	}
	if _, err := f.auth.Refresh(ctx, pair.Refresh); err != nil {
		t.Errorf("refresh token reuse without rotation: %v", err)
	}
	if _, err := f.auth.Refresh(ctx, pair.Access); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("access token as refresh: err = %v", err)
	}
	if _, err := f.auth.Refresh(ctx, "garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage: err = %v", err)
	}

	u.Active = false
	if err := f.users.Users().Update(ctx, u); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := f.auth.Refresh(ctx, pair.Refresh); !errors.Is(err, ErrInactiveUser) {
		t.Errorf("inactive: err = %v", err)
	}
}

func TestRefreshRotation(t *testing.T) {
	f := setup(t)
	f.cfg.JWTRotateRefresh = true
	ctx := context.Background()
	u := f.register(t, "amelia@example.com")
	pair, err := f.auth.IssuePair(ctx, u)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	resp, err := f.auth.Refresh(ctx, pair.Refresh)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if resp.Refresh == "" || resp.Refresh == pair.Refresh {
		t.Fatalf("no rotated refresh token: %+v", resp)
	}
	if _, err := f.auth.Refresh(ctx, pair.Refresh); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("old refresh token still valid: %v", err)
	}
	if _, err := f.auth.Refresh(ctx, resp.Refresh); err != nil {
		t.Errorf("rotated refresh token rejected: %v", err)
	}
}

func TestRefreshRotationConcurrentReuse(t *testing.T) {
	f := setup(t)
	f.cfg.JWTRotateRefresh = true
	ctx := context.Background()
	u := f.register(t, "amelia@example.com")
	pair, err := f.auth.IssuePair(ctx, u)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	const callers = 6
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.auth.Refresh(ctx, pair.Refresh)
		}(i)
	}
	wg.Wait()

	ok := 0
	for i, err := range errs {
		switch {
		case err == nil:
			ok++
		case !errors.Is(err, ErrInvalidToken):
			t.Errorf("caller %d: err = %v", i, err)
		}
	}
	if ok != 1 {
		t.Errorf("successful refreshes = %d, want 1", ok)
	}

	var live int64
	if err := f.db.Model(&models.RefreshToken{}).Where("user_id = ? AND revoked = ?", u.ID, false).Count(&live).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if live != 1 {
		t.Errorf("live refresh tokens = %d, want 1", live)
	}
}

func TestVerifyAndBlacklist(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	u := f.register(t, "amelia@example.com")
	pair, err := f.auth.IssuePair(ctx, u)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if err := f.auth.Verify(ctx, pair.Access); err != nil {
		t.Errorf("verify access: %v", err)
	}
	if err := f.auth.Verify(ctx, pair.Refresh); err != nil {
		t.Errorf("verify refresh: %v", err)
	}
	if err := f.auth.Blacklist(ctx, pair.Access); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("blacklist access token: err = %v", err)
	}
	if err := f.auth.Blacklist(ctx, pair.Refresh); err != nil {
		t.Fatalf("blacklist: %v", err)
	}
	if err := f.auth.Verify(ctx, pair.Refresh); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("verify blacklisted: err = %v", err)
	}
	if err := f.auth.Blacklist(ctx, pair.Refresh); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("blacklist twice: err = %v", err)
	}
	if _, err := f.auth.Refresh(ctx, pair.Refresh); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("refresh blacklisted: err = %v", err)
	}
}

func TestExpiredAndForeignTokens(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	u := f.register(t, "amelia@example.com")

	expired, err := f.auth.sign(u, TokenTypeAccess, -time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if err := f.auth.Verify(ctx, expired); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired: err = %v", err)
	}

	other := NewAuthService(f.db, &config.Config{JWTSecret: "other", JWTAccessExpiry: time.Minute}, f.users, f.m)
	foreign, err := other.sign(u, TokenTypeAccess, time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if err := f.auth.Verify(ctx, foreign); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("wrong key: err = %v", err)
	}
}
