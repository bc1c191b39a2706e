package user

import (
	"context"
	"testing"
	"time"

	"lashstudio/database/repository"
	"lashstudio/models"
	"lashstudio/services/access"
	"lashstudio/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type memUsers struct {
	users   map[string]*models.User
	lookups int
}

func (m *memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	m.lookups++
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) List(_ context.Context, role models.Role) ([]models.User, error) {
	out := []models.User{}
	for _, u := range m.users {
		if role == "" || u.Role == role {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *memUsers) Create(_ context.Context, u *models.User) error {
	if _, ok := m.users[u.ID]; ok {
		return repository.ErrDuplicate
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUsers) UpdateFields(_ context.Context, id string, fields bson.M) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "role":
			u.Role = v.(models.Role)
		case "isActive":
			u.IsActive = v.(bool)
		case "profile":
			u.Profile = v.(models.UserProfile)
		case "preferences":
			u.Preferences = v.(models.UserPreferences)
		case "fcmToken":
			u.FCMToken = v.(string)
		}
	}
	cp := *u
	return &cp, nil
}

type memCache struct {
	entries     map[string]access.Principal
	invalidated []string
}

func (m *memCache) Get(_ context.Context, uid string) (*access.Principal, error) {
	p, ok := m.entries[uid]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *memCache) Set(_ context.Context, p access.Principal) error {
	m.entries[p.UserID] = p
	return nil
}

func (m *memCache) Invalidate(_ context.Context, uid string) error {
	delete(m.entries, uid)
	m.invalidated = append(m.invalidated, uid)
	return nil
}

type fakeIdentity struct {
	taken map[string]bool
	roles map[string]string
}

func (f *fakeIdentity) CreateAccount(_ context.Context, email, _, _ string) (string, error) {
	if f.taken[email] {
		return "", ErrEmailTaken
	}
	f.taken[email] = true
	return "uid-" + email, nil
}

func (f *fakeIdentity) SetRoleClaim(_ context.Context, uid, role string) error {
	f.roles[uid] = role
	return nil
}

var (
	adminP  = access.Principal{UserID: "admin", Role: models.RoleAdmin}
	clientP = access.Principal{UserID: "c1", Role: models.RoleClient}
)

func newService() (*DefaultUserService, *memUsers, *memCache, *fakeIdentity) {
	repo := &memUsers{users: map[string]*models.User{
		"admin": {ID: "admin", Email: "admin@example.com", Role: models.RoleAdmin, IsActive: true},
		"c1":    {ID: "c1", Email: "c1@example.com", Role: models.RoleClient, IsActive: true},
		"c2":    {ID: "c2", Email: "c2@example.com", Role: models.RoleClient, IsActive: true},
		"gone":  {ID: "gone", Email: "gone@example.com", Role: models.RoleClient},
	}}
	cache := &memCache{entries: map[string]access.Principal{}}
	ids := &fakeIdentity{taken: map[string]bool{"c1@example.com": true}, roles: map[string]string{}}
	svc := &DefaultUserService{
		Repo:       repo,
		Identities: ids,
		Cache:      cache,
		Logger:     zap.NewNop(),
		Now:        func() time.Time { return time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC) },
	}
	return svc, repo, cache, ids
}

func TestRegisterCreatesClientWithDefaults(t *testing.T) {
	svc, _, _, _ := newService()
	u, err := svc.Register(context.Background(), Identity{UID: "new", Email: "New@Example.com"}, RegisterInput{
		Profile: models.UserProfile{FirstName: "Ana", LastName: "Lee"},
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Role != models.RoleClient || !u.IsActive || u.Email != "new@example.com" {
		t.Fatalf("unexpected user %+v", u)
	}
	hours := u.Preferences.ReminderSettings.HoursBefore
	if u.Preferences.NotificationMethod != models.ChannelEmail || len(hours) != 2 || hours[0] != 24 || hours[1] != 2 {
		t.Fatalf("default preferences = %+v", u.Preferences)
	}

	_, err = svc.Register(context.Background(), Identity{UID: "new", Email: "new@example.com"}, RegisterInput{})
	if utils.CodeOf(err) != CodeUserExists {
		t.Fatalf("want %s, got %v", CodeUserExists, err)
	}
}

func TestRegisterRejectsBadPreferences(t *testing.T) {
	tests := []struct {
		name  string
		prefs models.UserPreferences
	}{
		{"unknown method", models.UserPreferences{NotificationMethod: "pigeon"}},
		{"lead time too long", models.UserPreferences{
			NotificationMethod: models.ChannelEmail,
			ReminderSettings:   models.ReminderSettings{Email: true, HoursBefore: []int{24, 3000000}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _, _ := newService()
			prefs := tt.prefs
			_, err := svc.Register(context.Background(), Identity{UID: "x", Email: "x@example.com"}, RegisterInput{
				Preferences: &prefs,
			})
			if utils.KindOf(err) != utils.KindValidation {
				t.Fatalf("want validation error, got %v", err)
			}
			if _, ok := repo.users["x"]; ok {
				t.Fatalf("user stored despite invalid preferences")
			}
		})
	}
}

func TestAdminCreate(t *testing.T) {
	svc, repo, _, ids := newService()
	ctx := context.Background()

	u, err := svc.Create(ctx, adminP, CreateInput{Email: "tech@example.com", Password: "s3cret-pass", Role: models.RoleTechnician})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.ID != "uid-tech@example.com" || repo.users[u.ID].Role != models.RoleTechnician || ids.roles[u.ID] != "technician" {
		t.Fatalf("unexpected user %+v", u)
	}

	_, err = svc.Create(ctx, adminP, CreateInput{Email: "c1@example.com", Password: "s3cret-pass", Role: models.RoleClient})
	if utils.KindOf(err) != utils.KindConflict {
		t.Fatalf("want conflict, got %v", err)
	}
	_, err = svc.Create(ctx, clientP, CreateInput{Email: "z@example.com", Password: "s3cret-pass", Role: models.RoleAdmin})
	if utils.KindOf(err) != utils.KindForbidden {
		t.Fatalf("want forbidden, got %v", err)
	}
}

func TestUpdateFieldAllowList(t *testing.T) {
	promote := models.RoleAdmin
	inactive := false
	name := models.UserProfile{FirstName: "Cleo"}

	cases := []struct {
		name string
		p    access.Principal
		id   string
		in   UpdateInput
		kind utils.ErrorKind
		ok   bool
	}{
		{"client edits own profile", clientP, "c1", UpdateInput{Profile: &name}, 0, true},
		{"client edits other profile", clientP, "c2", UpdateInput{Profile: &name}, utils.KindForbidden, false},
		{"client promotes self", clientP, "c1", UpdateInput{Role: &promote}, utils.KindForbidden, false},
		{"admin deactivates client", adminP, "c2", UpdateInput{IsActive: &inactive}, 0, true},
		{"admin demotes self", adminP, "admin", UpdateInput{IsActive: &inactive}, utils.KindValidation, false},
		{"empty update", clientP, "c1", UpdateInput{}, utils.KindValidation, false},
		{"unknown user", adminP, "ghost", UpdateInput{Profile: &name}, utils.KindNotFound, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, repo, cache, _ := newService()
			before := models.User{}
			if u, ok := repo.users[tc.id]; ok {
				before = *u
			}
			_, err := svc.Update(context.Background(), tc.p, tc.id, tc.in)
			if !tc.ok {
				if utils.KindOf(err) != tc.kind {
					t.Fatalf("got %v, want kind %d", err, tc.kind)
				}
				if u, ok := repo.users[tc.id]; ok && (u.Role != before.Role || u.IsActive != before.IsActive || u.Profile != before.Profile) {
					t.Fatalf("rejected update changed the user")
				}
				return
			}
			if err != nil {
				t.Fatalf("Update: %v", err)
			}
			if tc.in.IsActive != nil && (len(cache.invalidated) != 1 || cache.invalidated[0] != tc.id) {
				t.Fatalf("cached principal not dropped: %v", cache.invalidated)
			}
		})
	}
}

func TestResolvePrincipal(t *testing.T) {
	svc, repo, cache, _ := newService()
	ctx := context.Background()

	p, err := svc.ResolvePrincipal(ctx, "c1")
	if err != nil || p.Role != models.RoleClient {
		t.Fatalf("ResolvePrincipal = %+v, %v", p, err)
	}
	if _, ok := cache.entries["c1"]; !ok {
		t.Fatalf("principal was not cached")
	}
	lookups := repo.lookups
	if _, err := svc.ResolvePrincipal(ctx, "c1"); err != nil || repo.lookups != lookups {
		t.Fatalf("cached principal should skip the store")
	}

	if _, err := svc.ResolvePrincipal(ctx, "gone"); utils.CodeOf(err) != CodeAccountInactive {
		t.Fatalf("want %s, got %v", CodeAccountInactive, err)
	}
	if _, err := svc.ResolvePrincipal(ctx, "nobody"); utils.KindOf(err) != utils.KindUnauthenticated {
		t.Fatalf("want unauthenticated, got %v", err)
	}
}
