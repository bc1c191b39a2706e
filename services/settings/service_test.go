package settings

import (
	"context"
	"testing"
	"time"

	"lashstudio/database/repository"
	"lashstudio/models"
	"lashstudio/services/access"
	"lashstudio/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type memRepo struct {
	doc   models.SiteSettings
	reads int
}

func (m *memRepo) Get(context.Context) (models.SiteSettings, error) {
	m.reads++
	if m.doc == nil {
		return nil, repository.ErrNotFound
	}
	return m.doc, nil
}

func (m *memRepo) Merge(_ context.Context, fields map[string]interface{}, by string, at time.Time) (models.SiteSettings, error) {
	if m.doc == nil {
		m.doc = models.SiteSettings{"id": models.SiteSettingsID}
	}
	for k, v := range fields {
		m.doc[k] = v
	}
	m.doc["updatedBy"] = by
	m.doc["updatedAt"] = at
	return m.doc, nil
}

type memCache struct {
	doc         models.SiteSettings
	invalidated int
}

func (c *memCache) Get(context.Context) (models.SiteSettings, error) { return c.doc, nil }

func (c *memCache) Set(_ context.Context, s models.SiteSettings) error {
	c.doc = s
	return nil
}

func (c *memCache) Invalidate(context.Context) error {
	c.doc = nil
	c.invalidated++
	return nil
}

func storedSettings() models.SiteSettings {
	return models.SiteSettings{
		"id":    "main",
		"brand": primitive.M{"name": "Lash Studio"},
		"integrations": primitive.M{
			"stripe":   primitive.M{"publishableKey": "pk_live_1", "secretKey": "sk_live_1"},
			"email":    primitive.M{"apiKey": "SG.secret"},
			"sms":      primitive.D{{Key: "authToken", Value: "tw-secret"}},
			"calendly": "x",
		},
		"updatedBy": "admin",
	}
}

func TestSanitizeKeepsOnlyPublishableKey(t *testing.T) {
	out := Sanitize(storedSettings())
	integrations, ok := out["integrations"].(map[string]interface{})
	if !ok || len(integrations) != 1 {
		t.Fatalf("integrations = %#v", out["integrations"])
	}
	stripe := integrations["stripe"].(map[string]interface{})
	if len(stripe) != 1 || stripe["publishableKey"] != "pk_live_1" {
		t.Fatalf("stripe = %#v", stripe)
	}
	if _, ok := out["updatedBy"]; ok {
		t.Fatalf("updatedBy leaked")
	}
	if out["brand"] == nil {
		t.Fatalf("brand dropped")
	}
}

func TestSanitizeWithoutStripe(t *testing.T) {
	out := Sanitize(models.SiteSettings{"integrations": map[string]interface{}{"email": map[string]interface{}{"apiKey": "k"}}})
	if _, ok := out["integrations"]; ok {
		t.Fatalf("integrations should be removed, got %#v", out["integrations"])
	}
}

func TestPublicReadThroughCache(t *testing.T) {
	repo := &memRepo{doc: storedSettings()}
	cache := &memCache{}
	svc := &DefaultSettingsService{Repo: repo, Cache: cache, Logger: zap.NewNop()}
	ctx := context.Background()

	if _, err := svc.Public(ctx); err != nil {
		t.Fatalf("Public: %v", err)
	}
	if _, err := svc.Public(ctx); err != nil {
		t.Fatalf("Public: %v", err)
	}
	if repo.reads != 1 {
		t.Fatalf("store reads = %d, want 1", repo.reads)
	}

	admin := access.Principal{UserID: "a1", Role: models.RoleAdmin}
	if _, err := svc.Update(ctx, admin, map[string]interface{}{"hero": map[string]interface{}{"title": "New"}}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if cache.invalidated != 1 {
		t.Fatalf("cache not invalidated")
	}
	got, err := svc.Public(ctx)
	if err != nil || got["hero"] == nil || repo.reads != 2 {
		t.Fatalf("after update = %#v, %v, reads %d", got, err, repo.reads)
	}
}

func TestPublicWithoutDocument(t *testing.T) {
	svc := &DefaultSettingsService{Repo: &memRepo{}, Logger: zap.NewNop()}
	got, err := svc.Public(context.Background())
	if err != nil || len(got) != 0 {
		t.Fatalf("Public = %#v, %v", got, err)
	}
}

func TestUpdateRequiresAdmin(t *testing.T) {
	svc := &DefaultSettingsService{Repo: &memRepo{}, Logger: zap.NewNop()}
	tech := access.Principal{UserID: "t1", Role: models.RoleTechnician}
	_, err := svc.Update(context.Background(), tech, map[string]interface{}{"hero": "x"})
	if utils.KindOf(err) != utils.KindForbidden {
		t.Fatalf("want forbidden, got %v", err)
	}
	admin := access.Principal{UserID: "a1", Role: models.RoleAdmin}
	if _, err := svc.Update(context.Background(), admin, map[string]interface{}{"id": "other"}); utils.KindOf(err) != utils.KindValidation {
		t.Fatalf("want validation, got %v", err)
	}
}
