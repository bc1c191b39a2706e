package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"lashstudio/models"
	"lashstudio/services/access"
	"lashstudio/utils"

	"go.uber.org/zap"
)

type fakeStore struct {
	uploads []UploadRequest
	deleted []string
	err     error
}

func (f *fakeStore) Upload(_ context.Context, file io.Reader, req UploadRequest) (*StoredAsset, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, _ := io.ReadAll(file)
	f.uploads = append(f.uploads, req)
	return &StoredAsset{PublicID: req.Folder + "/abc123", URL: "https://cdn.example.com/abc123.jpg", Bytes: int64(len(data))}, nil
}

func (f *fakeStore) Delete(_ context.Context, publicID string) error {
	f.deleted = append(f.deleted, publicID)
	return nil
}

type memMedia struct {
	items []models.MediaItem
	err   error
}

func (m *memMedia) Create(_ context.Context, item *models.MediaItem) error {
	if m.err != nil {
		return m.err
	}
	m.items = append(m.items, *item)
	return nil
}

func (m *memMedia) List(context.Context, string) ([]models.MediaItem, error) { return m.items, nil }

var admin = access.Principal{UserID: "a1", Role: models.RoleAdmin}

func file(body, mime string) FileInput {
	return FileInput{Body: strings.NewReader(body), Filename: "lashes.jpg", Size: int64(len(body)), MimeType: mime, UsageContext: "gallery"}
}

func TestUploadRecordsMediaItem(t *testing.T) {
	store := &fakeStore{}
	repo := &memMedia{}
	svc := &DefaultMediaService{Store: store, Repo: repo, Folder: "lashstudio/media", Logger: zap.NewNop()}

	item, err := svc.Upload(context.Background(), admin, file("jpegdata", "image/jpeg"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if store.uploads[0].Folder != "lashstudio/media/gallery" {
		t.Fatalf("folder = %s", store.uploads[0].Folder)
	}
	if item.PublicID != "lashstudio/media/gallery/abc123" || item.Filename != "abc123" || item.FileSize != 8 || len(repo.items) != 1 {
		t.Fatalf("unexpected item %+v", item)
	}
}

func TestUploadRejections(t *testing.T) {
	client := access.Principal{UserID: "c1", Role: models.RoleClient}
	cases := []struct {
		name string
		p    access.Principal
		in   FileInput
		kind utils.ErrorKind
	}{
		{"client", client, file("x", "image/png"), utils.KindForbidden},
		{"empty", admin, file("", "image/png"), utils.KindValidation},
		{"pdf", admin, file("x", "application/pdf"), utils.KindValidation},
		{"too large", admin, FileInput{Body: strings.NewReader("x"), Size: MaxUploadBytes + 1, MimeType: "image/png"}, utils.KindValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeStore{}
			svc := &DefaultMediaService{Store: store, Repo: &memMedia{}, Logger: zap.NewNop()}
			if _, err := svc.Upload(context.Background(), tc.p, tc.in); utils.KindOf(err) != tc.kind {
				t.Fatalf("got %v, want kind %d", err, tc.kind)
			}
			if len(store.uploads) != 0 {
				t.Fatalf("rejected file was uploaded")
			}
		})
	}
}

func TestUploadFailures(t *testing.T) {
	svc := &DefaultMediaService{Store: &fakeStore{err: errors.New("timeout")}, Repo: &memMedia{}, Logger: zap.NewNop()}
	if _, err := svc.Upload(context.Background(), admin, file("x", "image/png")); utils.KindOf(err) != utils.KindUpstream {
		t.Fatalf("want upstream, got %v", err)
	}

	store := &fakeStore{}
	svc = &DefaultMediaService{Store: store, Repo: &memMedia{err: errors.New("db down")}, Logger: zap.NewNop()}
	if _, err := svc.Upload(context.Background(), admin, file("x", "image/png")); utils.KindOf(err) != utils.KindInternal {
		t.Fatalf("want internal, got %v", err)
	}
	if len(store.deleted) != 1 {
		t.Fatalf("uploaded asset was not removed after the record failed")
	}
}
