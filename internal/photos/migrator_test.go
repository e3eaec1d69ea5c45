package photos_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/TechTeamScibotix/iqautodeals-sync/internal/photos"
)

func newTestMigrator(t *testing.T, endpoint string) *photos.Migrator {
	t.Helper()
	m, err := photos.NewMigrator(photos.Options{
		Endpoint:        endpoint,
		AccessKeyID:     "test",
		SecretAccessKey: "test",
		Bucket:          "vehicles",
		PublicBaseURL:   "https://cdn.test",
		Workers:         2,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewMigrator: %v", err)
	}
	return m
}

func TestMigrate_NilMigratorPassesThrough(t *testing.T) {
	var m *photos.Migrator
	src := []string{"http://img/1.jpg", "http://img/2.jpg"}

	got := m.Migrate(context.Background(), "d1-VIN", src)
	if len(got) != 2 || got[0] != src[0] || got[1] != src[1] {
		t.Errorf("nil migrator should return input unchanged, got %v", got)
	}
}

func TestMigrate_EmptyInput(t *testing.T) {
	m := newTestMigrator(t, "127.0.0.1:1")

	if got := m.Migrate(context.Background(), "d1-VIN", nil); len(got) != 0 {
		t.Errorf("empty input should yield empty output, got %v", got)
	}
}

func TestMigrate_UnreachableStorageFallsBackInOrder(t *testing.T) {
	// Source images are servable; the storage endpoint is not. Every photo
	// must fall back to its original URL, order intact, with no error.
	imgSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("jpegbytes"))
	}))
	defer imgSrv.Close()

	m := newTestMigrator(t, "127.0.0.1:1") // nothing listens here

	src := []string{imgSrv.URL + "/a.jpg", imgSrv.URL + "/b.jpg", imgSrv.URL + "/c.jpg"}
	got := m.Migrate(context.Background(), "d1-VIN", src)

	if len(got) != 3 {
		t.Fatalf("got %d URLs, want 3", len(got))
	}
	for i := range src {
		if got[i] != src[i] {
			t.Errorf("position %d = %q, want fallback %q", i, got[i], src[i])
		}
	}
}

func TestMigrate_UnfetchableSourceFallsBack(t *testing.T) {
	m := newTestMigrator(t, "127.0.0.1:1")

	src := []string{"http://127.0.0.1:1/nope.jpg"}
	got := m.Migrate(context.Background(), "d1-VIN", src)
	if len(got) != 1 || got[0] != src[0] {
		t.Errorf("unfetchable source should fall back, got %v", got)
	}
}
