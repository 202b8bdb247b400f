package profile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oriys/quasar/internal/engine"
	"github.com/oriys/quasar/internal/ssl"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	s, err := NewStore(path, ssl.NewRegistry())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func TestStoreMissingFile(t *testing.T) {
	s := newTestStore(t)
	if got := len(s.List()); got != 0 {
		t.Errorf("new store has %d profiles, want 0", got)
	}
}

func TestStoreSaveGetDelete(t *testing.T) {
	s := newTestStore(t)
	p := New("prod", engine.DatabaseTypePostgres, "db.example.com")
	p.Port = 5432

	if err := s.Save(p); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got := s.Get(p.ID)
	if got == nil || got.Name != "prod" {
		t.Fatalf("Get = %+v, want saved profile", got)
	}
	if len(s.List()) != 1 {
		t.Errorf("List() has %d entries, want 1", len(s.List()))
	}

	if err := s.Delete(p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if s.Get(p.ID) != nil {
		t.Error("profile still present after Delete")
	}
	if err := s.Delete("no-such-id"); err != nil {
		t.Errorf("Delete(unknown) = %v, want nil", err)
	}
}

func TestStoreSaveValidation(t *testing.T) {
	s := newTestStore(t)

	if err := s.Save(&Profile{ID: "x", Type: engine.DatabaseTypePostgres, Hostname: "h"}); err == nil {
		t.Error("Save accepted a profile without a name")
	}

	p := New("bad ssl", engine.DatabaseTypePostgres, "db.example.com")
	p.Advanced = []engine.Record{{Key: ssl.KeySSLMode, Value: "enabled"}}
	if err := s.Save(p); err == nil {
		t.Error("Save accepted an SSL mode PostgreSQL does not support")
	}

	p.Advanced = []engine.Record{{Key: ssl.KeySSLMode, Value: "require"}}
	if err := s.Save(p); err != nil {
		t.Errorf("Save rejected a native alias: %v", err)
	}
}

func TestStorePersistence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "profiles.yaml")

	s, err := NewStore(path, ssl.NewRegistry())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	p := New("prod", engine.DatabaseTypeMySQL, "db.example.com")
	p.Password = "secret"
	p.Advanced = []engine.Record{{Key: ssl.KeySSLMode, Value: "VERIFY_CA"}}
	if err := s.Save(p); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded, err := NewStore(path, ssl.NewRegistry())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	got := reloaded.Get(p.ID)
	if got == nil {
		t.Fatal("profile lost across reload")
	}
	if got.Password != "secret" {
		t.Error("password not persisted to the store file")
	}
	if engine.RecordValueOrDefault(got.Advanced, ssl.KeySSLMode, "") != "VERIFY_CA" {
		t.Error("advanced options not persisted")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat store file: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("store file mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	if err := os.WriteFile(path, []byte("{not yaml"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewStore(path, nil); err == nil || !strings.Contains(err.Error(), "parse profiles file") {
		t.Errorf("NewStore on corrupt file = %v, want parse error", err)
	}
}

func TestStoreNilRegistryUsesDefault(t *testing.T) {
	s, err := NewStore("", nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if s.Registry() != ssl.DefaultRegistry() {
		t.Error("nil registry did not fall back to the default")
	}
}
