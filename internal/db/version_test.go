package db_test

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/3GHCRE/atlas-sub000/internal/db"
	"github.com/3GHCRE/atlas-sub000/internal/db/migrations"
)

func TestSchemaVersion(t *testing.T) {
	if got := db.SchemaVersion(); got < 1 {
		t.Fatalf("SchemaVersion() = %d, want at least 1", got)
	}
}

func TestMigrations_HaveUpAndDown(t *testing.T) {
	err := fs.WalkDir(migrations.FS, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}

		data, err := fs.ReadFile(migrations.FS, path)
		if err != nil {
			return err
		}

		body := string(data)
		if !strings.Contains(body, "-- +goose Up") || !strings.Contains(body, "-- +goose Down") {
			t.Errorf("%s: missing goose Up/Down annotations", path)
		}

		return nil
	})
	if err != nil {
		t.Fatalf("walking migrations: %v", err)
	}
}
