package cmd

import (
	"path/filepath"
	"testing"

	"os"
)

func TestLoadImportManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "imports.yaml")
	if err := os.WriteFile(path, []byte("expose:\n  - PrintLn\n  - AddInt\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	imports, err := loadImportManifest(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(imports) != 2 {
		t.Fatalf("expected 2 imports, got %d", len(imports))
	}
	if imports[0].Name != "PrintLn" || imports[1].Name != "AddInt" {
		t.Errorf("unexpected import names: %+v", imports)
	}
}

func TestLoadImportManifestUnknownName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "imports.yaml")
	if err := os.WriteFile(path, []byte("expose:\n  - NoSuchFunction\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := loadImportManifest(path); err == nil {
		t.Fatal("expected an error for an unknown catalogue name")
	}
}

func TestLoadImportManifestEmptyPath(t *testing.T) {
	imports, err := loadImportManifest("")
	if err != nil || imports != nil {
		t.Errorf("expected (nil, nil) for an empty path, got (%v, %v)", imports, err)
	}
}
