package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCreateFile(t *testing.T) {
	dir := TempDir(t, "testutil")

	path := CreateFile(t, dir, "nested/deep/file.txt", "hello")

	if !FileExists(t, path) {
		t.Fatalf("CreateFile did not create %s", path)
	}
	AssertFileContent(t, path, "hello")
}

func TestCreateDir(t *testing.T) {
	dir := TempDir(t, "testutil")

	path := CreateDir(t, dir, "a/b/c")

	if !DirExists(t, path) {
		t.Fatalf("CreateDir did not create %s", path)
	}
}

func TestWriteYAML(t *testing.T) {
	dir := TempDir(t, "testutil")

	path := WriteYAML(t, dir, "doc.yaml", map[string]interface{}{
		"app": map[string]interface{}{"*.txt": true},
	})

	content := ReadFile(t, path)
	if content == "" {
		t.Fatal("WriteYAML produced an empty file")
	}
}

func TestChtimes(t *testing.T) {
	dir := TempDir(t, "testutil")
	path := CreateFile(t, dir, "f.txt", "x")

	want := time.Date(2020, 6, 1, 12, 0, 0, 0, time.UTC)
	Chtimes(t, path, want)

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if !info.ModTime().Equal(want) {
		t.Errorf("mtime = %v, want %v", info.ModTime(), want)
	}
}

func TestAssertNoFile(t *testing.T) {
	dir := TempDir(t, "testutil")
	AssertNoFile(t, filepath.Join(dir, "absent.txt"))
}
