package fileio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
}

func TestOpenSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "plain.txt")
	writeFile(t, src, "hello, world")

	f, n, err := OpenSource(src)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if n != 12 {
		t.Errorf("length = %d, want 12", n)
	}

	if _, _, err := OpenSource(filepath.Join(dir, "missing")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: %v", err)
	}
	if _, _, err := OpenSource(dir); !errors.Is(err, ErrNotRegular) {
		t.Errorf("directory: %v", err)
	}
}

func TestCreateDestination(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "plain.txt")
	writeFile(t, src, "data")

	t.Run("new file", func(t *testing.T) {
		dst := filepath.Join(dir, "out", "cipher.bin")
		f, err := CreateDestination(src, dst)
		if err != nil {
			t.Fatal(err)
		}
		f.Close()
		fi, err := os.Stat(dst)
		if err != nil {
			t.Fatal(err)
		}
		if fi.Mode().Perm() != 0600 {
			t.Errorf("mode = %v, want 0600", fi.Mode().Perm())
		}
	})

	t.Run("existing", func(t *testing.T) {
		dst := filepath.Join(dir, "taken")
		writeFile(t, dst, "keep me")
		if _, err := CreateDestination(src, dst); !errors.Is(err, ErrDestinationExists) {
			t.Errorf("err = %v, want ErrDestinationExists", err)
		}
		if b, _ := os.ReadFile(dst); string(b) != "keep me" {
			t.Error("existing destination was modified")
		}
	})

	t.Run("same path", func(t *testing.T) {
		if _, err := CreateDestination(src, src); !errors.Is(err, ErrSameFile) {
			t.Errorf("err = %v, want ErrSameFile", err)
		}
		alias := filepath.Join(dir, ".", "plain.txt")
		if _, err := CreateDestination(src, alias); !errors.Is(err, ErrSameFile) {
			t.Errorf("alias: err = %v, want ErrSameFile", err)
		}
	})

	t.Run("hard link", func(t *testing.T) {
		link := filepath.Join(dir, "link.txt")
		if err := os.Link(src, link); err != nil {
			t.Skipf("hard links unsupported: %v", err)
		}
		if _, err := CreateDestination(src, link); !errors.Is(err, ErrSameFile) {
			t.Errorf("err = %v, want ErrSameFile", err)
		}
	})
}

func TestCheckDestinationCreatesNothing(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "plain.txt")
	writeFile(t, src, "data")
	dst := filepath.Join(dir, "sub", "out.bin")

	if err := CheckDestination(src, dst); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Dir(dst)); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("CheckDestination created %s", filepath.Dir(dst))
	}
}
