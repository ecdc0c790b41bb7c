package directory

import (
	"path/filepath"
	"testing"
)

func exerciseBasic(t *testing.T, d Directory) {
	t.Helper()
	if err := d.Create(28, 64); err != nil {
		t.Fatalf("Create: %v", err)
	}
	d.SetHeader(0, 12345)
	d.SetHeader(24, -1)
	d.SetInt(0, 42)
	d.SetInt(4, -7)
	d.SetBytes(8, []byte("hello!!!"))

	if got := d.GetHeader(0); got != 12345 {
		t.Errorf("GetHeader(0) = %d, want 12345", got)
	}
	if got := d.GetHeader(24); got != -1 {
		t.Errorf("GetHeader(24) = %d, want -1", got)
	}
	if got := d.GetInt(0); got != 42 {
		t.Errorf("GetInt(0) = %d, want 42", got)
	}
	if got := d.GetInt(4); got != -7 {
		t.Errorf("GetInt(4) = %d, want -7", got)
	}
	buf := make([]byte, 8)
	d.GetBytes(8, buf)
	if string(buf) != "hello!!!" {
		t.Errorf("GetBytes(8) = %q, want %q", buf, "hello!!!")
	}
}

func TestRAMDirectoryBasic(t *testing.T) {
	exerciseBasic(t, NewRAMDirectory("nodes"))
}

func TestRAMDirectoryGrowth(t *testing.T) {
	d := NewRAMDirectory("edges")
	if err := d.Create(12, 32); err != nil {
		t.Fatalf("Create: %v", err)
	}
	grew, err := d.IncCapacity(1 << 21)
	if err != nil {
		t.Fatalf("IncCapacity: %v", err)
	}
	if !grew {
		t.Fatal("expected capacity to grow")
	}
	d.SetInt(1<<21-4, 99)
	if got := d.GetInt(1<<21 - 4); got != 99 {
		t.Errorf("GetInt after growth = %d, want 99", got)
	}
}

func TestRAMDirectoryCopyTo(t *testing.T) {
	src := NewRAMDirectory("geometry")
	exerciseBasic(t, src)
	dst := NewRAMDirectory("geometry")
	if err := dst.Create(28, 4); err != nil {
		t.Fatalf("Create dst: %v", err)
	}
	if err := src.CopyTo(dst); err != nil {
		t.Fatalf("CopyTo: %v", err)
	}
	if dst.GetInt(0) != 42 || dst.GetHeader(0) != 12345 {
		t.Error("CopyTo did not replicate header/body")
	}
}

func TestMMapDirectoryRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nodes.bin")

	d := NewMMapDirectory("nodes", path)
	exerciseBasic(t, d)
	if err := d.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened := NewMMapDirectory("nodes", path)
	ok, err := reopened.LoadExisting(28)
	if err != nil {
		t.Fatalf("LoadExisting: %v", err)
	}
	if !ok {
		t.Fatal("expected LoadExisting to find the flushed file")
	}
	if got := reopened.GetHeader(0); got != 12345 {
		t.Errorf("GetHeader(0) after reload = %d, want 12345", got)
	}
	if got := reopened.GetInt(0); got != 42 {
		t.Errorf("GetInt(0) after reload = %d, want 42", got)
	}
	buf := make([]byte, 8)
	reopened.GetBytes(8, buf)
	if string(buf) != "hello!!!" {
		t.Errorf("GetBytes(8) after reload = %q, want %q", buf, "hello!!!")
	}
}

func TestMMapDirectoryMissing(t *testing.T) {
	d := NewMMapDirectory("edges", filepath.Join(t.TempDir(), "missing.bin"))
	ok, err := d.LoadExisting(12)
	if err != nil {
		t.Fatalf("LoadExisting on missing file: %v", err)
	}
	if ok {
		t.Fatal("expected LoadExisting to report false for a missing file")
	}
}

func TestSnappyDirectoryRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "geometry.bin")

	sd := NewSnappyDirectory(NewMMapDirectory("geometry", path))
	exerciseBasic(t, sd)
	if err := sd.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if err := sd.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened := NewSnappyDirectory(NewMMapDirectory("geometry", path))
	ok, err := reopened.LoadExisting(28)
	if err != nil {
		t.Fatalf("LoadExisting: %v", err)
	}
	if !ok {
		t.Fatal("expected LoadExisting to find the flushed snappy image")
	}
	if got := reopened.GetInt(0); got != 42 {
		t.Errorf("GetInt(0) after snappy reload = %d, want 42", got)
	}
	buf := make([]byte, 8)
	reopened.GetBytes(8, buf)
	if string(buf) != "hello!!!" {
		t.Errorf("GetBytes(8) after snappy reload = %q, want %q", buf, "hello!!!")
	}
}
