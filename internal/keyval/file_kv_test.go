package keyval

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileKV_RoundTrip(t *testing.T) {
	kv, err := NewFileKV(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileKV: %v", err)
	}

	if _, ok, err := kv.Get(context.Background(), "missing"); err != nil || ok {
		t.Fatalf("absent key: ok=%v err=%v", ok, err)
	}

	if err := kv.Set(context.Background(), KeyCurrentUser, `{"id":"u1"}`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	val, ok, err := kv.Get(context.Background(), KeyCurrentUser)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if val != `{"id":"u1"}` {
		t.Fatalf("unexpected value: %s", val)
	}

	if err := kv.Delete(context.Background(), KeyCurrentUser); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := kv.Get(context.Background(), KeyCurrentUser); ok {
		t.Fatalf("deleted key still present")
	}
}

func TestFileKV_EmptyValueIsPresent(t *testing.T) {
	kv, err := NewFileKV(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileKV: %v", err)
	}

	if err := kv.Set(context.Background(), "marker", ""); err != nil {
		t.Fatalf("Set: %v", err)
	}
	val, ok, err := kv.Get(context.Background(), "marker")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok || val != "" {
		t.Fatalf("empty value must still report presence: ok=%v val=%q", ok, val)
	}
}

func TestFileKV_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	kv, err := NewFileKV(dir)
	if err != nil {
		t.Fatalf("NewFileKV: %v", err)
	}
	if err := kv.Set(context.Background(), KeyStudentQR, "payload"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	reopened, err := NewFileKV(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	val, ok, err := reopened.Get(context.Background(), KeyStudentQR)
	if err != nil || !ok || val != "payload" {
		t.Fatalf("value lost across reopen: ok=%v val=%q err=%v", ok, val, err)
	}
}

func TestFileKV_CorruptFileStartsOver(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "icct_keyval.json"), []byte("{broken"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	kv, err := NewFileKV(dir)
	if err != nil {
		t.Fatalf("NewFileKV: %v", err)
	}
	if _, ok, err := kv.Get(context.Background(), "anything"); err != nil || ok {
		t.Fatalf("corrupt file must read as empty: ok=%v err=%v", ok, err)
	}
	if err := kv.Set(context.Background(), "fresh", "1"); err != nil {
		t.Fatalf("Set after corruption: %v", err)
	}
}

func TestCartKey(t *testing.T) {
	if got := CartKey("user001"); got != "cart_user001" {
		t.Fatalf("unexpected key: %s", got)
	}
	if got := CartKey(""); got != "cart_guest" {
		t.Fatalf("guest key mismatch: %s", got)
	}
}
