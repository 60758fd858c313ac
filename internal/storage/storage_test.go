package storage

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// runStoreContract 对所有后端执行同一组检查
func runStoreContract(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := store.Get(ctx, "blocks"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get of missing key: expected ErrNotFound, got %v", err)
	}

	first := []byte(`[{"id":1,"name":"Old Building"}]`)
	if err := store.Put(ctx, "blocks", first); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	got, err := store.Get(ctx, "blocks")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !bytes.Equal(got, first) {
		t.Errorf("Get = %s, want %s", got, first)
	}

	second := []byte(`[]`)
	if err := store.Put(ctx, "blocks", second); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	got, _ = store.Get(ctx, "blocks")
	if !bytes.Equal(got, second) {
		t.Errorf("overwrite not visible: %s", got)
	}

	if err := store.Put(ctx, "rooms", []byte(`[]`)); err != nil {
		t.Fatalf("Put rooms failed: %v", err)
	}
	if err := store.Delete(ctx, "blocks"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, "blocks"); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted key still readable: %v", err)
	}
	if err := store.Delete(ctx, "blocks"); err != nil {
		t.Errorf("Delete must be idempotent, got %v", err)
	}
	if _, err := store.Get(ctx, "rooms"); err != nil {
		t.Errorf("unrelated key affected by delete: %v", err)
	}
}

func TestMemory(t *testing.T) {
	store := NewMemory()
	defer store.Close()
	runStoreContract(t, store)
}

func TestMemory_ReturnsCopies(t *testing.T) {
	store := NewMemory()
	data := []byte(`[1]`)
	store.Put(context.Background(), "k", data)
	data[1] = '2'

	got, _ := store.Get(context.Background(), "k")
	if string(got) != `[1]` {
		t.Errorf("store shares caller buffer: %s", got)
	}
}

func TestFile(t *testing.T) {
	store, err := NewFile(filepath.Join(t.TempDir(), "data"))
	if err != nil {
		t.Fatalf("NewFile failed: %v", err)
	}
	runStoreContract(t, store)
}

func TestFile_RejectsTraversal(t *testing.T) {
	store, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("NewFile failed: %v", err)
	}

	for _, key := range []string{"", "../etc/passwd", "a/b", `a\b`} {
		if err := store.Put(context.Background(), key, []byte("x")); err == nil {
			t.Errorf("Put(%q) should fail", key)
		}
	}
}

func TestFile_NoTempFilesLeft(t *testing.T) {
	root := t.TempDir()
	store, _ := NewFile(root)
	store.Put(context.Background(), "schedule", []byte(`{}`))

	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "schedule.json" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("unexpected files %v", names)
	}
}

func TestSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.db")
	store, err := NewSQLite(context.Background(), path)
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	defer store.Close()
	runStoreContract(t, store)
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	ctx := context.Background()

	store, err := NewSQLite(ctx, path)
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	store.Put(ctx, "doctors", []byte(`[{"id":1,"name":"Dr. Sulaiman"}]`))
	store.Close()

	reopened, err := NewSQLite(ctx, path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(ctx, "doctors")
	if err != nil || string(got) != `[{"id":1,"name":"Dr. Sulaiman"}]` {
		t.Errorf("Get after reopen = %s, %v", got, err)
	}
}

func TestPostgres(t *testing.T) {
	dsn := os.Getenv("ROOM_SCHEDULE_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("ROOM_SCHEDULE_TEST_POSTGRES_DSN 未设置")
	}

	store, err := NewPostgres(context.Background(), PostgresConfig{DSN: dsn, ConnectTimeout: 5, MaxOpenConns: 2, MaxIdleConns: 2, MaxIdleTime: 60})
	if err != nil {
		t.Fatalf("NewPostgres failed: %v", err)
	}
	defer store.Close()

	store.Delete(context.Background(), "blocks")
	store.Delete(context.Background(), "rooms")
	runStoreContract(t, store)
}

func TestRedis(t *testing.T) {
	addr := os.Getenv("ROOM_SCHEDULE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("ROOM_SCHEDULE_TEST_REDIS_ADDR 未设置")
	}

	store, err := NewRedis(context.Background(), RedisConfig{Addr: addr, KeyPrefix: "room_schedule_test:"})
	if err != nil {
		t.Fatalf("NewRedis failed: %v", err)
	}
	defer store.Close()

	store.Delete(context.Background(), "blocks")
	store.Delete(context.Background(), "rooms")
	runStoreContract(t, store)
}
