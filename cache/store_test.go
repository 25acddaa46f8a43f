package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// TestFileStoreSetGet 测试基本读写
func TestFileStoreSetGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore() failed: %v", err)
	}

	ctx := context.Background()

	if _, ok, err := store.Get(ctx, "first_apikey"); err != nil || ok {
		t.Fatalf("空存储不应命中: ok=%v err=%v", ok, err)
	}

	if err := store.Set(ctx, "first_apikey", "abc123"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	v, ok, err := store.Get(ctx, "first_apikey")
	if err != nil || !ok || v != "abc123" {
		t.Fatalf("Get() = (%q, %v, %v), want (abc123, true, nil)", v, ok, err)
	}
}

// TestFileStorePersistence 测试跨实例持久化（对应页面重载后仍命中）
func TestFileStorePersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	ctx := context.Background()

	first, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore() failed: %v", err)
	}
	if err := first.Set(ctx, "first_apikey", "persisted-key"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	// 新实例重新从磁盘加载
	second, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore() reload failed: %v", err)
	}
	v, ok, err := second.Get(ctx, "first_apikey")
	if err != nil || !ok || v != "persisted-key" {
		t.Fatalf("重载后 Get() = (%q, %v, %v)", v, ok, err)
	}
}

// TestFileStoreMissingFile 测试文件不存在按空存储处理
func TestFileStoreMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.json")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("文件不存在不应报错: %v", err)
	}
	if _, ok, _ := store.Get(context.Background(), "k"); ok {
		t.Error("空存储不应命中")
	}
}

// TestFileStoreCorrupted 测试损坏文件按空处理
func TestFileStoreCorrupted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("损坏文件不应报错: %v", err)
	}

	ctx := context.Background()
	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Error("损坏文件应按空存储处理")
	}

	// 覆盖写入后恢复正常
	if err := store.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if v, ok, _ := store.Get(ctx, "k"); !ok || v != "v" {
		t.Errorf("Get() = (%q, %v)", v, ok)
	}
}
