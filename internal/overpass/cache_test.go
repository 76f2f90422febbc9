package overpass

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/hideseek/quarry/internal/config"
)

func TestInitCacheDB_CreatesSchema(t *testing.T) {
	tmpDir := t.TempDir()

	db, err := InitCacheDB(tmpDir)
	if err != nil {
		t.Fatalf("InitCacheDB failed: %v", err)
	}
	defer db.Close()

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("read user_version: %v", err)
	}
	if version != CurrentSchemaVersion {
		t.Errorf("user_version = %d, want %d", version, CurrentSchemaVersion)
	}
}

func TestResponseCache_RoundTrip(t *testing.T) {
	db, err := InitCacheDB(t.TempDir())
	if err != nil {
		t.Fatalf("InitCacheDB failed: %v", err)
	}
	defer db.Close()

	cache := &responseCache{db: db, ttl: time.Hour}
	body := []byte(`{"elements":[]}`)

	if _, ok := cache.get("query-a"); ok {
		t.Error("get should miss on an empty cache")
	}

	cache.put("query-a", body)

	got, ok := cache.get("query-a")
	if !ok {
		t.Fatal("get should hit after put")
	}
	if string(got) != string(body) {
		t.Errorf("body = %s, want %s", got, body)
	}

	if _, ok := cache.get("query-b"); ok {
		t.Error("different query must not hit")
	}
}

func TestResponseCache_TTLExpiry(t *testing.T) {
	db, err := InitCacheDB(t.TempDir())
	if err != nil {
		t.Fatalf("InitCacheDB failed: %v", err)
	}
	defer db.Close()

	cache := &responseCache{db: db, ttl: time.Hour}
	cache.put("query", []byte("{}"))

	// Backdate the entry past the TTL.
	if _, err := db.Exec("UPDATE provider_responses SET fetched_at = ?", time.Now().Add(-2*time.Hour).Unix()); err != nil {
		t.Fatalf("backdate: %v", err)
	}

	if _, ok := cache.get("query"); ok {
		t.Error("expired entry must not hit")
	}
}

func TestFetchZone_UsesResponseCache(t *testing.T) {
	calls := 0
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		writeResult(t, w, Result{Elements: []Element{{Type: "node", ID: 1, Lat: 1, Lon: 1}}})
	})

	db, err := InitCacheDB(t.TempDir())
	if err != nil {
		t.Fatalf("InitCacheDB failed: %v", err)
	}
	defer db.Close()
	c.cache = &responseCache{db: db, ttl: time.Hour}

	q := Query{Filter: `["amenity"="fast_food"]["brand"="McDonald's"]`}
	if _, err := c.FetchZone(context.Background(), q); err != nil {
		t.Fatalf("first FetchZone failed: %v", err)
	}
	if _, err := c.FetchZone(context.Background(), q); err != nil {
		t.Fatalf("second FetchZone failed: %v", err)
	}

	if calls != 1 {
		t.Errorf("HTTP calls = %d, want 1 (second fetch served from cache)", calls)
	}
}

func TestConfigurePool(t *testing.T) {
	db, err := InitCacheDB(t.TempDir())
	if err != nil {
		t.Fatalf("InitCacheDB failed: %v", err)
	}
	defer db.Close()

	cfg := config.DefaultConfig()
	cfg.DBMaxOpenConns = 1
	cfg.DBMaxIdleConns = 1

	// Must not panic and must leave the handle usable.
	ConfigurePool(db, cfg)
	ConfigurePool(db, nil)

	if err := db.Ping(); err != nil {
		t.Errorf("Ping after ConfigurePool: %v", err)
	}
}
