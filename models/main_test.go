package models_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/mmdatafocus/partner_backend/config"
	"github.com/mmdatafocus/partner_backend/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "partner.sqlite")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	t.Cleanup(func() {
		config.SetDB(nil)
		_ = sqlDB.Close()
	})
	config.SetDB(db)
	if err := models.MigrateTable(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// memoryCache is a process-local CacheStore with real expiry, standing in
// for Redis in tests.
type memoryCache struct {
	mu    sync.Mutex
	items map[string]memoryCacheEntry
	sets  int
}

type memoryCacheEntry struct {
	data    []byte
	expires time.Time
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[string]memoryCacheEntry{}}
}

func (m *memoryCache) GetObject(ctx context.Context, key string, dest any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.items[key]
	if !ok || time.Now().After(entry.expires) {
		return false, nil
	}
	return true, json.Unmarshal(entry.data, dest)
}

func (m *memoryCache) SetObject(ctx context.Context, key string, obj any, ttl time.Duration) error {
	data, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = memoryCacheEntry{data: data, expires: time.Now().Add(ttl)}
	m.sets++
	return nil
}

func (m *memoryCache) Remove(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.items, key)
	}
	return nil
}

func (m *memoryCache) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func setupCache(t *testing.T) *memoryCache {
	t.Helper()
	cache := newMemoryCache()
	previous := models.SetCacheStore(cache)
	t.Cleanup(func() { models.SetCacheStore(previous) })
	return cache
}

func seedPartner(t *testing.T, inn, legalName, tradeName string) *models.Partner {
	t.Helper()
	partner, err := models.CreatePartner(context.Background(), &models.NewPartner{
		Inn:           inn,
		LegalName:     legalName,
		TradeName:     tradeName,
		PartnerType:   models.PartnerTypeStrategic,
		Category:      "IT Services",
		Revenue2023:   decimal.NewFromInt(1_000_000),
		Revenue2022:   decimal.NewFromInt(800_000),
		Profit2023:    decimal.NewFromInt(150_000),
		FoundingYear:  2008,
		EmployeeCount: 450,
		Rating:        4.5,
		RiskLevel:     models.RiskLevelLow,
		PaymentTerms:  "Net30",
	})
	if err != nil {
		t.Fatalf("seed partner %s: %v", inn, err)
	}
	return partner
}
