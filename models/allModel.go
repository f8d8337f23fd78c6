package models

import (
	"context"
	"time"

	"github.com/mmdatafocus/partner_backend/config"
)

// MigrateTable creates/updates the four entity tables.
func MigrateTable() error {
	db := config.GetDB()
	return db.AutoMigrate(
		&Partner{},
		&Turnover{},
		&BotInteraction{},
		&GeneratedReport{},
	)
}

type HealthStatus struct {
	Database  bool      `json:"database"`
	Cache     bool      `json:"cache"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthCheck pings the store and the cache. Both checks are independent;
// a cache outage is reported but does not make the service unhealthy.
func HealthCheck(ctx context.Context) *HealthStatus {
	status := &HealthStatus{Timestamp: time.Now()}

	if db := config.GetDB(); db != nil {
		if sqlDB, err := db.DB(); err == nil {
			status.Database = sqlDB.PingContext(ctx) == nil
		}
	}

	status.Cache = config.PingRedis(ctx) == nil

	return status
}
