package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type probe struct {
	name string
	ping func(context.Context) error
}

// Health reports the storage driver and pings each backend that is wired;
// db and rdb may be nil. Only "connected"/"error" is exposed per backend.
func Health(driver string, db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	var probes []probe
	if db != nil {
		probes = append(probes, probe{"db", func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}})
	}
	if rdb != nil {
		probes = append(probes, probe{"redis", func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
	}

	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		body := gin.H{"storage": driver}
		healthy := true
		for _, p := range probes {
			if err := p.ping(ctx); err != nil {
				body[p.name] = "error"
				healthy = false
				continue
			}
			body[p.name] = "connected"
		}
		body["ok"] = healthy

		status := http.StatusOK
		if !healthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, body)
	}
}
