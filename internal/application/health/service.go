package health

import (
	"context"
	"encoding/json"
	"runtime"
	"strconv"
	"time"

	"nemostore-eda/internal/application/loader"
	"nemostore-eda/internal/infrastructure/database"
	"nemostore-eda/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// StoreProber reports where the listing store would be read from.
// *loader.Loader satisfies it.
type StoreProber interface {
	ResolveStore() (loader.StoreLocation, error)
}

// CollectResult is the /health/json payload.
type CollectResult struct {
	Status       string               `json:"status"`
	Runtime      RuntimeInfo          `json:"runtime"`
	Traffic      TrafficInfo          `json:"traffic"`
	Dependencies map[string]DepStatus `json:"dependencies"`
}

type RuntimeInfo struct {
	UptimeSeconds int64      `json:"uptimeSeconds"`
	Memory        MemoryInfo `json:"memory"`
	Platform      string     `json:"platform"`
	GoVersion     string     `json:"goVersion"`
	Goroutines    int        `json:"goroutines"`
}

type MemoryInfo struct {
	AllocMB  int `json:"allocMb"`
	HeapUsed int `json:"heapUsedMb"`
}

type TrafficInfo struct {
	TotalRequests   int         `json:"totalRequests"`
	SuccessCount    int         `json:"successCount"`
	FailedCount     int         `json:"failedCount"`
	SuccessRate     string      `json:"successRate"`
	AvgResponseTime interface{} `json:"avgResponseTime"`
	LastRequest     interface{} `json:"lastRequest"`
}

type DepStatus struct {
	Status string      `json:"status"`
	PingMs interface{} `json:"pingMs"`
	Detail string      `json:"detail,omitempty"`
}

// Dependency statuses.
const (
	StatusAvailable   = "available"
	StatusUnavailable = "unavailable"
	StatusConnected   = "connected"
	StatusError       = "error"
	StatusDisabled    = "disabled"
)

// CollectHealth probes the listing store and Redis and reads request stats.
// Overall status is "ok" when the store resolves and Redis, if configured,
// answers.
func CollectHealth(ctx context.Context, rdb *redis.Client, store StoreProber) CollectResult {
	result := CollectResult{
		Dependencies: make(map[string]DepStatus),
	}

	storeDep := DepStatus{Status: StatusDisabled}
	if store != nil {
		start := time.Now()
		loc, err := store.ResolveStore()
		if err != nil {
			storeDep = DepStatus{Status: StatusUnavailable, Detail: err.Error()}
		} else {
			ms := time.Since(start).Milliseconds()
			storeDep = DepStatus{Status: StatusAvailable, PingMs: &ms, Detail: describeDSN(loc.DSN)}
		}
	}
	result.Dependencies["store"] = storeDep

	redisStatus := StatusDisabled
	var redisPingMs *int64
	stats := TrafficInfo{AvgResponseTime: 0, SuccessRate: "100"}
	startTimeMs := time.Now().UnixMilli()

	if rdb != nil {
		start := time.Now()
		if err := rdb.Ping(ctx).Err(); err == nil {
			ms := time.Since(start).Milliseconds()
			redisPingMs = &ms
			redisStatus = StatusConnected

			totalReq, _ := rdb.Get(ctx, middleware.KeyReqTotal).Result()
			totalErr, _ := rdb.Get(ctx, middleware.KeyReqErrors).Result()
			totalTime, _ := rdb.Get(ctx, middleware.KeyResTime).Result()
			resCount, _ := rdb.Get(ctx, middleware.KeyResCount).Result()
			startTimeStr, _ := rdb.Get(ctx, middleware.KeyStartTime).Result()
			lastReqStr, _ := rdb.Get(ctx, middleware.KeyLastReq).Result()

			if startTimeStr != "" {
				if t, err := strconv.ParseInt(startTimeStr, 10, 64); err == nil {
					startTimeMs = t
				}
			} else {
				rdb.Set(ctx, middleware.KeyStartTime, startTimeMs, 0)
			}

			stats.TotalRequests, _ = strconv.Atoi(totalReq)
			stats.FailedCount, _ = strconv.Atoi(totalErr)
			stats.SuccessCount = stats.TotalRequests - stats.FailedCount
			if stats.TotalRequests > 0 {
				stats.SuccessRate = strconv.FormatFloat(float64(stats.SuccessCount)/float64(stats.TotalRequests)*100, 'f', 1, 64)
			}
			timeSum, _ := strconv.ParseFloat(totalTime, 64)
			countSum, _ := strconv.Atoi(resCount)
			if countSum > 0 {
				stats.AvgResponseTime = strconv.FormatFloat(timeSum/float64(countSum), 'f', 2, 64)
			}
			if lastReqStr != "" {
				var lastReq map[string]interface{}
				_ = json.Unmarshal([]byte(lastReqStr), &lastReq)
				stats.LastRequest = lastReq
			}
		} else {
			redisStatus = StatusError
		}
	}
	result.Dependencies["redis"] = DepStatus{Status: redisStatus, PingMs: redisPingMs}
	result.Traffic = stats

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	uptimeSec := (time.Now().UnixMilli() - startTimeMs) / 1000
	if uptimeSec < 0 {
		uptimeSec = 0
	}
	result.Runtime = RuntimeInfo{
		UptimeSeconds: uptimeSec,
		Memory:        MemoryInfo{AllocMB: int(m.Alloc / 1024 / 1024), HeapUsed: int(m.HeapInuse / 1024 / 1024)},
		Platform:      runtime.GOOS + " (" + runtime.GOARCH + ")",
		GoVersion:     runtime.Version(),
		Goroutines:    runtime.NumGoroutine(),
	}

	if storeDep.Status == StatusAvailable && redisStatus != StatusError {
		result.Status = "ok"
	} else {
		result.Status = "issue"
	}
	return result
}

// describeDSN hides server credentials; file paths are shown as is.
func describeDSN(dsn string) string {
	if database.IsPostgresDSN(dsn) {
		return "postgres"
	}
	return dsn
}
