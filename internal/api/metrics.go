package api

import (
	"net/http"
	"runtime"
	"time"
)

// SystemMetrics is the GET /system response.
type SystemMetrics struct {
	Timestamp     string          `json:"timestamp"`
	Version       string          `json:"version"`
	UptimeSeconds int64           `json:"uptime_seconds"`
	Runtime       RuntimeMetrics  `json:"runtime"`
	WebSocket     WSMetrics       `json:"websocket"`
	MQTT          *MQTTMetrics    `json:"mqtt,omitempty"`
	Controller    ControllerStats `json:"controller"`
	Scheduler     *SchedulerStats `json:"scheduler,omitempty"`
	Database      *DatabaseStats  `json:"database,omitempty"`
}

// RuntimeMetrics contains Go runtime statistics.
type RuntimeMetrics struct {
	Goroutines    int     `json:"goroutines"`
	MemoryAllocMB float64 `json:"memory_alloc_mb"`
	MemoryTotalMB float64 `json:"memory_total_mb"`
	NumGC         uint32  `json:"num_gc"`
}

// WSMetrics contains WebSocket hub statistics.
type WSMetrics struct {
	ConnectedClients int `json:"connected_clients"`
}

// MQTTMetrics contains MQTT client statistics.
type MQTTMetrics struct {
	Connected bool `json:"connected"`
}

// ControllerStats summarises the controller snapshot.
type ControllerStats struct {
	AutomaticMode bool   `json:"automatic_mode"`
	Status        string `json:"status"`
	Subsystems    int    `json:"subsystems"`
	Diagnostics   int    `json:"diagnostics"`
}

// SchedulerStats describes periodic invocation.
type SchedulerStats struct {
	Active     bool  `json:"active"`
	IntervalMS int64 `json:"interval_ms"`
}

// DatabaseStats contains database connection pool statistics.
type DatabaseStats struct {
	OpenConnections int   `json:"open_connections"`
	InUse           int   `json:"in_use"`
	Idle            int   `json:"idle"`
	WaitCount       int64 `json:"wait_count"`
}

// handleSystem returns runtime and dependency statistics.
func (s *Server) handleSystem(w http.ResponseWriter, _ *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	snap := s.controller.Snapshot()
	metrics := SystemMetrics{
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Version:       s.version,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		Runtime: RuntimeMetrics{
			Goroutines:    runtime.NumGoroutine(),
			MemoryAllocMB: float64(memStats.Alloc) / 1024 / 1024,
			MemoryTotalMB: float64(memStats.TotalAlloc) / 1024 / 1024,
			NumGC:         memStats.NumGC,
		},
		WebSocket: WSMetrics{
			ConnectedClients: s.hub.ClientCount(),
		},
		Controller: ControllerStats{
			AutomaticMode: snap.AutomaticMode,
			Status:        snap.LastObservedStatus.String(),
			Subsystems:    snap.Subsystems.Total(),
			Diagnostics:   len(snap.Diagnostics),
		},
	}

	if s.mqtt != nil {
		metrics.MQTT = &MQTTMetrics{Connected: s.mqtt.IsConnected()}
	}

	if s.scheduler != nil {
		metrics.Scheduler = &SchedulerStats{
			Active:     s.scheduler.Active(),
			IntervalMS: s.scheduler.Interval().Milliseconds(),
		}
	}

	if s.db != nil {
		stats := s.db.Stats()
		metrics.Database = &DatabaseStats{
			OpenConnections: stats.OpenConnections,
			InUse:           stats.InUse,
			Idle:            stats.Idle,
			WaitCount:       stats.WaitCount,
		}
	}

	writeJSON(w, http.StatusOK, metrics)
}
