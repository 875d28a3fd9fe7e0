// dockctl - docking connector automation controller
//
// dockctl watches the main docking connector of a grid and switches the
// power, thrust, gas, atmosphere, lighting and cockpit posture of the
// docked vehicle when the connector locks or unlocks. It runs manually
// (one dock/undock per request) or automatically (periodic polling after an
// "Update" request).
//
// Inputs arrive over the HTTP API (POST /api/v1/invoke) and MQTT
// (dockctl/invoke/{controller_id}). Device commands leave on MQTT.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	_ "github.com/nerrad567/gray-logic-dock/migrations"

	"github.com/nerrad567/gray-logic-dock/internal/api"
	"github.com/nerrad567/gray-logic-dock/internal/dock"
	"github.com/nerrad567/gray-logic-dock/internal/grid"
	"github.com/nerrad567/gray-logic-dock/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-dock/internal/infrastructure/database"
	"github.com/nerrad567/gray-logic-dock/internal/infrastructure/influxdb"
	"github.com/nerrad567/gray-logic-dock/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-dock/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-dock/internal/inventory"
	"github.com/nerrad567/gray-logic-dock/internal/observability"
	"github.com/nerrad567/gray-logic-dock/internal/scheduler"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run wires the controller and blocks until ctx is cancelled.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error { //nolint:gocognit,gocyclo // linear startup sequence
	log := logging.Default()
	log.Info("starting dockctl",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log = logging.New(cfg.Logging, version)
	log.Info("configuration loaded", "path", configPath, "controller_id", cfg.Controller.ID)

	// Block inventory
	site, err := inventory.LoadSite(cfg.Inventory.Path)
	if err != nil {
		return fmt.Errorf("loading site: %w", err)
	}
	inv, err := inventory.New(site)
	if err != nil {
		return fmt.Errorf("building inventory: %w", err)
	}
	inv.SetLogger(log.Component("inventory"))
	if _, ok := inv.GridInfo(grid.ID(cfg.Controller.OwnGrid)); !ok {
		return fmt.Errorf("own grid %q is not in the site file", cfg.Controller.OwnGrid)
	}
	log.Info("inventory loaded", "path", cfg.Inventory.Path, "grids", len(site.Grids), "blocks", len(site.Blocks))

	// Database
	db, err := database.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database ready", "path", cfg.Database.Path)

	repo := dock.NewSQLiteRepository(db.DB, cfg.Controller.ID)
	checks := map[string]api.HealthChecker{"database": db}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector, err := observability.NewCollector(registry)
	if err != nil {
		return fmt.Errorf("registering metrics: %w", err)
	}

	hub := api.NewHub(cfg.WebSocket, log.Component("websocket"))
	publishers := []dock.Publisher{hub}

	// MQTT (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetLogger(log.Component("mqtt"))
		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		checks["mqtt"] = mqttClient
		publishers = append(publishers,
			dock.NewBusPublisher(mqttClient, cfg.Controller.ID, byte(cfg.MQTT.QoS), log.Component("bus")))
	} else {
		log.Info("MQTT disabled, device commands stay local")
	}

	// InfluxDB (optional)
	if cfg.InfluxDB.Enabled {
		influxClient, influxErr := influxdb.Connect(cfg.InfluxDB)
		if influxErr != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", influxErr)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected", "url", cfg.InfluxDB.URL, "bucket", cfg.InfluxDB.Bucket)

		checks["influxdb"] = influxClient
		publishers = append(publishers, dock.NewTelemetryPublisher(influxClient, cfg.Controller.ID))
	} else {
		log.Info("InfluxDB disabled")
	}

	// Controller
	sched := scheduler.New()
	sched.SetLogger(log.Component("scheduler"))

	controller, err := dock.NewController(dock.Config{
		ID:                cfg.Controller.ID,
		OwnGrid:           grid.ID(cfg.Controller.OwnGrid),
		Topology:          dock.Topology(cfg.Controller.Topology),
		ConnectorName:     cfg.Controller.ConnectorName,
		TickInterval:      cfg.Controller.TickInterval,
		DiagnosticHistory: cfg.Controller.DiagnosticHistory,
	}, dock.Deps{
		Source:     inv,
		Flags:      repo,
		Scheduler:  sched,
		Recorder:   repo,
		Metrics:    collector,
		Publishers: publishers,
		Logger:     log.Component("dock"),
	})
	if err != nil {
		return fmt.Errorf("creating controller: %w", err)
	}

	sched.SetHandler(func(tickCtx context.Context) {
		controller.Invoke(tickCtx, dock.Invocation{Periodic: true, Source: dock.SourceScheduler})
	})

	if mqttClient != nil {
		bridge, bridgeErr := inventory.NewBridge(inventory.BridgeOptions{
			Client:       mqttClient,
			Inventory:    inv,
			ControllerID: cfg.Controller.ID,
			QoS:          byte(cfg.MQTT.QoS),
			OnInvoke: func(argument string) {
				controller.Invoke(ctx, dock.Invocation{Argument: argument, Source: dock.SourceMQTT})
			},
			Logger: log.Component("bridge"),
		})
		if bridgeErr != nil {
			return fmt.Errorf("creating MQTT bridge: %w", bridgeErr)
		}
		if startErr := bridge.Start(); startErr != nil {
			return fmt.Errorf("starting MQTT bridge: %w", startErr)
		}
		defer func() {
			log.Info("stopping MQTT bridge")
			bridge.Stop()
		}()
	}

	sched.Start(ctx)
	defer func() {
		log.Info("stopping scheduler")
		sched.Stop()
	}()
	controller.Start(ctx)

	// API (optional)
	if cfg.API.Enabled {
		var mqttStatus api.ConnectionStatus
		if mqttClient != nil {
			mqttStatus = mqttClient
		}
		server, apiErr := api.New(api.Deps{
			Config:     cfg.API,
			WS:         cfg.WebSocket,
			Metrics:    cfg.Metrics,
			Logger:     log.Component("api"),
			Controller: controller,
			History:    repo,
			Blocks:     inv,
			Collector:  collector,
			Hub:        hub,
			Checks:     checks,
			MQTT:       mqttStatus,
			Database:   db.DB,
			Scheduler:  sched,
			Version:    version,
		})
		if apiErr != nil {
			return fmt.Errorf("creating API server: %w", apiErr)
		}
		if startErr := server.Start(ctx); startErr != nil {
			return fmt.Errorf("starting API server: %w", startErr)
		}
		defer func() {
			if closeErr := server.Close(); closeErr != nil {
				log.Error("error closing API server", "error", closeErr)
			}
		}()
	}

	if err := healthCheck(ctx, checks); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("initialisation complete, waiting for shutdown signal",
		"automatic_mode", controller.Snapshot().AutomaticMode,
	)

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses DOCKCTL_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("DOCKCTL_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck runs every registered check and returns the first failure.
func healthCheck(ctx context.Context, checks map[string]api.HealthChecker) error {
	for name, check := range checks {
		if err := check.HealthCheck(ctx); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}
