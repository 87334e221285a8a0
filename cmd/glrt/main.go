// Gray Logic Runtime - device entity runtime
//
// This is the main entry point for the Gray Logic Runtime daemon. The
// runtime hosts addressable devices as entities, serialises all access to
// them through a single gateway, and connects them to the outside world
// via MQTT (discovery and commands), a debug HTTP API, and an InfluxDB
// telemetry sink.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nerrad567/gray-logic-runtime/internal/api"
	"github.com/nerrad567/gray-logic-runtime/internal/bridges/interconnect"
	"github.com/nerrad567/gray-logic-runtime/internal/ecs"
	"github.com/nerrad567/gray-logic-runtime/internal/events"
	"github.com/nerrad567/gray-logic-runtime/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-runtime/internal/infrastructure/influxdb"
	"github.com/nerrad567/gray-logic-runtime/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-runtime/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-runtime/internal/telemetry"
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

// run is the actual application logic, separated from main for testability.
func run(ctx context.Context) error {
	configPath := flag.String("config", getConfigPath(), "path to configuration file")
	flag.Parse()

	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Gray Logic Runtime",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", *configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Event bus carries lifecycle events to the bridge and WebSocket hub.
	bus := events.NewBus(cfg.Gateway.EventBuffer)
	defer bus.Close()

	// The process-wide runtime. Everything downstream receives the handle
	// explicitly; Init only pins it for code that has no other path to it.
	rt, err := ecs.Init(
		ecs.WithLogger(log.With("component", "ecs")),
		ecs.WithEmitter(bus),
		ecs.WithQueueSize(cfg.Gateway.QueueSize),
	)
	if err != nil {
		return fmt.Errorf("initialising runtime: %w", err)
	}
	defer rt.Close()
	log.Info("entity runtime initialised",
		"site", cfg.Site.ID,
		"queue_size", cfg.Gateway.QueueSize,
	)

	// Kind registry: factories for the component and system kinds that
	// announced devices may carry.
	kinds := ecs.NewKindRegistry()

	g, gctx := errgroup.WithContext(ctx)

	// Connect to MQTT broker and start the interconnect bridge (optional).
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
		mqttClient.SetLogger(log.With("component", "mqtt"))
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		bridge := interconnect.New(rt, kinds, bus, mqttClient,
			byte(cfg.MQTT.QoS), log.With("component", "interconnect")) // #nosec G115 -- qos validated 0..2
		g.Go(func() error {
			return bridge.Run(gctx)
		})
	} else {
		log.Info("MQTT disabled, interconnect bridge not started")
	}

	// Connect to InfluxDB and start the telemetry sampler (optional).
	if cfg.InfluxDB.Enabled {
		influxClient, err := influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
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
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"bucket", cfg.InfluxDB.Bucket,
		)

		sampler := telemetry.NewSampler(rt, influxClient, cfg.Site.ID,
			time.Duration(cfg.InfluxDB.SampleInterval)*time.Second,
			log.With("component", "telemetry"))
		g.Go(func() error {
			return sampler.Run(gctx)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// Start the debug API server (optional).
	if cfg.API.Enabled {
		server, err := api.New(api.Deps{
			Config:  cfg.API,
			WS:      cfg.WebSocket,
			Logger:  log.With("component", "api"),
			Runtime: rt,
			Bus:     bus,
			Version: version,
		})
		if err != nil {
			return fmt.Errorf("creating API server: %w", err)
		}
		if err := server.Start(gctx); err != nil {
			return fmt.Errorf("starting API server: %w", err)
		}
		defer func() {
			if closeErr := server.Close(); closeErr != nil {
				log.Error("error closing API server", "error", closeErr)
			}
		}()
	} else {
		log.Info("API server disabled")
	}

	// Hold the group open until the shutdown signal even when all optional
	// workers are disabled.
	g.Go(func() error {
		<-gctx.Done()
		return nil
	})

	log.Info("initialisation complete, waiting for shutdown signal")

	if err := g.Wait(); err != nil {
		return fmt.Errorf("background worker failed: %w", err)
	}

	log.Info("Gray Logic Runtime stopped")
	return nil
}

// getConfigPath returns the default configuration file path.
// Uses the GLRT_CONFIG environment variable if set.
func getConfigPath() string {
	if path := os.Getenv("GLRT_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
