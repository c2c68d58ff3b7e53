package main

import (
	"context"
	"database/sql"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "irrigation_controller/docs"
	"irrigation_controller/internal/config"
	"irrigation_controller/internal/connectivity"
	"irrigation_controller/internal/engine"
	"irrigation_controller/internal/handlers"
	"irrigation_controller/internal/logger"
	"irrigation_controller/internal/models"
	"irrigation_controller/internal/relay"
	"irrigation_controller/internal/repository"
	"irrigation_controller/internal/repository/db"
	"irrigation_controller/internal/sensor"
	"irrigation_controller/internal/server"
	"irrigation_controller/internal/service"
	"irrigation_controller/internal/store"
)

const (
	defaultSimTick  = 1 * time.Second
	bootLoadTimeout = 5 * time.Second
	shutdownTimeout = 10 * time.Second
)

// @title        Irrigation Controller API
// @version      1.0
// @description  Two-zone soil-moisture irrigation controller: status, zone configuration, event log.
// @BasePath     /
func main() {
	// load configs/config.yml, .env and IRRIGATION_* variables
	cfg, err := config.Load("configs")
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	// init logger
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	// open DB
	conn, err := openDB(cfg.DBPath, log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(conn)

	loadCtx, loadCancel := context.WithTimeout(context.Background(), bootLoadTimeout)
	zones := store.InitialZones(loadCtx, repos.ZoneRepo, log.Named("store"))
	loadCancel()

	cfgStore, err := store.New(zones,
		store.WithPersister(repos.ZoneRepo),
		store.WithLogger(log.Named("store")),
	)
	if err != nil {
		log.Fatalw("failed to init config store", "err", err)
	}

	hw, err := buildBackends(cfg)
	if err != nil {
		log.Fatalw("failed to init hardware", "sensor", cfg.Sensor.Source, "relay", cfg.Relay.Driver, "err", err)
	}
	defer hw.close(log)
	reader := sensor.NewReader(hw.adc, cfg.Sensor.RawDry, cfg.Sensor.RawWet, log.Named("sensor"))
	relays := relay.NewBank(hw.sw, log.Named("relay"))

	recorder := service.NewEventRecorder(repos.EventRepo, 0, log.Named("events"))
	eng := engine.New(cfgStore, reader, relays, engine.SystemClock{Location: cfg.Location}, recorder, log.Named("engine"))
	tracker := connectivity.NewTracker(log.Named("net"))

	services := service.NewService(repos, cfgStore, eng, tracker, recorder)
	telemetry := service.NewTelemetryService(eng, recorder, cfg.TelemetryInterval, log.Named("telemetry"))
	apiHandler := handlers.NewHandler(services, log.Named("http"), handlers.WithStreamInterval(cfg.WSInterval))

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	goRun(&wg, func() { recorder.Run(ctx) })
	goRun(&wg, func() { cfgStore.Run(ctx) })
	if hw.sim != nil {
		goRun(&wg, func() { hw.sim.Run(ctx, defaultSimTick) })
	}
	goRun(&wg, func() { eng.Run(ctx, cfg.Tick) })

	if err := telemetry.Start(); err != nil {
		log.Errorw("telemetry disabled", "err", err)
	}

	log.Infow("irrigation controller started",
		"port", cfg.Port, "tick", cfg.Tick.String(), "timezone", cfg.Location.String(),
		"sensor", cfg.Sensor.Source, "relay", cfg.Relay.Driver)

	// start HTTP server
	srv := &server.Server{Notifier: tracker}
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	// graceful shutdown
	waitForSignal()
	log.Infow("shutting down server...")
	shutdown(srv, telemetry, cancel, &wg, log)
	log.Infow("shutdown complete")
}

func goRun(wg *sync.WaitGroup, fn func()) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		fn()
	}()
}

// openDB initializes the SQLite database using configuration.
func openDB(path string, log *logger.Logger) (*sql.DB, error) {
	if path == "" {
		log.Infow("db.path not set in config; using default file", "default", "irrigation.db")
		path = "irrigation.db"
	}
	return db.InitDB(path)
}

type backends struct {
	adc     sensor.ADC
	sw      relay.Switch
	sim     *service.SoilSimulator
	closers []io.Closer
}

func (b backends) close(log *logger.Logger) {
	for _, c := range b.closers {
		if err := c.Close(); err != nil {
			log.Warnw("hardware_close_failed", "err", err)
		}
	}
}

// buildBackends picks the sensor and relay hardware. The soil simulator is
// built when either side is simulated. With a simulated sensor and real
// relays the simulator mirrors every relay write so its soil still wets.
func buildBackends(cfg *config.Config) (backends, error) {
	var b backends
	if cfg.Sensor.Source == config.BackendSimulated || cfg.Relay.Driver == config.BackendSimulated {
		b.sim = service.NewSoilSimulator(service.SimulatorParams{
			InitialHumidity: cfg.Simulator.InitialHumidity,
			DryRatePerSec:   cfg.Simulator.DryRatePerSec,
			WetRatePerSec:   cfg.Simulator.WetRatePerSec,
			RawDry:          cfg.Sensor.RawDry,
			RawWet:          cfg.Sensor.RawWet,
		})
		b.adc, b.sw = b.sim, b.sim
	}

	if cfg.Sensor.Source == config.BackendI2C {
		bus, err := sensor.OpenI2CBus(cfg.Sensor.Bus)
		if err != nil {
			return b, err
		}
		b.closers = append(b.closers, bus)
		b.adc = sensor.NewI2CADC(bus, cfg.Sensor.Address, cfg.Sensor.Register)
	}

	if cfg.Relay.Driver == config.BackendGPIO {
		pins, err := relay.OpenRPIO([models.ZoneCount]int{cfg.Relay.Morning, cfg.Relay.Afternoon}, cfg.Relay.ActiveLow)
		if err != nil {
			b.close(logger.NewNop())
			return b, err
		}
		b.closers = append(b.closers, pins)
		b.sw = pins
		if b.sim != nil {
			b.sw = relay.Mirror{Primary: pins, Shadow: b.sim}
		}
	}
	return b, nil
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForSignal blocks until SIGINT or SIGTERM.
func waitForSignal() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
}

type httpShutdowner interface {
	Shutdown(ctx context.Context) error
}

type stopper interface {
	Stop()
}

// shutdown lets in-flight requests complete before the background
// goroutines are canceled, so updates they accept are still persisted and
// logged. The engine turns every valve off and the recorder and store
// flush before wg is released.
func shutdown(srv httpShutdowner, tel stopper, cancel context.CancelFunc, wg *sync.WaitGroup, log *logger.Logger) {
	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
	tel.Stop()

	// stop background goroutines
	cancel()
	wg.Wait()
}
