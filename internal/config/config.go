package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Backend names for sensor.source and relay.driver.
const (
	BackendSimulated = "simulated"
	BackendI2C       = "i2c"
	BackendGPIO      = "gpio"
)

const (
	envPrefix = "IRRIGATION"
	maxBCMPin = 53
)

type Config struct {
	Port string

	LogLevel  string
	LogFormat string

	DBPath string

	// Tick is the control-loop period.
	Tick     time.Duration
	Location *time.Location

	Sensor    SensorConfig
	Relay     RelayConfig
	Simulator SimulatorConfig

	TelemetryInterval time.Duration
	WSInterval        time.Duration
}

type SensorConfig struct {
	Source   string
	Bus      string // I2C bus name, empty for the first bus
	Address  uint16 // I2C address of the ADC
	Register byte   // register holding the moisture sample
	RawDry   int    // raw reading of completely dry soil (0%)
	RawWet   int    // raw reading of saturated soil (100%)
}

type RelayConfig struct {
	Driver    string
	ActiveLow bool
	Morning   int // BCM pin number
	Afternoon int
}

type SimulatorConfig struct {
	InitialHumidity float64
	DryRatePerSec   float64
	WetRatePerSec   float64
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("db.path", "irrigation.db")
	v.SetDefault("engine.tick", "5s")
	v.SetDefault("engine.timezone", "Local")
	v.SetDefault("sensor.source", BackendSimulated)
	v.SetDefault("sensor.bus", "")
	v.SetDefault("sensor.address", 0x36)
	v.SetDefault("sensor.register", 0x20)
	v.SetDefault("sensor.raw_dry", 3000)
	v.SetDefault("sensor.raw_wet", 1200)
	v.SetDefault("relay.driver", BackendSimulated)
	v.SetDefault("relay.active_low", false)
	v.SetDefault("relay.pins.morning", 17)
	v.SetDefault("relay.pins.afternoon", 27)
	v.SetDefault("telemetry.interval", "5m")
	v.SetDefault("simulator.initial_humidity", 55.0)
	v.SetDefault("simulator.dry_rate", 0.05)
	v.SetDefault("simulator.wet_rate", 0.5)
	v.SetDefault("ws.interval", "1s")
}

// Load reads configs/config.yml (or the directory given), an optional .env
// file, and IRRIGATION_* environment variables, in increasing precedence.
// A missing config file is not an error; every key has a default.
func Load(dir string) (*Config, error) {
	_ = godotenv.Load() // .env is optional

	v := viper.New()
	setDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	if dir != "" {
		v.AddConfigPath(dir)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:      v.GetString("port"),
		LogLevel:  v.GetString("log.level"),
		LogFormat: v.GetString("log.format"),
		DBPath:    v.GetString("db.path"),
		Sensor: SensorConfig{
			Source: strings.ToLower(v.GetString("sensor.source")),
			Bus:    v.GetString("sensor.bus"),
			RawDry: v.GetInt("sensor.raw_dry"),
			RawWet: v.GetInt("sensor.raw_wet"),
		},
		Relay: RelayConfig{
			Driver:    strings.ToLower(v.GetString("relay.driver")),
			ActiveLow: v.GetBool("relay.active_low"),
			Morning:   v.GetInt("relay.pins.morning"),
			Afternoon: v.GetInt("relay.pins.afternoon"),
		},
		Simulator: SimulatorConfig{
			InitialHumidity: v.GetFloat64("simulator.initial_humidity"),
			DryRatePerSec:   v.GetFloat64("simulator.dry_rate"),
			WetRatePerSec:   v.GetFloat64("simulator.wet_rate"),
		},
	}

	var err error
	if cfg.Tick, err = positiveDuration(v, "engine.tick"); err != nil {
		return nil, err
	}
	if cfg.TelemetryInterval, err = positiveDuration(v, "telemetry.interval"); err != nil {
		return nil, err
	}
	if cfg.WSInterval, err = positiveDuration(v, "ws.interval"); err != nil {
		return nil, err
	}

	tz := v.GetString("engine.timezone")
	if cfg.Location, err = time.LoadLocation(tz); err != nil {
		return nil, fmt.Errorf("invalid engine.timezone %q: %w", tz, err)
	}

	switch cfg.Sensor.Source {
	case BackendSimulated, BackendI2C:
	default:
		return nil, fmt.Errorf("invalid sensor.source %q: want %s or %s", cfg.Sensor.Source, BackendSimulated, BackendI2C)
	}
	addr, reg := v.GetInt("sensor.address"), v.GetInt("sensor.register")
	if addr < 0x03 || addr > 0x77 {
		return nil, fmt.Errorf("invalid sensor.address %#x: want a 7-bit address 0x03-0x77", addr)
	}
	if reg < 0 || reg > 0xff {
		return nil, fmt.Errorf("invalid sensor.register %#x", reg)
	}
	cfg.Sensor.Address, cfg.Sensor.Register = uint16(addr), byte(reg)
	switch cfg.Relay.Driver {
	case BackendSimulated, BackendGPIO:
	default:
		return nil, fmt.Errorf("invalid relay.driver %q: want %s or %s", cfg.Relay.Driver, BackendSimulated, BackendGPIO)
	}
	for key, pin := range map[string]int{"relay.pins.morning": cfg.Relay.Morning, "relay.pins.afternoon": cfg.Relay.Afternoon} {
		if pin < 0 || pin > maxBCMPin {
			return nil, fmt.Errorf("invalid %s %d: want a BCM pin 0-%d", key, pin, maxBCMPin)
		}
	}
	if cfg.Relay.Morning == cfg.Relay.Afternoon {
		return nil, fmt.Errorf("relay.pins.morning and relay.pins.afternoon must differ (both %d)", cfg.Relay.Morning)
	}
	if cfg.Sensor.RawDry == cfg.Sensor.RawWet {
		return nil, fmt.Errorf("sensor.raw_dry and sensor.raw_wet must differ (both %d)", cfg.Sensor.RawDry)
	}
	return cfg, nil
}

func positiveDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", key, raw)
	}
	return d, nil
}
