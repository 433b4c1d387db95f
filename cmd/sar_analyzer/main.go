package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"runtime"
	"time"

	"github.com/GallupGovt/ASIST/internal/config"
	"github.com/GallupGovt/ASIST/internal/logging"
	intOtel "github.com/GallupGovt/ASIST/internal/otel"
	"github.com/GallupGovt/ASIST/internal/storage"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// module defs - BuildDate can be set at build time via ldflags
var (
	CurrentVersion string = "1.0.0"
	BuildDate      string = "unknown"

	AppName string = "sar_analyzer"
)

// global variables
var (
	SessionStartTime time.Time = time.Now()

	// SlogManager handles all slog-based logging
	SlogManager *logging.SlogManager

	// Logger is the slog logger (convenience reference)
	Logger *slog.Logger

	// ZLogger is the zerolog logger handed to the database and influx managers
	ZLogger zerolog.Logger

	// OTelProvider handles OpenTelemetry
	OTelProvider *intOtel.Provider

	LogFilePath string
	LogFile     *os.File

	// Storage backend
	storageBackend storage.Backend
)

func main() {
	parseFlags()

	// bootstrap logging to stdout until the log file exists
	SlogManager = logging.NewSlogManager()
	SlogManager.Setup(nil, viper.GetString("logLevel"), nil)
	Logger = SlogManager.Logger()

	if err := loadConfig(); err != nil {
		Logger.Warn("Failed to load config, using defaults!", "error", err)
	} else {
		Logger.Info("Loaded config")
	}

	// create logs dir if it doesn't exist
	if _, err := os.Stat(viper.GetString("logsDir")); os.IsNotExist(err) {
		os.Mkdir(viper.GetString("logsDir"), 0755)
	}

	LogFilePath = logging.LogFilePath(viper.GetString("logsDir"), AppName, SessionStartTime)
	var err error
	LogFile, err = os.OpenFile(LogFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		Logger.Error("Failed to create/open log file!", "error", err, "path", LogFilePath)
	}
	var logWriter io.Writer
	if LogFile != nil {
		logWriter = LogFile
	}

	// Initialize OTel provider if enabled (after log file is created)
	otelCfg := config.GetOTelConfig()
	if otelCfg.Enabled {
		OTelProvider, err = intOtel.New(intOtel.Config{
			Enabled:      otelCfg.Enabled,
			ServiceName:  otelCfg.ServiceName,
			BatchTimeout: otelCfg.BatchTimeout,
			LogWriter:    logWriter,
			Endpoint:     otelCfg.Endpoint,
			Insecure:     otelCfg.Insecure,
		})
		if err != nil {
			Logger.Error("Failed to initialize OTel provider", "error", err)
		} else {
			Logger.Info("OTel provider initialized", "file", LogFilePath)
		}
	}

	// Re-setup logging with file output and optional OTel
	var otelLogProvider *sdklog.LoggerProvider
	if OTelProvider != nil {
		otelLogProvider = OTelProvider.LoggerProvider()
	}
	SlogManager.Setup(logWriter, viper.GetString("logLevel"), otelLogProvider)
	Logger = SlogManager.Logger()
	Logger.Info("Starting up",
		"version", CurrentVersion,
		"buildDate", BuildDate,
		"log", LogFilePath)

	ZLogger = newZerologLogger(LogFile)

	// use all cores but leave headroom for the runtime
	numCPUs := runtime.NumCPU()
	runtime.GOMAXPROCS(int(math.Max(float64(numCPUs-2), 1)))

	if err := run(); err != nil {
		Logger.Error("Run failed", "error", err)
		shutdown()
		os.Exit(1)
	}
	shutdown()
}

// loadConfig reads the JSON config from the configured directory.
func loadConfig() error {
	return config.Load(viper.GetString("configDir"))
}

// newZerologLogger builds the zerolog logger shared by the database and
// influx managers, writing to both the console and the session log file.
func newZerologLogger(file *os.File) zerolog.Logger {
	console := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	var w io.Writer = console
	if file != nil {
		w = zerolog.MultiLevelWriter(console, file)
	}
	return zerolog.New(w).With().Timestamp().Logger()
}

// shutdown flushes every sink before exit.
func shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if storageBackend != nil {
		if err := storageBackend.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "error closing storage backend: %v\n", err)
		}
	}
	if SlogManager != nil {
		_ = SlogManager.Flush(ctx)
	}
	if OTelProvider != nil {
		_ = OTelProvider.Shutdown(ctx)
	}
	if LogFile != nil {
		LogFile.Close()
	}
}
