package main

import (
	"fmt"
	"os"
	"time"

	"github.com/GallupGovt/ASIST/internal/api"
	"github.com/GallupGovt/ASIST/internal/cache"
	"github.com/GallupGovt/ASIST/internal/config"
	"github.com/GallupGovt/ASIST/internal/influx"
	"github.com/GallupGovt/ASIST/internal/logging"
	"github.com/GallupGovt/ASIST/internal/monitor"
	"github.com/GallupGovt/ASIST/internal/storage"
	"github.com/GallupGovt/ASIST/internal/survey"
	"github.com/GallupGovt/ASIST/internal/trial"
	"github.com/GallupGovt/ASIST/internal/worker"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// parseFlags binds command line overrides onto the viper config keys.
func parseFlags() {
	pflag.String("config", ".", "directory containing sar_analyzer.cfg.json")
	pflag.String("trial-dir", "", "directory of trial metadata dumps")
	pflag.String("map-dir", "", "directory of semantic map and trigger files")
	pflag.String("survey", "", "survey CSV export file")
	pflag.Int("workers", 0, "number of concurrent trial workers")
	pflag.String("storage", "", "storage backend (memory or gorm)")
	pflag.String("tag", "", "tag attached to uploaded result artifacts")
	pflag.Parse()

	viper.SetDefault("configDir", ".")
	_ = viper.BindPFlag("configDir", pflag.Lookup("config"))
	_ = viper.BindPFlag("trialDir", pflag.Lookup("trial-dir"))
	_ = viper.BindPFlag("mapDir", pflag.Lookup("map-dir"))
	_ = viper.BindPFlag("surveyFile", pflag.Lookup("survey"))
	_ = viper.BindPFlag("workers", pflag.Lookup("workers"))
	_ = viper.BindPFlag("storage.type", pflag.Lookup("storage"))
	_ = viper.BindPFlag("uploadTag", pflag.Lookup("tag"))
}

// run executes one full batch: discover trials, process them over the
// worker pool, finalize storage, and push artifacts to the data portal
// when one is configured.
func run() error {
	surveyFile, err := os.Open(viper.GetString("surveyFile"))
	if err != nil {
		return fmt.Errorf("failed to open survey file: %w", err)
	}
	surveys, err := survey.Load(surveyFile)
	surveyFile.Close()
	if err != nil {
		return fmt.Errorf("failed to parse survey file: %w", err)
	}
	Logger.Info("Loaded survey data", "file", viper.GetString("surveyFile"))

	paths, err := worker.DiscoverTrials(viper.GetString("trialDir"))
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no trial files found under %s", viper.GetString("trialDir"))
	}
	Logger.Info("Discovered trial files", "count", len(paths))

	storageCfg, err := config.Storage()
	if err != nil {
		return err
	}
	storageBackend, err = storage.NewBackend(storageCfg, ZLogger)
	if err != nil {
		return err
	}
	if err := storageBackend.Init(); err != nil {
		return fmt.Errorf("failed to initialize storage backend: %w", err)
	}

	var influxManager *influx.Manager
	if viper.GetBool("influx.enabled") {
		backupPath := logging.LogFilePath(viper.GetString("logsDir"), AppName+".influx_backup", SessionStartTime) + ".gz"
		influxManager = influx.NewManager(ZLogger, backupPath)
		if err := influxManager.Connect(); err != nil {
			Logger.Warn("InfluxDB unavailable, metrics disabled", "error", err)
			influxManager = nil
		}
	}

	processor := trial.NewProcessor(trial.Dependencies{
		LogManager: SlogManager,
		Indexes:    cache.NewIndexCache(viper.GetString("mapDir")),
		Surveys:    surveys,
	}, trial.Options{
		GodAccounts:    viper.GetStringSlice("godAccounts"),
		MissionSeconds: viper.GetFloat64("mission.durationSeconds"),
		WindowSeconds:  viper.GetFloat64("mission.victimExpirySeconds"),
	})

	workerManager := worker.NewManager(worker.Dependencies{
		LogManager: SlogManager,
		Processor:  processor,
		Influx:     influxManager,
	}, storageBackend)

	monitorService := monitor.NewService(monitor.Dependencies{
		LogManager:    SlogManager,
		WorkerManager: workerManager,
		StatusDir:     viper.GetString("logsDir"),
		TotalTrials:   len(paths),
	})
	if err := monitorService.Start(); err != nil {
		Logger.Warn("Failed to start status monitor", "error", err)
	}

	runErr := workerManager.Run(paths, viper.GetInt("workers"))
	monitorService.Stop()
	if runErr != nil {
		return runErr
	}

	if influxManager != nil {
		if err := influxManager.Close(); err != nil {
			Logger.Warn("Failed to close InfluxDB manager", "error", err)
		}
	}

	return uploadArtifacts(workerManager.Processed())
}

// uploadArtifacts pushes exported result files to the data portal when
// one is configured. Upload failures are logged, not fatal.
func uploadArtifacts(trialCount int) error {
	serverURL := viper.GetString("api.serverUrl")
	if serverURL == "" {
		return nil
	}

	exportable, ok := storageBackend.(storage.Exportable)
	if !ok {
		Logger.Debug("Storage backend exports no files, skipping upload")
		return nil
	}

	client := api.New(serverURL, viper.GetString("api.apiKey"))
	if err := client.Healthcheck(); err != nil {
		Logger.Warn("Data portal unreachable, skipping upload", "error", err)
		return nil
	}

	meta := api.UploadMetadata{
		BatchID:    SessionStartTime.Format(time.RFC3339),
		TrialCount: trialCount,
		Tag:        viper.GetString("uploadTag"),
	}
	for _, path := range exportable.ExportedFilePaths() {
		if err := client.Upload(path, meta); err != nil {
			Logger.Warn("Failed to upload artifact", "file", path, "error", err)
			continue
		}
		Logger.Info("Uploaded artifact", "file", path)
	}
	return nil
}
