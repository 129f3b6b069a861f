// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"talentflow-workers/internal/common/camunda"
	"talentflow-workers/internal/common/config"
	"talentflow-workers/internal/common/database"
	"talentflow-workers/internal/common/logger"
	"talentflow-workers/internal/common/observability"
	"talentflow-workers/internal/matching/vector"
	"talentflow-workers/internal/parsing"
	"talentflow-workers/internal/parsing/fields"
	"talentflow-workers/internal/parsing/ner"
	"talentflow-workers/internal/parsing/skills"
	"talentflow-workers/pkg/registry"
	"talentflow-workers/pkg/skillcatalog"

	// Resume Workers (3)
	ip "talentflow-workers/internal/workers/resume/index-profile"
	pr "talentflow-workers/internal/workers/resume/parse-resume"
	ss "talentflow-workers/internal/workers/resume/standardize-skills"

	// Matching Workers (2)
	cms "talentflow-workers/internal/workers/matching/calculate-match-score"
	sp "talentflow-workers/internal/workers/matching/search-profiles"

	// Communication Workers (1)
	ssn "talentflow-workers/internal/workers/communication/send-screening-notification"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	// Rebuild the logger with the configured level and format
	zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Load Activity Registry ---
	// The registry documents the task types this fleet serves. A broken
	// registry file should not keep the workers down, so failures only warn.
	if cfg.Registry.Path != "" {
		reg, err := registry.LoadRegistry(cfg.Registry.Path)
		if err != nil {
			zapLog.Warn("activity registry unavailable", zap.Error(err))
		} else if err := reg.Validate(); err != nil {
			zapLog.Warn("activity registry invalid", zap.Error(err))
		} else {
			zapLog.Info("activity registry loaded",
				zap.String("version", reg.Version),
				zap.Int("activities", len(reg.Activities)),
			)
		}
	}

	// --- Init Zeebe Client with retry ---
	var camundaClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		camundaClient, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      config.GetDuration(cfg.Camunda.Timeout),
			RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zeebeClient := camundaClient.GetClient()
	zapLog.Info("Zeebe client connected successfully")

	// Keep deployed process models current with the repo. Failure is not
	// fatal: previously deployed versions keep serving.
	if cfg.Camunda.BPMNDir != "" {
		deployed, err := camundaClient.DeployProcesses(ctx, cfg.Camunda.BPMNDir)
		if err != nil {
			zapLog.Warn("process model deployment failed",
				zap.String("dir", cfg.Camunda.BPMNDir),
				zap.Int("deployed", deployed),
				zap.Error(err),
			)
		} else if deployed > 0 {
			zapLog.Info("process models deployed", zap.Int("count", deployed))
		}
	}

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		// Test the connection with context
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		// Test the connection
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var redisClient *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redisClient, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		// Test the connection with context
		return redisClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redisClient.Close()
	zapLog.Info("Redis connected successfully")

	// --- Build Parsing Pipeline ---
	catalog := skillcatalog.Default()
	if cfg.Parsing.CatalogPath != "" {
		loaded, err := skillcatalog.Load(cfg.Parsing.CatalogPath)
		if err != nil {
			zapLog.Warn("skill catalog load failed, using embedded catalog", zap.Error(err))
		}
		catalog = loaded
	}
	zapLog.Info("skill catalog ready",
		zap.Int("skills", catalog.Len()),
		zap.Int("categories", len(catalog.Categories())),
	)

	var recognizer fields.EntityRecognizer
	if cfg.Parsing.NER.BaseURL != "" {
		recognizer = ner.NewClient(&ner.Config{
			BaseURL: cfg.Parsing.NER.BaseURL,
			APIKey:  cfg.Parsing.NER.APIKey,
			Timeout: config.GetDuration(cfg.Parsing.NER.Timeout),
		}, log)
		zapLog.Info("NER recognition enabled", zap.String("baseURL", cfg.Parsing.NER.BaseURL))
	}

	skillsCfg := &skills.Config{
		NgramMax:       cfg.Parsing.Skills.NgramMax,
		FuzzyThreshold: cfg.Parsing.Skills.FuzzyThreshold,
	}
	fieldsExtractor := fields.NewExtractor(recognizer)
	skillsExtractor := skills.NewExtractor(catalog, skillsCfg)
	standardizer := skills.NewStandardizer(catalog, skillsCfg)
	parser := parsing.NewParser(fieldsExtractor, skillsExtractor, log)

	// --- Build Vector Similarity ---
	// index-profile and calculate-match-score share one index and embedder,
	// so profiles indexed by the former are scoreable by the latter.
	vectorIndex := vector.NewIndex()
	embedder := vector.NewHashingEmbedder(cfg.Matching.Vector.Dimensions)

	var similarity cms.SimilaritySource
	if cfg.Matching.UseSimilarity {
		similarity = vector.NewProfileSimilarity(embedder, vectorIndex, cfg.Matching.Vector.Namespace)
	}

	// --- START: Register ALL 6 Workers ---
	var workers []*camunda.Worker

	// --- 1. Resume Workers (3) ---
	var parseResumeHandler *pr.Handler
	if cfg.Workers[pr.TaskType].Enabled {
		handler, err := pr.NewHandler(pr.HandlerOptions{
			AppConfig: cfg,
			Camunda:   camundaClient,
			Logger:    log,
			DB:        pg.DB,
			Redis:     redisClient.Client,
			Parser:    parser,
		})
		if err != nil {
			zapLog.Fatal("failed to create parse-resume handler", zap.Error(err))
		}
		if err := handler.Register(); err != nil {
			zapLog.Fatal("failed to register parse-resume worker", zap.Error(err))
		}
		parseResumeHandler = handler
	}

	if wcfg := cfg.Workers[ss.TaskType]; wcfg.Enabled {
		handler := ss.NewHandler(
			&ss.Config{
				Timeout: config.GetDuration(wcfg.Timeout),
			},
			standardizer, log,
		)
		workers = append(workers, camunda.Register(
			zeebeClient, ss.TaskType, wcfg.MaxJobsActive, config.GetDuration(wcfg.Timeout),
			handler.Handle, obs, zapLog,
		))
	}

	if wcfg := cfg.Workers[ip.TaskType]; wcfg.Enabled {
		ipCfg := ip.LoadConfig()
		ipCfg.Timeout = config.GetDuration(wcfg.Timeout)
		ipCfg.Namespace = cfg.Matching.Vector.Namespace

		handler := ip.NewHandler(ipCfg, esClient.Client, vectorIndex, embedder, log)
		workers = append(workers, camunda.Register(
			zeebeClient, ip.TaskType, wcfg.MaxJobsActive, config.GetDuration(wcfg.Timeout),
			handler.Handle, obs, zapLog,
		))
	}

	// --- 2. Matching Workers (2) ---
	if wcfg := cfg.Workers[cms.TaskType]; wcfg.Enabled {
		cmsCfg := cms.LoadConfig()
		cmsCfg.Timeout = config.GetDuration(wcfg.Timeout)
		cmsCfg.CacheTTL = time.Duration(cfg.Matching.CacheTTL) * time.Second
		cmsCfg.UseSimilarity = cfg.Matching.UseSimilarity

		handler := cms.NewHandler(cmsCfg, pg.DB, redisClient.Client, similarity, log)
		workers = append(workers, camunda.Register(
			zeebeClient, cms.TaskType, wcfg.MaxJobsActive, config.GetDuration(wcfg.Timeout),
			handler.Handle, obs, zapLog,
		))
	}

	if wcfg := cfg.Workers[sp.TaskType]; wcfg.Enabled {
		spCfg := sp.LoadConfig()
		spCfg.Timeout = config.GetDuration(wcfg.Timeout)

		handler := sp.NewHandler(spCfg, esClient.Client, log)
		workers = append(workers, camunda.Register(
			zeebeClient, sp.TaskType, wcfg.MaxJobsActive, config.GetDuration(wcfg.Timeout),
			handler.Handle, obs, zapLog,
		))
	}

	// --- 3. Communication Workers (1) ---
	if wcfg := cfg.Workers[ssn.TaskType]; wcfg.Enabled {
		handler, err := ssn.NewHandler(
			&ssn.Config{
				EmailEnabled:     cfg.Notifications.Email.Enabled,
				SMSEnabled:       cfg.Notifications.SMS.Enabled,
				FromEmail:        cfg.Notifications.Email.FromEmail,
				AWSRegion:        cfg.Notifications.AWS.Region,
				TemplateRegistry: cfg.Registry.TemplatesPath,
				Timeout:          config.GetDuration(wcfg.Timeout),
			},
			pg.DB, log,
		)
		if err != nil {
			zapLog.Fatal("failed to create send-screening-notification handler", zap.Error(err))
		}
		workers = append(workers, camunda.Register(
			zeebeClient, ssn.TaskType, wcfg.MaxJobsActive, config.GetDuration(wcfg.Timeout),
			handler.Handle, obs, zapLog,
		))
	}

	zapLog.Info("All 6 workers registered successfully")

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()

			status := "ready"
			code := http.StatusOK
			if parseResumeHandler != nil {
				if err := parseResumeHandler.HealthCheck(ctx); err != nil {
					status = "not ready"
					code = http.StatusServiceUnavailable
				}
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(code)
			json.NewEncoder(w).Encode(map[string]string{
				"status": status,
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")

	for _, w := range workers {
		w.Close()
	}
	if parseResumeHandler != nil {
		parseResumeHandler.Close()
	}

	if err := camundaClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}
