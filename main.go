package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/text"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"farmcare/config"
	"farmcare/database"
	"farmcare/detection"
	"farmcare/gemini"
	"farmcare/handlers"
	"farmcare/localization"
	"farmcare/localmodel"
	"farmcare/metrics"
	"farmcare/middleware"
	"farmcare/rabbitmq"
	"farmcare/stubvision"
	"farmcare/vision"
)

const (
	EndPointHealth        = "/health"
	EndPointMetrics       = "/metrics"
	EndPointDetect        = "/disease/detect"
	EndPointClasses       = "/disease/classes"
	EndPointDiseaseInfo   = "/disease/info/:name"
	EndPointDiseaseStats  = "/disease/stats"
	EndPointScans         = "/disease-scans/scans"
	EndPointScanStats     = "/disease-scans/scans/stats"
	EndPointScanImage     = "/disease-scans/scans/:id/image"
	EndPointScan          = "/disease-scans/scans/:id"
	shutdownGracePeriod   = 30 * time.Second
	defaultMultipartBytes = 32 << 20
)

var envFile = flag.String("env_file", ".env", "Optional dotenv file loaded before reading the environment.")

func main() {
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil {
		log.Debugf("No env file loaded from %s: %v", *envFile, err)
	}

	// Load configuration
	cfg := config.Load()

	log.SetHandler(text.New(os.Stderr))
	if lvl, err := log.ParseLevel(cfg.LogLevel); err != nil {
		log.Warnf("Unknown LOG_LEVEL %q, using info", cfg.LogLevel)
		log.SetLevel(log.InfoLevel)
	} else {
		log.SetLevel(lvl)
	}

	log.Info("Starting the disease detection service...")
	metrics.Register()

	// Connect to database
	db, err := database.Connect(cfg.DB())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.InitSchema(context.Background(), db); err != nil {
		log.Fatalf("Failed to initialize database schema: %v", err)
	}
	store := database.New(db)

	// Event publisher is optional
	var publisher detection.Publisher
	if cfg.AMQPHost != "" {
		url := rabbitmq.URL(cfg.AMQPUser, cfg.AMQPPassword, cfg.AMQPHost, cfg.AMQPPort)
		p, err := rabbitmq.NewPublisher(url, cfg.AMQPExchange, cfg.AMQPScanRoutingKey)
		if err != nil {
			log.Warnf("Scan events disabled: %v", err)
		} else {
			defer p.Close()
			publisher = p
		}
	}

	pipeline := &detection.Pipeline{
		Local:           newLocalClassifier(cfg),
		Store:           store,
		Publisher:       publisher,
		Thresholds:      cfg.Thresholds,
		MaxScansPerUser: cfg.MaxScansPerUser,
	}
	pipeline.Remote, pipeline.RemoteModel = newVisionAdapter(cfg)
	log.Infof("Thresholds: local=%.0f report=%.0f scan=%.0f", cfg.Thresholds.Local, cfg.Thresholds.Report, cfg.Thresholds.Scan)

	h := handlers.NewHandlers(pipeline, store, cfg.Thresholds, cfg.MaxUploadBytes)

	// Setup router
	router := gin.Default()
	router.MaxMultipartMemory = defaultMultipartBytes
	// Stored uploads are already compressed.
	router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{handlers.APIPrefix + EndPointScans + "/"})))
	router.Use(middleware.Language(localization.Parse(cfg.DefaultLanguage)))

	router.GET(EndPointHealth, h.HealthCheck)
	router.GET(EndPointMetrics, gin.WrapH(promhttp.Handler()))

	api := router.Group(handlers.APIPrefix, middleware.OptionalAuth(cfg.JWTSecret))
	{
		api.POST(EndPointDetect, h.DetectDisease)
		api.GET(EndPointClasses, h.GetClasses)
		api.GET(EndPointDiseaseInfo, h.GetDiseaseInfo)
		api.GET(EndPointDiseaseStats, middleware.RequireUser(), h.GetStats)
		api.POST(EndPointScans, h.CreateScan)
		api.GET(EndPointScans, middleware.RequireUser(), h.ListScans)
		api.GET(EndPointScanStats, middleware.RequireUser(), h.GetStats)
		api.GET(EndPointScanImage, middleware.RequireUser(), h.GetScanImage)
		api.DELETE(EndPointScan, middleware.RequireUser(), h.DeleteScan)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Infof("Starting HTTP server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}
	log.Info("Server exited")
}

// newLocalClassifier returns nil when no model server is configured, in
// which case every request goes to the vision model.
func newLocalClassifier(cfg *config.Config) detection.Classifier {
	if cfg.LocalModelURL == "" {
		log.Info("Local model not configured, using the vision model only")
		return nil
	}
	log.Infof("Local model %s at %s, loaded on first use", cfg.LocalModelName, cfg.LocalModelURL)
	return localmodel.New(localmodel.NewServingLoader(cfg.LocalModelURL, cfg.LocalModelName, cfg.LocalModelTimeout))
}

func newVisionAdapter(cfg *config.Config) (*vision.Adapter, string) {
	switch cfg.VisionProvider {
	case "stub":
		log.Warn("Using the stub vision provider")
		c := stubvision.NewClient()
		return vision.New(c), c.Model()
	default:
		if cfg.GeminiAPIKey == "" {
			log.Warn("GEMINI_API_KEY is not set, remote detections will fail")
		}
		c := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel,
			gemini.WithAPIBase(cfg.GeminiAPIBase),
			gemini.WithTimeout(cfg.RemoteTimeout))
		return vision.New(c), c.Model()
	}
}
