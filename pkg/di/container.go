package di

import (
	"context"
	"fmt"
	"time"

	"clipshare/application/serviceimpl"
	"clipshare/domain/ports"
	"clipshare/domain/repositories"
	"clipshare/domain/services"
	"clipshare/infrastructure/insights"
	"clipshare/infrastructure/localdb"
	"clipshare/infrastructure/mongodb"
	natspkg "clipshare/infrastructure/nats"
	redispkg "clipshare/infrastructure/redis"
	"clipshare/infrastructure/storage"
	"clipshare/interfaces/api/handlers"
	"clipshare/pkg/config"
	"clipshare/pkg/logger"
	"clipshare/pkg/metrics"
	"clipshare/pkg/scheduler"
)

// Container ประกอบ dependencies ทั้งหมดของระบบ
// ตัดสินใจ cloud/local ที่นี่ที่เดียว - ชั้นอื่นไม่มี mode branching
type Container struct {
	Config *config.Config

	// Infrastructure
	MongoClient    *mongodb.Client
	RedisClient    *redispkg.Client
	EventPublisher ports.EventPublisher
	BlobStore      ports.BlobStore
	Enricher       ports.InsightEnricher

	// Repositories
	VideoRepository repositories.VideoRepository

	// Services
	VideoService services.VideoService

	// Support
	Metrics        *metrics.Registry
	EventScheduler scheduler.EventScheduler
}

func NewContainer() *Container {
	return &Container{}
}

func (c *Container) Initialize() error {
	if err := c.initConfig(); err != nil {
		return err
	}

	if err := c.initLogger(); err != nil {
		return err
	}

	if err := c.initInfrastructure(); err != nil {
		return err
	}

	if err := c.initRepositories(); err != nil {
		return err
	}

	c.initServices()

	c.initScheduler()

	return nil
}

func (c *Container) initConfig() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	c.Config = cfg
	logger.Info("Configuration loaded", "storage_mode", cfg.Storage.Mode)
	return nil
}

func (c *Container) initLogger() error {
	logConfig := logger.Config{
		Level:      c.Config.Log.Level,
		Format:     c.Config.Log.Format,
		Output:     c.Config.Log.Output,
		FilePath:   c.Config.Log.FilePath,
		MaxSize:    c.Config.Log.MaxSize,
		MaxBackups: c.Config.Log.MaxBackups,
		MaxAge:     c.Config.Log.MaxAge,
		Compress:   c.Config.Log.Compress,
	}

	if err := logger.Init(logConfig); err != nil {
		return err
	}

	logger.Info("Logger initialized",
		"level", c.Config.Log.Level,
		"format", c.Config.Log.Format,
	)
	return nil
}

func (c *Container) initInfrastructure() error {
	c.Metrics = metrics.NewRegistry()

	if err := c.initBlobStore(); err != nil {
		return err
	}

	// Redis เป็น optional - ไม่มีก็ข้าม ไม่ fail
	if c.Config.Redis.URL != "" {
		redisClient, err := redispkg.NewClient(&c.Config.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, continuing without cache", "error", err)
		} else {
			c.RedisClient = redisClient
		}
	}

	// NATS ก็ optional เหมือนกัน
	if c.Config.NATS.URL != "" {
		publisher, err := natspkg.NewPublisher(c.Config.NATS.URL, c.Config.Storage.Mode)
		if err != nil {
			logger.Warn("NATS unavailable, continuing without events", "error", err)
		} else {
			c.EventPublisher = publisher
		}
	}

	c.initEnricher()

	return nil
}

// initBlobStore เลือก blob store ตาม mode ที่ resolve แล้ว
func (c *Container) initBlobStore() error {
	if c.Config.IsCloudMode() {
		store, err := storage.NewS3Storage(storage.S3StorageConfig{
			Endpoint:  c.Config.Storage.S3.Endpoint,
			AccessKey: c.Config.Storage.S3.AccessKey,
			SecretKey: c.Config.Storage.S3.SecretKey,
			Bucket:    c.Config.Storage.S3.Bucket,
			UseSSL:    c.Config.Storage.S3.UseSSL,
			PublicURL: c.Config.Storage.S3.PublicURL,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize s3 storage: %w", err)
		}
		c.BlobStore = store
		logger.Info("S3 storage initialized",
			"endpoint", c.Config.Storage.S3.Endpoint,
			"bucket", c.Config.Storage.S3.Bucket,
		)
		return nil
	}

	store, err := storage.NewLocalStorage(storage.LocalStorageConfig{
		BasePath: c.Config.Storage.BasePath,
		BaseURL:  c.Config.Storage.BaseURL,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize local storage: %w", err)
	}
	c.BlobStore = store
	logger.Info("Local storage initialized", "path", c.Config.Storage.BasePath)
	return nil
}

// initEnricher สร้าง insight enricher ถ้ามี credentials
// มี Redis ด้วยก็ wrap cache ทับอีกชั้น
func (c *Container) initEnricher() {
	if !c.Config.InsightsEnabled() {
		logger.Info("Insight enrichment disabled (no cognitive services credentials)")
		return
	}

	enricher := insights.NewAzureEnricher(c.Config.Insights)

	if c.RedisClient != nil {
		ttl := time.Duration(c.Config.Insights.CacheTTLSeconds) * time.Second
		enricher = insights.NewCachedEnricher(enricher, c.RedisClient, ttl)
		logger.Info("Insight cache enabled", "ttl", ttl.String())
	}

	c.Enricher = enricher
	logger.Info("Insight enricher initialized")
}

func (c *Container) initRepositories() error {
	if c.Config.IsCloudMode() {
		mongoClient, err := mongodb.NewClient(mongodb.Config{
			URI:      c.Config.Mongo.URI,
			Database: c.Config.Mongo.Database,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize mongodb: %w", err)
		}
		c.MongoClient = mongoClient

		repo, err := mongodb.NewVideoRepository(mongoClient, c.Config.Mongo.Collection)
		if err != nil {
			return fmt.Errorf("failed to initialize video repository: %w", err)
		}
		c.VideoRepository = repo
		logger.Info("MongoDB video repository initialized", "collection", c.Config.Mongo.Collection)
		return nil
	}

	repo, err := localdb.NewVideoRepository(c.Config.Storage.LocalDBFile)
	if err != nil {
		return fmt.Errorf("failed to initialize local video repository: %w", err)
	}
	c.VideoRepository = repo
	logger.Info("Local video repository initialized", "file", c.Config.Storage.LocalDBFile)
	return nil
}

func (c *Container) initServices() {
	c.VideoService = serviceimpl.NewVideoService(
		c.VideoRepository,
		c.BlobStore,
		c.Enricher,
		c.EventPublisher,
		c.Metrics,
	)
	logger.Info("Video service initialized")
}

// initScheduler ตั้ง job สรุป performance metrics ลง log ทุก 10 นาที
func (c *Container) initScheduler() {
	c.EventScheduler = scheduler.NewEventScheduler()
	c.EventScheduler.Start()

	err := c.EventScheduler.AddJob("metrics-summary", "*/10 * * * *", func() {
		slow := c.Metrics.SlowOperations(1.0)
		if len(slow) > 0 {
			logger.Warn("Slow operations detected", "count", len(slow))
			for _, op := range slow {
				logger.Warn("Slow operation",
					"operation", op.Operation,
					"avg_time", op.AvgTime,
					"count", op.Count,
				)
			}
		}
	})
	if err != nil {
		logger.Warn("Failed to schedule metrics summary", "error", err)
	}

	logger.Info("Event scheduler started")
}

func (c *Container) Cleanup() error {
	logger.Info("Starting cleanup...")

	if c.EventScheduler != nil && c.EventScheduler.IsRunning() {
		c.EventScheduler.Stop()
		logger.Info("Event scheduler stopped")
	}

	if c.EventPublisher != nil {
		c.EventPublisher.Close()
		logger.Info("NATS publisher closed")
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			logger.Warn("Failed to close Redis connection", "error", err)
		} else {
			logger.Info("Redis connection closed")
		}
	}

	if c.MongoClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := c.MongoClient.Close(ctx); err != nil {
			logger.Warn("Failed to close MongoDB connection", "error", err)
		} else {
			logger.Info("MongoDB connection closed")
		}
	}

	logger.Info("Cleanup completed")
	return nil
}

func (c *Container) GetConfig() *config.Config {
	return c.Config
}

func (c *Container) GetHandlerServices() *handlers.Services {
	return &handlers.Services{
		VideoService: c.VideoService,
		BlobStore:    c.BlobStore,
		Metrics:      c.Metrics,
		StorageMode:  c.Config.Storage.Mode,
	}
}
