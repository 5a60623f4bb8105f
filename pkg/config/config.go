package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Storage modes
const (
	ModeCloud = "cloud"
	ModeLocal = "local"
)

type Config struct {
	App      AppConfig
	Storage  StorageConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	NATS     NATSConfig
	Insights InsightsConfig
	Log      LogConfig
	CORS     CORSConfig
}

type AppConfig struct {
	Name string
	Port string
	Env  string
}

type LogConfig struct {
	Level      string // debug, info, warn, error
	Format     string // json, text
	Output     string // stdout, file, both
	FilePath   string // logs/app.log
	MaxSize    int    // MB
	MaxBackups int    // จำนวน backup files
	MaxAge     int    // วัน
	Compress   bool   // บีบอัด backup
}

type CORSConfig struct {
	AllowOrigins string
}

// StorageConfig ครอบทั้ง blob store และ local record store
type StorageConfig struct {
	Mode          string // cloud หรือ local (resolve แล้วตอน LoadConfig)
	BasePath      string // local mode: directory เก็บ video binaries
	BaseURL       string // URL สำหรับเข้าถึงไฟล์ local (เช่น http://localhost:8000)
	LocalDBFile   string // local mode: JSON collection file
	MaxUploadSize int64  // ขนาด upload สูงสุด (bytes)
	S3            S3Config
}

type S3Config struct {
	Endpoint  string // minio:9000 หรือ xxx.r2.cloudflarestorage.com
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Region    string
	PublicURL string // URL สำหรับเข้าถึงไฟล์ public (optional)
}

// MongoConfig สำหรับ cloud record store (Cosmos DB ผ่าน Mongo API ก็ใช้ได้)
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// RedisConfig สำหรับ cache ผล enrichment (optional - เปิดเมื่อมี REDIS_URL)
type RedisConfig struct {
	URL      string
	Password string
	DB       int
}

// NATSConfig สำหรับ event publishing (optional - เปิดเมื่อมี NATS_URL)
type NATSConfig struct {
	URL string
}

// InsightsConfig credentials ของ cognitive services / video indexer
// ไม่ครบ = enrichment ปิด (endpoints ตอบ 503) แต่ CRUD ทำงานปกติ
type InsightsConfig struct {
	CognitiveKey      string
	CognitiveEndpoint string
	IndexerKey        string
	IndexerAccountID  string
	IndexerLocation   string
	CacheTTLSeconds   int
}

func LoadConfig() (*Config, error) {
	// ไม่ error ถ้าไม่มี .env file (ใช้ environment variables แทน)
	_ = godotenv.Load()

	logMaxSize, _ := strconv.Atoi(getEnv("LOG_MAX_SIZE", "100"))
	logMaxBackups, _ := strconv.Atoi(getEnv("LOG_MAX_BACKUPS", "5"))
	logMaxAge, _ := strconv.Atoi(getEnv("LOG_MAX_AGE", "30"))
	logCompress := getEnv("LOG_COMPRESS", "true") == "true"

	maxUploadSize, _ := strconv.ParseInt(getEnv("STORAGE_MAX_UPLOAD_SIZE", "524288000"), 10, 64) // 500MB default
	s3UseSSL := getEnv("S3_USE_SSL", "false") == "true"
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	insightsCacheTTL, _ := strconv.Atoi(getEnv("INSIGHTS_CACHE_TTL", "300"))

	config := &Config{
		App: AppConfig{
			Name: getEnv("APP_NAME", "ClipShare API"),
			Port: getEnv("PORT", "8000"),
			Env:  getEnv("APP_ENV", "development"),
		},
		Storage: StorageConfig{
			BasePath:      getEnv("STORAGE_BASE_PATH", "./uploads"),
			BaseURL:       getEnv("STORAGE_BASE_URL", "http://localhost:8000"),
			LocalDBFile:   getEnv("LOCAL_DB_FILE", "local_videos.json"),
			MaxUploadSize: maxUploadSize,
			S3: S3Config{
				Endpoint:  getEnv("S3_ENDPOINT", ""),
				AccessKey: getEnv("S3_ACCESS_KEY", ""),
				SecretKey: getEnv("S3_SECRET_KEY", ""),
				Bucket:    getEnv("S3_BUCKET", "videos"),
				UseSSL:    s3UseSSL,
				Region:    getEnv("S3_REGION", "auto"),
				PublicURL: getEnv("S3_PUBLIC_URL", ""),
			},
		},
		Mongo: MongoConfig{
			URI:        getEnv("MONGO_URI", ""),
			Database:   getEnv("MONGO_DATABASE", "clipsharedb"),
			Collection: getEnv("MONGO_COLLECTION", "videos"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		NATS: NATSConfig{
			URL: getEnv("NATS_URL", ""),
		},
		Insights: InsightsConfig{
			CognitiveKey:      getEnv("COGNITIVE_SERVICES_KEY", ""),
			CognitiveEndpoint: getEnv("COGNITIVE_SERVICES_ENDPOINT", ""),
			IndexerKey:        getEnv("VIDEO_INDEXER_KEY", ""),
			IndexerAccountID:  getEnv("VIDEO_INDEXER_ACCOUNT_ID", ""),
			IndexerLocation:   getEnv("VIDEO_INDEXER_LOCATION", "trial"),
			CacheTTLSeconds:   insightsCacheTTL,
		},
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			Output:     getEnv("LOG_OUTPUT", "stdout"),
			FilePath:   getEnv("LOG_FILE", "logs/app.log"),
			MaxSize:    logMaxSize,
			MaxBackups: logMaxBackups,
			MaxAge:     logMaxAge,
			Compress:   logCompress,
		},
		CORS: CORSConfig{
			AllowOrigins: getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000,http://localhost:5173"),
		},
	}

	// Resolve storage mode: บังคับด้วย STORAGE_MODE ก็ได้
	// ไม่งั้นดูจาก credentials - ต้องมีทั้ง Mongo และ S3 ครบถึงเป็น cloud
	mode := getEnv("STORAGE_MODE", "")
	if mode != ModeCloud && mode != ModeLocal {
		if config.cloudCredentialsPresent() {
			mode = ModeCloud
		} else {
			mode = ModeLocal
		}
	}
	config.Storage.Mode = mode

	return config, nil
}

func (c *Config) cloudCredentialsPresent() bool {
	return c.Mongo.URI != "" &&
		c.Storage.S3.Endpoint != "" &&
		c.Storage.S3.AccessKey != "" &&
		c.Storage.S3.SecretKey != ""
}

// IsCloudMode ตรวจสอบว่าใช้ cloud backends (Mongo + S3) หรือไม่
func (c *Config) IsCloudMode() bool {
	return c.Storage.Mode == ModeCloud
}

// InsightsEnabled ตรวจสอบว่ามี cognitive services credentials อย่างน้อยหนึ่งชุด
func (c *Config) InsightsEnabled() bool {
	vision := c.Insights.CognitiveKey != "" && c.Insights.CognitiveEndpoint != ""
	indexer := c.Insights.IndexerKey != "" && c.Insights.IndexerAccountID != ""
	return vision || indexer
}

// IsDevelopment ตรวจสอบว่าเป็น development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction ตรวจสอบว่าเป็น production mode
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
