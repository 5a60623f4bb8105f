package handlers

import (
	"clipshare/domain/ports"
	"clipshare/domain/services"
	"clipshare/pkg/metrics"
)

// Services รวม dependencies ทั้งหมดที่ handlers ต้องใช้
type Services struct {
	VideoService services.VideoService
	BlobStore    ports.BlobStore
	Metrics      *metrics.Registry
	StorageMode  string
}

// Handlers รวม HTTP handlers ทั้งหมด
type Handlers struct {
	VideoHandler   *VideoHandler
	InsightHandler *InsightHandler
	StatsHandler   *StatsHandler
	FileHandler    *FileHandler
}

// NewHandlers สร้าง handlers ทั้งหมดจาก services
func NewHandlers(services *Services) *Handlers {
	return &Handlers{
		VideoHandler:   NewVideoHandler(services.VideoService),
		InsightHandler: NewInsightHandler(services.VideoService),
		StatsHandler:   NewStatsHandler(services.VideoService, services.Metrics, services.StorageMode),
		FileHandler:    NewFileHandler(services.BlobStore),
	}
}
