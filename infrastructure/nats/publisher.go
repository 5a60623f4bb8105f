package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"clipshare/domain/models"
	"clipshare/domain/ports"
	"clipshare/pkg/logger"
)

// Subjects
const (
	SubjectUploaded = "clipshare.videos.uploaded"
	SubjectEnriched = "clipshare.videos.enriched"
)

// UploadedEvent payload ของ event ตอน upload สำเร็จ
type UploadedEvent struct {
	VideoID     string    `json:"videoId"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	VideoURL    string    `json:"videoUrl"`
	UploadedAt  time.Time `json:"uploadedAt"`
	StorageMode string    `json:"storageMode"`
}

// EnrichedEvent payload ของ event ตอน enrichment เสร็จ
type EnrichedEvent struct {
	VideoID          string   `json:"videoId"`
	Tags             []string `json:"tags"`
	ModerationStatus string   `json:"moderationStatus"`
	EnrichedAt       time.Time `json:"enrichedAt"`
}

// Publisher implements EventPublisher ด้วย core NATS
// ระบบนี้ event เป็น fire-and-forget - ไม่ต้องใช้ JetStream
type Publisher struct {
	conn        *nats.Conn
	storageMode string
}

// NewPublisher เชื่อมต่อ NATS server
func NewPublisher(url, storageMode string) (ports.EventPublisher, error) {
	conn, err := nats.Connect(url,
		nats.MaxReconnects(-1), // Reconnect forever
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	logger.Info("NATS publisher initialized", "url", url)

	return &Publisher{conn: conn, storageMode: storageMode}, nil
}

// PublishUploaded แจ้งว่ามี video ใหม่
func (p *Publisher) PublishUploaded(ctx context.Context, record *models.VideoRecord) error {
	event := UploadedEvent{
		VideoID:     record.ID,
		UserID:      record.UserID,
		Title:       record.Title,
		VideoURL:    record.VideoURL,
		UploadedAt:  record.CreatedAt,
		StorageMode: p.storageMode,
	}
	return p.publish(SubjectUploaded, event)
}

// PublishEnriched แจ้งว่า enrichment เสร็จแล้ว
func (p *Publisher) PublishEnriched(ctx context.Context, record *models.VideoRecord, insights *models.VideoInsights) error {
	event := EnrichedEvent{
		VideoID:          record.ID,
		Tags:             record.Tags,
		ModerationStatus: record.ModerationStatus,
		EnrichedAt:       time.Now().UTC(),
	}
	return p.publish(SubjectEnriched, event)
}

func (p *Publisher) publish(subject string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Close ปิด connection - Drain เพื่อ flush message ที่ค้างก่อน
func (p *Publisher) Close() {
	if err := p.conn.Drain(); err != nil {
		logger.Warn("Failed to drain NATS connection", "error", err)
	}
}
