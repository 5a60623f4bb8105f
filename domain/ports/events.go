package ports

import (
	"context"

	"clipshare/domain/models"
)

// EventPublisher ส่ง lifecycle events ของ video ออกไปข้างนอก (NATS)
// optional ทั้งหมด - ส่งไม่ได้ก็แค่ log ไม่ทำให้ request fail
type EventPublisher interface {
	// PublishUploaded แจ้งว่ามี video ใหม่
	PublishUploaded(ctx context.Context, record *models.VideoRecord) error

	// PublishEnriched แจ้งว่า enrichment เสร็จแล้ว
	PublishEnriched(ctx context.Context, record *models.VideoRecord, insights *models.VideoInsights) error

	// Close ปิด connection
	Close()
}
