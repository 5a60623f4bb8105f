package repositories

import (
	"context"

	"clipshare/domain/models"
)

// VideoRepository คือ contract ของ Record Store
// มีสอง implementation: MongoDB (cloud mode) และ JSON collection file (local mode)
// ทั้งสองฝั่งต้องให้ผลเหมือนกันทุก operation - มี shared conformance suite
// (repotest package) ตรวจ symmetry นี้
type VideoRepository interface {
	// Create เพิ่ม record ใหม่
	// return models.ErrConflict ถ้า id ซ้ำ
	Create(ctx context.Context, record *models.VideoRecord) error

	// GetByID ดึง record ตาม id
	// return models.ErrNotFound ถ้าไม่เจอ
	GetByID(ctx context.Context, id string) (*models.VideoRecord, error)

	// List ดึง records ทั้งหมด เรียงตาม createdAt desc
	// เสมอกันให้เรียงตามลำดับ insert (stable)
	List(ctx context.Context) ([]*models.VideoRecord, error)

	// Search ค้นหา title หรือ description ด้วย substring (case-insensitive)
	// ผลเรียงแบบเดียวกับ List
	Search(ctx context.Context, term string) ([]*models.VideoRecord, error)

	// Upsert แทนที่ record ที่ id ตรงกัน หรือ insert ถ้ายังไม่มี
	Upsert(ctx context.Context, record *models.VideoRecord) error

	// IncrementViews เพิ่ม views ทีละ 1 แบบ atomic และ return ค่าใหม่
	// concurrent increments บน id เดียวกันต้องไม่หายสักครั้ง
	IncrementViews(ctx context.Context, id string) (int64, error)

	// IncrementLikes เพิ่ม likes ทีละ 1 แบบ atomic และ return ค่าใหม่
	IncrementLikes(ctx context.Context, id string) (int64, error)

	// UpdateInsights merge ผล enrichment ลง record โดยแตะเฉพาะ
	// tags/description_ai/moderation_status - ห้าม clobber counters
	// ที่อาจถูก increment ระหว่าง enrichment กำลังวิ่ง
	UpdateInsights(ctx context.Context, id string, tags []string, descriptionAI, moderationStatus string) error

	// Count นับ records ทั้งหมด
	Count(ctx context.Context) (int64, error)
}
