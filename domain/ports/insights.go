package ports

import (
	"context"

	"clipshare/domain/models"
)

// InsightEnricher คือ external collaborator ที่วิเคราะห์ video
// (tags, AI description, moderation, transcript)
// การเรียกอาจนานหลายสิบวินาที - ห้ามถือ lock ของ record ระหว่างรอ
type InsightEnricher interface {
	// GetVideoInsights วิเคราะห์ video ทั้งชุด (thumbnail + transcript + moderation)
	GetVideoInsights(ctx context.Context, videoURL string, record *models.VideoRecord) (*models.VideoInsights, error)

	// Transcribe ถอดเสียง video อย่างเดียว
	// return nil, models.ErrNotFound ถ้า indexer ไม่มีผลให้
	Transcribe(ctx context.Context, videoURL, videoID string) (*models.Transcription, error)
}
