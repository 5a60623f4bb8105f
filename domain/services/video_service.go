package services

import (
	"context"
	"mime/multipart"

	"clipshare/domain/dto"
	"clipshare/domain/models"
)

type VideoService interface {
	// Upload อัปโหลดวิดีโอใหม่: เขียน blob ก่อน แล้วค่อย create record
	// enrichment เป็น best-effort - ล้มเหลวแล้ว upload ยังสำเร็จ
	Upload(ctx context.Context, file *multipart.FileHeader, req *dto.UploadVideoRequest) (*models.VideoRecord, *models.VideoInsights, error)

	// GetByID ดึง video ตาม ID
	GetByID(ctx context.Context, id string) (*models.VideoRecord, error)

	// ListVideos ดึง videos แบบ paginate (เรียง createdAt desc)
	// page/pageSize ที่ไม่ valid จะ fallback เป็น 1/10
	ListVideos(ctx context.Context, page, pageSize int) (*dto.VideoListResponse, error)

	// IncrementViews เพิ่มยอดวิวทีละ 1 และ return ค่าใหม่
	IncrementViews(ctx context.Context, id string) (int64, error)

	// IncrementLikes เพิ่มยอดไลค์ทีละ 1 และ return ค่าใหม่
	IncrementLikes(ctx context.Context, id string) (int64, error)

	// Search ค้นหาจาก title/description - term ว่างเป็น ErrInvalidInput
	Search(ctx context.Context, term string) ([]*models.VideoRecord, error)

	// GetStats รวมยอดจาก record ทั้งหมด (ไม่มี cached counter แยก)
	GetStats(ctx context.Context) (*VideoStats, error)

	// Analyze เรียก insight enricher กับ video ที่มีอยู่
	// return models.ErrEnrichmentUnavailable ถ้าไม่ได้ config enricher
	Analyze(ctx context.Context, id string) (*models.VideoInsights, error)

	// GetTranscript ถอดเสียง video ที่มีอยู่
	GetTranscript(ctx context.Context, id string) (*models.Transcription, error)

	// InsightsEnabled บอกว่ามี enricher configured หรือไม่
	InsightsEnabled() bool
}

// VideoStats ยอดรวมทั้งระบบ
type VideoStats struct {
	TotalVideos int64 `json:"total_videos"`
	TotalViews  int64 `json:"total_views"`
	TotalLikes  int64 `json:"total_likes"`
}
