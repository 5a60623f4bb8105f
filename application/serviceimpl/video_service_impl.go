package serviceimpl

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"clipshare/domain/dto"
	"clipshare/domain/models"
	"clipshare/domain/ports"
	"clipshare/domain/repositories"
	"clipshare/domain/services"
	"clipshare/pkg/logger"
	"clipshare/pkg/metrics"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
	maxPageSize     = 100
)

type VideoServiceImpl struct {
	repo      repositories.VideoRepository
	storage   ports.BlobStore
	enricher  ports.InsightEnricher // nil = insights ปิด
	publisher ports.EventPublisher  // nil = ไม่ส่ง event
	metrics   *metrics.Registry
}

func NewVideoService(
	repo repositories.VideoRepository,
	storage ports.BlobStore,
	enricher ports.InsightEnricher,
	publisher ports.EventPublisher,
	registry *metrics.Registry,
) services.VideoService {
	return &VideoServiceImpl{
		repo:      repo,
		storage:   storage,
		enricher:  enricher,
		publisher: publisher,
		metrics:   registry,
	}
}

// Upload เขียน blob ก่อนแล้วค่อย create record
// ถ้า create record ล้มเหลวต้องลบ blob ทิ้ง - ไม่ปล่อย orphan
func (s *VideoServiceImpl) Upload(ctx context.Context, file *multipart.FileHeader, req *dto.UploadVideoRequest) (*models.VideoRecord, *models.VideoInsights, error) {
	defer s.observe("upload_video", time.Now())

	req.ApplyDefaults()

	videoID := uuid.New().String()
	storageKey := buildStorageKey(videoID, file.Filename)

	src, err := file.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	videoURL, err := s.storage.UploadFile(ctx, src, storageKey, contentType)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to upload video file",
			"video_id", videoID,
			"filename", file.Filename,
			"error", err,
		)
		return nil, nil, fmt.Errorf("failed to store video: %w", err)
	}

	record := &models.VideoRecord{
		ID:          videoID,
		UserID:      req.UserID,
		Title:       req.Title,
		Description: req.Description,
		VideoURL:    videoURL,
		StorageRef:  storageKey,
		CreatedAt:   time.Now().UTC(),
		Status:      models.VideoStatusReady,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		// ลบ blob ที่อัพไปแล้ว ไม่ให้ค้างเป็น orphan
		if delErr := s.storage.DeleteFile(ctx, storageKey); delErr != nil {
			logger.ErrorContext(ctx, "Failed to clean up orphaned file",
				"video_id", videoID,
				"storage_key", storageKey,
				"error", delErr,
			)
		}
		return nil, nil, fmt.Errorf("failed to create video record: %w", err)
	}

	logger.InfoContext(ctx, "Video uploaded",
		"video_id", videoID,
		"user_id", record.UserID,
		"title", record.Title,
		"provider", s.storage.GetProviderName(),
	)

	if s.publisher != nil {
		if err := s.publisher.PublishUploaded(ctx, record); err != nil {
			logger.WarnContext(ctx, "Failed to publish uploaded event", "video_id", videoID, "error", err)
		}
	}

	// enrichment เป็น best-effort - fail แล้ว upload ยังถือว่าสำเร็จ
	insights := s.enrich(ctx, record)

	return record, insights, nil
}

// enrich เรียก enricher แล้ว merge ผลลง record
// แตะเฉพาะ enrichment fields เพื่อไม่ทับ counter ที่ขยับระหว่างรอ
func (s *VideoServiceImpl) enrich(ctx context.Context, record *models.VideoRecord) *models.VideoInsights {
	if s.enricher == nil {
		return nil
	}

	insights, err := s.enricher.GetVideoInsights(ctx, record.VideoURL, record)
	if err != nil {
		logger.WarnContext(ctx, "Enrichment failed", "video_id", record.ID, "error", err)
		return nil
	}

	tags := []string{}
	descriptionAI := ""
	if insights.Analysis != nil {
		tags = insights.Analysis.Tags
		descriptionAI = insights.Analysis.Description
	}
	moderationStatus := models.ModerationPending
	if insights.Moderation != nil && insights.Moderation.ModerationStatus != "" {
		moderationStatus = insights.Moderation.ModerationStatus
	}

	if err := s.repo.UpdateInsights(ctx, record.ID, tags, descriptionAI, moderationStatus); err != nil {
		logger.WarnContext(ctx, "Failed to save insights", "video_id", record.ID, "error", err)
		return insights
	}

	record.Tags = tags
	record.DescriptionAI = descriptionAI
	record.ModerationStatus = moderationStatus

	if s.publisher != nil {
		if err := s.publisher.PublishEnriched(ctx, record, insights); err != nil {
			logger.WarnContext(ctx, "Failed to publish enriched event", "video_id", record.ID, "error", err)
		}
	}

	return insights
}

func (s *VideoServiceImpl) GetByID(ctx context.Context, id string) (*models.VideoRecord, error) {
	defer s.observe("get_video", time.Now())
	return s.repo.GetByID(ctx, id)
}

// ListVideos paginate ที่ service layer - ทั้งสอง record store
// return ลำดับเดียวกันอยู่แล้ว (createdAt desc)
func (s *VideoServiceImpl) ListVideos(ctx context.Context, page, pageSize int) (*dto.VideoListResponse, error) {
	defer s.observe("list_videos", time.Now())

	if page < 1 {
		page = defaultPage
	}
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}

	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	total := int64(len(records))
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(records) {
		start = len(records)
	}
	if end > len(records) {
		end = len(records)
	}

	return &dto.VideoListResponse{
		Videos:     records[start:end],
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func (s *VideoServiceImpl) IncrementViews(ctx context.Context, id string) (int64, error) {
	defer s.observe("increment_views", time.Now())
	return s.repo.IncrementViews(ctx, id)
}

func (s *VideoServiceImpl) IncrementLikes(ctx context.Context, id string) (int64, error) {
	defer s.observe("increment_likes", time.Now())
	return s.repo.IncrementLikes(ctx, id)
}

func (s *VideoServiceImpl) Search(ctx context.Context, term string) ([]*models.VideoRecord, error) {
	defer s.observe("search_videos", time.Now())

	term = strings.TrimSpace(term)
	if term == "" {
		return nil, models.ErrInvalidInput
	}
	return s.repo.Search(ctx, term)
}

// GetStats รวมยอดจาก record ทั้งหมดตรงๆ ไม่มี cached counter แยก
// ยอดที่ได้เลยตรงกับ state จริงเสมอ
func (s *VideoServiceImpl) GetStats(ctx context.Context) (*services.VideoStats, error) {
	defer s.observe("get_stats", time.Now())

	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	stats := &services.VideoStats{TotalVideos: int64(len(records))}
	for _, record := range records {
		stats.TotalViews += record.Views
		stats.TotalLikes += record.Likes
	}
	return stats, nil
}

// Analyze เรียก enricher กับ video ที่มีอยู่แล้ว save ผล
func (s *VideoServiceImpl) Analyze(ctx context.Context, id string) (*models.VideoInsights, error) {
	defer s.observe("analyze_video", time.Now())

	if s.enricher == nil {
		return nil, models.ErrEnrichmentUnavailable
	}

	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	insights := s.enrich(ctx, record)
	if insights == nil {
		return nil, models.ErrEnrichmentUnavailable
	}
	return insights, nil
}

func (s *VideoServiceImpl) GetTranscript(ctx context.Context, id string) (*models.Transcription, error) {
	defer s.observe("get_transcript", time.Now())

	if s.enricher == nil {
		return nil, models.ErrEnrichmentUnavailable
	}

	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.enricher.Transcribe(ctx, record.VideoURL, record.ID)
}

func (s *VideoServiceImpl) InsightsEnabled() bool {
	return s.enricher != nil
}

func (s *VideoServiceImpl) observe(operation string, start time.Time) {
	if s.metrics != nil {
		s.metrics.Observe(operation, time.Since(start))
	}
}

// buildStorageKey สร้าง blob key จาก id + ชื่อไฟล์ที่ slugify แล้ว
// กันชื่อไฟล์แปลกๆ จาก client ปนเข้าไปใน key
func buildStorageKey(videoID, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))

	safeName := slug.Make(name)
	if safeName == "" {
		safeName = "video"
	}
	return fmt.Sprintf("%s_%s%s", videoID, safeName, ext)
}
