package dto

import (
	"clipshare/domain/models"
)

// === Requests ===

type UploadVideoRequest struct {
	Title       string `json:"title" validate:"omitempty,max=255"`
	Description string `json:"description" validate:"omitempty,max=5000"`
	UserID      string `json:"userId" validate:"omitempty,max=120"`
}

// ApplyDefaults ใส่ค่า default ตามสัญญาเดิมของ API
// (ไม่มี title = "Untitled", ไม่มี userId = "anonymous")
func (r *UploadVideoRequest) ApplyDefaults() {
	if r.Title == "" {
		r.Title = "Untitled"
	}
	if r.UserID == "" {
		r.UserID = "anonymous"
	}
}

// === Responses ===

// VideoListResponse ผลลัพธ์ GET /api/videos
type VideoListResponse struct {
	Videos     []*models.VideoRecord `json:"videos"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	TotalPages int                   `json:"total_pages"`
}

// InsightsSummary ส่วนย่อของ insights ที่แนบไปกับ upload response
type InsightsSummary struct {
	Tags             []string `json:"tags"`
	ModerationStatus string   `json:"moderation_status,omitempty"`
}

// UploadVideoResponse ผลลัพธ์ POST /api/videos/upload (201)
type UploadVideoResponse struct {
	Message  string             `json:"message"`
	VideoID  string             `json:"videoId"`
	VideoURL string             `json:"videoUrl"`
	Status   models.VideoStatus `json:"status"`
	Insights *InsightsSummary   `json:"insights,omitempty"`
}

// SearchResponse ผลลัพธ์ GET /api/search
type SearchResponse struct {
	Results    []*models.VideoRecord `json:"results"`
	Count      int                   `json:"count"`
	SearchTerm string                `json:"search_term"`
}

// StatsResponse ผลลัพธ์ GET /api/stats
type StatsResponse struct {
	TotalVideos     int64  `json:"total_videos"`
	TotalViews      int64  `json:"total_views"`
	TotalLikes      int64  `json:"total_likes"`
	StorageMode     string `json:"storage_mode"`
	InsightsEnabled bool   `json:"insights_enabled"`
}

// ViewsResponse / LikesResponse ผลลัพธ์ counter increment
type ViewsResponse struct {
	Views int64 `json:"views"`
}

type LikesResponse struct {
	Likes int64 `json:"likes"`
}

// === Mappers ===

// InsightsToSummary ดึงเฉพาะ tags + moderation_status จาก insights เต็ม
func InsightsToSummary(insights *models.VideoInsights) *InsightsSummary {
	if insights == nil {
		return nil
	}
	summary := &InsightsSummary{Tags: []string{}}
	if insights.Analysis != nil {
		summary.Tags = insights.Analysis.Tags
	}
	if insights.Moderation != nil {
		summary.ModerationStatus = insights.Moderation.ModerationStatus
	}
	return summary
}
