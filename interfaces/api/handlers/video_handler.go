package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"clipshare/domain/dto"
	"clipshare/domain/services"
	"clipshare/pkg/utils"
)

type VideoHandler struct {
	videoService services.VideoService
}

func NewVideoHandler(videoService services.VideoService) *VideoHandler {
	return &VideoHandler{videoService: videoService}
}

// Upload POST /api/videos/upload (multipart form)
// form fields: video (file), title, description, userId
func (h *VideoHandler) Upload(c *fiber.Ctx) error {
	file, err := c.FormFile("video")
	if err != nil {
		return utils.BadRequest(c, "No video file provided")
	}
	if file.Filename == "" {
		return utils.BadRequest(c, "No file selected")
	}

	req := &dto.UploadVideoRequest{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		UserID:      c.FormValue("userId"),
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.BadRequest(c, "Invalid video metadata")
	}

	record, insights, err := h.videoService.Upload(c.UserContext(), file, req)
	if err != nil {
		return utils.DomainError(c, err)
	}

	return utils.Created(c, &dto.UploadVideoResponse{
		Message:  "Video uploaded successfully",
		VideoID:  record.ID,
		VideoURL: record.VideoURL,
		Status:   record.Status,
		Insights: dto.InsightsToSummary(insights),
	})
}

// List GET /api/videos?page=1&page_size=10
func (h *VideoHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 10)

	result, err := h.videoService.ListVideos(c.UserContext(), page, pageSize)
	if err != nil {
		return utils.DomainError(c, err)
	}
	return utils.OK(c, result)
}

// GetByID GET /api/videos/:id
func (h *VideoHandler) GetByID(c *fiber.Ctx) error {
	record, err := h.videoService.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return utils.DomainError(c, err)
	}
	return utils.OK(c, record)
}

// IncrementViews POST /api/videos/:id/view
func (h *VideoHandler) IncrementViews(c *fiber.Ctx) error {
	views, err := h.videoService.IncrementViews(c.UserContext(), c.Params("id"))
	if err != nil {
		return utils.DomainError(c, err)
	}
	return utils.OK(c, &dto.ViewsResponse{Views: views})
}

// IncrementLikes POST /api/videos/:id/like
func (h *VideoHandler) IncrementLikes(c *fiber.Ctx) error {
	likes, err := h.videoService.IncrementLikes(c.UserContext(), c.Params("id"))
	if err != nil {
		return utils.DomainError(c, err)
	}
	return utils.OK(c, &dto.LikesResponse{Likes: likes})
}

// Search GET /api/search?q=term
func (h *VideoHandler) Search(c *fiber.Ctx) error {
	term := strings.ToLower(strings.TrimSpace(c.Query("q")))
	if term == "" {
		return utils.BadRequest(c, "Search term required")
	}

	results, err := h.videoService.Search(c.UserContext(), term)
	if err != nil {
		return utils.DomainError(c, err)
	}

	return utils.OK(c, &dto.SearchResponse{
		Results:    results,
		Count:      len(results),
		SearchTerm: term,
	})
}
