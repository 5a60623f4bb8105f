package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"clipshare/domain/models"
	"clipshare/domain/services"
	"clipshare/pkg/utils"
)

type InsightHandler struct {
	videoService services.VideoService
}

func NewInsightHandler(videoService services.VideoService) *InsightHandler {
	return &InsightHandler{videoService: videoService}
}

// Analyze POST /api/videos/:id/analyze
// ตอบ 503 ถ้าไม่ได้ config cognitive services
func (h *InsightHandler) Analyze(c *fiber.Ctx) error {
	if !h.videoService.InsightsEnabled() {
		return utils.ServiceUnavailable(c, "Cognitive Services not available")
	}

	insights, err := h.videoService.Analyze(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, models.ErrEnrichmentUnavailable) {
			return utils.ServiceUnavailable(c, "Cognitive Services not available")
		}
		return utils.DomainError(c, err)
	}
	return utils.OK(c, insights)
}

// GetTranscript GET /api/videos/:id/transcript
func (h *InsightHandler) GetTranscript(c *fiber.Ctx) error {
	if !h.videoService.InsightsEnabled() {
		return utils.ServiceUnavailable(c, "Cognitive Services not available")
	}

	// แยกกรณี video ไม่มี กับกรณี indexer ไม่มี transcript ให้
	if _, err := h.videoService.GetByID(c.UserContext(), c.Params("id")); err != nil {
		return utils.DomainError(c, err)
	}

	transcription, err := h.videoService.GetTranscript(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, models.ErrEnrichmentUnavailable) {
			return utils.ServiceUnavailable(c, "Cognitive Services not available")
		}
		if errors.Is(err, models.ErrNotFound) {
			return utils.NotFound(c, "Transcription not available")
		}
		return utils.DomainError(c, err)
	}
	return utils.OK(c, transcription)
}
