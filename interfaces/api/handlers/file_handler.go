package handlers

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"clipshare/domain/models"
	"clipshare/domain/ports"
	"clipshare/pkg/logger"
	"clipshare/pkg/utils"
)

// FileHandler serve video binaries ผ่าน blob store
// รองรับ Range request เพื่อให้ player seek ได้
type FileHandler struct {
	storage ports.BlobStore
}

func NewFileHandler(storage ports.BlobStore) *FileHandler {
	return &FileHandler{storage: storage}
}

// ServeVideo GET /uploads/videos/:filename
func (h *FileHandler) ServeVideo(c *fiber.Ctx) error {
	filename := c.Params("filename")
	if filename == "" || strings.Contains(filename, "..") {
		return utils.BadRequest(c, "Invalid filename")
	}

	c.Set("Accept-Ranges", "bytes")

	rangeHeader := c.Get("Range")
	if rangeHeader != "" {
		return h.serveRangeRequest(c, filename, rangeHeader)
	}

	reader, contentType, err := h.storage.GetFileContent(c.UserContext(), filename)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return utils.NotFound(c, "File not found")
		}
		logger.ErrorContext(c.UserContext(), "Failed to open file", "filename", filename, "error", err)
		return utils.InternalServerError(c)
	}
	defer reader.Close()

	c.Set("Content-Type", contentType)

	if _, err := io.Copy(c.Response().BodyWriter(), reader); err != nil {
		logger.ErrorContext(c.UserContext(), "Failed to stream file", "filename", filename, "error", err)
		return utils.InternalServerError(c)
	}
	return nil
}

// serveRangeRequest ตอบ 206 Partial Content ตาม Range header
// รูปแบบ "bytes=start-end" หรือ "bytes=start-"
func (h *FileHandler) serveRangeRequest(c *fiber.Ctx, filename, rangeHeader string) error {
	ctx := c.UserContext()

	rangeHeader = strings.TrimPrefix(rangeHeader, "bytes=")
	parts := strings.Split(rangeHeader, "-")
	if len(parts) != 2 {
		return utils.BadRequest(c, "Invalid range format")
	}

	start, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || start < 0 {
		return utils.BadRequest(c, "Invalid range start")
	}

	var end int64 = -1
	if parts[1] != "" {
		end, err = strconv.ParseInt(parts[1], 10, 64)
		if err != nil || end < start {
			return utils.BadRequest(c, "Invalid range end")
		}
	}

	reader, totalSize, err := h.storage.GetFileRange(ctx, filename, start, end)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return utils.NotFound(c, "File not found")
		}
		logger.WarnContext(ctx, "Failed to get file range",
			"filename", filename, "start", start, "end", end, "error", err)
		return utils.InternalServerError(c)
	}
	defer reader.Close()

	if end < 0 || end >= totalSize {
		end = totalSize - 1
	}
	contentLength := end - start + 1

	c.Status(fiber.StatusPartialContent)
	c.Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, end, totalSize))
	c.Set("Content-Length", strconv.FormatInt(contentLength, 10))

	if _, err := io.Copy(c.Response().BodyWriter(), reader); err != nil {
		logger.ErrorContext(ctx, "Failed to stream range", "filename", filename, "error", err)
		return utils.InternalServerError(c)
	}
	return nil
}
