package models

import "errors"

// Error taxonomy ของระบบ - handlers map เป็น HTTP status ด้วย errors.Is
var (
	// ErrNotFound ไม่เจอ record ตาม id
	ErrNotFound = errors.New("video not found")

	// ErrInvalidInput input ไม่ครบหรือผิดรูปแบบ (เช่น search term ว่าง)
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict id ซ้ำตอน create
	ErrConflict = errors.New("video already exists")

	// ErrStorageUnavailable backend (blob/record store) ใช้งานไม่ได้
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrEnrichmentUnavailable insight enricher ไม่ได้ config หรือเรียกไม่ได้
	// - ไม่ fatal, endpoints enrichment ตอบ 503 แต่ CRUD ทำงานปกติ
	ErrEnrichmentUnavailable = errors.New("insight enrichment unavailable")
)
