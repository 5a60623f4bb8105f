package models

import (
	"strings"
	"time"
)

// VideoStatus สถานะของ video
type VideoStatus string

const (
	VideoStatusReady      VideoStatus = "ready"
	VideoStatusProcessing VideoStatus = "processing" // เผื่อ pipeline ในอนาคต
	VideoStatusFailed     VideoStatus = "failed"
)

// VideoRecord คือ metadata record ของ video หนึ่งตัว
// เก็บได้ทั้งใน MongoDB (cloud mode) และ JSON collection file (local mode)
// field enrichment (tags, description_ai, moderation_status) จะมีค่าเฉพาะ
// หลัง enrich สำเร็จเท่านั้น - ไม่ default เป็น null placeholder
type VideoRecord struct {
	ID          string    `json:"id" bson:"id"`
	UserID      string    `json:"userId" bson:"userId"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description" bson:"description"`
	VideoURL    string    `json:"videoUrl" bson:"videoUrl"`
	StorageRef  string    `json:"storageRef" bson:"storageRef"` // blob key (opaque สำหรับ caller)
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	Views       int64     `json:"views" bson:"views"`
	Likes       int64     `json:"likes" bson:"likes"`

	Status VideoStatus `json:"status" bson:"status"`

	// Enrichment fields (optional)
	Tags             []string `json:"tags,omitempty" bson:"tags,omitempty"`
	DescriptionAI    string   `json:"description_ai,omitempty" bson:"description_ai,omitempty"`
	ModerationStatus string   `json:"moderation_status,omitempty" bson:"moderation_status,omitempty"`
}

// IsReady ตรวจสอบว่า video พร้อมให้ดูหรือยัง
func (v *VideoRecord) IsReady() bool {
	return v.Status == VideoStatusReady
}

// IsEnriched ตรวจสอบว่าผ่าน insight enrichment แล้วหรือยัง
func (v *VideoRecord) IsEnriched() bool {
	return v.ModerationStatus != ""
}

// MatchesTerm ตรวจสอบว่า title หรือ description มี term (case-insensitive)
// ใช้โดย local record store; cloud store แปลงเป็น regex query แทน
func (v *VideoRecord) MatchesTerm(term string) bool {
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(v.Title), term) ||
		strings.Contains(strings.ToLower(v.Description), term)
}
