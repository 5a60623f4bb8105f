package models

// ModerationStatus ค่าที่เป็นไปได้ของ moderation_status
const (
	ModerationApproved = "approved"
	ModerationFlagged  = "flagged"
	ModerationPending  = "pending"
)

// ThumbnailAnalysis ผลวิเคราะห์ภาพจาก Computer Vision API
type ThumbnailAnalysis struct {
	Tags           []string `json:"tags"`
	Description    string   `json:"description,omitempty"`
	IsAdultContent bool     `json:"is_adult_content"`
	IsRacyContent  bool     `json:"is_racy_content"`
	Objects        []string `json:"objects,omitempty"`
}

// TranscriptWord คำเดียวใน transcript พร้อม timestamp
type TranscriptWord struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Transcription ผลถอดเสียงจาก Video Indexer
type Transcription struct {
	Transcript     string           `json:"transcript"`
	Words          []TranscriptWord `json:"words,omitempty"`
	VideoIndexerID string           `json:"video_indexer_id,omitempty"`
}

// ModerationResult ผลตรวจ content moderation
type ModerationResult struct {
	IsSafe           bool     `json:"is_safe"`
	Flags            []string `json:"flags"`
	ModerationStatus string   `json:"moderation_status"`
}

// VideoInsights รวมผล enrichment ทั้งหมดของ video หนึ่งตัว
type VideoInsights struct {
	VideoID       string             `json:"video_id"`
	Analysis      *ThumbnailAnalysis `json:"analysis,omitempty"`
	Transcription *Transcription     `json:"transcription,omitempty"`
	Moderation    *ModerationResult  `json:"moderation,omitempty"`
}
