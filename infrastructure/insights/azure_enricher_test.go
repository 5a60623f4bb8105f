package insights

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clipshare/domain/models"
	"clipshare/pkg/config"
)

func TestModerateKeywordFlagging(t *testing.T) {
	e := &AzureEnricher{}

	tests := []struct {
		name        string
		title       string
		description string
		wantSafe    bool
		wantStatus  string
	}{
		{"clean content", "Sunset Over Lake", "Evening timelapse", true, models.ModerationApproved},
		{"spam in title", "FREE SPAM offer", "", false, models.ModerationFlagged},
		{"fake in description", "Review", "this product is fake", false, models.ModerationFlagged},
		{"scam mixed case", "Crypto ScAm alert", "", false, models.ModerationFlagged},
		{"keyword inside word still matches", "scampi recipe", "", false, models.ModerationFlagged},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := &models.VideoRecord{Title: tt.title, Description: tt.description}
			result := e.moderate(record, nil)

			assert.Equal(t, tt.wantSafe, result.IsSafe)
			assert.Equal(t, tt.wantStatus, result.ModerationStatus)
			if !tt.wantSafe {
				assert.Contains(t, result.Flags, "inappropriate_keywords")
			}
		})
	}
}

func TestModerateUsesThumbnailAnalysis(t *testing.T) {
	e := &AzureEnricher{}
	record := &models.VideoRecord{Title: "Clean"}

	result := e.moderate(record, &models.ThumbnailAnalysis{IsAdultContent: true})
	assert.False(t, result.IsSafe)
	assert.Contains(t, result.Flags, "adult_content")
	assert.Equal(t, models.ModerationFlagged, result.ModerationStatus)

	// racy อย่างเดียวแค่ flag ไม่ถึงขั้น unsafe
	result = e.moderate(record, &models.ThumbnailAnalysis{IsRacyContent: true})
	assert.True(t, result.IsSafe)
	assert.Contains(t, result.Flags, "racy_content")
	assert.Equal(t, models.ModerationApproved, result.ModerationStatus)
}

func TestEnricherWithoutCredentials(t *testing.T) {
	enricher := NewAzureEnricher(config.InsightsConfig{})
	ctx := context.Background()

	_, err := enricher.Transcribe(ctx, "http://example.com/v.mp4", "vid-1")
	assert.ErrorIs(t, err, models.ErrEnrichmentUnavailable)

	// GetVideoInsights ยังได้ moderation กลับมาเสมอ (เป็น local check)
	record := &models.VideoRecord{ID: "vid-1", Title: "spam video"}
	insights, err := enricher.GetVideoInsights(ctx, "http://example.com/v.mp4", record)
	require.NoError(t, err)
	assert.Nil(t, insights.Analysis)
	assert.Nil(t, insights.Transcription)
	require.NotNil(t, insights.Moderation)
	assert.Equal(t, models.ModerationFlagged, insights.Moderation.ModerationStatus)
}
