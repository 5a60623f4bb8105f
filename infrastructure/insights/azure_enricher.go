package insights

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"clipshare/domain/models"
	"clipshare/domain/ports"
	"clipshare/pkg/config"
	"clipshare/pkg/logger"
)

const (
	indexerBaseURL = "https://api.videoindexer.ai"

	// Video Indexer poll ทุก 5 วินาที สูงสุด 30 ครั้ง (เหมือน upstream service)
	indexerPollInterval = 5 * time.Second
	indexerMaxAttempts  = 30
)

// inappropriateKeywords ใช้ตรวจ title/description แบบ local
// เจอคำไหนก็ flag ทันทีโดยไม่ต้องพึ่ง external API
var inappropriateKeywords = []string{"spam", "fake", "scam"}

// AzureEnricher implements InsightEnricher ด้วย Azure Cognitive Services
// (Computer Vision + Video Indexer) - ทุกส่วน fail ได้โดยไม่ล้มทั้ง enrichment
type AzureEnricher struct {
	cfg        config.InsightsConfig
	httpClient *http.Client
}

// NewAzureEnricher สร้าง enricher
// http client แยกสอง timeout ไม่ได้ - ใช้ per-request context แทน
func NewAzureEnricher(cfg config.InsightsConfig) ports.InsightEnricher {
	return &AzureEnricher{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetVideoInsights วิเคราะห์ครบชุด: thumbnail + transcript + moderation
// ส่วนไหน fail ก็ข้าม - moderation ทำงานเสมอเพราะเป็น local check
func (e *AzureEnricher) GetVideoInsights(ctx context.Context, videoURL string, record *models.VideoRecord) (*models.VideoInsights, error) {
	insights := &models.VideoInsights{VideoID: record.ID}

	analysis, err := e.analyzeThumbnail(ctx, videoURL)
	if err != nil {
		logger.WarnContext(ctx, "Thumbnail analysis failed", "video_id", record.ID, "error", err)
	} else {
		insights.Analysis = analysis
	}

	transcription, err := e.Transcribe(ctx, videoURL, record.ID)
	if err != nil {
		logger.WarnContext(ctx, "Transcription failed", "video_id", record.ID, "error", err)
	} else {
		insights.Transcription = transcription
	}

	insights.Moderation = e.moderate(record, insights.Analysis)

	return insights, nil
}

// analyzeThumbnail เรียก Computer Vision Analyze Image API
func (e *AzureEnricher) analyzeThumbnail(ctx context.Context, videoURL string) (*models.ThumbnailAnalysis, error) {
	if e.cfg.CognitiveKey == "" || e.cfg.CognitiveEndpoint == "" {
		return nil, models.ErrEnrichmentUnavailable
	}

	endpoint := strings.TrimSuffix(e.cfg.CognitiveEndpoint, "/") +
		"/vision/v3.2/analyze?visualFeatures=Tags,Description,Adult,Objects"

	body, err := json.Marshal(map[string]string{"url": videoURL})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Ocp-Apim-Subscription-Key", e.cfg.CognitiveKey)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vision request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vision API returned status %d", resp.StatusCode)
	}

	var result struct {
		Tags []struct {
			Name string `json:"name"`
		} `json:"tags"`
		Description struct {
			Captions []struct {
				Text string `json:"text"`
			} `json:"captions"`
		} `json:"description"`
		Adult struct {
			IsAdultContent bool `json:"isAdultContent"`
			IsRacyContent  bool `json:"isRacyContent"`
		} `json:"adult"`
		Objects []struct {
			Object string `json:"object"`
		} `json:"objects"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode vision response: %w", err)
	}

	analysis := &models.ThumbnailAnalysis{
		Tags:           make([]string, 0, len(result.Tags)),
		IsAdultContent: result.Adult.IsAdultContent,
		IsRacyContent:  result.Adult.IsRacyContent,
		Objects:        make([]string, 0, len(result.Objects)),
	}
	for _, tag := range result.Tags {
		analysis.Tags = append(analysis.Tags, tag.Name)
	}
	if len(result.Description.Captions) > 0 {
		analysis.Description = result.Description.Captions[0].Text
	}
	for _, obj := range result.Objects {
		analysis.Objects = append(analysis.Objects, obj.Object)
	}

	return analysis, nil
}

// Transcribe ส่ง video เข้า Video Indexer แล้ว poll จนได้ transcript
// flow: access token -> upload by URL -> poll index state -> ดึง transcript
func (e *AzureEnricher) Transcribe(ctx context.Context, videoURL, videoID string) (*models.Transcription, error) {
	if e.cfg.IndexerKey == "" || e.cfg.IndexerAccountID == "" {
		return nil, models.ErrEnrichmentUnavailable
	}

	accessToken, err := e.indexerAccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get indexer access token: %w", err)
	}

	indexerID, err := e.indexerUpload(ctx, accessToken, videoURL, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to submit video to indexer: %w", err)
	}

	for attempt := 0; attempt < indexerMaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(indexerPollInterval):
		}

		state, err := e.indexerState(ctx, accessToken, indexerID)
		if err != nil {
			return nil, err
		}

		switch state {
		case "Processed":
			return e.indexerTranscript(ctx, accessToken, indexerID)
		case "Failed":
			return nil, models.ErrNotFound
		}
	}

	logger.WarnContext(ctx, "Video Indexer timed out", "video_id", videoID, "indexer_id", indexerID)
	return nil, models.ErrNotFound
}

func (e *AzureEnricher) indexerAccessToken(ctx context.Context) (string, error) {
	endpoint := fmt.Sprintf("%s/auth/%s/Accounts/%s/AccessToken?allowEdit=true",
		indexerBaseURL, e.cfg.IndexerLocation, e.cfg.IndexerAccountID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", e.cfg.IndexerKey)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("indexer auth returned status %d", resp.StatusCode)
	}

	// response เป็น JSON string เปล่าๆ
	var token string
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", err
	}
	return token, nil
}

func (e *AzureEnricher) indexerUpload(ctx context.Context, accessToken, videoURL, videoID string) (string, error) {
	params := url.Values{}
	params.Set("accessToken", accessToken)
	params.Set("name", videoID)
	params.Set("videoUrl", videoURL)
	params.Set("language", "en-US")

	endpoint := fmt.Sprintf("%s/%s/Accounts/%s/Videos?%s",
		indexerBaseURL, e.cfg.IndexerLocation, e.cfg.IndexerAccountID, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return "", err
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("indexer upload returned status %d", resp.StatusCode)
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if result.ID == "" {
		return "", fmt.Errorf("indexer upload returned no video id")
	}
	return result.ID, nil
}

func (e *AzureEnricher) indexerState(ctx context.Context, accessToken, indexerID string) (string, error) {
	endpoint := fmt.Sprintf("%s/%s/Accounts/%s/Videos/%s/Index?accessToken=%s",
		indexerBaseURL, e.cfg.IndexerLocation, e.cfg.IndexerAccountID, indexerID, url.QueryEscape(accessToken))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("indexer state returned status %d", resp.StatusCode)
	}

	var result struct {
		State string `json:"state"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	return result.State, nil
}

func (e *AzureEnricher) indexerTranscript(ctx context.Context, accessToken, indexerID string) (*models.Transcription, error) {
	endpoint := fmt.Sprintf("%s/%s/Accounts/%s/Videos/%s/Transcript?accessToken=%s",
		indexerBaseURL, e.cfg.IndexerLocation, e.cfg.IndexerAccountID, indexerID, url.QueryEscape(accessToken))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("indexer transcript returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var result struct {
		Text  string                  `json:"text"`
		Words []models.TranscriptWord `json:"words"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode transcript: %w", err)
	}

	return &models.Transcription{
		Transcript:     result.Text,
		Words:          result.Words,
		VideoIndexerID: indexerID,
	}, nil
}

// moderate ตรวจ content จากผล thumbnail analysis + keyword ใน metadata
func (e *AzureEnricher) moderate(record *models.VideoRecord, analysis *models.ThumbnailAnalysis) *models.ModerationResult {
	flags := make([]string, 0)
	isSafe := true

	if analysis != nil {
		if analysis.IsAdultContent {
			flags = append(flags, "adult_content")
			isSafe = false
		}
		if analysis.IsRacyContent {
			flags = append(flags, "racy_content")
		}
	}

	title := strings.ToLower(record.Title)
	description := strings.ToLower(record.Description)
	for _, keyword := range inappropriateKeywords {
		if strings.Contains(title, keyword) || strings.Contains(description, keyword) {
			flags = append(flags, "inappropriate_keywords")
			isSafe = false
			break
		}
	}

	status := models.ModerationApproved
	if !isSafe {
		status = models.ModerationFlagged
	}

	return &models.ModerationResult{
		IsSafe:           isSafe,
		Flags:            flags,
		ModerationStatus: status,
	}
}
