package insights

import (
	"context"
	"time"

	"clipshare/domain/models"
	"clipshare/domain/ports"
	"clipshare/infrastructure/redis"
)

// CachedEnricher decorator ที่ cache ผล enrichment ใน Redis
// ผลวิเคราะห์ของ video เดิมไม่เปลี่ยน - cache ได้อย่างปลอดภัย
// และช่วยไม่ให้เรียก Video Indexer ซ้ำ (แพงและช้าหลายสิบวินาที)
type CachedEnricher struct {
	inner ports.InsightEnricher
	cache *redis.Client
	ttl   time.Duration
}

// NewCachedEnricher wrap enricher ด้วย Redis cache
func NewCachedEnricher(inner ports.InsightEnricher, cache *redis.Client, ttl time.Duration) ports.InsightEnricher {
	return &CachedEnricher{
		inner: inner,
		cache: cache,
		ttl:   ttl,
	}
}

func (c *CachedEnricher) GetVideoInsights(ctx context.Context, videoURL string, record *models.VideoRecord) (*models.VideoInsights, error) {
	key := "insights:" + record.ID

	var insights models.VideoInsights
	err := c.cache.GetOrSet(ctx, key, &insights, c.ttl, func() (interface{}, error) {
		return c.inner.GetVideoInsights(ctx, videoURL, record)
	})
	if err != nil {
		return nil, err
	}
	return &insights, nil
}

func (c *CachedEnricher) Transcribe(ctx context.Context, videoURL, videoID string) (*models.Transcription, error) {
	key := "transcript:" + videoID

	var transcription models.Transcription
	err := c.cache.GetOrSet(ctx, key, &transcription, c.ttl, func() (interface{}, error) {
		return c.inner.Transcribe(ctx, videoURL, videoID)
	})
	if err != nil {
		return nil, err
	}
	return &transcription, nil
}
