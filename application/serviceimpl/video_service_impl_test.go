package serviceimpl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clipshare/domain/dto"
	"clipshare/domain/models"
	"clipshare/pkg/metrics"
)

// ========== Fakes ==========

type fakeRepo struct {
	mu        sync.Mutex
	records   map[string]*models.VideoRecord
	order     []string
	createErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: map[string]*models.VideoRecord{}}
}

func (f *fakeRepo) Create(ctx context.Context, record *models.VideoRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.records[record.ID]; ok {
		return models.ErrConflict
	}
	clone := *record
	f.records[record.ID] = &clone
	f.order = append(f.order, record.ID)
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (*models.VideoRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	clone := *record
	return &clone, nil
}

func (f *fakeRepo) List(ctx context.Context) ([]*models.VideoRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.VideoRecord, 0, len(f.records))
	for _, id := range f.order {
		clone := *f.records[id]
		out = append(out, &clone)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (f *fakeRepo) Search(ctx context.Context, term string) ([]*models.VideoRecord, error) {
	all, _ := f.List(ctx)
	matched := make([]*models.VideoRecord, 0)
	for _, record := range all {
		if record.MatchesTerm(term) {
			matched = append(matched, record)
		}
	}
	return matched, nil
}

func (f *fakeRepo) Upsert(ctx context.Context, record *models.VideoRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[record.ID]; !ok {
		f.order = append(f.order, record.ID)
	}
	clone := *record
	f.records[record.ID] = &clone
	return nil
}

func (f *fakeRepo) IncrementViews(ctx context.Context, id string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[id]
	if !ok {
		return 0, models.ErrNotFound
	}
	record.Views++
	return record.Views, nil
}

func (f *fakeRepo) IncrementLikes(ctx context.Context, id string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[id]
	if !ok {
		return 0, models.ErrNotFound
	}
	record.Likes++
	return record.Likes, nil
}

func (f *fakeRepo) UpdateInsights(ctx context.Context, id string, tags []string, descriptionAI, moderationStatus string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[id]
	if !ok {
		return models.ErrNotFound
	}
	record.Tags = tags
	record.DescriptionAI = descriptionAI
	record.ModerationStatus = moderationStatus
	return nil
}

func (f *fakeRepo) Count(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.records)), nil
}

type fakeBlobStore struct {
	mu      sync.Mutex
	files   map[string][]byte
	deleted []string
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{files: map[string][]byte{}}
}

func (f *fakeBlobStore) UploadFile(ctx context.Context, file io.Reader, key, contentType string) (string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[key] = data
	return f.GetFileURL(key), nil
}

func (f *fakeBlobStore) GetFileContent(ctx context.Context, key string) (io.ReadCloser, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.files[key]
	if !ok {
		return nil, "", models.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), "video/mp4", nil
}

func (f *fakeBlobStore) GetFileRange(ctx context.Context, key string, start, end int64) (io.ReadCloser, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.files[key]
	if !ok {
		return nil, 0, models.ErrNotFound
	}
	total := int64(len(data))
	if end < 0 || end >= total {
		end = total - 1
	}
	return io.NopCloser(bytes.NewReader(data[start : end+1])), total, nil
}

func (f *fakeBlobStore) DeleteFile(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.files, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeBlobStore) GetFileURL(key string) string {
	return "http://localhost:8000/uploads/videos/" + key
}

func (f *fakeBlobStore) GetProviderName() string { return "fake" }

type fakeEnricher struct {
	insights *models.VideoInsights
	err      error
}

func (f *fakeEnricher) GetVideoInsights(ctx context.Context, videoURL string, record *models.VideoRecord) (*models.VideoInsights, error) {
	if f.err != nil {
		return nil, f.err
	}
	insights := *f.insights
	insights.VideoID = record.ID
	return &insights, nil
}

func (f *fakeEnricher) Transcribe(ctx context.Context, videoURL, videoID string) (*models.Transcription, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.insights == nil || f.insights.Transcription == nil {
		return nil, models.ErrNotFound
	}
	return f.insights.Transcription, nil
}

// ========== Helpers ==========

func uploadFileHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="video"; filename="%s"`, filename))
	header.Set("Content-Type", "video/mp4")
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(&buf, writer.Boundary())
	form, err := reader.ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	files := form.File["video"]
	require.Len(t, files, 1)
	return files[0]
}

func sampleInsights() *models.VideoInsights {
	return &models.VideoInsights{
		Analysis: &models.ThumbnailAnalysis{
			Tags:        []string{"nature", "water"},
			Description: "A lake at dusk",
		},
		Transcription: &models.Transcription{
			Transcript:     "hello world",
			VideoIndexerID: "vi-123",
		},
		Moderation: &models.ModerationResult{
			IsSafe:           true,
			Flags:            []string{},
			ModerationStatus: models.ModerationApproved,
		},
	}
}

// ========== Tests ==========

func TestUploadRoundTrip(t *testing.T) {
	repo := newFakeRepo()
	blobs := newFakeBlobStore()
	svc := NewVideoService(repo, blobs, nil, nil, metrics.NewRegistry())
	ctx := context.Background()

	file := uploadFileHeader(t, "Sunset Over Lake.mp4", "fake video bytes")
	req := &dto.UploadVideoRequest{Title: "Sunset Over Lake", Description: "Evening timelapse", UserID: "alice"}

	record, insights, err := svc.Upload(ctx, file, req)
	require.NoError(t, err)
	assert.Nil(t, insights)
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "Sunset Over Lake", record.Title)
	assert.Equal(t, "alice", record.UserID)
	assert.Equal(t, models.VideoStatusReady, record.Status)
	assert.Contains(t, record.VideoURL, record.ID)

	// record อ่านกลับได้ และ blob อ่านกลับได้
	got, err := svc.GetByID(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.VideoURL, got.VideoURL)

	reader, _, err := blobs.GetFileContent(ctx, record.StorageRef)
	require.NoError(t, err)
	defer reader.Close()
	content, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "fake video bytes", string(content))
}

func TestUploadAppliesDefaults(t *testing.T) {
	svc := NewVideoService(newFakeRepo(), newFakeBlobStore(), nil, nil, nil)

	file := uploadFileHeader(t, "clip.mp4", "x")
	record, _, err := svc.Upload(context.Background(), file, &dto.UploadVideoRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Untitled", record.Title)
	assert.Equal(t, "anonymous", record.UserID)
}

func TestUploadSanitizesStorageKey(t *testing.T) {
	blobs := newFakeBlobStore()
	svc := NewVideoService(newFakeRepo(), blobs, nil, nil, nil)

	file := uploadFileHeader(t, "My Vacation Clip!! (final).mp4", "x")
	record, _, err := svc.Upload(context.Background(), file, &dto.UploadVideoRequest{Title: "Vacation"})
	require.NoError(t, err)

	assert.Equal(t, record.ID+"_my-vacation-clip-final.mp4", record.StorageRef)
}

func TestUploadCleansUpBlobWhenRecordCreateFails(t *testing.T) {
	repo := newFakeRepo()
	repo.createErr = errors.New("db down")
	blobs := newFakeBlobStore()
	svc := NewVideoService(repo, blobs, nil, nil, nil)

	file := uploadFileHeader(t, "clip.mp4", "x")
	_, _, err := svc.Upload(context.Background(), file, &dto.UploadVideoRequest{Title: "Doomed"})
	require.Error(t, err)

	// blob ที่อัพไปแล้วต้องถูกลบ ไม่เหลือ orphan
	assert.Len(t, blobs.deleted, 1)
	assert.Empty(t, blobs.files)
}

func TestUploadEnrichmentSuccess(t *testing.T) {
	repo := newFakeRepo()
	enricher := &fakeEnricher{insights: sampleInsights()}
	svc := NewVideoService(repo, newFakeBlobStore(), enricher, nil, nil)

	file := uploadFileHeader(t, "clip.mp4", "x")
	record, insights, err := svc.Upload(context.Background(), file, &dto.UploadVideoRequest{Title: "Lake"})
	require.NoError(t, err)
	require.NotNil(t, insights)
	assert.Equal(t, record.ID, insights.VideoID)

	got, err := svc.GetByID(context.Background(), record.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"nature", "water"}, got.Tags)
	assert.Equal(t, "A lake at dusk", got.DescriptionAI)
	assert.Equal(t, models.ModerationApproved, got.ModerationStatus)
}

func TestUploadSucceedsWhenEnricherFails(t *testing.T) {
	enricher := &fakeEnricher{err: errors.New("indexer unreachable")}
	svc := NewVideoService(newFakeRepo(), newFakeBlobStore(), enricher, nil, nil)

	file := uploadFileHeader(t, "clip.mp4", "x")
	record, insights, err := svc.Upload(context.Background(), file, &dto.UploadVideoRequest{Title: "Lake"})
	require.NoError(t, err)
	assert.Nil(t, insights)

	got, err := svc.GetByID(context.Background(), record.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Tags)
	assert.Empty(t, got.ModerationStatus)
}

func TestListVideosPagination(t *testing.T) {
	repo := newFakeRepo()
	svc := NewVideoService(repo, newFakeBlobStore(), nil, nil, nil)
	ctx := context.Background()

	base := time.Now().UTC()
	for i := 0; i < 25; i++ {
		require.NoError(t, repo.Create(ctx, &models.VideoRecord{
			ID:        fmt.Sprintf("v%02d", i),
			Title:     fmt.Sprintf("Video %02d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			Status:    models.VideoStatusReady,
		}))
	}

	t.Run("first page newest first", func(t *testing.T) {
		result, err := svc.ListVideos(ctx, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(25), result.Total)
		assert.Equal(t, 3, result.TotalPages)
		require.Len(t, result.Videos, 10)
		assert.Equal(t, "Video 24", result.Videos[0].Title)
	})

	t.Run("last page is partial", func(t *testing.T) {
		result, err := svc.ListVideos(ctx, 3, 10)
		require.NoError(t, err)
		assert.Len(t, result.Videos, 5)
		assert.Equal(t, "Video 00", result.Videos[4].Title)
	})

	t.Run("page beyond end is empty", func(t *testing.T) {
		result, err := svc.ListVideos(ctx, 99, 10)
		require.NoError(t, err)
		assert.Empty(t, result.Videos)
		assert.Equal(t, int64(25), result.Total)
	})

	t.Run("invalid params fall back to defaults", func(t *testing.T) {
		result, err := svc.ListVideos(ctx, 0, -5)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Page)
		assert.Equal(t, 10, result.PageSize)
		assert.Len(t, result.Videos, 10)
	})

	t.Run("pages tile the collection without overlap", func(t *testing.T) {
		seen := map[string]bool{}
		for page := 1; page <= 3; page++ {
			result, err := svc.ListVideos(ctx, page, 10)
			require.NoError(t, err)
			for _, v := range result.Videos {
				assert.False(t, seen[v.ID], "duplicate %s", v.ID)
				seen[v.ID] = true
			}
		}
		assert.Len(t, seen, 25)
	})
}

func TestSearchRequiresTerm(t *testing.T) {
	svc := NewVideoService(newFakeRepo(), newFakeBlobStore(), nil, nil, nil)

	_, err := svc.Search(context.Background(), "   ")
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestSearchFindsByTitle(t *testing.T) {
	repo := newFakeRepo()
	svc := NewVideoService(repo, newFakeBlobStore(), nil, nil, nil)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.VideoRecord{ID: "a", Title: "Sunset Over Lake", CreatedAt: time.Now()}))
	require.NoError(t, repo.Create(ctx, &models.VideoRecord{ID: "b", Title: "Cooking", Description: "pasta", CreatedAt: time.Now()}))

	results, err := svc.Search(ctx, "sunset")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Sunset Over Lake", results[0].Title)
}

func TestGetStats(t *testing.T) {
	repo := newFakeRepo()
	svc := NewVideoService(repo, newFakeBlobStore(), nil, nil, nil)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.VideoRecord{ID: "a", Title: "A", Views: 3, Likes: 2, CreatedAt: time.Now()}))
	require.NoError(t, repo.Create(ctx, &models.VideoRecord{ID: "b", Title: "B", Views: 2, CreatedAt: time.Now()}))

	stats, err := svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalVideos)
	assert.Equal(t, int64(5), stats.TotalViews)
	assert.Equal(t, int64(2), stats.TotalLikes)
}

func TestCountersDelegateToRepository(t *testing.T) {
	repo := newFakeRepo()
	svc := NewVideoService(repo, newFakeBlobStore(), nil, nil, nil)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.VideoRecord{ID: "a", Title: "A", CreatedAt: time.Now()}))

	views, err := svc.IncrementViews(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(1), views)

	likes, err := svc.IncrementLikes(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(1), likes)

	_, err = svc.IncrementViews(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAnalyzeWithoutEnricher(t *testing.T) {
	svc := NewVideoService(newFakeRepo(), newFakeBlobStore(), nil, nil, nil)

	_, err := svc.Analyze(context.Background(), "any")
	assert.ErrorIs(t, err, models.ErrEnrichmentUnavailable)
	assert.False(t, svc.InsightsEnabled())
}

func TestAnalyzeExistingVideo(t *testing.T) {
	repo := newFakeRepo()
	enricher := &fakeEnricher{insights: sampleInsights()}
	svc := NewVideoService(repo, newFakeBlobStore(), enricher, nil, nil)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.VideoRecord{ID: "a", Title: "A", CreatedAt: time.Now()}))

	insights, err := svc.Analyze(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", insights.VideoID)
	assert.True(t, svc.InsightsEnabled())

	_, err = svc.Analyze(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestGetTranscript(t *testing.T) {
	repo := newFakeRepo()
	enricher := &fakeEnricher{insights: sampleInsights()}
	svc := NewVideoService(repo, newFakeBlobStore(), enricher, nil, nil)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.VideoRecord{ID: "a", Title: "A", CreatedAt: time.Now()}))

	transcription, err := svc.GetTranscript(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "hello world", transcription.Transcript)

	_, err = svc.GetTranscript(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
