package repotest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clipshare/domain/models"
	"clipshare/domain/repositories"
)

// Factory สร้าง repository เปล่าสำหรับแต่ละ subtest
type Factory func(t *testing.T) repositories.VideoRepository

// Run ตรวจว่า repository implementation ทำตาม contract ครบทุกข้อ
// ทั้ง MongoDB และ local JSON store ต้องผ่าน suite เดียวกันนี้
// เพื่อให้สลับ mode ได้โดยพฤติกรรมไม่เปลี่ยน
func Run(t *testing.T, newRepo Factory) {
	t.Run("CreateAndGetByID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		record := newRecord("My First Video", "A test clip")
		require.NoError(t, repo.Create(ctx, record))

		got, err := repo.GetByID(ctx, record.ID)
		require.NoError(t, err)
		assert.Equal(t, record.ID, got.ID)
		assert.Equal(t, record.Title, got.Title)
		assert.Equal(t, record.Description, got.Description)
		assert.Equal(t, record.UserID, got.UserID)
		assert.Equal(t, models.VideoStatusReady, got.Status)
		assert.Equal(t, int64(0), got.Views)
		assert.Equal(t, int64(0), got.Likes)
	})

	t.Run("GetByIDNotFound", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.GetByID(context.Background(), uuid.New().String())
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("CreateDuplicateID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		record := newRecord("Original", "")
		require.NoError(t, repo.Create(ctx, record))

		dup := newRecord("Duplicate", "")
		dup.ID = record.ID
		assert.ErrorIs(t, repo.Create(ctx, dup), models.ErrConflict)
	})

	t.Run("ListOrderedNewestFirst", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		base := time.Now().UTC().Truncate(time.Millisecond)
		oldest := newRecord("Oldest", "")
		oldest.CreatedAt = base.Add(-2 * time.Hour)
		middle := newRecord("Middle", "")
		middle.CreatedAt = base.Add(-1 * time.Hour)
		newest := newRecord("Newest", "")
		newest.CreatedAt = base

		// insert สลับลำดับเพื่อยืนยันว่าเรียงตาม createdAt จริง
		require.NoError(t, repo.Create(ctx, middle))
		require.NoError(t, repo.Create(ctx, newest))
		require.NoError(t, repo.Create(ctx, oldest))

		records, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "Newest", records[0].Title)
		assert.Equal(t, "Middle", records[1].Title)
		assert.Equal(t, "Oldest", records[2].Title)
	})

	t.Run("ListEmpty", func(t *testing.T) {
		repo := newRepo(t)

		records, err := repo.List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("SearchMatchesTitleAndDescription", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		sunset := newRecord("Sunset Over Lake", "Evening timelapse")
		cooking := newRecord("Cooking Pasta", "How to make a great sunset-colored sauce")
		cats := newRecord("Cat Compilation", "Funny cats")
		require.NoError(t, repo.Create(ctx, sunset))
		require.NoError(t, repo.Create(ctx, cooking))
		require.NoError(t, repo.Create(ctx, cats))

		results, err := repo.Search(ctx, "sunset")
		require.NoError(t, err)
		require.Len(t, results, 2)

		titles := []string{results[0].Title, results[1].Title}
		assert.Contains(t, titles, "Sunset Over Lake")
		assert.Contains(t, titles, "Cooking Pasta")
	})

	t.Run("SearchCaseInsensitive", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		record := newRecord("Sunset Over Lake", "")
		require.NoError(t, repo.Create(ctx, record))

		for _, term := range []string{"SUNSET", "Sunset", "sUnSeT", "lake"} {
			results, err := repo.Search(ctx, term)
			require.NoError(t, err)
			assert.Len(t, results, 1, "term %q", term)
		}
	})

	t.Run("SearchNoMatches", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		require.NoError(t, repo.Create(ctx, newRecord("Sunset", "")))

		results, err := repo.Search(ctx, "nonexistent")
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("SearchRegexMetacharactersAreLiteral", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		record := newRecord("Q&A (part 1)", "answers 50% of questions")
		require.NoError(t, repo.Create(ctx, record))

		results, err := repo.Search(ctx, "(part 1)")
		require.NoError(t, err)
		assert.Len(t, results, 1)

		// pattern ที่อาจ match ทุกอย่างถ้าไม่ escape
		results, err = repo.Search(ctx, ".*")
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("UpsertReplacesExisting", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		record := newRecord("Before", "old description")
		require.NoError(t, repo.Create(ctx, record))

		updated := *record
		updated.Title = "After"
		updated.Description = "new description"
		require.NoError(t, repo.Upsert(ctx, &updated))

		got, err := repo.GetByID(ctx, record.ID)
		require.NoError(t, err)
		assert.Equal(t, "After", got.Title)
		assert.Equal(t, "new description", got.Description)

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("UpsertInsertsWhenMissing", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		record := newRecord("Fresh", "")
		require.NoError(t, repo.Upsert(ctx, record))

		got, err := repo.GetByID(ctx, record.ID)
		require.NoError(t, err)
		assert.Equal(t, "Fresh", got.Title)
	})

	t.Run("IncrementViewsReturnsNewValue", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		record := newRecord("Counter", "")
		require.NoError(t, repo.Create(ctx, record))

		for want := int64(1); want <= 3; want++ {
			views, err := repo.IncrementViews(ctx, record.ID)
			require.NoError(t, err)
			assert.Equal(t, want, views)
		}

		got, err := repo.GetByID(ctx, record.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), got.Views)
		assert.Equal(t, int64(0), got.Likes)
	})

	t.Run("IncrementLikesReturnsNewValue", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		record := newRecord("Counter", "")
		require.NoError(t, repo.Create(ctx, record))

		likes, err := repo.IncrementLikes(ctx, record.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), likes)

		got, err := repo.GetByID(ctx, record.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.Likes)
		assert.Equal(t, int64(0), got.Views)
	})

	t.Run("IncrementMissingRecord", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.IncrementViews(ctx, uuid.New().String())
		assert.ErrorIs(t, err, models.ErrNotFound)

		_, err = repo.IncrementLikes(ctx, uuid.New().String())
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("ConcurrentIncrementsLoseNothing", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		record := newRecord("Hot Video", "")
		require.NoError(t, repo.Create(ctx, record))

		const workers = 100
		var wg sync.WaitGroup
		wg.Add(workers)
		for i := 0; i < workers; i++ {
			go func() {
				defer wg.Done()
				_, err := repo.IncrementViews(ctx, record.ID)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		got, err := repo.GetByID(ctx, record.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(workers), got.Views)
	})

	t.Run("UpdateInsightsDoesNotClobberCounters", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		record := newRecord("Enriched", "")
		require.NoError(t, repo.Create(ctx, record))

		// counter ขยับหลังจากอ่าน record ไปทำ enrichment แล้ว
		_, err := repo.IncrementViews(ctx, record.ID)
		require.NoError(t, err)
		_, err = repo.IncrementLikes(ctx, record.ID)
		require.NoError(t, err)

		err = repo.UpdateInsights(ctx, record.ID, []string{"nature", "water"}, "A lake at dusk", models.ModerationApproved)
		require.NoError(t, err)

		got, err := repo.GetByID(ctx, record.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"nature", "water"}, got.Tags)
		assert.Equal(t, "A lake at dusk", got.DescriptionAI)
		assert.Equal(t, models.ModerationApproved, got.ModerationStatus)
		assert.Equal(t, int64(1), got.Views)
		assert.Equal(t, int64(1), got.Likes)
	})

	t.Run("UpdateInsightsMissingRecord", func(t *testing.T) {
		repo := newRepo(t)

		err := repo.UpdateInsights(context.Background(), uuid.New().String(), nil, "", models.ModerationPending)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("Count", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)

		require.NoError(t, repo.Create(ctx, newRecord("One", "")))
		require.NoError(t, repo.Create(ctx, newRecord("Two", "")))

		count, err = repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})
}

func newRecord(title, description string) *models.VideoRecord {
	id := uuid.New().String()
	return &models.VideoRecord{
		ID:          id,
		UserID:      "anonymous",
		Title:       title,
		Description: description,
		VideoURL:    "http://localhost:8000/uploads/videos/" + id + "_clip.mp4",
		StorageRef:  id + "_clip.mp4",
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
		Status:      models.VideoStatusReady,
	}
}
