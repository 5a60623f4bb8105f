package localdb

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clipshare/domain/models"
	"clipshare/domain/repositories"
	"clipshare/infrastructure/repotest"
)

func newTestRepo(t *testing.T) repositories.VideoRepository {
	t.Helper()

	repo, err := NewVideoRepository(filepath.Join(t.TempDir(), "videos.json"))
	require.NoError(t, err)
	return repo
}

func TestVideoRepositoryConformance(t *testing.T) {
	repotest.Run(t, newTestRepo)
}

func TestRepositoryStartsFromExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "videos.json")

	repo, err := NewVideoRepository(path)
	require.NoError(t, err)

	record := seedRecord(t, repo)

	// เปิด repository ใหม่จากไฟล์เดิม ข้อมูลต้องยังอยู่ครบ
	reopened, err := NewVideoRepository(path)
	require.NoError(t, err)

	got, err := reopened.GetByID(context.Background(), record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.Title, got.Title)
}

func TestRepositoryRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "videos.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := NewVideoRepository(path)
	assert.Error(t, err)
}

func TestSaveCreatesNoPartialFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "videos.json")

	repo, err := NewVideoRepository(path)
	require.NoError(t, err)

	seedRecord(t, repo)

	// temp file จากการเขียนแบบ atomic ต้องถูก rename ทิ้งไปแล้ว
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func seedRecord(t *testing.T, repo repositories.VideoRepository) *models.VideoRecord {
	t.Helper()

	record := &models.VideoRecord{
		ID:        uuid.New().String(),
		UserID:    "anonymous",
		Title:     "Persisted Clip",
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
		Status:    models.VideoStatusReady,
	}
	require.NoError(t, repo.Create(context.Background(), record))
	return record
}
