package localdb

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"clipshare/domain/models"
	"clipshare/domain/repositories"
)

// videoRepository implements VideoRepository ด้วย JSON collection file
// ใช้สำหรับ local mode - ไม่ต้องมี database ภายนอก
// ทุก operation ถือ mutex ครอบทั้ง read-modify-write เพื่อกัน lost update
type videoRepository struct {
	mu       sync.Mutex
	filePath string
}

// NewVideoRepository สร้าง repository จาก JSON file
// ถ้าไฟล์ยังไม่มีจะเริ่มจาก collection ว่าง
func NewVideoRepository(filePath string) (repositories.VideoRepository, error) {
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create db directory: %w", err)
		}
	}

	repo := &videoRepository{filePath: filePath}

	// validate ไฟล์ที่มีอยู่ตั้งแต่ตอน start จะได้ fail เร็ว
	if _, err := repo.load(); err != nil {
		return nil, err
	}
	return repo, nil
}

// load อ่าน collection ทั้งหมดจากไฟล์ - caller ต้องถือ mutex อยู่
func (r *videoRepository) load() ([]*models.VideoRecord, error) {
	data, err := os.ReadFile(r.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []*models.VideoRecord{}, nil
		}
		return nil, fmt.Errorf("failed to read db file: %w", err)
	}

	if len(data) == 0 {
		return []*models.VideoRecord{}, nil
	}

	var records []*models.VideoRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse db file: %w", err)
	}
	return records, nil
}

// save เขียน collection ทั้งหมดกลับลงไฟล์แบบ atomic (temp + rename)
// เพื่อไม่ให้ไฟล์พังครึ่งๆ กลางๆ ถ้า process ตายระหว่างเขียน
func (r *videoRepository) save(records []*models.VideoRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}

	tmpPath := r.filePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write db file: %w", err)
	}
	if err := os.Rename(tmpPath, r.filePath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace db file: %w", err)
	}
	return nil
}

func (r *videoRepository) Create(ctx context.Context, record *models.VideoRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return err
	}

	for _, existing := range records {
		if existing.ID == record.ID {
			return models.ErrConflict
		}
	}

	records = append(records, record)
	return r.save(records)
}

func (r *videoRepository) GetByID(ctx context.Context, id string) (*models.VideoRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return nil, err
	}

	for _, record := range records {
		if record.ID == id {
			return record, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *videoRepository) List(ctx context.Context) ([]*models.VideoRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return nil, err
	}

	sortByNewest(records)
	return records, nil
}

func (r *videoRepository) Search(ctx context.Context, term string) ([]*models.VideoRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return nil, err
	}

	matched := make([]*models.VideoRecord, 0)
	for _, record := range records {
		if record.MatchesTerm(term) {
			matched = append(matched, record)
		}
	}

	sortByNewest(matched)
	return matched, nil
}

func (r *videoRepository) Upsert(ctx context.Context, record *models.VideoRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return err
	}

	found := false
	for i, existing := range records {
		if existing.ID == record.ID {
			records[i] = record
			found = true
			break
		}
	}
	if !found {
		records = append(records, record)
	}
	return r.save(records)
}

func (r *videoRepository) IncrementViews(ctx context.Context, id string) (int64, error) {
	return r.incrementCounter(id, func(record *models.VideoRecord) *int64 {
		return &record.Views
	})
}

func (r *videoRepository) IncrementLikes(ctx context.Context, id string) (int64, error) {
	return r.incrementCounter(id, func(record *models.VideoRecord) *int64 {
		return &record.Likes
	})
}

// incrementCounter ทำ read-modify-write ทั้งหมดภายใต้ mutex เดียว
// รับประกันว่า concurrent increments ไม่หายแม้แต่ครั้งเดียว
func (r *videoRepository) incrementCounter(id string, counter func(*models.VideoRecord) *int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return 0, err
	}

	for _, record := range records {
		if record.ID == id {
			field := counter(record)
			*field++
			if err := r.save(records); err != nil {
				return 0, err
			}
			return *field, nil
		}
	}
	return 0, models.ErrNotFound
}

func (r *videoRepository) UpdateInsights(ctx context.Context, id string, tags []string, descriptionAI, moderationStatus string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return err
	}

	for _, record := range records {
		if record.ID == id {
			// แตะเฉพาะ enrichment fields - counters ที่ขยับระหว่าง
			// enrichment วิ่งอยู่จะไม่โดนทับ
			record.Tags = tags
			record.DescriptionAI = descriptionAI
			record.ModerationStatus = moderationStatus
			return r.save(records)
		}
	}
	return models.ErrNotFound
}

func (r *videoRepository) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load()
	if err != nil {
		return 0, err
	}
	return int64(len(records)), nil
}

// sortByNewest เรียง createdAt desc - ใช้ SliceStable เพื่อให้
// records ที่ createdAt เท่ากันคงลำดับ insert เดิม
func sortByNewest(records []*models.VideoRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
}
