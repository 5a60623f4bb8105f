package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"clipshare/domain/models"
	"clipshare/domain/repositories"
)

// videoRepository implements VideoRepository ด้วย MongoDB (cloud mode)
type videoRepository struct {
	collection *mongo.Collection
}

// NewVideoRepository สร้าง repository และ ensure unique index บน id
func NewVideoRepository(client *Client, collectionName string) (repositories.VideoRepository, error) {
	collection := client.Collection(collectionName)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// unique index บน id ทำให้ Create แยก duplicate ได้ที่ database layer
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return &videoRepository{collection: collection}, nil
}

func (r *videoRepository) Create(ctx context.Context, record *models.VideoRecord) error {
	_, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.ErrConflict
		}
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

func (r *videoRepository) GetByID(ctx context.Context, id string) (*models.VideoRecord, error) {
	var record models.VideoRecord
	err := r.collection.FindOne(ctx, bson.M{"id": id}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find record: %w", err)
	}
	return &record, nil
}

func (r *videoRepository) List(ctx context.Context) ([]*models.VideoRecord, error) {
	return r.find(ctx, bson.M{})
}

func (r *videoRepository) Search(ctx context.Context, term string) ([]*models.VideoRecord, error) {
	// QuoteMeta กัน user พิมพ์ regex metacharacter แล้ว query พัง
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
	filter := bson.M{
		"$or": bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		},
	}
	return r.find(ctx, filter)
}

// find query พร้อม sort createdAt desc - _id asc เป็น tiebreaker
// ให้ records ที่ createdAt เท่ากันคงลำดับ insert
func (r *videoRepository) find(ctx context.Context, filter bson.M) ([]*models.VideoRecord, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "createdAt", Value: -1},
		{Key: "_id", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer cursor.Close(ctx)

	records := make([]*models.VideoRecord, 0)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}
	return records, nil
}

func (r *videoRepository) Upsert(ctx context.Context, record *models.VideoRecord) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"id": record.ID}, record, opts)
	if err != nil {
		return fmt.Errorf("failed to upsert record: %w", err)
	}
	return nil
}

func (r *videoRepository) IncrementViews(ctx context.Context, id string) (int64, error) {
	return r.incrementCounter(ctx, id, "views")
}

func (r *videoRepository) IncrementLikes(ctx context.Context, id string) (int64, error) {
	return r.incrementCounter(ctx, id, "likes")
}

// incrementCounter ใช้ $inc ของ MongoDB - atomic ที่ server
// ReturnDocument After ให้ได้ค่าหลัง increment กลับมาใน round trip เดียว
func (r *videoRepository) incrementCounter(ctx context.Context, id, field string) (int64, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var record models.VideoRecord
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"id": id},
		bson.M{"$inc": bson.M{field: 1}},
		opts,
	).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, models.ErrNotFound
		}
		return 0, fmt.Errorf("failed to increment %s: %w", field, err)
	}

	if field == "views" {
		return record.Views, nil
	}
	return record.Likes, nil
}

func (r *videoRepository) UpdateInsights(ctx context.Context, id string, tags []string, descriptionAI, moderationStatus string) error {
	// $set เฉพาะ enrichment fields - ไม่แตะ counters ที่อาจถูก
	// increment ระหว่าง enrichment กำลังวิ่ง
	update := bson.M{"$set": bson.M{
		"tags":              tags,
		"description_ai":    descriptionAI,
		"moderation_status": moderationStatus,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update insights: %w", err)
	}
	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *videoRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}
