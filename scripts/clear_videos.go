package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ล้าง video records ทั้งหมด - ใช้ตอน dev เท่านั้น
// cloud mode: go run scripts/clear_videos.go (ต้องมี MONGO_URI)
// local mode: ล้างไฟล์ local_videos.json
func main() {
	uri := os.Getenv("MONGO_URI")

	if uri == "" {
		dbFile := os.Getenv("LOCAL_DB_FILE")
		if dbFile == "" {
			dbFile = "local_videos.json"
		}
		if err := os.WriteFile(dbFile, []byte("[]"), 0644); err != nil {
			log.Fatal("Failed to clear local db:", err)
		}
		fmt.Println("Done! Local video collection cleared:", dbFile)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatal("Failed to connect to mongodb:", err)
	}
	defer client.Disconnect(context.Background())

	database := os.Getenv("MONGO_DATABASE")
	if database == "" {
		database = "clipsharedb"
	}
	collection := os.Getenv("MONGO_COLLECTION")
	if collection == "" {
		collection = "videos"
	}

	result, err := client.Database(database).Collection(collection).DeleteMany(ctx, bson.M{})
	if err != nil {
		log.Fatal("Failed to delete videos:", err)
	}

	out, _ := json.Marshal(map[string]any{"deleted": result.DeletedCount})
	fmt.Println(string(out))
	fmt.Println("Done! Videos collection cleared.")
}
