package mongodb

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"clipshare/domain/repositories"
	"clipshare/infrastructure/repotest"
)

// ต้องมี MongoDB จริงถึงจะรัน: TEST_MONGO_URI=mongodb://localhost:27017 go test ./...
func testClient(t *testing.T) *Client {
	t.Helper()

	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set, skipping mongodb tests")
	}

	client, err := NewClient(Config{
		URI:      uri,
		Database: fmt.Sprintf("clipshare_test_%d", time.Now().UnixNano()),
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = client.database.Drop(ctx)
		_ = client.Close(ctx)
	})

	return client
}

func TestVideoRepositoryConformance(t *testing.T) {
	client := testClient(t)

	counter := 0
	repotest.Run(t, func(t *testing.T) repositories.VideoRepository {
		// collection แยกกันต่อ subtest เพื่อให้แต่ละอันเริ่มจาก state ว่าง
		counter++
		repo, err := NewVideoRepository(client, fmt.Sprintf("videos_%d", counter))
		require.NoError(t, err)
		return repo
	})
}
