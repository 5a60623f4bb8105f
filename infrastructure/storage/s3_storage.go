package storage

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"clipshare/domain/models"
	"clipshare/domain/ports"
)

// S3Storage implements BlobStore สำหรับ S3-compatible storage (MinIO, AWS S3)
type S3Storage struct {
	client     *minio.Client
	bucketName string
	endpoint   string
	useSSL     bool
	publicURL  string
}

type S3StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string // ถ้ามี CDN หรือ custom domain
}

// NewS3Storage สร้าง S3Storage instance และเช็คว่า bucket พร้อมใช้งาน
func NewS3Storage(config S3StorageConfig) (ports.BlobStore, error) {
	// custom transport เพื่อกำหนด timeout ที่เหมาะกับไฟล์วิดีโอขนาดใหญ่
	transport := &http.Transport{
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 10 * time.Second,
		ResponseHeaderTimeout: 60 * time.Second,
		TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
	}

	client, err := minio.New(config.Endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(config.AccessKey, config.SecretKey, ""),
		Secure:    config.UseSSL,
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, config.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, config.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &S3Storage{
		client:     client,
		bucketName: config.Bucket,
		endpoint:   config.Endpoint,
		useSSL:     config.UseSSL,
		publicURL:  strings.TrimSuffix(config.PublicURL, "/"),
	}, nil
}

// UploadFile อัพโหลดไฟล์ขึ้น S3
func (s *S3Storage) UploadFile(ctx context.Context, file io.Reader, key string, contentType string) (string, error) {
	objectName := s.objectName(key)

	// size -1 ให้ client stream แบบ multipart เอง
	_, err := s.client.PutObject(ctx, s.bucketName, objectName, file, -1, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	return s.GetFileURL(key), nil
}

// GetFileContent ดึงไฟล์จาก S3
func (s *S3Storage) GetFileContent(ctx context.Context, key string) (io.ReadCloser, string, error) {
	objectName := s.objectName(key)

	object, err := s.client.GetObject(ctx, s.bucketName, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", fmt.Errorf("failed to get object: %w", err)
	}

	// GetObject เป็น lazy - ต้อง Stat เพื่อเช็คว่า object มีจริง
	info, err := object.Stat()
	if err != nil {
		object.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, "", models.ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to stat object: %w", err)
	}

	contentType := info.ContentType
	if contentType == "" {
		contentType = contentTypeFromExt(key)
	}
	return object, contentType, nil
}

// GetFileRange ดึงไฟล์บางส่วนจาก S3 (byte range request)
func (s *S3Storage) GetFileRange(ctx context.Context, key string, start, end int64) (io.ReadCloser, int64, error) {
	objectName := s.objectName(key)

	stat, err := s.client.StatObject(ctx, s.bucketName, objectName, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, 0, models.ErrNotFound
		}
		return nil, 0, fmt.Errorf("failed to stat object: %w", err)
	}
	totalSize := stat.Size

	opts := minio.GetObjectOptions{}
	actualEnd := end
	if end < 0 || end >= totalSize {
		actualEnd = totalSize - 1
	}
	if err := opts.SetRange(start, actualEnd); err != nil {
		return nil, 0, fmt.Errorf("invalid range: %w", err)
	}

	object, err := s.client.GetObject(ctx, s.bucketName, objectName, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get object range: %w", err)
	}

	return object, totalSize, nil
}

// DeleteFile ลบไฟล์จาก S3
func (s *S3Storage) DeleteFile(ctx context.Context, key string) error {
	objectName := s.objectName(key)

	if err := s.client.RemoveObject(ctx, s.bucketName, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// GetFileURL สร้าง public URL ของ object
func (s *S3Storage) GetFileURL(key string) string {
	objectName := s.objectName(key)

	if s.publicURL != "" {
		return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucketName, objectName)
	}

	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpoint, s.bucketName, objectName)
}

// GetProviderName return ชื่อ provider
func (s *S3Storage) GetProviderName() string {
	return "s3"
}

func (s *S3Storage) objectName(key string) string {
	return videosDir + "/" + strings.TrimPrefix(key, "/")
}
