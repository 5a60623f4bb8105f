package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"clipshare/domain/models"
	"clipshare/domain/ports"
)

// videosDir คือ subdirectory ใต้ basePath ที่เก็บ video binaries
// URL ของไฟล์ local เป็น {baseURL}/uploads/videos/{key} เสมอ
const videosDir = "videos"

// LocalStorage implements BlobStore สำหรับเก็บไฟล์ใน local filesystem
type LocalStorage struct {
	basePath string // เส้นทางหลัก (เช่น ./uploads)
	baseURL  string // URL ของ server (เช่น http://localhost:8000)
}

type LocalStorageConfig struct {
	BasePath string
	BaseURL  string
}

// NewLocalStorage สร้าง LocalStorage instance
func NewLocalStorage(config LocalStorageConfig) (ports.BlobStore, error) {
	// สร้าง directory ถ้ายังไม่มี
	dir := filepath.Join(config.BasePath, videosDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{
		basePath: config.BasePath,
		baseURL:  strings.TrimSuffix(config.BaseURL, "/"),
	}, nil
}

// UploadFile เขียนไฟล์ลง filesystem
func (l *LocalStorage) UploadFile(ctx context.Context, file io.Reader, key string, contentType string) (string, error) {
	fullPath := l.fullPath(key)

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		// ลบไฟล์ที่เขียนไม่สำเร็จ
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return l.GetFileURL(key), nil
}

// GetFileContent เปิดไฟล์จาก filesystem
func (l *LocalStorage) GetFileContent(ctx context.Context, key string) (io.ReadCloser, string, error) {
	file, err := os.Open(l.fullPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", models.ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}

	return file, contentTypeFromExt(key), nil
}

// GetFileRange เปิดไฟล์บางส่วน (byte range request)
func (l *LocalStorage) GetFileRange(ctx context.Context, key string, start, end int64) (io.ReadCloser, int64, error) {
	file, err := os.Open(l.fullPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, models.ErrNotFound
		}
		return nil, 0, fmt.Errorf("failed to open file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, 0, fmt.Errorf("failed to stat file: %w", err)
	}
	totalSize := info.Size()

	if _, err := file.Seek(start, io.SeekStart); err != nil {
		file.Close()
		return nil, 0, fmt.Errorf("failed to seek: %w", err)
	}

	actualEnd := end
	if end < 0 || end >= totalSize {
		actualEnd = totalSize - 1
	}
	length := actualEnd - start + 1

	return &limitedReadCloser{
		reader: io.LimitReader(file, length),
		closer: file,
	}, totalSize, nil
}

// DeleteFile ลบไฟล์ (compensation ตอน record create ล้มเหลว)
func (l *LocalStorage) DeleteFile(ctx context.Context, key string) error {
	fullPath := l.fullPath(key)

	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		// ไฟล์ไม่มีอยู่แล้ว ถือว่าสำเร็จ
		return nil
	}

	if err := os.Remove(fullPath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// GetFileURL สร้าง URL สำหรับเข้าถึงไฟล์ผ่าน file serving endpoint
func (l *LocalStorage) GetFileURL(key string) string {
	return l.baseURL + "/uploads/videos/" + key
}

// GetProviderName return ชื่อ provider
func (l *LocalStorage) GetProviderName() string {
	return "local"
}

// fullPath แปลง key เป็น path จริง - กัน path traversal ด้วย Base
func (l *LocalStorage) fullPath(key string) string {
	return filepath.Join(l.basePath, videosDir, filepath.Base(key))
}

func contentTypeFromExt(key string) string {
	switch strings.ToLower(filepath.Ext(key)) {
	case ".mp4":
		return "video/mp4"
	case ".webm":
		return "video/webm"
	case ".mov":
		return "video/quicktime"
	case ".mkv":
		return "video/x-matroska"
	case ".avi":
		return "video/x-msvideo"
	default:
		return "application/octet-stream"
	}
}

// limitedReadCloser wraps a LimitReader with a closer
type limitedReadCloser struct {
	reader io.Reader
	closer io.Closer
}

func (l *limitedReadCloser) Read(p []byte) (n int, err error) {
	return l.reader.Read(p)
}

func (l *limitedReadCloser) Close() error {
	return l.closer.Close()
}
