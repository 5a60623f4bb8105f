package ports

import (
	"context"
	"io"
)

// BlobStore คือ interface หลักสำหรับเก็บไฟล์ video binary
// ทำให้สลับ backend ได้ (S3/MinIO สำหรับ cloud mode, filesystem สำหรับ local)
// key ถูกสร้างจาก record id + ชื่อไฟล์เดิม โดย Video Service
// - สองฝั่งต้องใช้ key scheme เดียวกัน service จะได้ไม่ต้องรู้ mode
type BlobStore interface {
	// UploadFile อัปโหลดไฟล์ไปยัง storage
	// return: URL ที่ client เข้าถึงไฟล์ได้
	UploadFile(ctx context.Context, file io.Reader, key string, contentType string) (string, error)

	// GetFileContent อ่านไฟล์จาก storage
	// return: io.ReadCloser, contentType, error
	GetFileContent(ctx context.Context, key string) (io.ReadCloser, string, error)

	// GetFileRange อ่านไฟล์บางส่วน (byte range requests ตอน serve video)
	// end = -1 หมายถึงอ่านถึงท้ายไฟล์
	// return: io.ReadCloser, ขนาดไฟล์ทั้งหมด, error
	GetFileRange(ctx context.Context, key string, start, end int64) (io.ReadCloser, int64, error)

	// DeleteFile ลบไฟล์ - ใช้เฉพาะ compensation ตอน record create ล้มเหลว
	// (video ที่ upload สำเร็จแล้วเป็น immutable)
	DeleteFile(ctx context.Context, key string) error

	// GetFileURL รับ URL สำหรับเข้าถึงไฟล์
	GetFileURL(key string) string

	// GetProviderName ชื่อ provider (local, s3)
	GetProviderName() string
}
