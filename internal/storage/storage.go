package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"golang.org/x/exp/slices"
)

// FileStorage defines the interface for remote file storage operations
type FileStorage interface {
	UploadFile(ctx context.Context, file *multipart.FileHeader, folder string) (*UploadResult, error)
	DeleteFile(ctx context.Context, publicID string) error
}

// UploadResult contains the result of a file upload
type UploadResult struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
	Format   string `json:"format"`
	Size     int    `json:"size"`
}

// Errors reported by validation and storage backends
var (
	ErrFileTooLarge       = fmt.Errorf("file size exceeds limit")
	ErrEmptyFile          = fmt.Errorf("file is empty")
	ErrInvalidContentType = fmt.Errorf("invalid content type")
	ErrInvalidExtension   = fmt.Errorf("invalid file extension")
	ErrUnableToOpenFile   = fmt.Errorf("unable to open file")
	ErrMissingCredentials = fmt.Errorf("cloudinary credentials are missing")
	ErrUploadFailed       = fmt.Errorf("failed to upload file")
	ErrDeleteFailed       = fmt.Errorf("failed to delete file")
)

// Rule restricts what a given upload slot accepts
type Rule struct {
	MaxSize      int64
	AllowedTypes []string
	Extensions   []string
}

// ImageRule accepts common web image formats
func ImageRule(maxSize int64) Rule {
	return Rule{
		MaxSize:      maxSize,
		AllowedTypes: []string{"image/jpeg", "image/png", "image/gif", "image/webp"},
		Extensions:   []string{".jpg", ".jpeg", ".png", ".gif", ".webp"},
	}
}

// ResumeRule accepts PDF documents only
func ResumeRule(maxSize int64) Rule {
	return Rule{
		MaxSize:      maxSize,
		AllowedTypes: []string{"application/pdf"},
		Extensions:   []string{".pdf"},
	}
}

// Validate checks size, sniffed content type and extension of an upload
func Validate(file *multipart.FileHeader, rule Rule) error {
	if file.Size == 0 {
		return ErrEmptyFile
	}
	if rule.MaxSize > 0 && file.Size > rule.MaxSize {
		return fmt.Errorf("%w: %d bytes exceeds %d bytes", ErrFileTooLarge, file.Size, rule.MaxSize)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !slices.Contains(rule.Extensions, ext) {
		return fmt.Errorf("%w: %q", ErrInvalidExtension, ext)
	}

	contentType, err := sniffContentType(file)
	if err != nil {
		return err
	}
	if !slices.Contains(rule.AllowedTypes, contentType) {
		return fmt.Errorf("%w: %s", ErrInvalidContentType, contentType)
	}

	return nil
}

func sniffContentType(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnableToOpenFile, err)
	}
	defer src.Close()

	buffer := make([]byte, 512)
	n, err := src.Read(buffer)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("%w: %v", ErrUnableToOpenFile, err)
	}

	contentType := http.DetectContentType(buffer[:n])
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	return contentType, nil
}

// Unavailable is used when no storage backend is configured
type Unavailable struct{}

func (Unavailable) UploadFile(context.Context, *multipart.FileHeader, string) (*UploadResult, error) {
	return nil, ErrMissingCredentials
}

func (Unavailable) DeleteFile(context.Context, string) error {
	return ErrMissingCredentials
}
