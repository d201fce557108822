// Package upload forwards files to the media host.
package upload

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"

	"stone-catalog-service/internal/apperr"
	"stone-catalog-service/internal/slug"
)

// Uploader stores a file and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, filename string) (string, error)
	// Delete removes a previously uploaded file by URL. Unknown URLs are ignored.
	Delete(ctx context.Context, url string) error
}

// CloudinaryUploader uploads images into one Cloudinary folder.
type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
	logger *zap.Logger
}

func NewCloudinaryUploader(cloudinaryURL, folder string, logger *zap.Logger) (*CloudinaryUploader, error) {
	if cloudinaryURL == "" {
		return nil, apperr.New(apperr.KindConfig, "upload: cloudinary URL is required")
	}
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindConfig, err, "upload: invalid cloudinary URL")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CloudinaryUploader{cld: cld, folder: folder, logger: logger}, nil
}

func (u *CloudinaryUploader) Upload(ctx context.Context, file io.Reader, filename string) (string, error) {
	result, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:         u.folder,
		PublicID:       publicIDFor(filename),
		UseFilename:    &[]bool{true}[0],
		UniqueFilename: &[]bool{true}[0],
		Overwrite:      &[]bool{false}[0],
		ResourceType:   "image",
	})
	if err != nil {
		return "", apperr.Wrap(apperr.KindUpload, err, "Upload failed")
	}
	if result.Error.Message != "" {
		return "", apperr.Wrap(apperr.KindUpload, fmt.Errorf("cloudinary: %s", result.Error.Message), "Upload failed")
	}

	url := result.SecureURL
	if url == "" {
		url = result.URL
	}
	if url == "" {
		return "", apperr.New(apperr.KindUpload, "Upload failed: media host returned no URL")
	}
	u.logger.Info("File uploaded", zap.String("publicId", result.PublicID), zap.Int("bytes", result.Bytes))
	return forceHTTPS(url), nil
}

func publicIDFor(filename string) string {
	base := slug.Make(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	if base == "" {
		base = "upload"
	}
	return fmt.Sprintf("%s_%d", base, time.Now().UnixNano())
}

func (u *CloudinaryUploader) Delete(ctx context.Context, url string) error {
	publicID := PublicID(url)
	if publicID == "" {
		return nil
	}
	if _, err := u.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID, ResourceType: "image"}); err != nil {
		return apperr.Wrap(apperr.KindUpload, err, "Failed to delete file from media host")
	}
	return nil
}

// PublicID extracts the Cloudinary public id from a delivery URL such as
// https://res.cloudinary.com/demo/image/upload/v1712/stones/statuario.jpg.
// It returns "" for URLs that are not Cloudinary uploads.
func PublicID(url string) string {
	_, rest, ok := strings.Cut(url, "/upload/")
	if !ok || rest == "" {
		return ""
	}
	parts := strings.Split(rest, "/")
	if len(parts) > 1 && isVersion(parts[0]) {
		parts = parts[1:]
	}
	path := strings.Join(parts, "/")
	return strings.TrimSuffix(path, filepath.Ext(path))
}

func isVersion(segment string) bool {
	if len(segment) < 2 || segment[0] != 'v' {
		return false
	}
	for _, r := range segment[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func forceHTTPS(in string) string {
	out := strings.TrimSpace(in)
	if strings.HasPrefix(out, "http://") {
		return "https://" + strings.TrimPrefix(out, "http://")
	}
	return out
}
