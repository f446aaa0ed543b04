package port

import "context"

type VideoStorage interface {
	DownloadVideo(ctx context.Context, objectKey string, destPath string) error
	UploadResult(ctx context.Context, objectKey, filePath, contentType string) error
}
