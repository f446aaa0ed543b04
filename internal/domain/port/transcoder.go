package port

import "context"

// Transcoder normalizes the raw annotated video into a broadly playable
// codec/profile. The raw path is the explicit hand-off artifact between the
// two output passes.
type Transcoder interface {
	Transcode(ctx context.Context, rawPath, outPath string) error
}
