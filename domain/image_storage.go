package domain

import "context"

// ImageStorage saves an encoded image under a folder namespace on the
// external image host and returns its public URL.
type ImageStorage interface {
	SaveImage(ctx context.Context, folder, name, contentType string, content []byte) (string, error)
}
