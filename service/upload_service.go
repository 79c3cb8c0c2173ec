package application

import (
	"context"
	"path"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	"github.com/satyajeet03/rentApp/domain"
)

// MaxImageSize is the per-file upload cap.
const MaxImageSize = 5 * 1024 * 1024

// UploadFile is one file lifted out of a multipart request.
type UploadFile struct {
	Name        string
	ContentType string
	Content     []byte
}

type UploadService struct {
	storage domain.ImageStorage
	tracer  trace.Tracer
	logger  *logrus.Logger
}

func NewUploadService(storage domain.ImageStorage, tracer trace.Tracer, logger *logrus.Logger) *UploadService {
	return &UploadService{
		storage: storage,
		tracer:  tracer,
		logger:  logger,
	}
}

// Upload pushes every accepted file to the image host under the user's
// folder and returns the URLs that made it. Oversized and non-image files
// are dropped up front; a file that fails on the host is logged and dropped
// without failing its siblings. The batch never errors as a whole.
func (service *UploadService) Upload(ctx context.Context, userID string, files []UploadFile) []string {
	ctx, span := service.tracer.Start(ctx, "UploadService.Upload")
	defer span.End()

	accepted := make([]UploadFile, 0, len(files))
	for _, file := range files {
		if !strings.HasPrefix(file.ContentType, "image/") {
			service.logger.Printf("dropping %s: not an image (%s)", file.Name, file.ContentType)
			continue
		}
		if len(file.Content) > MaxImageSize {
			service.logger.Printf("dropping %s: exceeds size limit", file.Name)
			continue
		}
		accepted = append(accepted, file)
	}

	urls := make([]string, len(accepted))
	var wg sync.WaitGroup
	for i, file := range accepted {
		wg.Add(1)
		go func(i int, file UploadFile) {
			defer wg.Done()

			name := uuid.New().String() + path.Ext(file.Name)
			url, err := service.storage.SaveImage(ctx, userID, name, file.ContentType, file.Content)
			if err != nil {
				service.logger.Printf("error uploading %s: %s", file.Name, err)
				return
			}
			urls[i] = url
		}(i, file)
	}
	wg.Wait()

	uploaded := make([]string, 0, len(urls))
	for _, url := range urls {
		if url != "" {
			uploaded = append(uploaded, url)
		}
	}
	return uploaded
}
