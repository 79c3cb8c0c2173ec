package handlers

import (
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	"github.com/satyajeet03/rentApp/authorization"
	"github.com/satyajeet03/rentApp/errors"
	application "github.com/satyajeet03/rentApp/service"
)

const maxUploadMemory = 32 << 20

type UploadHandler struct {
	service *application.UploadService
	tracer  trace.Tracer
	logger  *logrus.Logger
}

func NewUploadHandler(service *application.UploadService, tracer trace.Tracer, logger *logrus.Logger) *UploadHandler {
	return &UploadHandler{
		service: service,
		tracer:  tracer,
		logger:  logger,
	}
}

func (handler *UploadHandler) Init(router *mux.Router, protect ...mux.MiddlewareFunc) {
	router.HandleFunc("", handler.Upload).Methods("POST")
	router.Use(protect...)
}

// Upload lifts the multipart files out of the request and hands them to the
// upload service. The response carries only the URLs that made it; rejected
// or failed files are simply absent.
func (handler *UploadHandler) Upload(rw http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "UploadHandler.Upload")
	defer span.End()

	if err := req.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(rw, http.StatusBadRequest, errors.NoFilesUploaded)
		return
	}

	headers := req.MultipartForm.File["images"]
	if len(headers) == 0 {
		writeError(rw, http.StatusBadRequest, errors.NoFilesUploaded)
		return
	}

	files := make([]application.UploadFile, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			handler.logger.Printf("error opening uploaded file %s: %s", header.Filename, err)
			continue
		}
		content, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			handler.logger.Printf("error reading uploaded file %s: %s", header.Filename, err)
			continue
		}

		files = append(files, application.UploadFile{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Content:     content,
		})
	}

	caller := authorization.UserFromContext(ctx)
	urls := handler.service.Upload(ctx, caller.ID.Hex(), files)
	if urls == nil {
		urls = []string{}
	}

	jsonResponse(map[string][]string{"urls": urls}, rw)
}
