package application

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestUploadService_DropsNonImageFiles(t *testing.T) {
	storage := new(MockImageStorage)
	storage.On("SaveImage", mock.Anything, "user-1", mock.Anything, "image/jpeg", mock.Anything).
		Return("https://img.example.com/a.jpg", nil).Once()
	storage.On("SaveImage", mock.Anything, "user-1", mock.Anything, "image/png", mock.Anything).
		Return("https://img.example.com/b.png", nil).Once()

	service := NewUploadService(storage, testTracer(), logrus.New())
	urls := service.Upload(context.Background(), "user-1", []UploadFile{
		{Name: "a.jpg", ContentType: "image/jpeg", Content: []byte("jpeg")},
		{Name: "b.png", ContentType: "image/png", Content: []byte("png")},
		{Name: "resume.pdf", ContentType: "application/pdf", Content: []byte("pdf")},
	})

	assert.Len(t, urls, 2)
	storage.AssertExpectations(t)
	storage.AssertNumberOfCalls(t, "SaveImage", 2)
}

func TestUploadService_DropsOversizedFiles(t *testing.T) {
	storage := new(MockImageStorage)

	service := NewUploadService(storage, testTracer(), logrus.New())
	urls := service.Upload(context.Background(), "user-1", []UploadFile{
		{Name: "huge.jpg", ContentType: "image/jpeg", Content: bytes.Repeat([]byte("x"), MaxImageSize+1)},
	})

	assert.Empty(t, urls)
	storage.AssertNotCalled(t, "SaveImage", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadService_SingleFailureKeepsSiblings(t *testing.T) {
	storage := new(MockImageStorage)
	storage.On("SaveImage", mock.Anything, "user-1", mock.Anything, mock.Anything, []byte("good")).
		Return("https://img.example.com/good.jpg", nil)
	storage.On("SaveImage", mock.Anything, "user-1", mock.Anything, mock.Anything, []byte("bad")).
		Return("", assert.AnError)

	service := NewUploadService(storage, testTracer(), logrus.New())
	urls := service.Upload(context.Background(), "user-1", []UploadFile{
		{Name: "good.jpg", ContentType: "image/jpeg", Content: []byte("good")},
		{Name: "bad.jpg", ContentType: "image/jpeg", Content: []byte("bad")},
	})

	assert.Equal(t, []string{"https://img.example.com/good.jpg"}, urls)
}

func TestUploadService_EmptyBatch(t *testing.T) {
	service := NewUploadService(new(MockImageStorage), testTracer(), logrus.New())
	urls := service.Upload(context.Background(), "user-1", nil)
	assert.Empty(t, urls)
}
