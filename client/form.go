package client

import (
	"context"
	"sync"

	"github.com/satyajeet03/rentApp/domain"
)

// FormState is the lifecycle of one property form instance.
type FormState int

const (
	StateIdle FormState = iota
	StateEditing
	StateValidating
	StateSubmitting
)

func (s FormState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateEditing:
		return "editing"
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	}
	return "unknown"
}

// PendingImage is a locally selected file that has not been uploaded yet.
type PendingImage struct {
	Name    string
	Content []byte
}

// ImageAttachment is either a pending local file or a resolved remote URL,
// never both.
type ImageAttachment struct {
	Local *PendingImage
	URL   string
}

// Resolved reports whether the attachment carries a confirmed remote URL.
func (a ImageAttachment) Resolved() bool {
	return a.Local == nil && a.URL != ""
}

// FormDraft drives a property create form. Field edits move the draft to
// Editing; Submit validates and sends the listing; image uploads run
// independently and block Submit while in flight.
type FormDraft struct {
	client  *Client
	onError func(err error)

	mu        sync.Mutex
	state     FormState
	property  domain.Property
	images    []ImageAttachment
	uploading int

	uploads sync.WaitGroup
}

func NewFormDraft(client *Client, onError func(err error)) *FormDraft {
	if onError == nil {
		onError = func(error) {}
	}
	return &FormDraft{
		client:   client,
		onError:  onError,
		state:    StateIdle,
		property: domain.Property{Available: true},
	}
}

func (f *FormDraft) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Edit applies a field change and moves an idle draft to Editing.
func (f *FormDraft) Edit(mutate func(p *domain.Property)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	mutate(&f.property)
	if f.state == StateIdle {
		f.state = StateEditing
	}
}

// Images returns a snapshot of the current attachments, pending and resolved.
func (f *FormDraft) Images() []ImageAttachment {
	f.mu.Lock()
	defer f.mu.Unlock()
	snapshot := make([]ImageAttachment, len(f.images))
	copy(snapshot, f.images)
	return snapshot
}

// Uploading reports whether any image upload is still in flight.
func (f *FormDraft) Uploading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.uploading > 0
}

// AttachImages appends placeholders for the selected files immediately and
// uploads them in the background. On success the placeholders become resolved
// URLs; on failure they are removed and already-confirmed URLs stay intact.
func (f *FormDraft) AttachImages(ctx context.Context, files []UploadFile) {
	if len(files) == 0 {
		return
	}

	pending := make([]*PendingImage, 0, len(files))
	f.mu.Lock()
	for _, file := range files {
		placeholder := &PendingImage{Name: file.Name, Content: file.Content}
		pending = append(pending, placeholder)
		f.images = append(f.images, ImageAttachment{Local: placeholder})
	}
	f.uploading++
	if f.state == StateIdle {
		f.state = StateEditing
	}
	f.mu.Unlock()

	f.uploads.Add(1)
	go func() {
		defer f.uploads.Done()
		urls, err := f.client.UploadImages(ctx, files)

		f.mu.Lock()
		f.uploading--
		if err != nil {
			f.removeLocked(pending)
			f.mu.Unlock()
			f.onError(err)
			return
		}
		f.resolveLocked(pending, urls)
		f.mu.Unlock()
	}()
}

// WaitUploads blocks until all in-flight uploads settle.
func (f *FormDraft) WaitUploads() {
	f.uploads.Wait()
}

func (f *FormDraft) removeLocked(pending []*PendingImage) {
	kept := f.images[:0]
	for _, attachment := range f.images {
		if attachment.Local != nil && containsPending(pending, attachment.Local) {
			continue
		}
		kept = append(kept, attachment)
	}
	f.images = kept
}

func (f *FormDraft) resolveLocked(pending []*PendingImage, urls []string) {
	next := 0
	kept := f.images[:0]
	for _, attachment := range f.images {
		if attachment.Local != nil && containsPending(pending, attachment.Local) {
			if next < len(urls) {
				kept = append(kept, ImageAttachment{URL: urls[next]})
				next++
			}
			// files the server rejected drop out of the set
			continue
		}
		kept = append(kept, attachment)
	}
	f.images = kept
}

func containsPending(pending []*PendingImage, image *PendingImage) bool {
	for _, p := range pending {
		if p == image {
			return true
		}
	}
	return false
}

func (f *FormDraft) resolvedURLs() []string {
	urls := make([]string, 0, len(f.images))
	for _, attachment := range f.images {
		if attachment.Resolved() {
			urls = append(urls, attachment.URL)
		}
	}
	return urls
}

// CanSubmit reports whether Submit would be allowed right now.
func (f *FormDraft) CanSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateEditing || f.uploading > 0 {
		return false
	}
	draft := f.property
	draft.Images = f.resolvedURLs()
	return draft.Validate() == nil
}

// Submit validates the draft and creates the listing. Validation or server
// failure returns the draft to Editing with its state intact; success resets
// it to Idle.
func (f *FormDraft) Submit(ctx context.Context) (*domain.Property, error) {
	f.mu.Lock()
	if f.state != StateEditing {
		f.mu.Unlock()
		return nil, &APIError{Status: 0, Message: "Form is not ready to submit"}
	}
	if f.uploading > 0 {
		f.mu.Unlock()
		return nil, &APIError{Status: 0, Message: "Image upload in progress"}
	}

	f.state = StateValidating
	draft := f.property
	draft.Images = f.resolvedURLs()
	f.mu.Unlock()

	if err := draft.Validate(); err != nil {
		f.setState(StateEditing)
		return nil, err
	}

	f.setState(StateSubmitting)
	created, err := f.client.CreateProperty(ctx, &draft)
	if err != nil {
		f.setState(StateEditing)
		return nil, err
	}

	f.mu.Lock()
	f.state = StateIdle
	f.property = domain.Property{Available: true}
	f.images = nil
	f.mu.Unlock()
	return created, nil
}

func (f *FormDraft) setState(state FormState) {
	f.mu.Lock()
	f.state = state
	f.mu.Unlock()
}
