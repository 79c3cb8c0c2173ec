package errors

import stderrors "errors"

const (
	InvalidCredentials        = "Invalid credentials"
	EmailAlreadyExist         = "User with this email already exists"
	MissingRequiredFields     = "Please provide all required fields"
	PropertyNotFound          = "Property not found"
	InterestNotFound          = "Interest not found"
	AlreadyInterested         = "Already marked as interested"
	NotAuthorized             = "Not authorized"
	OnlyOwnersCreate          = "Only owners can create properties"
	Unauthenticated           = "Please authenticate"
	InvalidTokenError         = "Token is invalid"
	InvalidRequestFormatError = "Invalid request format"
	SearchQueryRequired       = "Search query is required"
	NoFilesUploaded           = "No files uploaded or invalid format"
	ServerError               = "Server error"
)

var (
	ErrInvalidCredentials = stderrors.New(InvalidCredentials)
	ErrEmailExists        = stderrors.New(EmailAlreadyExist)
	ErrPropertyNotFound   = stderrors.New(PropertyNotFound)
	ErrInterestNotFound   = stderrors.New(InterestNotFound)
	ErrAlreadyInterested  = stderrors.New(AlreadyInterested)
	ErrNotAuthorized      = stderrors.New(NotAuthorized)
	ErrOnlyOwners         = stderrors.New(OnlyOwnersCreate)
	ErrInvalidToken       = stderrors.New(InvalidTokenError)
)

// ValidationError carries the offending fields so handlers can return them
// next to the message.
type ValidationError struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"errors,omitempty"`
}

func (v *ValidationError) Error() string {
	return v.Message
}
