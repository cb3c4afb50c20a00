package domain

import "errors"

var (
	ErrInvalidFileType      = errors.New("Please upload a valid image (JPEG, PNG, or GIF)")
	ErrFileTooLarge         = errors.New("Image size should be less than 5MB")
	ErrIncompleteSubmission = errors.New("Please fill in all required fields and upload an image")
	ErrImageReadFailed      = errors.New("Failed to read image")
	ErrUnknownViewMode      = errors.New("View mode must be grid or row")
	ErrListingNotFound      = errors.New("Listing not found")
)

// SubmissionError names the first draft field that blocked a submission.
type SubmissionError struct {
	Field string
}

func (e *SubmissionError) Error() string {
	return ErrIncompleteSubmission.Error() + " (missing or invalid: " + e.Field + ")"
}

func (e *SubmissionError) Unwrap() error {
	return ErrIncompleteSubmission
}
