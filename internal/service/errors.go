package service

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package matches one of them with errors.Is.
var (
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation error")
	ErrPermissionDenied = errors.New("permission denied")
	ErrIntegrity        = errors.New("integrity error")
	ErrInternal         = errors.New("internal server error")
)

var (
	ErrPostNotFound = fmt.Errorf("%w: post not found", ErrNotFound)
	ErrUserNotFound = fmt.Errorf("%w: user not found", ErrNotFound)

	ErrInvalidPostID               = fmt.Errorf("%w: invalid post id", ErrValidation)
	ErrEmptyPost                   = fmt.Errorf("%w: content or image is required", ErrValidation)
	ErrEmptyComment                = fmt.Errorf("%w: comment text is required", ErrValidation)
	ErrEmptyQuote                  = fmt.Errorf("%w: quote text is required", ErrValidation)
	ErrFileMustBeImage             = fmt.Errorf("%w: file must be an image", ErrValidation)
	ErrFileMustHaveAValidExtension = fmt.Errorf("%w: file must have a valid extension", ErrValidation)

	ErrNotPostAuthor = fmt.Errorf("%w: only the author can delete a post", ErrPermissionDenied)

	ErrPostIDCollision = fmt.Errorf("%w: could not allocate a unique post id", ErrIntegrity)
	ErrThreadCycle     = fmt.Errorf("%w: comment chain contains a cycle", ErrIntegrity)
	ErrThreadTooDeep   = fmt.Errorf("%w: comment chain exceeds maximum depth", ErrIntegrity)

	ErrFailedToUploadPostImageToCDN = fmt.Errorf("%w: failed to upload post image to CDN", ErrInternal)
)

// resultLabel names the kind of err for metrics.
func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrPermissionDenied):
		return "permission_denied"
	case errors.Is(err, ErrIntegrity):
		return "integrity"
	default:
		return "internal"
	}
}
