// internal/assets/errors.go
package assets

import "errors"

// Client input errors. Callers surface these as 422 with a stable code;
// no server-side state changes have occurred when one is returned.
var (
	ErrTooLarge            = errors.New("image exceeds the maximum allowed size")
	ErrUnsupportedType     = errors.New("unsupported image type")
	ErrUnreadableImage     = errors.New("file content is not a readable image")
	ErrDimensionsTooSmall  = errors.New("image dimensions are below the minimum")
	ErrAspectRatioMismatch = errors.New("image aspect ratio does not match the required ratio")
)

// Internal errors.
var (
	ErrProcessingFailed = errors.New("image processing failed")
	ErrStorageWrite     = errors.New("failed to write image to storage")
)

var errCodes = map[error]string{
	ErrTooLarge:            "ErrTooLarge",
	ErrUnsupportedType:     "ErrUnsupportedType",
	ErrUnreadableImage:     "ErrUnreadableImage",
	ErrDimensionsTooSmall:  "ErrDimensionsTooSmall",
	ErrAspectRatioMismatch: "ErrAspectRatioMismatch",
	ErrProcessingFailed:    "ErrProcessingFailed",
	ErrStorageWrite:        "ErrStorageWrite",
}

// Code maps an error to its stable identifier, or "" if the error is not
// one of the asset error kinds. Localization of the identifier into user
// text is the caller's concern.
func Code(err error) string {
	for sentinel, code := range errCodes {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return ""
}

// IsClientError reports whether err is caused by the uploaded file itself,
// as opposed to an internal processing or storage failure.
func IsClientError(err error) bool {
	for _, sentinel := range []error{
		ErrTooLarge, ErrUnsupportedType, ErrUnreadableImage,
		ErrDimensionsTooSmall, ErrAspectRatioMismatch,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
