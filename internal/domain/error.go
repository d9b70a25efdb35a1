package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidExecContext = errors.New("invalid executor context")
	ErrInvalidShareLink   = errors.New("not a terabox share link")
	ErrResolutionFailed   = errors.New("share link resolution failed")
	ErrFileTooLarge       = errors.New("file exceeds the upload ceiling")
	ErrDownloadFailed     = errors.New("file download failed")
	ErrUploadFailed       = errors.New("file upload failed")
	ErrVerificationFailed = errors.New("token verification failed")
	ErrVerificationNeeded = errors.New("user is not verified")
)
