package manifest

import "errors"

var (
	ErrBucketNotFound      = errors.New("bucket not found")
	ErrBatchNotFound       = errors.New("batch not found")
	ErrIncompatibleVersion = errors.New("incompatible manifest version")
	ErrBatchFinished       = errors.New("batch already finished")
)
