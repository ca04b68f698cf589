package skeleton

import "errors"

var (
	// ErrUnknownFinger is returned when a bone name does not start with a finger token
	ErrUnknownFinger = errors.New("unknown finger token")
	// ErrMissingBone is returned when the skeleton lacks a bone the topology needs
	ErrMissingBone = errors.New("missing bone")
	// ErrInvalidSkeleton is returned for malformed parent tables or pose snapshots
	ErrInvalidSkeleton = errors.New("invalid skeleton")
)
