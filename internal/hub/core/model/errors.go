package model

import "errors"

// Resolver failure taxonomy. Every engine failure is one of these sentinels
// (possibly wrapped); the transport layer maps them to stable response codes.
var (
	// ErrNotFound indicates the addressed entity or collection does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrDataNotFound indicates the data key is absent from every data
	// category of an existing entity.
	ErrDataNotFound = errors.New("data not found")

	// ErrCategoryNotAllowed indicates the requested bulk-data category is not
	// in the entity's approved set.
	ErrCategoryNotAllowed = errors.New("bulk-data category not allowed")

	// ErrFileNotFound indicates the requested file is absent under the
	// category directory.
	ErrFileNotFound = errors.New("file not found")

	// ErrPathTraversalDenied indicates the requested file path would resolve
	// outside the category root.
	ErrPathTraversalDenied = errors.New("path traversal denied")

	// ErrUnknownArchitecture indicates an architecture tag with no registry
	// entry. Seed validation makes this unreachable per-request; hitting it
	// mid-request is a configuration regression.
	ErrUnknownArchitecture = errors.New("unknown architecture")
)
