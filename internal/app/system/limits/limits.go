// internal/app/system/limits/limits.go
package limits

// Request body size limits, shared so handlers and middleware agree on
// what "too big" means.
const (
	// MaxJSONBody caps JSON request bodies. Course snapshots with
	// embedded text blocks can be large, but anything past this is
	// rejected outright.
	MaxJSONBody = 2 << 20 // 2 MiB

	// MaxUploadSize caps multipart lesson file uploads.
	MaxUploadSize = 50 << 20 // 50 MiB
)
