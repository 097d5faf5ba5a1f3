// internal/app/system/status/status.go
package status

// Document statuses shared by users and courses.
const (
	Active   = "active"
	Disabled = "disabled"
)

// IsValid reports whether s is a known status value.
func IsValid(s string) bool {
	return s == Active || s == Disabled
}
