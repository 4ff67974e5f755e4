package partvalidator

import (
	"regexp"
)

// Size constants for easier size configuration
const (
	KB = int64(1024)
	MB = KB * 1024
	GB = MB * 1024
)

// Constraints defines what a part must satisfy.
//
// Size, content type and filename rules apply to file parts only, i.e. parts
// that carry a filename. Plain fields are checked against MaxFieldSize and the
// field name rules.
type Constraints struct {
	// MaxFieldSize is the maximum content size of a plain field in bytes
	MaxFieldSize int64

	// MaxFileSize is the maximum content size of a file part in bytes
	MaxFileSize int64

	// MinFileSize is the minimum content size of a file part in bytes
	MinFileSize int64

	// AcceptedTypes lists allowed content types of file parts, detected from
	// the content. Groups like "image/*" are expanded.
	AcceptedTypes []string

	// AllowedExts is a list of allowed filename extensions including the dot.
	// If empty, all extensions are allowed unless blocked by BlockedExts.
	AllowedExts []string

	// BlockedExts is a list of blocked filename extensions including the dot
	BlockedExts []string

	// MaxNameLength limits both field names and filenames. Zero disables it.
	MaxNameLength int

	// FileNameRegex is an optional pattern filenames must match
	FileNameRegex *regexp.Regexp

	// DangerousChars is a list of substrings rejected in filenames
	DangerousChars []string

	// RequireExtension enforces that filenames have an extension
	RequireExtension bool

	// CheckDeclaredType rejects file parts whose declared Content-Type
	// disagrees with the type detected from their content.
	CheckDeclaredType bool

	// BlockExecutables rejects file parts whose content is a native executable
	BlockExecutables bool
}

// DefaultConstraints creates a new set of constraints with sensible defaults
func DefaultConstraints() Constraints {
	return Constraints{
		MaxFieldSize:     1 * MB,
		MaxFileSize:      10 * MB,
		MinFileSize:      1,
		MaxNameLength:    255,
		DangerousChars:   []string{"../", "\\", ";", "&", "|", ">", "<", "$", "`", "!", "*"},
		BlockedExts:      []string{".exe", ".bat", ".cmd", ".sh", ".php", ".phtml", ".pl", ".cgi", ".dll", ".com", ".jar", ".pif", ".vb", ".vbs", ".js", ".jse", ".msc", ".ws", ".wsf", ".ps1", ".scf", ".lnk", ".inf", ".reg", ".docm", ".xlsm", ".pptm"},
		RequireExtension: true,
		BlockExecutables: true,
	}
}

// ImageOnlyConstraints creates constraints that only allow image uploads
func ImageOnlyConstraints() Constraints {
	constraints := DefaultConstraints()
	constraints.AcceptedTypes = []string{string(AllowAllImages)}
	constraints.AllowedExts = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg", ".bmp", ".tiff", ".tif"}
	return constraints
}

// DocumentOnlyConstraints creates constraints that only allow document uploads
func DocumentOnlyConstraints() Constraints {
	constraints := DefaultConstraints()
	constraints.AcceptedTypes = []string{"application/pdf", "application/msword", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", "text/plain"}
	constraints.AllowedExts = []string{".pdf", ".doc", ".docx", ".txt", ".rtf"}
	return constraints
}
