package structure

import (
	"regexp"
	"strings"
)

// NameKind selects which naming rule applies to a name.
type NameKind int

const (
	// ProjectName is a Django project identifier.
	ProjectName NameKind = iota
	// AppName is a Django app label; it must be a lowercase Python identifier.
	AppName
	// DirectoryName is a plain folder name; hyphens are allowed.
	DirectoryName
)

// String returns the human-readable kind.
func (k NameKind) String() string {
	switch k {
	case ProjectName:
		return "project"
	case AppName:
		return "app"
	case DirectoryName:
		return "directory"
	default:
		return "unknown"
	}
}

var namePatterns = map[NameKind]*regexp.Regexp{
	ProjectName:   regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]+$`),
	AppName:       regexp.MustCompile(`^[a-z][a-z0-9_]+$`),
	DirectoryName: regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]+$`),
}

var nameRules = map[NameKind]string{
	ProjectName:   "must start with a letter followed by letters, digits, or underscores (at least 2 characters)",
	AppName:       "must start with a lowercase letter followed by lowercase letters, digits, or underscores (at least 2 characters)",
	DirectoryName: "must start with a letter followed by letters, digits, underscores, or hyphens (at least 2 characters)",
}

var nameErrors = map[NameKind]error{
	ProjectName:   ErrInvalidProjectName,
	AppName:       ErrInvalidAppName,
	DirectoryName: ErrInvalidDirectoryName,
}

// reservedNames collide with Django internals or Python tooling.
// Compared case-insensitively.
var reservedNames = map[string]struct{}{
	"django":       {},
	"test":         {},
	"settings":     {},
	"setup":        {},
	"admin":        {},
	"auth":         {},
	"contenttypes": {},
	"sessions":     {},
	"messages":     {},
	"static":       {},
	"staticfiles":  {},
}

// IsReserved reports whether name is in the reserved-word set.
func IsReserved(name string) bool {
	_, ok := reservedNames[strings.ToLower(name)]
	return ok
}

// IsValidName reports whether name satisfies the rule for kind.
func IsValidName(kind NameKind, name string) bool {
	return ValidateName(kind, name) == nil
}

// ValidateName checks name against the reserved set and the pattern for kind.
// The returned error, if any, is an *Error wrapping the kind's sentinel.
func ValidateName(kind NameKind, name string) error {
	pattern, ok := namePatterns[kind]
	if !ok {
		return newError(ErrConfiguration, name, "unknown name kind %d", int(kind))
	}
	if IsReserved(name) {
		return newError(nameErrors[kind], name, "%s name is reserved", kind)
	}
	if !pattern.MatchString(name) {
		return newError(nameErrors[kind], name, "%s", nameRules[kind])
	}
	return nil
}

// ValidateProjectName is ValidateName(ProjectName, name).
func ValidateProjectName(name string) error { return ValidateName(ProjectName, name) }

// ValidateAppName is ValidateName(AppName, name).
func ValidateAppName(name string) error { return ValidateName(AppName, name) }

// ValidateDirectoryName is ValidateName(DirectoryName, name).
func ValidateDirectoryName(name string) error { return ValidateName(DirectoryName, name) }
