package artifact

import (
	"path/filepath"
	"strings"
)

// Type is an artifact category from the fixed vocabulary below.
type Type string

const (
	TypeDevelopment Type = "development"
	TypeAdHoc       Type = "ad_hoc"
	TypeAppStore    Type = "app_store"
	TypeLogs        Type = "logs"
	TypeXCResult    Type = "xcresult"
	TypeXCArchive   Type = "xcarchive"
	TypeIPA         Type = "ipa"
	TypeAPK         Type = "apk"
	TypeAAB         Type = "aab"
	TypeArchive     Type = "archive"
)

// Types lists the full vocabulary, in classification priority order.
var Types = []Type{
	TypeDevelopment, TypeAdHoc, TypeAppStore, TypeLogs,
	TypeXCResult, TypeXCArchive, TypeIPA, TypeAPK, TypeAAB, TypeArchive,
}

// ipaCompatible are the signed-iOS-binary types. A filter asking for
// "ipa" accepts any of them.
var ipaCompatible = map[Type]bool{
	TypeDevelopment: true,
	TypeAdHoc:       true,
	TypeAppStore:    true,
	TypeIPA:         true,
}

// Accepts reports whether an artifact of type other satisfies a filter
// requesting type t. Exact match except for the ipa equivalence class.
func (t Type) Accepts(other Type) bool {
	if t == other {
		return true
	}
	return t == TypeIPA && ipaCompatible[other]
}

// filename substrings checked in priority order; first hit wins.
var nameMatchers = []struct {
	substr string
	typ    Type
}{
	{"development", TypeDevelopment},
	{"ad-hoc", TypeAdHoc},
	{"ad_hoc", TypeAdHoc},
	{"adhoc", TypeAdHoc},
	{"app-store", TypeAppStore},
	{"app_store", TypeAppStore},
	{"logs", TypeLogs},
	{"xcresult", TypeXCResult},
	{"xcarchive", TypeXCArchive},
}

// Classify infers the artifact type from a file name, optionally
// biased by a platform hint ("ios", "android"). Matching is
// case-insensitive; unrecognized names fall back to TypeArchive.
func Classify(fileName, platformHint string) Type {
	name := strings.ToLower(fileName)

	for _, m := range nameMatchers {
		if strings.Contains(name, m.substr) {
			return m.typ
		}
	}

	switch filepath.Ext(name) {
	case ".ipa":
		return TypeIPA
	case ".apk":
		return TypeAPK
	case ".aab":
		return TypeAAB
	}

	switch strings.ToLower(platformHint) {
	case "ios":
		return TypeIPA
	case "android":
		return TypeAPK
	}

	return TypeArchive
}

// ClassifyFromAppMetadata derives the type for release-distribution
// backends, where app metadata is more reliable than the file name: a
// bundle identifier means an iOS binary, a package name an Android one
// (aab vs apk decided by extension, defaulting to apk).
func ClassifyFromAppMetadata(bundleID, packageName, fileName string) Type {
	if bundleID != "" {
		return TypeIPA
	}
	if packageName != "" {
		if strings.EqualFold(filepath.Ext(fileName), ".aab") {
			return TypeAAB
		}
		return TypeAPK
	}
	return Classify(fileName, "")
}

// ParseType validates a user-supplied type string against the
// vocabulary. The empty string is valid and means "no type filter".
func ParseType(s string) (Type, bool) {
	if s == "" {
		return "", true
	}
	t := Type(strings.ToLower(s))
	for _, known := range Types {
		if t == known {
			return t, true
		}
	}
	return "", false
}
