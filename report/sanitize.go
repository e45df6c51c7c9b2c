// Package report turns check targets into deterministic report file paths
// and persists the report files and the run index.
package report

// sanitize.go contains the filename sanitizer used for every report path.

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxFilenameLength is the default upper bound for sanitized names.
const MaxFilenameLength = 200

// Unnamed is returned for inputs that sanitize to nothing, cut to
// maxLength when that is shorter.
const Unnamed = "unnamed"

const hashLength = 8

// unsafeChars are replaced in addition to any unicode whitespace.
const unsafeChars = `/\:*?"<>|`

// Sanitize converts an arbitrary path into a filesystem safe name of at
// most maxLength bytes. Directory components are kept (joined by
// underscores) so equal base names in different directories do not
// collide; the extension of the base name is dropped. Names longer than
// maxLength are truncated and suffixed with "_" and the first 8 hex chars
// of the SHA-256 of the raw input. A maxLength <= 0 selects
// MaxFilenameLength.
func Sanitize(raw string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = MaxFilenameLength
	}
	if strings.TrimSpace(raw) == "" {
		return unnamed(maxLength)
	}

	dir, name := splitPath(raw)

	var parts []string
	for _, p := range strings.Split(dir, string(filepath.Separator)) {
		if p != "" && p != "." {
			parts = append(parts, p)
		}
	}
	parts = append(parts, name)

	sanitized := collapseUnderscores(replaceUnsafe(strings.Join(parts, "_")))
	if sanitized == "" {
		return unnamed(maxLength)
	}

	if len(sanitized) > maxLength {
		sum := sha256.Sum256([]byte(raw))
		hash := hex.EncodeToString(sum[:])[:hashLength]

		keep := maxLength - hashLength - 1
		if keep <= 0 {
			return hash[:min(hashLength, maxLength)]
		}
		// never cut a multi-byte rune in half
		for keep > 0 && !utf8.RuneStart(sanitized[keep]) {
			keep--
		}
		sanitized = sanitized[:keep] + "_" + hash
	}

	return sanitized
}

// unnamed returns Unnamed cut to maxLength.
func unnamed(maxLength int) string {
	return Unnamed[:min(len(Unnamed), maxLength)]
}

// SanitizeProfile derives a report name from a profile identifier by
// joining its last two non-empty "/" segments, e.g.
// ".../AssetAdministrationShellRepositoryServiceSpecification/SSP-002"
// becomes "AssetAdministrationShellRepositoryServiceSpecification_SSP-002".
func SanitizeProfile(profile string) string {
	var segments []string
	for _, s := range strings.Split(profile, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	if len(segments) > 2 {
		segments = segments[len(segments)-2:]
	}
	return Sanitize(strings.Join(segments, "_"), MaxFilenameLength)
}

// splitPath returns the directory part and the base name without its
// extension. Trailing separators are ignored and no cleaning is applied,
// so "a/../b" keeps all of its components.
func splitPath(raw string) (dir, name string) {
	sep := string(filepath.Separator)
	p := strings.TrimRight(raw, sep)
	if p == "" {
		return "", ""
	}

	base := p
	if i := strings.LastIndex(p, sep); i >= 0 {
		dir, base = p[:i], p[i+1:]
	}

	ext := filepath.Ext(base)
	// dot files and "." / ".." have no extension
	if strings.Trim(base, ".") == "" || ext == base {
		ext = ""
	}
	return dir, strings.TrimSuffix(base, ext)
}

func replaceUnsafe(s string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(unsafeChars, r) || unicode.IsSpace(r) {
			return '_'
		}
		return r
	}, s)
}

func collapseUnderscores(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prev := false
	for _, r := range s {
		if r == '_' {
			if prev {
				continue
			}
			prev = true
		} else {
			prev = false
		}
		b.WriteRune(r)
	}
	return strings.Trim(b.String(), "_")
}
