package vcard

import (
	"net/url"
	"path"
	"strings"
)

var filenameReplacer = strings.NewReplacer(
	" ", "_",
	"-", "_",
	"(", "",
	")", "",
)

// Filename derives the output file name from a normalized real name:
// lowercased, spaces and hyphens become underscores, parentheses are
// stripped.
func Filename(realName string) string {
	return filenameReplacer.Replace(strings.ToLower(realName)) + ".vcf"
}

// PhotoType maps an avatar URL to the vCard photo type token. Apple's
// parser needs "JPEG" for .jpg/.jpeg files; any other extension is
// uppercased with the leading dot stripped. Empty when the URL has no
// extension.
func PhotoType(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		p = u.Path
	}

	ext := path.Ext(p)
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return "JPEG"
	case "":
		return ""
	default:
		return strings.ToUpper(strings.TrimPrefix(ext, "."))
	}
}
