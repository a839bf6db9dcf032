package vcard

import (
	"bytes"
	"fmt"
)

// Photo is an inline contact photo
type Photo struct {
	Type string // vCard photo type token, e.g. "JPEG", "PNG"
	Data string // base64-encoded image bytes
}

// Card holds the fields of one contact. Empty string means the field
// is absent and its line is not emitted.
type Card struct {
	First string
	Last  string
	Full  string
	Email string
	Tel   string
	Skype string
	Title string
	Photo *Photo
}

// Encode serializes the card as vCard 3.0 text. Line order is fixed.
// The IMPP line (Apple form) must stay ahead of X-SKYPE: Google
// Contacts drops the Skype field when the Apple form comes after its
// own.
func (x *Card) Encode() []byte {
	var buf bytes.Buffer

	buf.WriteString("BEGIN:VCARD\nVERSION:3.0\n")
	fmt.Fprintf(&buf, "FN:%s\n", x.Full)

	if x.First != "" && x.Last != "" && x.Full != "" {
		fmt.Fprintf(&buf, "N:%s;%s;;;\n", x.Last, x.First)
	}

	if x.Email != "" {
		fmt.Fprintf(&buf, "EMAIL;TYPE=INTERNET;TYPE=HOME:%s\n", x.Email)
	}

	if x.Tel != "" {
		fmt.Fprintf(&buf, "TEL;PREF=1;TYPE=CELL:%s\n", x.Tel)
	}

	if x.Skype != "" {
		fmt.Fprintf(&buf, "IMPP;X-SERVICE-TYPE=Skype;type=HOME;skype:%s\n", x.Skype)
		fmt.Fprintf(&buf, "X-SKYPE:%s\n", x.Skype)
	}

	if x.Title != "" {
		fmt.Fprintf(&buf, "TITLE:%s\n", x.Title)
	}

	if x.Photo != nil {
		// The TYPE parameter is dropped rather than emitted empty when
		// the avatar URL carried no extension.
		if x.Photo.Type != "" {
			fmt.Fprintf(&buf, "PHOTO;ENCODING=b;TYPE=%s:%s\n", x.Photo.Type, x.Photo.Data)
		} else {
			fmt.Fprintf(&buf, "PHOTO;ENCODING=b:%s\n", x.Photo.Data)
		}
	}

	buf.WriteString("END:VCARD\n")

	return buf.Bytes()
}
