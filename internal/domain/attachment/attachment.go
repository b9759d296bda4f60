// Package attachment describes files attached to a listing.
package attachment

import (
	"mime"
	"path"
	"strconv"
	"strings"
	"time"
)

// Attachment is the metadata of one uploaded file. The bytes live in the
// blob store under Key; Owner is the id of the listing the file belongs to.
type Attachment struct {
	ID           string
	OriginalName string
	StorageName  string
	Bucket       string
	Region       string
	Key          string
	Type         string
	Owner        string
	IsMainFile   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// StorageName derives a safe object name from a client-supplied filename.
// Path components are dropped and characters outside [A-Za-z0-9._-] become
// underscores.
func StorageName(original string) string {
	name := path.Base(strings.ReplaceAll(original, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "file"
	}
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// keyIDLen is how many leading characters of the attachment id go into a key.
const keyIDLen = 8

// Key builds the blob key for a file:
// <listingID>/<mimeTop>s/<unixMillis>-<id8>-<name>,
// e.g. "L1/images/1700000000000-3f2a9c1e-front.jpg". The id prefix keeps
// same-named files stored in the same millisecond apart.
func Key(listingID, attachmentID, contentType, storageName string, at time.Time) string {
	id := attachmentID
	if len(id) > keyIDLen {
		id = id[:keyIDLen]
	}
	return listingID + "/" + Folder(contentType) + "/" +
		strconv.FormatInt(at.UnixMilli(), 10) + "-" + id + "-" + storageName
}

// Folder returns the pluralized top-level media type, "files" when unknown.
func Folder(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil || mt == "" {
		return "files"
	}
	top, _, ok := strings.Cut(mt, "/")
	if !ok || top == "" || top == "*" {
		return "files"
	}
	return top + "s"
}
