// Package fieldcompute implements the field computers that populate the
// default (Layer 2) and computed (Layer 3) columns of a record.File. Each
// computer is a small pure-ish function over a File and a configuration
// parameter; failures are returned to the caller with the field name and
// path already known to it, so errors are wrapped one level up in
// internal/pipeline rather than here.
package fieldcompute

// ExtClass reports whether a file's extension belongs to a configured
// class list (is_archive, is_document, is_media, is_code). Matching is
// case-sensitive, mirroring the original engine exactly: operators who
// want case-insensitive matching list both cases explicitly.
func ExtClass(ext *string, class []string) *bool {
	if ext == nil {
		return nil
	}
	for _, v := range class {
		if v == *ext {
			b := true
			return &b
		}
	}
	b := false
	return &b
}
