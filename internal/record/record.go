// Package record owns the canonical file-record schema: the column
// list, the Go struct it binds to, and the serialization of match
// objects. It is the single source of truth the store and the
// migrations build from.
package record

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrMatchPrereq is returned when a value matcher is configured but
// its prerequisite computed value was never stored on the record.
var ErrMatchPrereq = errors.New("matcher prerequisite missing")

// Match reports whether and how a matcher fired against one file.
type Match struct {
	IsMatch bool            `json:"is_match"`
	On      string          `json:"on"`
	By      map[string]bool `json:"by"`
	Details json.RawMessage `json:"details,omitempty"`
}

// MarshalDetails stores an arbitrary JSON-able value as Details.
func (m *Match) MarshalDetails(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal match details: %w", err)
	}
	m.Details = b
	return nil
}

// File is the canonical file-record: one row per indexed filesystem
// entry, keyed by AbsPath. Optional columns are pointers so that a
// genuinely absent value (not yet computed, or not applicable) is
// distinguishable from a zero value.
type File struct {
	ID int64

	// Identity & metadata — always populated at walk time.
	EntryTime string
	AbsPath   string
	Path      string
	Ext       *string
	Mode      *string
	IsDir     *bool
	IsFile    *bool
	IsSymlink *bool
	IsEmpty   bool
	Size      *int64
	User      *string
	Group     *string
	UID       *int64
	GID       *int64
	ATime     *time.Time
	MTime     *time.Time
	CTime     *time.Time

	// Default (cheap) fields, computed at walk time.
	IsArchive  *bool
	IsDocument *bool
	IsMedia    *bool
	IsCode     *bool
	IsIgnored  *bool

	// Computed (expensive) fields, deferred to the enrichment pass.
	BytesType *string
	IsBinary  *bool
	FileMagic *string
	CRC32     *string
	SHA256    *string
	SHA512    *string
	MD5       *string
	Simhash   *string

	CRC32Match   *Match
	SHA256Match  *Match
	SHA512Match  *Match
	MD5Match     *Match
	SimhashMatch *Match
	PathMatch    *Match
	ContentMatch *Match
	YaraMatch    *Match

	Computed bool
}

// Columns is the ordered, authoritative column list (excluding id).
// Migrations and the upsert statement are both generated from this
// slice so the schema and the bind order never drift apart.
var Columns = []string{
	"entry_time", "abs_path", "path", "ext", "mode",
	"is_dir", "is_file", "is_symlink", "is_empty", "is_binary", "size",
	"user", "group_name", "uid", "gid",
	"atime", "mtime", "ctime",

	"is_archive", "is_document", "is_media", "is_code", "is_ignored",

	"bytes_type", "file_magic", "crc32", "sha256", "sha512", "md5", "simhash",

	"crc32_match", "sha256_match", "sha512_match", "md5_match", "simhash_match",
	"path_match", "content_match", "yara_match",

	"computed",
}

// Bind returns the insert/update bind arguments in Columns order.
func Bind(f *File) ([]any, error) {
	crc32Match, err := bindMatch(f.CRC32Match)
	if err != nil {
		return nil, err
	}
	sha256Match, err := bindMatch(f.SHA256Match)
	if err != nil {
		return nil, err
	}
	sha512Match, err := bindMatch(f.SHA512Match)
	if err != nil {
		return nil, err
	}
	md5Match, err := bindMatch(f.MD5Match)
	if err != nil {
		return nil, err
	}
	simhashMatch, err := bindMatch(f.SimhashMatch)
	if err != nil {
		return nil, err
	}
	pathMatch, err := bindMatch(f.PathMatch)
	if err != nil {
		return nil, err
	}
	contentMatch, err := bindMatch(f.ContentMatch)
	if err != nil {
		return nil, err
	}
	yaraMatch, err := bindMatch(f.YaraMatch)
	if err != nil {
		return nil, err
	}

	return []any{
		f.EntryTime, f.AbsPath, f.Path, f.Ext, f.Mode,
		f.IsDir, f.IsFile, f.IsSymlink, f.IsEmpty, f.IsBinary, f.Size,
		f.User, f.Group, f.UID, f.GID,
		bindTime(f.ATime), bindTime(f.MTime), bindTime(f.CTime),

		f.IsArchive, f.IsDocument, f.IsMedia, f.IsCode, f.IsIgnored,

		f.BytesType, f.FileMagic, f.CRC32, f.SHA256, f.SHA512, f.MD5, f.Simhash,

		crc32Match, sha256Match, sha512Match, md5Match, simhashMatch,
		pathMatch, contentMatch, yaraMatch,

		f.Computed,
	}, nil
}

func bindTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

func bindMatch(m *Match) (*string, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal match: %w", err)
	}
	s := string(b)
	return &s, nil
}

// ScanRows materializes every row of rows into Files, matching
// columns by name so a query that selects any subset of Columns (or
// all of them, as "select * from files" does) decodes correctly.
func ScanRows(rows *sql.Rows) ([]*File, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}

	var out []*File
	for rows.Next() {
		raw := make([]sql.NullString, len(cols))
		dest := make([]any, len(cols))
		for i := range raw {
			dest[i] = &raw[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		f := &File{}
		for i, name := range cols {
			if err := assignColumn(f, name, raw[i]); err != nil {
				return nil, fmt.Errorf("decode column %s: %w", name, err)
			}
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func assignColumn(f *File, name string, v sql.NullString) error {
	if name == "id" {
		if v.Valid {
			n, err := strconv.ParseInt(v.String, 10, 64)
			if err != nil {
				return err
			}
			f.ID = n
		}
		return nil
	}

	str := func() *string {
		if !v.Valid {
			return nil
		}
		s := v.String
		return &s
	}
	boolp := func() (*bool, error) {
		if !v.Valid {
			return nil, nil
		}
		b := v.String == "1" || v.String == "true"
		return &b, nil
	}
	i64 := func() (*int64, error) {
		if !v.Valid {
			return nil, nil
		}
		n, err := strconv.ParseInt(v.String, 10, 64)
		if err != nil {
			return nil, err
		}
		return &n, nil
	}
	tm := func() (*time.Time, error) {
		if !v.Valid {
			return nil, nil
		}
		t, err := time.Parse(time.RFC3339, v.String)
		if err != nil {
			return nil, err
		}
		return &t, nil
	}
	match := func() (*Match, error) {
		if !v.Valid {
			return nil, nil
		}
		var m Match
		if err := json.Unmarshal([]byte(v.String), &m); err != nil {
			return nil, err
		}
		return &m, nil
	}

	var err error
	switch name {
	case "entry_time":
		if v.Valid {
			f.EntryTime = v.String
		}
	case "abs_path":
		if v.Valid {
			f.AbsPath = v.String
		}
	case "path":
		if v.Valid {
			f.Path = v.String
		}
	case "ext":
		f.Ext = str()
	case "mode":
		f.Mode = str()
	case "is_dir":
		f.IsDir, err = boolp()
	case "is_file":
		f.IsFile, err = boolp()
	case "is_symlink":
		f.IsSymlink, err = boolp()
	case "is_empty":
		if v.Valid {
			f.IsEmpty = v.String == "1" || v.String == "true"
		}
	case "is_binary":
		f.IsBinary, err = boolp()
	case "size":
		f.Size, err = i64()
	case "user":
		f.User = str()
	case "group_name":
		f.Group = str()
	case "uid":
		f.UID, err = i64()
	case "gid":
		f.GID, err = i64()
	case "atime":
		f.ATime, err = tm()
	case "mtime":
		f.MTime, err = tm()
	case "ctime":
		f.CTime, err = tm()
	case "is_archive":
		f.IsArchive, err = boolp()
	case "is_document":
		f.IsDocument, err = boolp()
	case "is_media":
		f.IsMedia, err = boolp()
	case "is_code":
		f.IsCode, err = boolp()
	case "is_ignored":
		f.IsIgnored, err = boolp()
	case "bytes_type":
		f.BytesType = str()
	case "file_magic":
		f.FileMagic = str()
	case "crc32":
		f.CRC32 = str()
	case "sha256":
		f.SHA256 = str()
	case "sha512":
		f.SHA512 = str()
	case "md5":
		f.MD5 = str()
	case "simhash":
		f.Simhash = str()
	case "crc32_match":
		f.CRC32Match, err = match()
	case "sha256_match":
		f.SHA256Match, err = match()
	case "sha512_match":
		f.SHA512Match, err = match()
	case "md5_match":
		f.MD5Match, err = match()
	case "simhash_match":
		f.SimhashMatch, err = match()
	case "path_match":
		f.PathMatch, err = match()
	case "content_match":
		f.ContentMatch, err = match()
	case "yara_match":
		f.YaraMatch, err = match()
	case "computed":
		if v.Valid {
			f.Computed = v.String == "1" || v.String == "true"
		}
	}
	return err
}
