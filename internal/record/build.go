package record

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// New builds the Layer-1 (identity & metadata) fields of a File from
// a walked path. It does not populate any default or computed field.
func New(walkedPath string, info os.FileInfo) (*File, error) {
	abs, err := filepath.Abs(walkedPath)
	if err != nil {
		return nil, err
	}
	// canonicalize when possible; a dangling symlink or a path that
	// vanished between walk and build keeps the plain absolute form.
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}

	size := info.Size()
	isDir := info.IsDir()
	isSymlink := info.Mode()&os.ModeSymlink != 0
	isFile := info.Mode().IsRegular()
	mode := info.Mode().Perm().String()

	var ext *string
	if e := strings.ToLower(strings.TrimPrefix(filepath.Ext(walkedPath), ".")); e != "" {
		e := e
		ext = &e
	}

	f := &File{
		EntryTime: time.Now().UTC().Format(time.RFC3339),
		AbsPath:   abs,
		Path:      walkedPath,
		Ext:       ext,
		Mode:      &mode,
		IsDir:     &isDir,
		IsFile:    &isFile,
		IsSymlink: &isSymlink,
		IsEmpty:   size == 0,
		Size:      &size,
	}

	mtime := info.ModTime().UTC()
	f.MTime = &mtime
	if a, c, ok := accessAndChangeTime(info); ok {
		f.ATime = &a
		f.CTime = &c
	}
	if user, group, uid, gid, ok := ownership(info); ok {
		f.User = &user
		f.Group = &group
		f.UID = &uid
		f.GID = &gid
	}

	return f, nil
}
