package pipeline

import (
	"context"
	"fmt"

	"github.com/reconscan/recon/internal/config"
	"github.com/reconscan/recon/internal/fieldcompute"
	"github.com/reconscan/recon/internal/record"
)

// Collaborators isolates the two field computers that depend on
// environment-external state (a binary on PATH, compiled YARA rules)
// behind small interfaces, so every other computer runs without them.
type Collaborators struct {
	Magic fieldcompute.Magic
	Yara  fieldcompute.YaraScanner
}

// applyComputedFields fills Layer-3 fields on f according to fields.
// All computers are individually failable; every failure is
// contextualized with the field name and the offending abs_path and
// aborts the run per spec.md §7 policy.
func applyComputedFields(ctx context.Context, f *record.File, fields config.ComputedFields, collab Collaborators) error {
	wrap := func(field string, err error) error {
		return fmt.Errorf("compute field %s for %s: %w", field, f.AbsPath, err)
	}

	if fields.BytesType {
		bt, err := fieldcompute.BytesType(f.AbsPath)
		if err != nil {
			return wrap("bytes_type", err)
		}
		f.BytesType = &bt
	}
	if fields.IsBinary {
		isBin, err := fieldcompute.IsBinary(f.AbsPath, f.BytesType)
		if err != nil {
			return wrap("is_binary", err)
		}
		f.IsBinary = &isBin
	}
	if fields.FileMagic {
		if collab.Magic == nil {
			return wrap("file_magic", fmt.Errorf("no Magic collaborator configured"))
		}
		m, err := collab.Magic.Identify(ctx, f.AbsPath)
		if err != nil {
			return wrap("file_magic", err)
		}
		f.FileMagic = &m
	}
	if fields.CRC32 {
		h, err := fieldcompute.CRC32(f.AbsPath)
		if err != nil {
			return wrap("crc32", err)
		}
		f.CRC32 = &h
	}
	if fields.SHA256 {
		h, err := fieldcompute.SHA256(f.AbsPath)
		if err != nil {
			return wrap("sha256", err)
		}
		f.SHA256 = &h
	}
	if fields.SHA512 {
		h, err := fieldcompute.SHA512(f.AbsPath)
		if err != nil {
			return wrap("sha512", err)
		}
		f.SHA512 = &h
	}
	if fields.MD5 {
		h, err := fieldcompute.MD5(f.AbsPath)
		if err != nil {
			return wrap("md5", err)
		}
		f.MD5 = &h
	}
	if fields.Simhash {
		h, err := fieldcompute.Simhash(f.AbsPath)
		if err != nil {
			return wrap("simhash", err)
		}
		f.Simhash = &h
	}

	if fields.CRC32Match != nil {
		m, err := fieldcompute.ValueMatch(f.AbsPath, "crc32", f.CRC32, fields.CRC32Match)
		if err != nil {
			return wrap("crc32_match", err)
		}
		f.CRC32Match = m
	}
	if fields.SHA256Match != nil {
		m, err := fieldcompute.ValueMatch(f.AbsPath, "sha256", f.SHA256, fields.SHA256Match)
		if err != nil {
			return wrap("sha256_match", err)
		}
		f.SHA256Match = m
	}
	if fields.SHA512Match != nil {
		m, err := fieldcompute.ValueMatch(f.AbsPath, "sha512", f.SHA512, fields.SHA512Match)
		if err != nil {
			return wrap("sha512_match", err)
		}
		f.SHA512Match = m
	}
	if fields.MD5Match != nil {
		m, err := fieldcompute.ValueMatch(f.AbsPath, "md5", f.MD5, fields.MD5Match)
		if err != nil {
			return wrap("md5_match", err)
		}
		f.MD5Match = m
	}
	if fields.SimhashMatch != nil {
		m, err := fieldcompute.ValueMatch(f.AbsPath, "simhash", f.Simhash, fields.SimhashMatch)
		if err != nil {
			return wrap("simhash_match", err)
		}
		f.SimhashMatch = m
	}
	if fields.PathMatchRegexp != nil {
		f.PathMatch = fieldcompute.PathMatch(f.AbsPath, fields.PathMatchRegexp)
	}
	if fields.ContentMatchRegexp != nil {
		m, err := fieldcompute.ContentMatch(f.AbsPath, fields.ContentMatchRegexp)
		if err != nil {
			return wrap("content_match", err)
		}
		f.ContentMatch = m
	}
	if fields.YaraMatch != "" {
		if collab.Yara == nil {
			return wrap("yara_match", fmt.Errorf("no YaraScanner collaborator configured"))
		}
		m, err := fieldcompute.YaraMatch(collab.Yara, f.AbsPath, fields.YaraMatch)
		if err != nil {
			return wrap("yara_match", err)
		}
		f.YaraMatch = m
	}

	return nil
}
