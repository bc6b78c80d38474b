package pipeline

import (
	"github.com/reconscan/recon/internal/config"
	"github.com/reconscan/recon/internal/fieldcompute"
	"github.com/reconscan/recon/internal/record"
)

// applyDefaultFields fills Layer-2 fields on f according to fields. A
// nil list means the field was never configured and is left unset; a
// non-nil (possibly empty) list means the classifier runs.
func applyDefaultFields(f *record.File, fields config.DefaultFields) {
	if fields.IsArchive != nil {
		f.IsArchive = fieldcompute.ExtClass(f.Ext, fields.IsArchive)
	}
	if fields.IsDocument != nil {
		f.IsDocument = fieldcompute.ExtClass(f.Ext, fields.IsDocument)
	}
	if fields.IsMedia != nil {
		f.IsMedia = fieldcompute.ExtClass(f.Ext, fields.IsMedia)
	}
	if fields.IsCode != nil {
		f.IsCode = fieldcompute.ExtClass(f.Ext, fields.IsCode)
	}
	if fields.IsIgnored != nil {
		isDir := f.IsDir != nil && *f.IsDir
		f.IsIgnored = fieldcompute.IsIgnored(f.AbsPath, isDir, fields.IsIgnored)
	}
}
