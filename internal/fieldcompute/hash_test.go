package fieldcompute

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHashesKnownVectors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(path, []byte("abc"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	sha256Got, err := SHA256(path)
	if err != nil {
		t.Fatalf("sha256: %v", err)
	}
	if sha256Got != "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad" {
		t.Fatalf("unexpected sha256: %s", sha256Got)
	}

	md5Got, err := MD5(path)
	if err != nil {
		t.Fatalf("md5: %v", err)
	}
	if md5Got != "900150983cd24fb0d6963f7d28e17f72" {
		t.Fatalf("unexpected md5: %s", md5Got)
	}

	crcGot, err := CRC32(path)
	if err != nil {
		t.Fatalf("crc32: %v", err)
	}
	if crcGot != "352441c2" {
		t.Fatalf("unexpected crc32: %s", crcGot)
	}
}
