//go:build !unix

package record

import "os"

func ownership(info os.FileInfo) (userName, group string, uid, gid int64, ok bool) {
	return "", "", 0, 0, false
}
