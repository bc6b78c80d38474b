//go:build unix

package record

import (
	"os"
	"os/user"
	"strconv"
	"syscall"
)

func ownership(info os.FileInfo) (userName, group string, uid, gid int64, ok bool) {
	st, isStat := info.Sys().(*syscall.Stat_t)
	if !isStat {
		return "", "", 0, 0, false
	}
	uid, gid = int64(st.Uid), int64(st.Gid)
	if u, err := user.LookupId(strconv.FormatInt(uid, 10)); err == nil {
		userName = u.Username
	}
	if g, err := user.LookupGroupId(strconv.FormatInt(gid, 10)); err == nil {
		group = g.Name
	}
	return userName, group, uid, gid, true
}
