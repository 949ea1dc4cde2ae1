package secstr

import "golang.org/x/sys/unix"

func adviseDontDump(b []byte) error {
	return unix.Madvise(b, unix.MADV_DONTDUMP)
}
