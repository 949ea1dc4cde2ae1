//go:build linux || darwin || freebsd || openbsd || netbsd || dragonfly

package secstr

import "golang.org/x/sys/unix"

func pageSize() int {
	return unix.Getpagesize()
}

func mapAnonymous(size int) ([]byte, error) {
	return unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
}

func unmap(b []byte) error {
	return unix.Munmap(b)
}

func lockMemory(b []byte) error {
	return unix.Mlock(b)
}

func unlockMemory(b []byte) error {
	return unix.Munlock(b)
}
