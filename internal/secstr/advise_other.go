//go:build !linux

package secstr

func adviseDontDump([]byte) error {
	return nil
}
