package cmd

import (
	"fmt"
	"os"
)

// Compact compacts the verifier store to reclaim unused space
func Compact() {
	reg := openRegistry()

	info, err := os.Stat(reg.Path())
	if err != nil {
		HandleError(err)
	}
	sizeBefore := info.Size()

	if err := reg.Compact(); err != nil {
		HandleError(err)
	}

	info, err = os.Stat(reg.Path())
	if err != nil {
		HandleError(err)
	}

	fmt.Printf("Compacted: %s -> %s\n", formatSize(sizeBefore), formatSize(info.Size()))
}
