package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
)

// List shows enrolled names. No password is required.
func List() {
	reg := openRegistry()

	entries, err := reg.List()
	if err != nil {
		HandleError(err)
	}

	if len(entries) == 0 {
		fmt.Println("No enrolled names")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDIGEST\tKDF\tMODIFIED")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Name, e.Digest, e.KDF, e.Modified.Format("2006-01-02 15:04"))
	}
	w.Flush()
}

// formatSize formats a file size in human-readable form
func formatSize(size int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case size >= GB:
		return fmt.Sprintf("%.1f GB", float64(size)/GB)
	case size >= MB:
		return fmt.Sprintf("%.1f MB", float64(size)/MB)
	case size >= KB:
		return fmt.Sprintf("%.1f KB", float64(size)/KB)
	default:
		return fmt.Sprintf("%d bytes", size)
	}
}
