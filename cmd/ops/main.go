package main

import (
	"fmt"
	"log"
	"os"

	"github.com/reincoon/task-manager/internal/ops"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage:")
	fmt.Fprintln(os.Stderr, "  ops backup <data-dir> <archive.tar.gz>")
	fmt.Fprintln(os.Stderr, "  ops restore <archive.tar.gz> <target-dir>")
	os.Exit(2)
}

func main() {
	if len(os.Args) != 4 {
		usage()
	}

	switch os.Args[1] {
	case "backup":
		if err := ops.BackupDataDir(os.Args[2], os.Args[3]); err != nil {
			log.Fatalf("backup: %v", err)
		}
		fmt.Printf("backed up %s to %s\n", os.Args[2], os.Args[3])
	case "restore":
		manifest, err := ops.RestoreDataDir(os.Args[2], os.Args[3])
		if err != nil {
			log.Fatalf("restore: %v", err)
		}
		fmt.Printf("restored %d files (backup from %s)\n", manifest.Files, manifest.CreatedAt.Format("2006-01-02 15:04:05"))
	default:
		usage()
	}
}
