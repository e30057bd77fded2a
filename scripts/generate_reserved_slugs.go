package main

import (
	"compress/gzip"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"

	"storefront/internal/slug"
)

// Writes the built-in reserved slug list, plus any extra slugs given as
// arguments, to a gzip file ready for upload to the reserved-slugs bucket.
//
//	go run ./scripts -out data/reserved-slugs/reserved.txt.gz vendas pedidos
func main() {
	out := flag.String("out", "data/reserved-slugs/reserved.txt.gz", "output file")
	flag.Parse()

	entries := slug.BuiltinReserved()
	for _, arg := range flag.Args() {
		normalized := slug.Normalize(arg)
		if normalized == "" {
			log.Fatalf("extra slug %q normalizes to nothing", arg)
		}
		entries = append(entries, normalized)
	}
	slices.Sort(entries)
	entries = slices.Compact(entries)

	if err := os.MkdirAll(filepath.Dir(*out), 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	if err := writeList(*out, entries); err != nil {
		log.Fatalf("Failed to create %s: %v", *out, err)
	}

	fmt.Printf("Created %s with %d slugs (built-in list v%d)\n", *out, len(entries), slug.ReservedListVersion)
}

func writeList(filePath string, entries []string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)

	if _, err := fmt.Fprintf(gzipWriter, "# reserved slugs, built-in list v%d\n", slug.ReservedListVersion); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, entry := range entries {
		if _, err := fmt.Fprintf(gzipWriter, "%s\n", entry); err != nil {
			return fmt.Errorf("failed to write slug: %w", err)
		}
	}

	if err := gzipWriter.Close(); err != nil {
		return fmt.Errorf("failed to flush gzip stream: %w", err)
	}
	return file.Close()
}
