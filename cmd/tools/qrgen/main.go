// qrgen renders printable QR label PNGs for item tags. Each argument is an
// item id; each output file is named QR-<item_id>.png.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"assettrack-api/internal/scan"
)

func main() {
	outDir := flag.String("out", ".", "Output directory for PNG files")
	flag.Parse()

	ids := flag.Args()
	if len(ids) == 0 {
		fmt.Fprintln(os.Stderr, "usage: qrgen [-out dir] ITEM_ID [ITEM_ID...]")
		os.Exit(2)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	for _, id := range ids {
		png, err := scan.EncodeQR(id)
		if err != nil {
			log.Fatalf("Failed to encode %s: %v", id, err)
		}

		path := filepath.Join(*outDir, fmt.Sprintf("QR-%s.png", id))
		if err := os.WriteFile(path, png, 0o644); err != nil {
			log.Fatalf("Failed to write %s: %v", path, err)
		}
		fmt.Printf("Wrote %s\n", path)
	}
}
