package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// seedProduct mirrors the catalogue seed line format: one JSON object per
// line, gzip-compressed. IDs are fixed so re-seeding on startup updates rows
// in place instead of inserting duplicates.
type seedProduct struct {
	ID          string  `json:"id,omitempty"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
	Price       float64 `json:"price"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

func main() {
	dataDir := "data/catalog"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	inactive := false
	products := []seedProduct{
		{ID: "0b6f3c5e-88a1-4f7d-9b0a-1d2e3f405061", Name: "Cyberpunk 2099 Game Key", Description: "Standard edition key", ImageURL: "https://cdn.example.com/cp2099.png", Price: 59.99},
		{ID: "1c7e4d6f-99b2-4e8c-8c1b-2e3f40516172", Name: "Synthwave Dreams Album", Description: "FLAC + MP3 download", ImageURL: "https://cdn.example.com/synthwave.png", Price: 9.99},
		{ID: "2d8f5e70-aac3-4d9b-9d2c-3f4051627283", Name: "Neon City Wallpaper Pack", Description: "Twelve 4K wallpapers", Price: 4.99},
		{ID: "3e906f81-bbd4-4ca8-8e3d-405162738394", Name: "Pro Editor License (1 year)", Description: "Single-seat license", Price: 89.00},
		{ID: "4fa17092-cce5-4b97-9f4e-5162738495a5", Name: "Indie Bundle Vol. 3", Description: "Five game keys", Price: 24.99},
		{ID: "50b281a3-dd06-4a86-8a5f-62738495a6b6", Name: "Streaming Gift Card $10", Price: 10.00},
		{ID: "61c392b4-ee17-4975-9b60-738495a6b7c7", Name: "Retired Beta Access", Description: "No longer on sale", Price: 0.00, IsActive: &inactive},
	}

	filePath := filepath.Join(dataDir, "products.json.gz")
	if err := writeSeedFile(filePath, products); err != nil {
		log.Fatalf("Failed to create %s: %v", filePath, err)
	}

	fmt.Printf("Created %s with %d products\n", filePath, len(products))
	fmt.Println("Point CATALOG_SEED_PATH at this file to seed the catalogue on startup.")
}

func writeSeedFile(filePath string, products []seedProduct) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	encoder := json.NewEncoder(gzipWriter)
	for _, p := range products {
		if err := encoder.Encode(p); err != nil {
			return fmt.Errorf("failed to write product: %w", err)
		}
	}

	return nil
}
