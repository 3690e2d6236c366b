package catalog

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"neon-market/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// seedEntry is one line of a catalogue seed file. ID and is_active are
// optional: a missing ID gets a fresh UUID, a missing is_active defaults to
// true.
type seedEntry struct {
	ID          *uuid.UUID `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ImageURL    string     `json:"image_url"`
	Price       float64    `json:"price"`
	IsActive    *bool      `json:"is_active"`
}

// fileLoader implements Loader for reading gzipped seed files from disk.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based catalogue loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "catalog-loader").Logger(),
	}
}

// Load reads a gzipped NDJSON seed file and returns the products it contains.
func (l *fileLoader) Load(ctx context.Context, path string) ([]model.Product, error) {
	l.logger.Info().Str("file", path).Msg("loading catalogue seed file")

	file, err := os.Open(path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to open seed file")
		return nil, fmt.Errorf("failed to open seed file %s: %w", path, err)
	}
	defer file.Close()

	products, err := readSeed(ctx, file, l.logger)
	if err != nil {
		return nil, fmt.Errorf("error reading seed file %s: %w", path, err)
	}

	l.logger.Info().
		Str("file", path).
		Int("products_loaded", len(products)).
		Msg("catalogue seed file loaded")

	return products, nil
}

// readSeed decompresses and parses a seed stream. Malformed or invalid lines
// are skipped with a warning rather than failing the whole load.
func readSeed(ctx context.Context, r io.Reader, logger zerolog.Logger) ([]model.Product, error) {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	var products []model.Product

	scanner := bufio.NewScanner(gzipReader)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++

		select {
		case <-ctx.Done():
			logger.Warn().Msg("catalogue loading cancelled")
			return nil, ctx.Err()
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var entry seedEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			logger.Warn().Err(err).Int("line", lineNum).Msg("skipping malformed seed line")
			continue
		}
		if strings.TrimSpace(entry.Name) == "" || entry.Price < 0 {
			logger.Warn().Int("line", lineNum).Msg("skipping invalid seed entry")
			continue
		}

		products = append(products, entryToProduct(entry))
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

func entryToProduct(entry seedEntry) model.Product {
	now := time.Now()
	product := model.Product{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(entry.Name),
		Description: strings.TrimSpace(entry.Description),
		ImageURL:    strings.TrimSpace(entry.ImageURL),
		Price:       entry.Price,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if entry.ID != nil {
		product.ID = *entry.ID
	}
	if entry.IsActive != nil {
		product.IsActive = *entry.IsActive
	}
	return product
}
