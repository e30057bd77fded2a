package slug

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Loader reads a reserved slug list from some source.
type Loader interface {
	// Load reads the list at path and returns its entries as a Set.
	Load(ctx context.Context, path string) (Set, error)
}

// fileLoader implements Loader for files on the local file system.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based reserved list loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "reserved-file-loader").Logger(),
	}
}

func (l *fileLoader) Load(ctx context.Context, path string) (Set, error) {
	l.logger.Info().Str("file", path).Msg("loading reserved slug file")

	file, err := os.Open(path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to open reserved slug file")
		return nil, fmt.Errorf("failed to open reserved slug file %s: %w", path, err)
	}
	defer file.Close()

	set, err := readSet(ctx, file, path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("error reading reserved slug file")
		return nil, err
	}

	l.logger.Info().Str("file", path).Int("entries", set.Size()).Msg("reserved slug file loaded")
	return set, nil
}

// readSet parses one entry per line from r, transparently decompressing
// when name ends in .gz.
func readSet(ctx context.Context, r io.Reader, name string) (*mapSet, error) {
	if strings.HasSuffix(name, ".gz") {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader for %s: %w", name, err)
		}
		defer gz.Close()
		r = gz
	}

	set := newMapSet(256)
	scanner := bufio.NewScanner(r)

	lines := 0
	for scanner.Scan() {
		if lines%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		lines++

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		set.Add(line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", name, err)
	}

	return set, nil
}
