package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"time"

	"sitescrape-go/pkg/models"
	"sitescrape-go/pkg/scraper"

	"github.com/patrickmn/go-cache"
)

// ErrFileNotFound is returned for unknown or expired result files.
var ErrFileNotFound = errors.New("file not found")

const (
	// FileTTL is how long a generated CSV stays downloadable.
	FileTTL         = time.Hour
	cleanupInterval = 10 * time.Minute
)

// fileStore keeps generated CSV files in memory, keyed by file name.
type fileStore struct {
	cache *cache.Cache
}

func newFileStore(ttl time.Duration) *fileStore {
	return &fileStore{cache: cache.New(ttl, cleanupInterval)}
}

func (f *fileStore) put(name string, table scraper.Table) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(table.Headers); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := w.WriteAll(table.Rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	f.cache.SetDefault(name, buf.Bytes())
	return nil
}

func (f *fileStore) get(name string) ([]byte, error) {
	v, found := f.cache.Get(name)
	if !found {
		return nil, ErrFileNotFound
	}
	data, ok := v.([]byte)
	if !ok {
		return nil, ErrFileNotFound
	}
	return data, nil
}

func (f *fileStore) table(name string) (models.TablePreview, error) {
	data, err := f.get(name)
	if err != nil {
		return models.TablePreview{}, err
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return models.TablePreview{}, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	if len(records) == 0 {
		return models.TablePreview{}, ErrFileNotFound
	}
	return models.TablePreview{Headers: records[0], Rows: records[1:]}, nil
}
