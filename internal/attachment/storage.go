package attachment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/MrJamesThe3rd/billed/internal/bill"
)

var ErrNotFound = errors.New("attachment not found")

var (
	bucketData = []byte("data")
	bucketMeta = []byte("meta")
)

// Object is a stored receipt.
type Object struct {
	Key         string
	Name        string
	ContentType string
	Data        []byte
}

type meta struct {
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
}

// Storage keeps receipts in a bbolt file and serves them under baseURL/files/<key>.
type Storage struct {
	db      *bolt.DB
	baseURL string
}

func Open(path, baseURL string) (*Storage, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening attachment db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketData); err != nil {
			return err
		}

		_, err := tx.CreateBucketIfNotExists(bucketMeta)

		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Storage{db: db, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

// Put stores the receipt and returns the URL it will be served from.
func (s *Storage) Put(ctx context.Context, f bill.File) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := ValidateFileName(f.Name); err != nil {
		return "", err
	}

	contentType := f.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mimetype.Detect(f.Data).String()
	}

	m, err := json.Marshal(meta{Name: f.Name, ContentType: contentType, CreatedAt: time.Now()})
	if err != nil {
		return "", fmt.Errorf("encoding metadata: %w", err)
	}

	// The extension stays in the key so the URL tells whether it is an image.
	key := uuid.NewString() + strings.ToLower(filepath.Ext(f.Name))

	err = s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketData).Put([]byte(key), f.Data); err != nil {
			return err
		}

		return tx.Bucket(bucketMeta).Put([]byte(key), m)
	})
	if err != nil {
		return "", fmt.Errorf("storing attachment: %w", err)
	}

	return s.baseURL + "/files/" + key, nil
}

func (s *Storage) Get(key string) (*Object, error) {
	obj := &Object{Key: key}

	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketData).Get([]byte(key))
		raw := tx.Bucket(bucketMeta).Get([]byte(key))

		if data == nil || raw == nil {
			return ErrNotFound
		}

		var m meta
		if err := json.Unmarshal(raw, &m); err != nil {
			return fmt.Errorf("decoding metadata: %w", err)
		}

		obj.Name = m.Name
		obj.ContentType = m.ContentType
		// bbolt values are only valid inside the transaction.
		obj.Data = append([]byte(nil), data...)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return obj, nil
}
