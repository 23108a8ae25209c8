package storage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"path"
	"strings"
)

// ObjectStore is the part of *S3 the archive uses
type ObjectStore interface {
	Put(ctx context.Context, bucket, key string, body io.Reader, contentType string, metadata map[string]string) error
	Exists(ctx context.Context, bucket, key string) (bool, error)
}

// NotesArchive keeps a copy of every lecture-notes PDF submitted for generation.
// Objects are keyed by content hash so re-uploading the same file is a no-op.
type NotesArchive struct {
	store  ObjectStore
	bucket string
	prefix string
}

func NewNotesArchive(store ObjectStore, bucket, prefix string) *NotesArchive {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = "notes"
	}
	return &NotesArchive{store: store, bucket: bucket, prefix: prefix}
}

// Archived describes where a notes file was stored
type Archived struct {
	Key     string
	SHA256  string
	Existed bool
}

// NotesKey returns the object key for file content with the given digest
func (a *NotesArchive) NotesKey(digest, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	if ext == "" {
		ext = ".pdf"
	}
	return fmt.Sprintf("%s/%s/%s%s", a.prefix, digest[:2], digest, ext)
}

// Archive stores content unless an object with the same hash already exists.
// subject and topic are recorded as object metadata.
func (a *NotesArchive) Archive(ctx context.Context, fileName string, content []byte, subject, topic string) (*Archived, error) {
	sum := sha256.Sum256(content)
	digest := hex.EncodeToString(sum[:])
	key := a.NotesKey(digest, fileName)

	exists, err := a.store.Exists(ctx, a.bucket, key)
	if err != nil {
		return nil, fmt.Errorf("failed to check %s: %w", key, err)
	}
	if exists {
		log.Printf("📦 Notes %s already archived at s3://%s/%s", fileName, a.bucket, key)
		return &Archived{Key: key, SHA256: digest, Existed: true}, nil
	}

	metadata := map[string]string{
		"original-filename": fileName,
		"subject":           subject,
		"topic":             topic,
	}
	if err := a.store.Put(ctx, a.bucket, key, bytes.NewReader(content), "application/pdf", metadata); err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", key, err)
	}
	log.Printf("📦 Archived notes %s to s3://%s/%s", fileName, a.bucket, key)
	return &Archived{Key: key, SHA256: digest}, nil
}
