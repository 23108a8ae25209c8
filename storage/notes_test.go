package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

type fakeObjectStore struct {
	objects   map[string][]byte
	metadata  map[string]map[string]string
	puts      int
	existsErr error
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: map[string][]byte{}, metadata: map[string]map[string]string{}}
}

func (f *fakeObjectStore) Put(_ context.Context, bucket, key string, body io.Reader, contentType string, metadata map[string]string) error {
	if contentType != "application/pdf" {
		return errors.New("unexpected content type " + contentType)
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.puts++
	f.objects[bucket+"/"+key] = b
	f.metadata[bucket+"/"+key] = metadata
	return nil
}

func (f *fakeObjectStore) Exists(_ context.Context, bucket, key string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.objects[bucket+"/"+key]
	return ok, nil
}

func TestArchiveIsContentAddressed(t *testing.T) {
	store := newFakeObjectStore()
	a := NewNotesArchive(store, "qbank-notes", "/uploads/")
	ctx := context.Background()

	first, err := a.Archive(ctx, "Lecture 1.PDF", []byte("%PDF-1.4 kinematics"), "Physics", "Kinematics")
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if first.Existed {
		t.Fatal("first upload must not report Existed")
	}
	if !strings.HasPrefix(first.Key, "uploads/"+first.SHA256[:2]+"/") || !strings.HasSuffix(first.Key, ".pdf") {
		t.Fatalf("unexpected key %q", first.Key)
	}
	if md := store.metadata["qbank-notes/"+first.Key]; md["subject"] != "Physics" || md["original-filename"] != "Lecture 1.PDF" {
		t.Fatalf("metadata = %v", md)
	}

	second, err := a.Archive(ctx, "copy.pdf", []byte("%PDF-1.4 kinematics"), "Physics", "Kinematics")
	if err != nil {
		t.Fatalf("Archive again: %v", err)
	}
	if !second.Existed || second.Key != first.Key {
		t.Fatalf("second = %+v; want existing %s", second, first.Key)
	}
	if store.puts != 1 {
		t.Fatalf("puts = %d; want 1", store.puts)
	}
}

func TestArchiveSurfacesStoreErrors(t *testing.T) {
	store := newFakeObjectStore()
	store.existsErr = errors.New("access denied")
	a := NewNotesArchive(store, "b", "")

	if _, err := a.Archive(context.Background(), "n.pdf", []byte("x"), "", ""); err == nil {
		t.Fatal("expected error")
	}
}
