package mock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("mock anytype: not found")

// Document is a stored API resource.
type Document map[string]any

// ID returns the document's "id" field.
func (d Document) ID() string {
	id, _ := d["id"].(string)
	return id
}

// Store persists documents grouped into collections.
type Store interface {
	Put(ctx context.Context, collection, id string, doc Document) error
	Get(ctx context.Context, collection, id string) (Document, error)
	Delete(ctx context.Context, collection, id string) error
	// List returns the documents of a collection ordered by ID.
	List(ctx context.Context, collection string) ([]Document, error)
	Close() error
}

// Memory is a Store held in process memory.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]map[string][]byte
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{collections: make(map[string]map[string][]byte)}
}

func (m *Memory) Put(ctx context.Context, collection, id string, doc Document) error {
	if err := validateKey(collection, id); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("mock anytype: encode document: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	bucket := m.collections[collection]
	if bucket == nil {
		bucket = make(map[string][]byte)
		m.collections[collection] = bucket
	}
	bucket[id] = data
	return nil
}

func (m *Memory) Get(ctx context.Context, collection, id string) (Document, error) {
	if err := validateKey(collection, id); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	data, ok := m.collections[collection][id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return decodeDocument(data)
}

func (m *Memory) Delete(ctx context.Context, collection, id string) error {
	if err := validateKey(collection, id); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	bucket := m.collections[collection]
	if _, ok := bucket[id]; !ok {
		return ErrNotFound
	}
	delete(bucket, id)
	if len(bucket) == 0 {
		delete(m.collections, collection)
	}
	return nil
}

func (m *Memory) List(ctx context.Context, collection string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	bucket := m.collections[collection]
	ids := make([]string, 0, len(bucket))
	for id := range bucket {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	raw := make([][]byte, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, bucket[id])
	}
	m.mu.RUnlock()

	docs := make([]Document, 0, len(raw))
	for _, data := range raw {
		doc, err := decodeDocument(data)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (m *Memory) Close() error {
	return nil
}

func validateKey(collection, id string) error {
	if strings.TrimSpace(collection) == "" {
		return fmt.Errorf("mock anytype: collection is required")
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("mock anytype: id is required")
	}
	return nil
}

func decodeDocument(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("mock anytype: decode document: %w", err)
	}
	return doc, nil
}
