package objects

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/anytype-sdk/anytype_sdk_go/pkg/anytype"
)

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used to report failed batch items.
func WithLogger(l hclog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// ListOptions controls pagination for List.
type ListOptions struct {
	Offset int
	Limit  int
}

// Manager performs object operations within one space.
type Manager struct {
	client  anytype.Requester
	spaceID string
	log     hclog.Logger
}

// New returns a Manager bound to spaceID.
func New(client anytype.Requester, spaceID string, opts ...Option) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("objects: client is nil")
	}
	if strings.TrimSpace(spaceID) == "" {
		return nil, fmt.Errorf("objects: space ID is required")
	}
	m := &Manager{
		client:  client,
		spaceID: spaceID,
		log:     hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// SpaceID returns the space the manager is bound to.
func (m *Manager) SpaceID() string {
	return m.spaceID
}

// Create creates an object.
func (m *Manager) Create(ctx context.Context, obj Object) (anytype.Response, error) {
	if err := obj.Validate(); err != nil {
		return nil, fmt.Errorf("objects: invalid object: %w", err)
	}
	return m.client.Post(ctx, m.collectionPath(), obj.ToMap())
}

// Get fetches an object by ID.
func (m *Manager) Get(ctx context.Context, objectID string) (anytype.Response, error) {
	p, err := m.objectPath(objectID)
	if err != nil {
		return nil, err
	}
	return m.client.Get(ctx, p, nil)
}

// Update replaces the object's fields with obj.
func (m *Manager) Update(ctx context.Context, objectID string, obj Object) (anytype.Response, error) {
	p, err := m.objectPath(objectID)
	if err != nil {
		return nil, err
	}
	if err := obj.Validate(); err != nil {
		return nil, fmt.Errorf("objects: invalid object: %w", err)
	}
	return m.client.Patch(ctx, p, obj.ToMap())
}

// Delete archives an object.
func (m *Manager) Delete(ctx context.Context, objectID string) (anytype.Response, error) {
	p, err := m.objectPath(objectID)
	if err != nil {
		return nil, err
	}
	return m.client.Delete(ctx, p)
}

// List returns one page of objects in the space.
func (m *Manager) List(ctx context.Context, opts *ListOptions) (anytype.Response, error) {
	var query url.Values
	if opts != nil {
		query = url.Values{}
		if opts.Offset > 0 {
			query.Set("offset", strconv.Itoa(opts.Offset))
		}
		if opts.Limit > 0 {
			query.Set("limit", strconv.Itoa(opts.Limit))
		}
	}
	return m.client.Get(ctx, m.collectionPath(), query)
}

// CreateMany creates each object in turn. A failure is recorded in that
// item's result and the remaining objects are still attempted.
func (m *Manager) CreateMany(ctx context.Context, objs []Object) []anytype.BatchResult {
	results := make([]anytype.BatchResult, 0, len(objs))
	for i, obj := range objs {
		resp, err := m.Create(ctx, obj)
		if err != nil {
			m.log.Warn("create object failed", "index", i, "name", obj.Name, "error", err)
		}
		results = append(results, anytype.BatchResult{
			Index:    i,
			Key:      obj.Name,
			Response: resp,
			Err:      err,
		})
	}
	return results
}

func (m *Manager) collectionPath() string {
	return fmt.Sprintf("v1/spaces/%s/objects", url.PathEscape(m.spaceID))
}

func (m *Manager) objectPath(objectID string) (string, error) {
	if strings.TrimSpace(objectID) == "" {
		return "", fmt.Errorf("objects: object ID is required")
	}
	return m.collectionPath() + "/" + url.PathEscape(objectID), nil
}
