package tables

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

// Manager performs row operations on a single table.
type Manager struct {
	client  anytype.Requester
	spaceID string
	tableID string
	log     hclog.Logger
}

// New returns a Manager bound to the table tableID in spaceID.
func New(client anytype.Requester, spaceID, tableID string, opts ...Option) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("tables: client is nil")
	}
	if strings.TrimSpace(spaceID) == "" {
		return nil, fmt.Errorf("tables: space ID is required")
	}
	if strings.TrimSpace(tableID) == "" {
		return nil, fmt.Errorf("tables: table ID is required")
	}
	m := &Manager{
		client:  client,
		spaceID: spaceID,
		tableID: tableID,
		log:     hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// TableID returns the table the manager is bound to.
func (m *Manager) TableID() string {
	return m.tableID
}

// Create adds a row.
func (m *Manager) Create(ctx context.Context, row Row) (anytype.Response, error) {
	return m.client.Post(ctx, m.collectionPath(), row.ToMap())
}

// Get fetches a row by ID.
func (m *Manager) Get(ctx context.Context, rowID string) (anytype.Response, error) {
	p, err := m.rowPath(rowID)
	if err != nil {
		return nil, err
	}
	return m.client.Get(ctx, p, nil)
}

// Update replaces the row's values.
func (m *Manager) Update(ctx context.Context, rowID string, row Row) (anytype.Response, error) {
	p, err := m.rowPath(rowID)
	if err != nil {
		return nil, err
	}
	return m.client.Patch(ctx, p, row.ToMap())
}

// Delete removes a row.
func (m *Manager) Delete(ctx context.Context, rowID string) (anytype.Response, error) {
	p, err := m.rowPath(rowID)
	if err != nil {
		return nil, err
	}
	return m.client.Delete(ctx, p)
}

// List returns one page of rows.
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

// CreateMany adds each row in turn, recording per-row failures without
// stopping the batch.
func (m *Manager) CreateMany(ctx context.Context, rows []Row) []anytype.BatchResult {
	results := make([]anytype.BatchResult, 0, len(rows))
	for i, row := range rows {
		key := "row " + strconv.Itoa(i)
		resp, err := m.Create(ctx, row)
		if err != nil {
			m.log.Warn("create row failed", "index", i, "table", m.tableID, "error", err)
		}
		results = append(results, anytype.BatchResult{
			Index:    i,
			Key:      key,
			Response: resp,
			Err:      err,
		})
	}
	return results
}

func (m *Manager) collectionPath() string {
	return fmt.Sprintf("v1/spaces/%s/tables/%s/rows", url.PathEscape(m.spaceID), url.PathEscape(m.tableID))
}

func (m *Manager) rowPath(rowID string) (string, error) {
	if strings.TrimSpace(rowID) == "" {
		return "", fmt.Errorf("tables: row ID is required")
	}
	return m.collectionPath() + "/" + url.PathEscape(rowID), nil
}
