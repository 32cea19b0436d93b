package client

import (
	"context"
	"sync/atomic"
)

// Mutator wraps the write operations. Every successful mutation triggers a
// full cache refresh rather than a local patch; with the small datasets
// this system manages, refetching is simpler than defining merge semantics.
// Failures are surfaced once, verbatim, and leave the cache untouched; the
// caller decides whether to retry.
type Mutator struct {
	client  *Client
	session *Session
	cache   *ProductCache
	notices *Notices

	busy atomic.Bool
}

// NewMutator binds the write path to a cache.
func NewMutator(c *Client, s *Session, cache *ProductCache) *Mutator {
	return &Mutator{client: c, session: s, cache: cache}
}

// WithNotices routes mutation outcomes into n as banner messages: a
// confirmation on success, the server's field messages on failure. Without
// it outcomes are only returned to the caller.
func (m *Mutator) WithNotices(n *Notices) *Mutator {
	m.notices = n
	return m
}

// Busy reports whether a mutation (including its refresh) is in flight.
// UIs use it to gate controls with a loading indicator.
func (m *Mutator) Busy() bool { return m.busy.Load() }

// Create adds a product and resyncs the cache.
func (m *Mutator) Create(ctx context.Context, in ProductInput) (Product, error) {
	m.busy.Store(true)
	defer m.busy.Store(false)

	product, err := m.client.CreateProduct(ctx, m.session, in)
	if err != nil {
		m.notifyError(err)
		return Product{}, err
	}

	m.notify(NoticeSuccess, "Product created.")
	return product, m.cache.Refresh(ctx)
}

// Update replaces the product at barcode and resyncs the cache.
func (m *Mutator) Update(ctx context.Context, barcode string, in ProductInput) (Product, error) {
	m.busy.Store(true)
	defer m.busy.Store(false)

	product, err := m.client.UpdateProduct(ctx, m.session, barcode, in)
	if err != nil {
		m.notifyError(err)
		return Product{}, err
	}

	m.notify(NoticeSuccess, "Product updated.")
	return product, m.cache.Refresh(ctx)
}

// Delete removes the product at barcode and resyncs the cache.
func (m *Mutator) Delete(ctx context.Context, barcode string) error {
	m.busy.Store(true)
	defer m.busy.Store(false)

	if err := m.client.DeleteProduct(ctx, m.session, barcode); err != nil {
		m.notifyError(err)
		return err
	}

	m.notify(NoticeSuccess, "Product deleted.")
	return m.cache.Refresh(ctx)
}

func (m *Mutator) notify(kind NoticeKind, message string) {
	if m.notices != nil {
		m.notices.Push(kind, message)
	}
}

// notifyError pushes one banner per failed field so the dashboard shows
// "The barcode already exists." rather than the wrapped error string.
func (m *Mutator) notifyError(err error) {
	if m.notices == nil {
		return
	}

	if apiErr, ok := err.(*APIError); ok && len(apiErr.Fields) > 0 {
		for _, field := range sortedFields(apiErr.Fields) {
			for _, msg := range apiErr.Fields[field] {
				m.notices.Push(NoticeError, msg)
			}
		}
		return
	}

	m.notices.Push(NoticeError, err.Error())
}