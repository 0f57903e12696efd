package repo

import "sync"

// auditMock keeps indexed documents in memory. It stands in when
// elasticsearch is disabled.
type auditMock struct {
	mu      sync.Mutex
	indexes []string
	docs    []interface{}
}

func NewAuditMockRepo() *auditMock {
	return &auditMock{}
}

func (r *auditMock) BulkIndex(index string, docs []interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for range docs {
		r.indexes = append(r.indexes, index)
	}
	r.docs = append(r.docs, docs...)
	return nil
}

func (r *auditMock) Documents() []interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]interface{}(nil), r.docs...)
}
