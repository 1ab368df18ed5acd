package audit

import (
	"bytes"
	"context"
	"slices"
	"sync"

	"github.com/FACorreiaa/go-user-admin/internal/types"
)

var _ AuditRepo = (*MemoryAuditRepo)(nil)

// MemoryAuditRepo keeps the audit log in process.
type MemoryAuditRepo struct {
	mu      sync.RWMutex
	entries []types.AuditEntry
}

func NewMemoryAuditRepo() *MemoryAuditRepo {
	return &MemoryAuditRepo{}
}

func (m *MemoryAuditRepo) Append(ctx context.Context, entry types.AuditEntry) error {
	if err := ctx.Err(); err != nil {
		return types.NewError(types.KindUnavailable, "append audit entry", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

// newestFirst orders by at descending, breaking ties by id descending.
func newestFirst(a, b types.AuditEntry) int {
	if c := b.At.Compare(a.At); c != 0 {
		return c
	}
	return bytes.Compare(b.ID[:], a.ID[:])
}

func (m *MemoryAuditRepo) List(ctx context.Context, q types.LogQuery) ([]types.AuditEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, types.NewError(types.KindUnavailable, "list audit entries", err)
	}
	m.mu.RLock()
	matched := make([]types.AuditEntry, 0, len(m.entries))
	for _, e := range m.entries {
		if q.Model != "" && e.Model != q.Model {
			continue
		}
		if q.RecordID != nil && e.RecordID != *q.RecordID {
			continue
		}
		matched = append(matched, e)
	}
	m.mu.RUnlock()

	slices.SortFunc(matched, newestFirst)

	if q.Offset >= len(matched) {
		return []types.AuditEntry{}, nil
	}
	matched = matched[q.Offset:]
	if q.Limit < len(matched) {
		matched = matched[:q.Limit]
	}
	return matched, nil
}

func (m *MemoryAuditRepo) Clear(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, types.NewError(types.KindUnavailable, "clear audit entries", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n := int64(len(m.entries))
	m.entries = nil
	return n, nil
}
