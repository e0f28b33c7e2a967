package txsubmitter

import (
	"context"
	"sort"
	"sync"
	"time"
)

// TxRecordStatus is the lifecycle state of a submitted transaction.
type TxRecordStatus string

const (
	// TxRecordStatusSubmitted means the node accepted the transaction and finality was not observed yet
	TxRecordStatusSubmitted TxRecordStatus = "submitted"
	// TxRecordStatusLost means the transaction never became final (expired or dropped)
	TxRecordStatusLost TxRecordStatus = "lost"
	// TxRecordStatusFailed means the transaction was committed but aborted on chain
	TxRecordStatusFailed TxRecordStatus = "failed"
	// TxRecordStatusCommitted means the transaction was committed and executed successfully
	TxRecordStatusCommitted TxRecordStatus = "committed"
)

// statusPriority orders statuses by finality. Higher values must not be overwritten by lower ones.
var statusPriority = map[TxRecordStatus]int{
	TxRecordStatusSubmitted: 1,
	TxRecordStatusLost:      2,
	TxRecordStatusFailed:    3,
	TxRecordStatusCommitted: 3,
}

// IsMoreFinalStatus returns true if existing is more final than next.
func IsMoreFinalStatus(existing, next TxRecordStatus) bool {
	return statusPriority[existing] > statusPriority[next]
}

// IsFinal reports whether the status can no longer change on chain.
func (s TxRecordStatus) IsFinal() bool {
	return s == TxRecordStatusCommitted || s == TxRecordStatusFailed
}

// TxRecord is the persisted view of one submitted transaction.
type TxRecord struct {
	Hash      string
	Sender    string
	Network   string
	Function  string
	Status    TxRecordStatus
	VmStatus  string
	GasUsed   uint64
	Version   uint64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ApplyReceipt copies the final outcome of receipt into the record.
func (r *TxRecord) ApplyReceipt(receipt *Receipt) {
	if receipt == nil {
		return
	}
	r.VmStatus = receipt.VmStatus
	r.GasUsed = receipt.GasUsed
	r.Version = receipt.Version
	if receipt.Success {
		r.Status = TxRecordStatusCommitted
	} else {
		r.Status = TxRecordStatusFailed
	}
}

// TxStore persists submitted transactions so that a restarted process can
// observe the finality of transactions it submitted before going down.
type TxStore interface {
	// Save inserts or replaces a record. A record with a more final status is kept.
	Save(ctx context.Context, record *TxRecord) error

	// Get returns the record for hash, or nil if there is none.
	Get(ctx context.Context, hash string) (*TxRecord, error)

	// UpdateStatus moves a record to status and applies receipt when not nil.
	// Updates that would downgrade a more final status are ignored.
	UpdateStatus(ctx context.Context, hash string, status TxRecordStatus, receipt *Receipt) error

	// ListByStatus returns all records in status, oldest first.
	ListByStatus(ctx context.Context, status TxRecordStatus) ([]*TxRecord, error)

	// Delete removes a record.
	Delete(ctx context.Context, hash string) error
}

// InMemoryTxStore is a TxStore backed by a map. It does not survive restarts
// and is meant for tests and single-process tools.
type InMemoryTxStore struct {
	mu      sync.RWMutex
	records map[string]*TxRecord
}

// NewInMemoryTxStore creates an empty in-memory store.
func NewInMemoryTxStore() *InMemoryTxStore {
	return &InMemoryTxStore{
		records: make(map[string]*TxRecord),
	}
}

func (s *InMemoryTxStore) Save(_ context.Context, record *TxRecord) error {
	if record == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.records[record.Hash]; ok && IsMoreFinalStatus(existing.Status, record.Status) {
		return nil
	}
	cp := *record
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	if cp.UpdatedAt.IsZero() {
		cp.UpdatedAt = cp.CreatedAt
	}
	s.records[record.Hash] = &cp
	return nil
}

func (s *InMemoryTxStore) Get(_ context.Context, hash string) (*TxRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[hash]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (s *InMemoryTxStore) UpdateStatus(_ context.Context, hash string, status TxRecordStatus, receipt *Receipt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[hash]
	if !ok {
		return nil
	}
	if IsMoreFinalStatus(r.Status, status) {
		return nil
	}
	r.Status = status
	if receipt != nil {
		r.VmStatus = receipt.VmStatus
		r.GasUsed = receipt.GasUsed
		r.Version = receipt.Version
	}
	r.UpdatedAt = time.Now()
	return nil
}

func (s *InMemoryTxStore) ListByStatus(_ context.Context, status TxRecordStatus) ([]*TxRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*TxRecord
	for _, r := range s.records {
		if r.Status == status {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemoryTxStore) Delete(_ context.Context, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, hash)
	return nil
}

// Compile-time check that InMemoryTxStore implements TxStore
var _ TxStore = (*InMemoryTxStore)(nil)
