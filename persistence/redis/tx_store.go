package redis

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	txsubmitter "github.com/switchboard-xyz/aptos-txsubmitter"
)

// Key prefixes for transaction storage
const (
	txKeyPrefix          = "aptos-txsubmitter:tx:"          // record data by hash
	txStatusSetKey       = "aptos-txsubmitter:tx:status:"   // set of hashes per status
	txTimestampSortedSet = "aptos-txsubmitter:tx:timestamp" // sorted set by created_at, pushed forward when skipped during cleanup
)

const maxWatchRetries = 10

// TxStore provides Redis-based persistence for submitted transactions.
// It implements the txsubmitter.TxStore interface.
//
// Note: records do not automatically expire. Use DeleteOlderThan for
// periodic cleanup of old records.
type TxStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

// TxStoreOption configures a TxStore.
type TxStoreOption func(*TxStore)

// WithTxStoreKeyPrefix sets a custom prefix for all Redis keys.
func WithTxStoreKeyPrefix(prefix string) TxStoreOption {
	return func(s *TxStore) {
		s.keyPrefix = prefix
	}
}

// NewTxStore creates a new Redis-based transaction store.
func NewTxStore(client redis.UniversalClient, opts ...TxStoreOption) *TxStore {
	s := &TxStore{
		client: client,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// key returns the full Redis key with optional prefix.
func (s *TxStore) key(parts ...string) string {
	key := strings.Join(parts, "")
	if s.keyPrefix != "" {
		return s.keyPrefix + ":" + key
	}
	return key
}

func (s *TxStore) recordKey(hash string) string {
	return s.key(txKeyPrefix, hash)
}

func (s *TxStore) statusKey(status txsubmitter.TxRecordStatus) string {
	return s.key(txStatusSetKey, string(status))
}

// txRecordData is the JSON-serializable form of TxRecord
type txRecordData struct {
	Hash      string `json:"hash"`
	Sender    string `json:"sender"`
	Network   string `json:"network"`
	Function  string `json:"function"`
	Status    string `json:"status"`
	VmStatus  string `json:"vm_status,omitempty"`
	GasUsed   uint64 `json:"gas_used,omitempty"`
	Version   uint64 `json:"version,omitempty"`
	CreatedAt int64  `json:"created_at"` // Nanoseconds
	UpdatedAt int64  `json:"updated_at"` // Nanoseconds
}

// watch runs fn under WATCH on key, retrying with exponential backoff and
// jitter while the optimistic lock keeps failing.
func (s *TxStore) watch(ctx context.Context, op string, key string, fn func(rtx *redis.Tx) error) error {
	var lastErr error

	for i := 0; i < maxWatchRetries; i++ {
		if i > 0 {
			backoff := time.Duration(1<<uint(i-1)) * time.Millisecond
			jitter := time.Duration(rand.Int63n(int64(backoff/2 + 1)))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff + jitter):
			}
		}

		err := s.client.Watch(ctx, fn, key)
		if err == nil {
			return nil
		}
		if err == redis.TxFailedErr {
			// Optimistic lock failed, retry
			lastErr = err
			continue
		}
		return err
	}

	return fmt.Errorf("failed to %s after %d retries: %w", op, maxWatchRetries, lastErr)
}

// Save persists a record. An existing record with a more final status is kept.
// Uses WATCH/MULTI/EXEC for optimistic locking to prevent race conditions
// with concurrent UpdateStatus calls.
func (s *TxStore) Save(ctx context.Context, record *txsubmitter.TxRecord) error {
	if record == nil {
		return fmt.Errorf("record cannot be nil")
	}
	if record.Hash == "" {
		return fmt.Errorf("record hash cannot be empty")
	}

	hashKey := s.recordKey(record.Hash)

	return s.watch(ctx, "save transaction", hashKey, func(rtx *redis.Tx) error {
		existingData, err := rtx.Get(ctx, hashKey).Bytes()
		if err != nil && err != redis.Nil {
			return fmt.Errorf("failed to get existing transaction: %w", err)
		}

		var previous txsubmitter.TxRecordStatus
		if err != redis.Nil {
			existing, parseErr := deserializeRecord(existingData)
			if parseErr == nil {
				// Status priority: committed/failed > lost > submitted
				if txsubmitter.IsMoreFinalStatus(existing.Status, record.Status) {
					return nil
				}
				previous = existing.Status
			}
		}

		toSave := *record
		if toSave.CreatedAt.IsZero() {
			toSave.CreatedAt = time.Now()
		}
		if toSave.UpdatedAt.IsZero() {
			toSave.UpdatedAt = toSave.CreatedAt
		}
		data, err := serializeRecord(&toSave)
		if err != nil {
			return fmt.Errorf("failed to serialize transaction: %w", err)
		}

		_, err = rtx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, hashKey, data, 0)
			if previous != "" && previous != toSave.Status {
				pipe.SRem(ctx, s.statusKey(previous), toSave.Hash)
			}
			pipe.SAdd(ctx, s.statusKey(toSave.Status), toSave.Hash)
			pipe.ZAdd(ctx, s.key(txTimestampSortedSet), redis.Z{
				Score:  float64(toSave.CreatedAt.Unix()),
				Member: toSave.Hash,
			})
			return nil
		})
		return err
	})
}

// Get retrieves a record by hash.
func (s *TxStore) Get(ctx context.Context, hash string) (*txsubmitter.TxRecord, error) {
	data, err := s.client.Get(ctx, s.recordKey(hash)).Bytes()
	if err == redis.Nil {
		return nil, nil // Not found is not an error
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return deserializeRecord(data)
}

// UpdateStatus moves a record to status and copies the receipt outcome when not nil.
// Uses WATCH/MULTI/EXEC for optimistic locking with exponential backoff.
func (s *TxStore) UpdateStatus(ctx context.Context, hash string, status txsubmitter.TxRecordStatus, receipt *txsubmitter.Receipt) error {
	hashKey := s.recordKey(hash)

	return s.watch(ctx, "update transaction status", hashKey, func(rtx *redis.Tx) error {
		data, err := rtx.Get(ctx, hashKey).Bytes()
		if err == redis.Nil {
			return nil // Transaction not found, nothing to update
		}
		if err != nil {
			return fmt.Errorf("failed to get transaction: %w", err)
		}

		record, err := deserializeRecord(data)
		if err != nil {
			return fmt.Errorf("failed to deserialize transaction: %w", err)
		}

		// Don't downgrade to a less final status
		if txsubmitter.IsMoreFinalStatus(record.Status, status) {
			return nil
		}

		previous := record.Status
		record.Status = status
		if receipt != nil {
			record.VmStatus = receipt.VmStatus
			record.GasUsed = receipt.GasUsed
			record.Version = receipt.Version
		}
		record.UpdatedAt = time.Now()

		newData, err := serializeRecord(record)
		if err != nil {
			return fmt.Errorf("failed to serialize transaction: %w", err)
		}

		_, err = rtx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, hashKey, newData, 0)
			if previous != status {
				pipe.SRem(ctx, s.statusKey(previous), hash)
			}
			pipe.SAdd(ctx, s.statusKey(status), hash)
			return nil
		})
		return err
	})
}

// ListByStatus returns all records in status, oldest first.
func (s *TxStore) ListByStatus(ctx context.Context, status txsubmitter.TxRecordStatus) ([]*txsubmitter.TxRecord, error) {
	hashes, err := s.client.SMembers(ctx, s.statusKey(status)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get %s tx hashes: %w", status, err)
	}

	records, err := s.getRecordsByHashes(ctx, hashes)

	// The status set can briefly disagree with the record during an update
	filtered := records[:0]
	for _, r := range records {
		if r.Status == status {
			filtered = append(filtered, r)
		}
	}
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.Before(filtered[j].CreatedAt)
	})
	return filtered, err
}

// Delete removes a record and its index entries.
// Uses WATCH/MULTI/EXEC for atomic read-then-delete to prevent race conditions.
func (s *TxStore) Delete(ctx context.Context, hash string) error {
	hashKey := s.recordKey(hash)

	return s.watch(ctx, "delete transaction", hashKey, func(rtx *redis.Tx) error {
		data, err := rtx.Get(ctx, hashKey).Bytes()
		if err == redis.Nil {
			return nil // Already deleted, nothing to do
		}
		if err != nil {
			return fmt.Errorf("failed to get transaction: %w", err)
		}

		record, err := deserializeRecord(data)
		if err != nil {
			return fmt.Errorf("failed to deserialize transaction: %w", err)
		}

		_, err = rtx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, hashKey)
			pipe.SRem(ctx, s.statusKey(record.Status), hash)
			pipe.ZRem(ctx, s.key(txTimestampSortedSet), hash)
			return nil
		})
		return err
	})
}

// DeleteOlderThan removes final records created more than age ago.
// Records still in the submitted state are kept so Recover can resolve them,
// as are records updated within the last five minutes.
func (s *TxStore) DeleteOlderThan(ctx context.Context, age time.Duration) (int, error) {
	return s.DeleteOlderThanWithOptions(ctx, age, 1000, 5*time.Minute)
}

// DeleteOlderThanWithOptions removes final records older than age.
// Parameters:
//   - age: minimum age of records to delete (based on CreatedAt)
//   - batchSize: maximum number of records to process per batch (0 = unlimited)
//   - gracePeriod: skip records updated within this duration to avoid racing status updates
func (s *TxStore) DeleteOlderThanWithOptions(ctx context.Context, age time.Duration, batchSize int64, gracePeriod time.Duration) (int, error) {
	cutoff := time.Now().Add(-age).Unix()
	graceTime := time.Now().Add(-gracePeriod)
	totalDeleted := 0

	for {
		rangeBy := &redis.ZRangeBy{
			Min: "-inf",
			Max: strconv.FormatInt(cutoff, 10),
		}
		if batchSize > 0 {
			rangeBy.Count = batchSize
		}

		hashes, err := s.client.ZRangeByScore(ctx, s.key(txTimestampSortedSet), rangeBy).Result()
		if err != nil {
			return totalDeleted, fmt.Errorf("failed to get old transactions: %w", err)
		}
		if len(hashes) == 0 {
			break
		}

		keys := make([]string, len(hashes))
		for i, h := range hashes {
			keys[i] = s.recordKey(h)
		}
		results, err := s.client.MGet(ctx, keys...).Result()
		if err != nil {
			return totalDeleted, fmt.Errorf("failed to batch get transactions: %w", err)
		}

		pipe := s.client.TxPipeline()
		deleted := 0
		skipped := 0
		var parseErrors []string

		for i, result := range results {
			hash := hashes[i]

			if result == nil {
				// Already deleted, just clean up the index
				pipe.ZRem(ctx, s.key(txTimestampSortedSet), hash)
				deleted++
				continue
			}

			data, ok := result.(string)
			if !ok {
				parseErrors = append(parseErrors, fmt.Sprintf("hash %s: unexpected type %T", hash, result))
				continue
			}

			record, err := deserializeRecord([]byte(data))
			if err != nil {
				parseErrors = append(parseErrors, fmt.Sprintf("hash %s: %v", hash, err))
				// Still try to delete the corrupted data
				pipe.Del(ctx, s.recordKey(hash))
				pipe.ZRem(ctx, s.key(txTimestampSortedSet), hash)
				deleted++
				continue
			}

			if record.Status == txsubmitter.TxRecordStatusSubmitted || record.UpdatedAt.After(graceTime) {
				skipped++
				// Push it forward so the next pass doesn't see it again right away
				pipe.ZAdd(ctx, s.key(txTimestampSortedSet), redis.Z{
					Score:  float64(time.Now().Unix()),
					Member: hash,
				})
				continue
			}

			pipe.Del(ctx, s.recordKey(hash))
			pipe.SRem(ctx, s.statusKey(record.Status), hash)
			pipe.ZRem(ctx, s.key(txTimestampSortedSet), hash)
			deleted++
		}

		if _, err = pipe.Exec(ctx); err != nil {
			return totalDeleted, fmt.Errorf("failed to execute batch delete: %w", err)
		}
		totalDeleted += deleted

		// Return partial results with error if there were parse failures
		if len(parseErrors) > 0 {
			return totalDeleted, fmt.Errorf("encountered %d errors during delete: %s",
				len(parseErrors), strings.Join(parseErrors, "; "))
		}

		// If we processed fewer than batch size, we're done
		if batchSize == 0 || int64(len(hashes)) < batchSize {
			break
		}

		// If we skipped all items in this batch, break to avoid infinite loop
		if skipped == len(hashes) {
			break
		}
	}

	return totalDeleted, nil
}

// Helper methods

func (s *TxStore) getRecordsByHashes(ctx context.Context, hashes []string) ([]*txsubmitter.TxRecord, error) {
	if len(hashes) == 0 {
		return nil, nil
	}

	keys := make([]string, len(hashes))
	for i, h := range hashes {
		keys[i] = s.recordKey(h)
	}

	results, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}

	records := make([]*txsubmitter.TxRecord, 0, len(results))
	var deserializeErrors []string

	for i, result := range results {
		if result == nil {
			// Record was deleted between SMEMBERS and MGET
			continue
		}

		data, ok := result.(string)
		if !ok {
			deserializeErrors = append(deserializeErrors, fmt.Sprintf("hash %s: unexpected type %T", hashes[i], result))
			continue
		}

		record, err := deserializeRecord([]byte(data))
		if err != nil {
			deserializeErrors = append(deserializeErrors, fmt.Sprintf("hash %s: %v", hashes[i], err))
			continue
		}
		records = append(records, record)
	}

	// Return partial results with error if there were deserialization failures
	if len(deserializeErrors) > 0 {
		return records, fmt.Errorf("failed to deserialize %d transactions: %s", len(deserializeErrors), strings.Join(deserializeErrors, "; "))
	}

	return records, nil
}

func serializeRecord(r *txsubmitter.TxRecord) ([]byte, error) {
	return json.Marshal(txRecordData{
		Hash:      r.Hash,
		Sender:    r.Sender,
		Network:   r.Network,
		Function:  r.Function,
		Status:    string(r.Status),
		VmStatus:  r.VmStatus,
		GasUsed:   r.GasUsed,
		Version:   r.Version,
		CreatedAt: r.CreatedAt.UnixNano(),
		UpdatedAt: r.UpdatedAt.UnixNano(),
	})
}

func deserializeRecord(data []byte) (*txsubmitter.TxRecord, error) {
	var d txRecordData
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tx record: %w", err)
	}

	return &txsubmitter.TxRecord{
		Hash:      d.Hash,
		Sender:    d.Sender,
		Network:   d.Network,
		Function:  d.Function,
		Status:    txsubmitter.TxRecordStatus(d.Status),
		VmStatus:  d.VmStatus,
		GasUsed:   d.GasUsed,
		Version:   d.Version,
		CreatedAt: time.Unix(0, d.CreatedAt),
		UpdatedAt: time.Unix(0, d.UpdatedAt),
	}, nil
}

// Verify TxStore implements txsubmitter.TxStore
var _ txsubmitter.TxStore = (*TxStore)(nil)
