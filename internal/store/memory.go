package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// memoryItem holds a stored value and its expiration timestamp.
// value is either []byte (plain K/V) or [][]byte (list).
type memoryItem struct {
	value     any
	expiresAt int64 // Unix-nano timestamp. 0 for no expiry.
}

func (it memoryItem) expired(now int64) bool {
	return it.expiresAt > 0 && now > it.expiresAt
}

// MemoryStore is an in-memory store that is safe for concurrent use.
// Session histories live here and do not survive a restart.
type MemoryStore struct {
	mu          sync.RWMutex
	data        map[string]memoryItem
	stopCleanup chan struct{}
}

// NewMemoryStore creates and returns a new MemoryStore instance.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		data:        make(map[string]memoryItem),
		stopCleanup: make(chan struct{}),
	}
	// Expired sessions that are never read again would otherwise linger
	// forever; sweep them periodically.
	go s.cleanupExpiredItems()
	return s
}

// Close stops the cleanup goroutine.
func (s *MemoryStore) Close() error {
	close(s.stopCleanup)
	return nil
}

// Set stores a key-value pair.
func (s *MemoryStore) Set(key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = memoryItem{
		value:     value,
		expiresAt: expiryFrom(ttl),
	}
	return nil
}

// Get retrieves a value by its key.
func (s *MemoryStore) Get(key string) ([]byte, error) {
	s.mu.RLock()
	item, exists := s.data[key]
	s.mu.RUnlock()

	if !exists {
		return nil, ErrNotFound
	}
	if item.expired(time.Now().UnixNano()) {
		s.mu.Lock()
		delete(s.data, key)
		s.mu.Unlock()
		return nil, ErrNotFound
	}

	value, ok := item.value.([]byte)
	if !ok {
		return nil, fmt.Errorf("type mismatch: key '%s' holds a different data type", key)
	}
	return value, nil
}

// Delete removes a value by its key.
func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Exists checks if a key exists and has not expired.
func (s *MemoryStore) Exists(key string) (bool, error) {
	s.mu.RLock()
	item, exists := s.data[key]
	s.mu.RUnlock()

	if !exists {
		return false, nil
	}
	if item.expired(time.Now().UnixNano()) {
		s.mu.Lock()
		delete(s.data, key)
		s.mu.Unlock()
		return false, nil
	}
	return true, nil
}

// RPush appends values to the end of a list, creating it if absent.
// An existing TTL on the list is preserved.
func (s *MemoryStore) RPush(key string, values ...[]byte) error {
	if len(values) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, expiresAt, err := s.listLocked(key)
	if err != nil {
		return err
	}

	s.data[key] = memoryItem{
		value:     append(list, values...),
		expiresAt: expiresAt,
	}
	return nil
}

// LRange returns list elements between start and stop inclusive.
// Negative indices count from the end, -1 being the last element.
func (s *MemoryStore) LRange(key string, start, stop int64) ([][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list, _, err := s.listLocked(key)
	if err != nil {
		return nil, err
	}

	length := int64(len(list))
	start, stop = normalizeRange(start, stop, length)
	if start > stop || length == 0 {
		return [][]byte{}, nil
	}

	result := make([][]byte, 0, stop-start+1)
	for _, v := range list[start : stop+1] {
		result = append(result, v)
	}
	return result, nil
}

// LTrim trims a list to the elements between start and stop inclusive.
// LTrim(key, -n, -1) keeps the newest n entries.
func (s *MemoryStore) LTrim(key string, start, stop int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, expiresAt, err := s.listLocked(key)
	if err != nil {
		return err
	}

	length := int64(len(list))
	start, stop = normalizeRange(start, stop, length)
	if start > stop || length == 0 {
		delete(s.data, key)
		return nil
	}

	s.data[key] = memoryItem{
		value:     list[start : stop+1],
		expiresAt: expiresAt,
	}
	return nil
}

// LLen returns the length of a list. Missing keys count as empty.
func (s *MemoryStore) LLen(key string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list, _, err := s.listLocked(key)
	if err != nil {
		return 0, err
	}
	return int64(len(list)), nil
}

// Expire sets or refreshes the TTL on an existing key.
func (s *MemoryStore) Expire(key string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, exists := s.data[key]
	if !exists || item.expired(time.Now().UnixNano()) {
		return ErrNotFound
	}

	item.expiresAt = expiryFrom(ttl)
	s.data[key] = item
	return nil
}

// Clear removes all data.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]memoryItem)
	return nil
}

// listLocked fetches a list value under an already-held lock. Missing and
// expired keys both yield an empty list; physical removal of expired items is
// left to the cleanup sweep so this is safe under a read lock.
func (s *MemoryStore) listLocked(key string) ([][]byte, int64, error) {
	item, exists := s.data[key]
	if !exists || item.expired(time.Now().UnixNano()) {
		return nil, 0, nil
	}

	list, ok := item.value.([][]byte)
	if !ok {
		return nil, 0, fmt.Errorf("type mismatch: key '%s' holds a different data type", key)
	}
	return list, item.expiresAt, nil
}

func expiryFrom(ttl time.Duration) int64 {
	if ttl <= 0 {
		return 0
	}
	return time.Now().UnixNano() + ttl.Nanoseconds()
}

// normalizeRange converts possibly-negative start/stop indices into clamped
// absolute positions.
func normalizeRange(start, stop, length int64) (int64, int64) {
	if start < 0 {
		start += length
	}
	if stop < 0 {
		stop += length
	}
	if start < 0 {
		start = 0
	}
	if stop >= length {
		stop = length - 1
	}
	return start, stop
}

// cleanupExpiredItems periodically removes expired items from the store.
func (s *MemoryStore) cleanupExpiredItems() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.performCleanup()
		case <-s.stopCleanup:
			logrus.Debug("MemoryStore cleanup goroutine stopped")
			return
		}
	}
}

// performCleanup scans the store and removes expired items.
func (s *MemoryStore) performCleanup() {
	now := time.Now().UnixNano()
	expiredKeys := make([]string, 0, 16)

	s.mu.RLock()
	for key, item := range s.data {
		if item.expired(now) {
			expiredKeys = append(expiredKeys, key)
		}
	}
	s.mu.RUnlock()

	if len(expiredKeys) == 0 {
		return
	}

	deletedCount := 0
	s.mu.Lock()
	for _, key := range expiredKeys {
		// Re-check under the write lock; the item may have been refreshed.
		if item, exists := s.data[key]; exists && item.expired(now) {
			delete(s.data, key)
			deletedCount++
		}
	}
	s.mu.Unlock()

	if logrus.IsLevelEnabled(logrus.DebugLevel) {
		logrus.Debugf("MemoryStore cleanup: removed %d expired items", deletedCount)
	}
}
