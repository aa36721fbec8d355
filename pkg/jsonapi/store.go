package jsonapi

import (
	"fmt"
	"sort"
	"sync"
)

/*
Store indexes side-loaded resources by type and id so they can be looked up
after the response that carried them has been discarded. It is owned by the
caller; a Model only writes to it when its Store field is set. Safe for
concurrent use.
*/
type Store struct {
	mu      sync.RWMutex
	records map[string]Record
}

func NewStore() *Store {
	return &Store{records: make(map[string]Record)}
}

func storeKey(typ, id string) string {
	return fmt.Sprintf("%s:%s", typ, id)
}

/*
Upsert inserts new records and refreshes existing ones with the newer copy.
Records without a type or id are ignored. Returns how many records were new.
*/
func (s *Store) Upsert(records ...Record) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.records == nil {
		s.records = make(map[string]Record)
	}

	inserted := 0
	for _, record := range records {
		typ, id := record.GetType(), record.GetId()
		if typ == "" || id == "" {
			continue
		}
		key := storeKey(typ, id)
		if _, exists := s.records[key]; !exists {
			inserted++
		}
		copied := make(Record, len(record))
		for field, value := range record {
			copied[field] = value
		}
		s.records[key] = copied
	}
	return inserted
}

func (s *Store) Get(typ, id string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, exists := s.records[storeKey(typ, id)]
	return record, exists
}

// OfType returns every stored record of a type, ordered by id.
func (s *Store) OfType(typ string) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []Record
	for _, record := range s.records {
		if record.GetType() == typ {
			result = append(result, record)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].GetId() < result[j].GetId()
	})
	return result
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

/*
Lookup decodes a stored record into a typed model:

	owner, found, err := jsonapi.Lookup[User](store, "users", widget.OwnerId)
*/
func Lookup[T any](s *Store, typ, id string) (T, bool, error) {
	var result T
	record, exists := s.Get(typ, id)
	if !exists {
		return result, false, nil
	}
	result, err := DecodeRecord[T](record, nil)
	if err != nil {
		return result, true, err
	}
	return result, true, nil
}
