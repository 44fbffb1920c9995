// Package cache is a read-through query cache keyed by (entity, params).
// Mutations never touch entries directly: they go through Invalidate with a
// declared Mutation, and the Invalidations table decides which entities are
// flushed. Keeping the dependency table in one place (and asserting it is
// complete in tests) prevents the silently-stale-list class of bugs.
package cache

import (
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type Entity string

const (
	EntityProfiles Entity = "profiles"
	EntityPrograms Entity = "programs"
	EntityTasks    Entity = "tasks"
)

type Store struct {
	lru *expirable.LRU[string, any]
}

// New builds a store holding up to size entries, each expiring after ttl.
func New(size int, ttl time.Duration) *Store {
	return &Store{lru: expirable.NewLRU[string, any](size, nil, ttl)}
}

func key(entity Entity, params string) string {
	return string(entity) + "?" + params
}

func (s *Store) Get(entity Entity, params string) (any, bool) {
	return s.lru.Get(key(entity, params))
}

func (s *Store) Put(entity Entity, params string, value any) {
	s.lru.Add(key(entity, params), value)
}

// InvalidateEntity drops every cached query for one entity.
func (s *Store) InvalidateEntity(entity Entity) {
	prefix := string(entity) + "?"
	for _, k := range s.lru.Keys() {
		if strings.HasPrefix(k, prefix) {
			s.lru.Remove(k)
		}
	}
}

// Invalidate flushes every entity the mutation is declared to affect.
// Unknown mutations flush nothing; TestInvalidationsCoverAllMutations keeps
// the table honest.
func (s *Store) Invalidate(m Mutation) {
	for _, entity := range Invalidations[m] {
		s.InvalidateEntity(entity)
	}
}
