package cache

import (
	"testing"
	"time"
)

func newTestStore() *Store {
	return New(16, time.Minute)
}

func TestGetPut(t *testing.T) {
	store := newTestStore()

	if _, ok := store.Get(EntityTasks, "order=name"); ok {
		t.Fatalf("empty store returned a hit")
	}

	store.Put(EntityTasks, "order=name", []string{"a"})
	value, ok := store.Get(EntityTasks, "order=name")
	if !ok {
		t.Fatalf("miss after Put")
	}
	if list, _ := value.([]string); len(list) != 1 || list[0] != "a" {
		t.Errorf("value = %v", value)
	}

	// same entity, different params is a different entry
	if _, ok := store.Get(EntityTasks, "order=created_at"); ok {
		t.Errorf("params are not part of the key")
	}
}

func TestInvalidateEntityScopedToPrefix(t *testing.T) {
	store := newTestStore()
	store.Put(EntityTasks, "a", 1)
	store.Put(EntityTasks, "b", 2)
	store.Put(EntityPrograms, "a", 3)

	store.InvalidateEntity(EntityTasks)

	if _, ok := store.Get(EntityTasks, "a"); ok {
		t.Errorf("tasks entry survived invalidation")
	}
	if _, ok := store.Get(EntityTasks, "b"); ok {
		t.Errorf("tasks entry survived invalidation")
	}
	if _, ok := store.Get(EntityPrograms, "a"); !ok {
		t.Errorf("programs entry was flushed by a tasks invalidation")
	}
}

func TestInvalidateFollowsDependencyTable(t *testing.T) {
	store := newTestStore()
	store.Put(EntityPrograms, "x", 1)
	store.Put(EntityTasks, "x", 2)
	store.Put(EntityProfiles, "x", 3)

	// deleting a program cascades to its tasks, so both lists go stale
	store.Invalidate(MutationDeleteProgram)

	if _, ok := store.Get(EntityPrograms, "x"); ok {
		t.Errorf("programs not flushed")
	}
	if _, ok := store.Get(EntityTasks, "x"); ok {
		t.Errorf("tasks not flushed")
	}
	if _, ok := store.Get(EntityProfiles, "x"); !ok {
		t.Errorf("profiles flushed without a declared dependency")
	}
}

// Every declared mutation must have an entry in the dependency table. A
// mutation missing here would silently flush nothing and serve stale lists.
func TestInvalidationsCoverAllMutations(t *testing.T) {
	for _, mutation := range AllMutations {
		entities, ok := Invalidations[mutation]
		if !ok {
			t.Errorf("mutation %q has no invalidation entry", mutation)
			continue
		}
		if len(entities) == 0 {
			t.Errorf("mutation %q flushes nothing", mutation)
		}
	}
	if len(Invalidations) != len(AllMutations) {
		t.Errorf("table has %d entries, AllMutations has %d", len(Invalidations), len(AllMutations))
	}
}

func TestEntriesExpire(t *testing.T) {
	store := New(16, 20*time.Millisecond)
	store.Put(EntityTasks, "a", 1)

	time.Sleep(50 * time.Millisecond)
	if _, ok := store.Get(EntityTasks, "a"); ok {
		t.Errorf("entry outlived its ttl")
	}
}
