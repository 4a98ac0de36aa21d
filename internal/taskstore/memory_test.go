package taskstore

import (
	"sync"
	"testing"
	"time"
)

func TestNewMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	if store == nil {
		t.Fatal("NewMemoryStore() = nil")
	}

	// should start empty
	if len(store.GetAll()) != 0 {
		t.Errorf("GetAll() = %v items, want 0", len(store.GetAll()))
	}
}

func TestMemoryStore_Update(t *testing.T) {
	store := NewMemoryStore()

	store.Update(Snapshot{
		TaskID:     "task-1",
		Status:     "processing",
		ObservedAt: time.Now(),
	})

	all := store.GetAll()
	if len(all) != 1 {
		t.Fatalf("GetAll() = %v items, want 1", len(all))
	}
	if all[0].TaskID != "task-1" {
		t.Errorf("GetAll()[0].TaskID = %v, want %v", all[0].TaskID, "task-1")
	}
	if all[0].Status != "processing" {
		t.Errorf("GetAll()[0].Status = %v, want %v", all[0].Status, "processing")
	}
}

func TestMemoryStore_UpdateOverwrites(t *testing.T) {
	store := NewMemoryStore()

	store.Update(Snapshot{TaskID: "task-1", Status: "pending"})
	store.Update(Snapshot{TaskID: "task-1", Status: "completed", Result: "42"})

	if len(store.GetAll()) != 1 {
		t.Fatalf("GetAll() = %v items, want 1 after overwrite", len(store.GetAll()))
	}

	s, ok := store.Get("task-1")
	if !ok {
		t.Fatal("Get(task-1) not found")
	}
	if s.Status != "completed" {
		t.Errorf("Status = %v, want %v", s.Status, "completed")
	}
	if s.Result != "42" {
		t.Errorf("Result = %v, want %v", s.Result, "42")
	}
}

func TestMemoryStore_GetMissing(t *testing.T) {
	store := NewMemoryStore()

	if _, ok := store.Get("absent"); ok {
		t.Error("Get(absent) = ok, want not found")
	}
}

func TestMemoryStore_Subscribe(t *testing.T) {
	store := NewMemoryStore()

	ch := store.Subscribe()
	defer store.Unsubscribe(ch)

	store.Update(Snapshot{TaskID: "task-1", Status: "pending"})

	select {
	case s := <-ch:
		if s.TaskID != "task-1" {
			t.Errorf("received TaskID = %v, want %v", s.TaskID, "task-1")
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber never received the update")
	}
}

func TestMemoryStore_Unsubscribe(t *testing.T) {
	store := NewMemoryStore()

	ch := store.Subscribe()
	store.Unsubscribe(ch)

	// channel must be closed
	if _, open := <-ch; open {
		t.Error("channel still open after Unsubscribe")
	}

	// updating after unsubscribe must not panic
	store.Update(Snapshot{TaskID: "task-1", Status: "pending"})

	// unsubscribing twice is safe
	store.Unsubscribe(ch)
}

func TestMemoryStore_SlowSubscriberDropsUpdates(t *testing.T) {
	store := NewMemoryStore()

	ch := store.Subscribe()
	defer store.Unsubscribe(ch)

	// fill the buffer and then some; the recorder must never block
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < subscriberBuffer+10; i++ {
			store.Update(Snapshot{TaskID: "task-1", Status: "processing"})
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Update blocked on a slow subscriber")
	}
}

func TestMemoryStore_ConcurrentUpdates(t *testing.T) {
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				store.Update(Snapshot{TaskID: "task-1", Status: "processing"})
				store.GetAll()
			}
		}()
	}
	wg.Wait()

	if len(store.GetAll()) != 1 {
		t.Errorf("GetAll() = %v items, want 1", len(store.GetAll()))
	}
}
