package user

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestCreateAndFindByID(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	created, err := store.Create(ctx, Record{
		Username:     "alice",
		PasswordHash: "h1",
		Email:        "alice@example.com",
		Mobile:       "000-0000",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.ID != "uid1" {
		t.Fatalf("created.ID = %q, want %q", created.ID, "uid1")
	}

	found, err := store.FindOne(ctx, Criteria{ID: created.ID})
	if err != nil {
		t.Fatalf("FindOne returned error: %v", err)
	}
	if found == nil {
		t.Fatal("FindOne returned nil for existing id")
	}
	if *found != created {
		t.Fatalf("found = %+v, want %+v", *found, created)
	}
}

func TestCreateInvalidInput(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	cases := []Record{
		{Username: "", PasswordHash: "h1"},
		{Username: "alice", PasswordHash: ""},
		{},
	}
	for _, record := range cases {
		if _, err := store.Create(ctx, record); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("Create(%+v) error = %v, want ErrInvalidInput", record, err)
		}
	}

	// 失敗した分はカウンターを消費しない
	created, err := store.Create(ctx, Record{Username: "alice", PasswordHash: "h1"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.ID != "uid1" {
		t.Fatalf("created.ID = %q, want %q", created.ID, "uid1")
	}
}

func TestCreateDuplicateUsername(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	if _, err := store.Create(ctx, Record{Username: "alice", PasswordHash: "h1"}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if _, err := store.Create(ctx, Record{Username: "alice", PasswordHash: "h2"}); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("duplicate Create error = %v, want ErrUsernameTaken", err)
	}

	// 重複で失敗した分もカウンターを消費しない
	created, err := store.Create(ctx, Record{Username: "bob", PasswordHash: "h2"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.ID != "uid2" {
		t.Fatalf("created.ID = %q, want %q", created.ID, "uid2")
	}
}

func TestFindOneIDTakesPrecedence(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	alice, err := store.Create(ctx, Record{Username: "alice", PasswordHash: "h1"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if _, err := store.Create(ctx, Record{Username: "bob", PasswordHash: "h2"}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	found, err := store.FindOne(ctx, Criteria{ID: alice.ID, Username: "bob"})
	if err != nil {
		t.Fatalf("FindOne returned error: %v", err)
	}
	if found == nil || found.Username != "alice" {
		t.Fatalf("found = %+v, want alice's record", found)
	}
}

func TestFindOneMissing(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	found, err := store.FindOne(ctx, Criteria{Username: "nobody"})
	if err != nil {
		t.Fatalf("FindOne returned error: %v", err)
	}
	if found != nil {
		t.Fatalf("found = %+v, want nil", found)
	}

	found, err = store.FindOne(ctx, Criteria{ID: "uid999"})
	if err != nil {
		t.Fatalf("FindOne returned error: %v", err)
	}
	if found != nil {
		t.Fatalf("found = %+v, want nil", found)
	}
}

func TestSequentialIDs(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	alice, err := store.Create(ctx, Record{Username: "alice", PasswordHash: "h1"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	bob, err := store.Create(ctx, Record{Username: "bob", PasswordHash: "h2"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if alice.ID != "uid1" || bob.ID != "uid2" {
		t.Fatalf("ids = %q, %q, want uid1, uid2", alice.ID, bob.ID)
	}

	found, err := store.FindOne(ctx, Criteria{Username: "alice"})
	if err != nil {
		t.Fatalf("FindOne returned error: %v", err)
	}
	if found == nil || found.ID != "uid1" {
		t.Fatalf("found = %+v, want record with id uid1", found)
	}
}

func TestReturnedRecordsDoNotAliasStore(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	created, err := store.Create(ctx, Record{Username: "alice", PasswordHash: "h1", Email: "a@example.com"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	// 返り値をいくら書き換えてもストア内部には影響しない
	created.Username = "mallory"
	created.Email = "m@example.com"

	found, err := store.FindOne(ctx, Criteria{ID: "uid1"})
	if err != nil {
		t.Fatalf("FindOne returned error: %v", err)
	}
	if found == nil || found.Username != "alice" || found.Email != "a@example.com" {
		t.Fatalf("found = %+v, stored record was mutated externally", found)
	}

	found.Username = "mallory"

	again, err := store.FindOne(ctx, Criteria{ID: "uid1"})
	if err != nil {
		t.Fatalf("FindOne returned error: %v", err)
	}
	if again == nil || again.Username != "alice" {
		t.Fatalf("again = %+v, stored record was mutated externally", again)
	}
}

func TestConcurrentCreateKeepsIDsUnique(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	const workers = 20
	ids := make([]string, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			created, err := store.Create(ctx, Record{
				Username:     fmt.Sprintf("user%d", i),
				PasswordHash: "h",
			})
			if err != nil {
				t.Errorf("Create returned error: %v", err)
				return
			}
			ids[i] = created.ID
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, workers)
	for _, id := range ids {
		if id == "" {
			continue
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
	if len(seen) != workers {
		t.Fatalf("got %d unique ids, want %d", len(seen), workers)
	}
}
