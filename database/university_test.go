package database

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/qaunion/portal/model"
)

func seed(t *testing.T, kv KeyValue, list []model.University) {
	t.Helper()
	b, err := json.Marshal(list)
	if err != nil {
		t.Fatalf("marshal seed: %v", err)
	}
	if err := kv.Set(context.Background(), UniversitiesKey, string(b)); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestCreateOnEmptyStoreStartsAtOne(t *testing.T) {
	s := NewUniversityStore(NewMemoryStore())

	u, err := s.Create(context.Background(), model.UniversityInput{Name: "جامعة القاهرة"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.UniversityID != 1 {
		t.Fatalf("expected id 1, got %d", u.UniversityID)
	}
}

func TestCreateUsesMaxPlusOne(t *testing.T) {
	kv := NewMemoryStore()
	seed(t, kv, []model.University{
		{UniversityID: 1, UniversityName: "A"},
		{UniversityID: 3, UniversityName: "C"},
	})
	s := NewUniversityStore(kv)

	u, err := s.Create(context.Background(), model.UniversityInput{Name: "D"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.UniversityID != 4 {
		t.Fatalf("expected id 4, got %d", u.UniversityID)
	}

	list, _ := s.List(context.Background())
	if len(list) != 3 {
		t.Fatalf("expected 3 records, got %d", len(list))
	}
}

func TestListSwallowsCorruptData(t *testing.T) {
	kv := NewMemoryStore()
	kv.Set(context.Background(), UniversitiesKey, "{not json")
	s := NewUniversityStore(kv)

	list, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty list, got %v", list)
	}

	// null is valid JSON but still reads as empty
	kv.Set(context.Background(), UniversitiesKey, "null")
	list, err = s.List(context.Background())
	if err != nil || list == nil || len(list) != 0 {
		t.Fatalf("expected empty non-nil list, got %v, %v", list, err)
	}
}

func TestDeleteRemovesID(t *testing.T) {
	kv := NewMemoryStore()
	seed(t, kv, []model.University{
		{UniversityID: 1, UniversityName: "A"},
		{UniversityID: 2, UniversityName: "B"},
	})
	s := NewUniversityStore(kv)
	ctx := context.Background()

	if err := s.Delete(ctx, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	list, _ := s.List(ctx)
	for _, u := range list {
		if u.UniversityID == 1 {
			t.Fatal("deleted id still listed")
		}
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 record, got %d", len(list))
	}
}

func TestDeleteMissingIsNoop(t *testing.T) {
	kv := NewMemoryStore()
	seed(t, kv, []model.University{{UniversityID: 1, UniversityName: "A"}})
	s := NewUniversityStore(kv)
	ctx := context.Background()

	before, _ := s.List(ctx)
	if err := s.Delete(ctx, 42); err != nil {
		t.Fatalf("delete: %v", err)
	}
	after, _ := s.List(ctx)
	if len(before) != len(after) || after[0] != before[0] {
		t.Fatalf("list changed: %v -> %v", before, after)
	}
}

func TestUpdateOnlyTouchesMatchingRecord(t *testing.T) {
	kv := NewMemoryStore()
	seed(t, kv, []model.University{
		{UniversityID: 1, UniversityName: "A", UniversityLogo: "a.png"},
		{UniversityID: 2, UniversityName: "B", UniversityLogo: "b.png"},
		{UniversityID: 5, UniversityName: "E"},
	})
	s := NewUniversityStore(kv)
	ctx := context.Background()

	before, _ := s.List(ctx)
	found, err := s.Update(ctx, 2, model.UniversityInput{Name: "B2", Logo: "new.png"})
	if err != nil || !found {
		t.Fatalf("update: found=%v err=%v", found, err)
	}
	after, _ := s.List(ctx)

	for i := range before {
		if before[i].UniversityID == 2 {
			want := model.University{UniversityID: 2, UniversityName: "B2", UniversityLogo: "new.png"}
			if after[i] != want {
				t.Errorf("updated record = %+v, want %+v", after[i], want)
			}
			continue
		}
		b1, _ := json.Marshal(before[i])
		b2, _ := json.Marshal(after[i])
		if string(b1) != string(b2) {
			t.Errorf("record %d changed: %s -> %s", before[i].UniversityID, b1, b2)
		}
	}
}

func TestUpdateMissingIsNoop(t *testing.T) {
	kv := NewMemoryStore()
	seed(t, kv, []model.University{{UniversityID: 1, UniversityName: "A"}})
	s := NewUniversityStore(kv)

	found, err := s.Update(context.Background(), 9, model.UniversityInput{Name: "Z"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if found {
		t.Fatal("expected not found")
	}
	u, _ := s.Get(context.Background(), 1)
	if u.UniversityName != "A" {
		t.Fatalf("unexpected change %+v", u)
	}
}

func TestGetNotFound(t *testing.T) {
	s := NewUniversityStore(NewMemoryStore())
	if _, err := s.Get(context.Background(), 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSnapshot(t *testing.T) {
	kv := NewMemoryStore()
	s := NewUniversityStore(kv)
	ctx := context.Background()

	ok, err := s.Snapshot(ctx, ".bak")
	if err != nil || ok {
		t.Fatalf("snapshot of empty store: ok=%v err=%v", ok, err)
	}

	s.Create(ctx, model.UniversityInput{Name: "A"})
	ok, err = s.Snapshot(ctx, ".bak")
	if err != nil || !ok {
		t.Fatalf("snapshot: ok=%v err=%v", ok, err)
	}
	raw, _, _ := kv.Get(ctx, UniversitiesKey+".bak")
	cur, _, _ := kv.Get(ctx, UniversitiesKey)
	if raw != cur {
		t.Fatalf("snapshot differs: %q vs %q", raw, cur)
	}
}

type failingKV struct{ MemoryStore }

func (f *failingKV) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("backend down")
}

func TestListReportsBackendFailure(t *testing.T) {
	s := NewUniversityStore(&failingKV{})
	if _, err := s.List(context.Background()); err == nil {
		t.Fatal("expected backend error")
	}
}
