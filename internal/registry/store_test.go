package registry

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"studio/internal/domain"
)

func seed(t *testing.T, s *Store, n int) []domain.ProductImage {
	t.Helper()
	batch := make([]NewImage, n)
	for i := range batch {
		batch[i] = NewImage{
			ID:          fmt.Sprintf("img-%d", i),
			Name:        fmt.Sprintf("tart-%d", i),
			OriginalKey: fmt.Sprintf("originals/img-%d.jpg", i),
			MIMEType:    "image/jpeg",
		}
	}
	return s.Add(batch)
}

func TestAddCreatesPendingRecords(t *testing.T) {
	s := NewStore()
	seed(t, s, 1)
	added := seed(t, s, 3)
	if len(added) != 3 {
		t.Fatalf("added = %d, want 3", len(added))
	}
	if s.Len() != 4 {
		t.Fatalf("len = %d, want 4", s.Len())
	}
	for _, img := range added {
		if img.Status != domain.ImageStatusPending || img.Progress != 0 {
			t.Fatalf("new record %s = %s/%d, want pending/0", img.ID, img.Status, img.Progress)
		}
	}
}

func TestListPreservesInsertionOrder(t *testing.T) {
	s := NewStore()
	seed(t, s, 3)
	for i, img := range s.List() {
		if want := fmt.Sprintf("img-%d", i); img.ID != want {
			t.Fatalf("list[%d] = %s, want %s", i, img.ID, want)
		}
	}
}

func TestSnapshotsAreNotMutated(t *testing.T) {
	s := NewStore()
	seed(t, s, 2)
	before := s.List()
	if _, err := s.Update("img-0", func(p domain.ProductImage, now time.Time) domain.ProductImage {
		return p.StartProcessing(now)
	}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if before[0].Status != domain.ImageStatusPending {
		t.Fatalf("old snapshot changed to %s", before[0].Status)
	}
	if s.List()[0].Status != domain.ImageStatusProcessing {
		t.Fatalf("new snapshot status = %s", s.List()[0].Status)
	}
}

func TestRemoveLeavesOthersUntouched(t *testing.T) {
	s := NewStore()
	seed(t, s, 3)
	if _, err := s.Update("img-2", func(p domain.ProductImage, now time.Time) domain.ProductImage {
		return p.StartProcessing(now).Fail("quota", now)
	}); err != nil {
		t.Fatalf("update: %v", err)
	}
	before := s.List()

	removed, err := s.Remove("img-1")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if removed.ID != "img-1" {
		t.Fatalf("removed = %s", removed.ID)
	}
	after := s.List()
	if len(after) != 2 {
		t.Fatalf("len = %d, want 2", len(after))
	}
	if after[0] != before[0] || after[1] != before[2] {
		t.Fatalf("remaining records changed: %+v", after)
	}
	if _, err := s.Remove("img-1"); !errors.Is(err, domain.ErrImageNotFound) {
		t.Fatalf("second remove err = %v", err)
	}
}

func TestBeginRejectsInFlightRecord(t *testing.T) {
	s := NewStore()
	seed(t, s, 1)
	prev, cur, err := s.Begin("img-0")
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if prev.Status != domain.ImageStatusPending || cur.Status != domain.ImageStatusProcessing {
		t.Fatalf("begin = %s -> %s", prev.Status, cur.Status)
	}
	if _, _, err := s.Begin("img-0"); !errors.Is(err, domain.ErrAlreadyProcessing) {
		t.Fatalf("second begin err = %v", err)
	}
	if _, _, err := s.Begin("missing"); !errors.Is(err, domain.ErrImageNotFound) {
		t.Fatalf("missing begin err = %v", err)
	}
}

func TestBeginIfChecksConditionUnderLock(t *testing.T) {
	s := NewStore()
	seed(t, s, 1)
	if _, err := s.Update("img-0", func(p domain.ProductImage, now time.Time) domain.ProductImage {
		return p.StartProcessing(now).Complete("results/img-0.png", now)
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	_, cur, err := s.BeginIf("img-0", domain.ProductImage.Eligible)
	if !errors.Is(err, domain.ErrNotEligible) {
		t.Fatalf("err = %v, want ErrNotEligible", err)
	}
	if cur.Status != domain.ImageStatusCompleted {
		t.Fatalf("status = %s", cur.Status)
	}
	got, _ := s.Get("img-0")
	if got.Status != domain.ImageStatusCompleted || got.ProcessedKey != "results/img-0.png" {
		t.Fatalf("record changed: %+v", got)
	}
}

func TestConcurrentUpdatesOnlyTouchTheirRecord(t *testing.T) {
	s := NewStore()
	seed(t, s, 50)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("img-%d", i)
			if _, _, err := s.Begin(id); err != nil {
				t.Errorf("begin %s: %v", id, err)
				return
			}
			_, err := s.Update(id, func(p domain.ProductImage, now time.Time) domain.ProductImage {
				if i%2 == 0 {
					return p.Complete("results/"+id+".png", now)
				}
				return p.Fail("remote error", now)
			})
			if err != nil {
				t.Errorf("update %s: %v", id, err)
			}
		}(i)
	}
	wg.Wait()

	for i, img := range s.List() {
		if err := img.Validate(); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
		want := domain.ImageStatusFailed
		if i%2 == 0 {
			want = domain.ImageStatusCompleted
		}
		if img.Status != want {
			t.Fatalf("record %d status = %s, want %s", i, img.Status, want)
		}
	}
}
