package registry

import (
	"fmt"
	"sync"
	"time"

	"studio/internal/domain"
)

// NewImage describes one upload to be registered.
type NewImage struct {
	ID          string
	Name        string
	OriginalKey string
	MIMEType    string
}

// Store holds the ordered image records. Every mutation builds a new slice and
// swaps it in, so a slice returned by List is never written to again.
type Store struct {
	mu     sync.Mutex
	images []domain.ProductImage
	now    func() time.Time
}

// NewStore returns an empty registry.
func NewStore() *Store {
	return &Store{now: time.Now}
}

// List returns the current snapshot in insertion order.
func (s *Store) List() []domain.ProductImage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.images
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.images)
}

// Get returns the record with the given id.
func (s *Store) Get(id string) (domain.ProductImage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := indexOf(s.images, id); idx >= 0 {
		return s.images[idx], nil
	}
	return domain.ProductImage{}, fmt.Errorf("%w: %s", domain.ErrImageNotFound, id)
}

// Add appends one pending record per upload and returns them.
func (s *Store) Add(batch []NewImage) []domain.ProductImage {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	added := make([]domain.ProductImage, 0, len(batch))
	for _, n := range batch {
		added = append(added, domain.NewProductImage(n.ID, n.Name, n.OriginalKey, n.MIMEType, now))
	}
	s.images = appendImages(s.images, added)
	return added
}

// Update replaces the record with fn applied to it. fn receives the current
// timestamp so transitions stay consistent with the store clock.
func (s *Store) Update(id string, fn func(domain.ProductImage, time.Time) domain.ProductImage) (domain.ProductImage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, updated, ok := updateImage(s.images, id, func(p domain.ProductImage) domain.ProductImage {
		return fn(p, s.now())
	})
	if !ok {
		return domain.ProductImage{}, fmt.Errorf("%w: %s", domain.ErrImageNotFound, id)
	}
	s.images = next
	return updated, nil
}

// Begin moves a record into processing unless a job already owns it. The
// returned previous value lets the caller release the superseded result.
func (s *Store) Begin(id string) (previous, current domain.ProductImage, err error) {
	return s.BeginIf(id, nil)
}

// BeginIf is Begin with an extra condition checked under the same lock.
// Records failing allow are left untouched and reported with
// domain.ErrNotEligible.
func (s *Store) BeginIf(id string, allow func(domain.ProductImage) bool) (previous, current domain.ProductImage, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := indexOf(s.images, id)
	if idx < 0 {
		return previous, current, fmt.Errorf("%w: %s", domain.ErrImageNotFound, id)
	}
	previous = s.images[idx]
	if previous.Status == domain.ImageStatusProcessing {
		return previous, previous, fmt.Errorf("%w: %s", domain.ErrAlreadyProcessing, id)
	}
	if allow != nil && !allow(previous) {
		return previous, previous, fmt.Errorf("%w: %s is %s", domain.ErrNotEligible, id, previous.Status)
	}
	now := s.now()
	next, current, _ := updateImage(s.images, id, func(p domain.ProductImage) domain.ProductImage {
		return p.StartProcessing(now)
	})
	s.images = next
	return previous, current, nil
}

// Remove deletes the record and returns it so its handles can be released.
func (s *Store) Remove(id string) (domain.ProductImage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, removed, ok := removeImage(s.images, id)
	if !ok {
		return domain.ProductImage{}, fmt.Errorf("%w: %s", domain.ErrImageNotFound, id)
	}
	s.images = next
	return removed, nil
}

func indexOf(images []domain.ProductImage, id string) int {
	for i := range images {
		if images[i].ID == id {
			return i
		}
	}
	return -1
}

func appendImages(images, added []domain.ProductImage) []domain.ProductImage {
	out := make([]domain.ProductImage, 0, len(images)+len(added))
	out = append(out, images...)
	return append(out, added...)
}

func updateImage(images []domain.ProductImage, id string, fn func(domain.ProductImage) domain.ProductImage) ([]domain.ProductImage, domain.ProductImage, bool) {
	idx := indexOf(images, id)
	if idx < 0 {
		return images, domain.ProductImage{}, false
	}
	out := make([]domain.ProductImage, len(images))
	copy(out, images)
	out[idx] = fn(images[idx])
	return out, out[idx], true
}

func removeImage(images []domain.ProductImage, id string) ([]domain.ProductImage, domain.ProductImage, bool) {
	idx := indexOf(images, id)
	if idx < 0 {
		return images, domain.ProductImage{}, false
	}
	out := make([]domain.ProductImage, 0, len(images)-1)
	out = append(out, images[:idx]...)
	out = append(out, images[idx+1:]...)
	return out, images[idx], true
}
