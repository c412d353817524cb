package service

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/digkill/adboard/internal/models"
	"github.com/digkill/adboard/internal/repository"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeAdStore struct {
	mu     sync.Mutex
	nextID int64
	ads    map[int64]models.Ad
}

func newFakeAdStore() *fakeAdStore {
	return &fakeAdStore{ads: make(map[int64]models.Ad)}
}

func (s *fakeAdStore) Create(_ context.Context, ad *models.Ad) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.ads {
		if existing.UserID == ad.UserID {
			return 0, repository.ErrConflict
		}
	}
	s.nextID++
	ad.ID = s.nextID
	s.ads[ad.ID] = *ad
	return ad.ID, nil
}

func (s *fakeAdStore) GetByID(_ context.Context, id int64) (*models.Ad, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ad, ok := s.ads[id]
	if !ok {
		return nil, nil
	}
	return &ad, nil
}

func (s *fakeAdStore) ListByStatus(_ context.Context, status models.AdStatus) ([]models.Ad, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ads []models.Ad
	for _, ad := range s.ads {
		if ad.Status == status {
			ads = append(ads, ad)
		}
	}
	sort.Slice(ads, func(i, j int) bool { return ads[i].ID < ads[j].ID })
	return ads, nil
}

func (s *fakeAdStore) CountByOwner(_ context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, ad := range s.ads {
		if ad.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (s *fakeAdStore) UpdateStatus(_ context.Context, id int64, from, to models.AdStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ad, ok := s.ads[id]
	if !ok || ad.Status != from {
		return false, nil
	}
	ad.Status = to
	s.ads[id] = ad
	return true, nil
}

func (s *fakeAdStore) Delete(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ads[id]; !ok {
		return false, nil
	}
	delete(s.ads, id)
	return true, nil
}

func (s *fakeAdStore) DeleteApproved(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var purged int64
	for id, ad := range s.ads {
		if ad.Status == models.AdStatusApproved {
			delete(s.ads, id)
			purged++
		}
	}
	return purged, nil
}

type fakePermanentStore struct {
	mu  sync.Mutex
	ads map[int64]models.PermanentAd
}

func newFakePermanentStore() *fakePermanentStore {
	return &fakePermanentStore{ads: make(map[int64]models.PermanentAd)}
}

func (s *fakePermanentStore) Create(_ context.Context, ad *models.PermanentAd) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ads[ad.ID]; ok {
		return repository.ErrConflict
	}
	s.ads[ad.ID] = *ad
	return nil
}

func (s *fakePermanentStore) List(_ context.Context) ([]models.PermanentAd, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ads []models.PermanentAd
	for _, ad := range s.ads {
		ads = append(ads, ad)
	}
	sort.Slice(ads, func(i, j int) bool { return ads[i].ID < ads[j].ID })
	return ads, nil
}

func (s *fakePermanentStore) Exists(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ads[id]
	return ok, nil
}

func (s *fakePermanentStore) Delete(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ads[id]; !ok {
		return false, nil
	}
	delete(s.ads, id)
	return true, nil
}

type fakePromoStore struct {
	mu     sync.Mutex
	nextID int64
	codes  map[string]*models.PromoCode
}

func newFakePromoStore() *fakePromoStore {
	return &fakePromoStore{codes: make(map[string]*models.PromoCode)}
}

func (s *fakePromoStore) Create(_ context.Context, code string) (*models.PromoCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.codes[code]; ok {
		return nil, repository.ErrConflict
	}
	s.nextID++
	promo := &models.PromoCode{ID: s.nextID, Code: code}
	s.codes[code] = promo
	return promo, nil
}

func (s *fakePromoStore) Consume(_ context.Context, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	promo, ok := s.codes[code]
	if !ok || promo.Used {
		return false, nil
	}
	promo.Used = true
	return true, nil
}

func (s *fakePromoStore) List(_ context.Context) ([]models.PromoCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var promos []models.PromoCode
	for _, promo := range s.codes {
		promos = append(promos, *promo)
	}
	sort.Slice(promos, func(i, j int) bool { return promos[i].ID > promos[j].ID })
	return promos, nil
}

// eventRecorder captures broadcasts for assertions.
type eventRecorder struct {
	mu       sync.Mutex
	approved []models.Ad
	pending  []int64
	deleted  []int64
}

func (r *eventRecorder) AdApproved(ad models.Ad) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.approved = append(r.approved, ad)
}

func (r *eventRecorder) AdPending(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = append(r.pending, id)
}

func (r *eventRecorder) AdDeleted(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, id)
}
