//go:build !integration

package activity

import (
	"context"
	"errors"
	"sync"
	"testing"

	"smartCampaign/domain"
)

// fakeActivityRepo mimics the single-statement atomic increments of the real
// store. The mutex stands in for the database's row-level atomicity.
type fakeActivityRepo struct {
	mu   sync.Mutex
	rows map[uint]*domain.UserActivity

	ensureErr    error
	incrementErr error
}

func newFakeActivityRepo() *fakeActivityRepo {
	return &fakeActivityRepo{rows: make(map[uint]*domain.UserActivity)}
}

func (f *fakeActivityRepo) EnsureExists(ctx context.Context, userID uint) error {
	if f.ensureErr != nil {
		return f.ensureErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.rows[userID]; !ok {
		f.rows[userID] = &domain.UserActivity{UserID: userID}
	}
	return nil
}

func (f *fakeActivityRepo) FindByUserID(ctx context.Context, userID uint) (*domain.UserActivity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	row, ok := f.rows[userID]
	if !ok {
		return nil, nil
	}
	copied := *row
	return &copied, nil
}

func (f *fakeActivityRepo) IncrementVisits(ctx context.Context, userID uint) error {
	if f.incrementErr != nil {
		return f.incrementErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	row, ok := f.rows[userID]
	if !ok {
		return errors.New("activity record not found")
	}
	row.TotalVisits++
	row.LastOpenDays = 0
	return nil
}

func (f *fakeActivityRepo) IncrementOffersOpened(ctx context.Context, userID uint, count int) error {
	if f.incrementErr != nil {
		return f.incrementErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	row, ok := f.rows[userID]
	if !ok {
		return errors.New("activity record not found")
	}
	row.OffersOpened += count
	return nil
}

func (f *fakeActivityRepo) IncrementOffersClicked(ctx context.Context, userID uint) error {
	if f.incrementErr != nil {
		return f.incrementErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	row, ok := f.rows[userID]
	if !ok {
		return errors.New("activity record not found")
	}
	row.OffersClicked++
	return nil
}

func (f *fakeActivityRepo) IncrementPurchases(ctx context.Context, userID uint) error {
	if f.incrementErr != nil {
		return f.incrementErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	row, ok := f.rows[userID]
	if !ok {
		return errors.New("activity record not found")
	}
	row.Purchases++
	return nil
}

func TestRecordVisitCreatesRowAndResetsRecency(t *testing.T) {
	repo := newFakeActivityRepo()
	svc := NewActivityService(repo)
	ctx := context.Background()

	if err := svc.RecordVisit(ctx, 1); err != nil {
		t.Fatalf("RecordVisit returned error: %v", err)
	}

	row, err := svc.GetActivity(ctx, 1)
	if err != nil {
		t.Fatalf("GetActivity returned error: %v", err)
	}
	if row == nil {
		t.Fatal("activity row was not created")
	}
	if row.TotalVisits != 1 || row.LastOpenDays != 0 {
		t.Fatalf("row = %+v, want total_visits=1 last_open_days=0", row)
	}
}

func TestRecordVisitResetsStaleRecency(t *testing.T) {
	repo := newFakeActivityRepo()
	svc := NewActivityService(repo)
	ctx := context.Background()

	repo.rows[6] = &domain.UserActivity{UserID: 6, LastOpenDays: 14, TotalVisits: 3}

	if err := svc.RecordVisit(ctx, 6); err != nil {
		t.Fatalf("RecordVisit returned error: %v", err)
	}

	row, _ := svc.GetActivity(ctx, 6)
	if row.LastOpenDays != 0 {
		t.Fatalf("last_open_days = %d, want 0 after a visit", row.LastOpenDays)
	}
	if row.TotalVisits != 4 {
		t.Fatalf("total_visits = %d, want 4", row.TotalVisits)
	}
}

func TestHomeViewUpdates(t *testing.T) {
	// Rendering a home view with 3 offers bumps the visit counter once and
	// offers_opened by 3, with recency reset.
	repo := newFakeActivityRepo()
	svc := NewActivityService(repo)
	ctx := context.Background()

	if err := svc.RecordVisit(ctx, 7); err != nil {
		t.Fatalf("RecordVisit returned error: %v", err)
	}
	if err := svc.RecordOffersShown(ctx, 7, 3); err != nil {
		t.Fatalf("RecordOffersShown returned error: %v", err)
	}

	row, _ := svc.GetActivity(ctx, 7)
	if row.TotalVisits != 1 || row.OffersOpened != 3 || row.LastOpenDays != 0 {
		t.Fatalf("row = %+v, want visits=1 opened=3 recency=0", row)
	}
}

func TestRecordOffersShownZeroCountIsNoOp(t *testing.T) {
	repo := newFakeActivityRepo()
	svc := NewActivityService(repo)
	ctx := context.Background()

	if err := svc.RecordOffersShown(ctx, 2, 0); err != nil {
		t.Fatalf("RecordOffersShown(0) returned error: %v", err)
	}
	if err := svc.RecordOffersShown(ctx, 2, -4); err != nil {
		t.Fatalf("RecordOffersShown(-4) returned error: %v", err)
	}

	row, _ := svc.GetActivity(ctx, 2)
	if row != nil {
		t.Fatalf("row = %+v, want none (empty feed must not create or touch a row)", row)
	}
}

func TestRecordClickAndPurchase(t *testing.T) {
	repo := newFakeActivityRepo()
	svc := NewActivityService(repo)
	ctx := context.Background()

	if err := svc.RecordClick(ctx, 4); err != nil {
		t.Fatalf("RecordClick returned error: %v", err)
	}
	if err := svc.RecordPurchase(ctx, 4); err != nil {
		t.Fatalf("RecordPurchase returned error: %v", err)
	}

	row, _ := svc.GetActivity(ctx, 4)
	if row.OffersClicked != 1 || row.Purchases != 1 {
		t.Fatalf("row = %+v, want clicked=1 purchases=1", row)
	}

	// Clicks and purchases do not touch the visit counter.
	if row.TotalVisits != 0 {
		t.Fatalf("row = %+v, clicks must not bump visits", row)
	}
}

func TestConcurrentClicksLoseNoUpdates(t *testing.T) {
	const numClicks = 200

	repo := newFakeActivityRepo()
	svc := NewActivityService(repo)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < numClicks; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := svc.RecordClick(ctx, 9); err != nil {
				t.Errorf("RecordClick returned error: %v", err)
			}
		}()
	}
	wg.Wait()

	row, _ := svc.GetActivity(ctx, 9)
	if row.OffersClicked != numClicks {
		t.Fatalf("offers_clicked = %d, want %d", row.OffersClicked, numClicks)
	}
}

func TestInvalidUserIDRejected(t *testing.T) {
	svc := NewActivityService(newFakeActivityRepo())
	ctx := context.Background()

	if err := svc.RecordVisit(ctx, 0); err == nil {
		t.Fatal("RecordVisit(0) should fail")
	}
	if err := svc.RecordClick(ctx, 0); err == nil {
		t.Fatal("RecordClick(0) should fail")
	}
	if _, err := svc.GetActivity(ctx, 0); err == nil {
		t.Fatal("GetActivity(0) should fail")
	}
}

func TestRecordVisitPropagatesStoreErrors(t *testing.T) {
	repo := newFakeActivityRepo()
	repo.ensureErr = errors.New("connection refused")

	svc := NewActivityService(repo)

	if err := svc.RecordVisit(context.Background(), 1); err == nil {
		t.Fatal("RecordVisit should fail when the store is down")
	}
}
