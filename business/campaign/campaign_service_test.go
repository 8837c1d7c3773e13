//go:build !integration

package campaign

import (
	"context"
	"errors"
	"testing"

	"smartCampaign/business/targeting"
	"smartCampaign/domain"
)

// ---- fakes ----

type fakeCampaignRepo struct {
	campaigns map[string]domain.Campaign
	statuses  map[string]string
	createErr error
	statusErr error
}

func newFakeCampaignRepo() *fakeCampaignRepo {
	return &fakeCampaignRepo{
		campaigns: make(map[string]domain.Campaign),
		statuses:  make(map[string]string),
	}
}

func (f *fakeCampaignRepo) Create(ctx context.Context, campaign *domain.Campaign) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.campaigns[campaign.ID] = *campaign
	return nil
}

func (f *fakeCampaignRepo) FindByID(ctx context.Context, id string) (domain.Campaign, error) {
	c, ok := f.campaigns[id]
	if !ok {
		return domain.Campaign{}, errors.New("campaign not found")
	}
	return c, nil
}

func (f *fakeCampaignRepo) FindAll(ctx context.Context) ([]domain.Campaign, error) {
	out := make([]domain.Campaign, 0, len(f.campaigns))
	for _, c := range f.campaigns {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCampaignRepo) UpdateStatus(ctx context.Context, id, status string) error {
	if f.statusErr != nil {
		return f.statusErr
	}
	f.statuses[id] = status
	return nil
}

type fakeAssignmentRepo struct {
	byUser map[uint][]string
}

func (f *fakeAssignmentRepo) FindCampaignIDsByUserID(ctx context.Context, userID uint) ([]string, error) {
	return f.byUser[userID], nil
}

type fakeEngine struct {
	result  targeting.TargetingResult
	err     error
	scanned []string
}

func (f *fakeEngine) LaunchCampaign(ctx context.Context, campaign domain.Campaign) (targeting.TargetingResult, error) {
	f.scanned = append(f.scanned, campaign.ID)
	return f.result, f.err
}

// fakeGuard admits the first acquisition per campaign, like SETNX.
type fakeGuard struct {
	held map[string]bool
	err  error
}

func newFakeGuard() *fakeGuard {
	return &fakeGuard{held: make(map[string]bool)}
}

func (f *fakeGuard) AcquireLaunch(ctx context.Context, campaignID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.held[campaignID] {
		return false, nil
	}
	f.held[campaignID] = true
	return true, nil
}

type fakeNotifier struct {
	sent []string
	err  error
}

func (f *fakeNotifier) SendEmail(toName, toEmail, subject, message string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, subject)
	return nil
}

type fakeRecorder struct {
	visits      []uint
	offersShown []int
	clicks      []uint
}

func (f *fakeRecorder) RecordVisit(ctx context.Context, userID uint) error {
	f.visits = append(f.visits, userID)
	return nil
}

func (f *fakeRecorder) RecordOffersShown(ctx context.Context, userID uint, count int) error {
	f.offersShown = append(f.offersShown, count)
	return nil
}

func (f *fakeRecorder) RecordClick(ctx context.Context, userID uint) error {
	f.clicks = append(f.clicks, userID)
	return nil
}

type serviceFixture struct {
	campaignRepo   *fakeCampaignRepo
	assignmentRepo *fakeAssignmentRepo
	engine         *fakeEngine
	guard          *fakeGuard
	notifier       *fakeNotifier
	recorder       *fakeRecorder
	svc            *campaignService
}

func newFixture() *serviceFixture {
	f := &serviceFixture{
		campaignRepo:   newFakeCampaignRepo(),
		assignmentRepo: &fakeAssignmentRepo{byUser: make(map[uint][]string)},
		engine:         &fakeEngine{result: targeting.TargetingResult{Evaluated: 5, Assigned: 2, Skipped: 1}},
		guard:          newFakeGuard(),
		notifier:       &fakeNotifier{},
		recorder:       &fakeRecorder{},
	}
	f.svc = NewCampaignService(f.campaignRepo, f.assignmentRepo, f.engine, f.guard, f.notifier, f.recorder, "Admin", "admin@example.com")
	return f
}

// ---- create ----

func TestCreateCampaignSchedulesAndNotifies(t *testing.T) {
	f := newFixture()

	created, err := f.svc.CreateCampaign(context.Background(), &domain.Campaign{
		Name:    "Summer Sale",
		Segment: domain.SegmentLoyal,
	})
	if err != nil {
		t.Fatalf("CreateCampaign returned error: %v", err)
	}

	if created.ID == "" {
		t.Fatal("campaign was not assigned an ID")
	}
	if created.Status != domain.CampaignStatusScheduled {
		t.Fatalf("status = %q, want %q", created.Status, domain.CampaignStatusScheduled)
	}
	if len(f.notifier.sent) != 1 {
		t.Fatalf("notifications = %v, want one", f.notifier.sent)
	}
}

func TestCreateCampaignRejectsInvalidSegment(t *testing.T) {
	f := newFixture()

	for _, seg := range []int{-1, 4, 17} {
		_, err := f.svc.CreateCampaign(context.Background(), &domain.Campaign{Name: "x", Segment: seg})
		if err == nil {
			t.Fatalf("CreateCampaign(segment=%d) should fail", seg)
		}
	}
}

func TestCreateCampaignNotificationFailureIsNonFatal(t *testing.T) {
	f := newFixture()
	f.notifier.err = errors.New("mailer down")

	if _, err := f.svc.CreateCampaign(context.Background(), &domain.Campaign{
		Name:    "Welcome",
		Segment: domain.SegmentNew,
	}); err != nil {
		t.Fatalf("notification failure must not fail campaign creation: %v", err)
	}
}

// ---- launch ----

func TestLaunchRunsScanAndMarksLaunched(t *testing.T) {
	f := newFixture()
	f.campaignRepo.campaigns["c-1"] = domain.Campaign{ID: "c-1", Name: "Sale", Segment: 0}

	result, err := f.svc.Launch(context.Background(), "c-1")
	if err != nil {
		t.Fatalf("Launch returned error: %v", err)
	}

	if result.Assigned != 2 {
		t.Fatalf("result = %+v, want assigned=2", result)
	}
	if got := f.campaignRepo.statuses["c-1"]; got != domain.CampaignStatusLaunched {
		t.Fatalf("status = %q, want %q", got, domain.CampaignStatusLaunched)
	}
	if len(f.engine.scanned) != 1 {
		t.Fatalf("scans = %v, want one", f.engine.scanned)
	}
}

func TestLaunchDuplicateRejected(t *testing.T) {
	f := newFixture()
	f.campaignRepo.campaigns["c-2"] = domain.Campaign{ID: "c-2", Segment: 1}

	if _, err := f.svc.Launch(context.Background(), "c-2"); err != nil {
		t.Fatalf("first launch returned error: %v", err)
	}

	_, err := f.svc.Launch(context.Background(), "c-2")
	if !errors.Is(err, ErrAlreadyLaunched) {
		t.Fatalf("second launch error = %v, want ErrAlreadyLaunched", err)
	}

	// The scan ran exactly once.
	if len(f.engine.scanned) != 1 {
		t.Fatalf("scans = %v, want exactly one", f.engine.scanned)
	}
}

func TestLaunchUnknownCampaign(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.Launch(context.Background(), "missing"); err == nil {
		t.Fatal("Launch of an unknown campaign should fail")
	}
}

func TestLaunchScanFailureKeepsGuardHeld(t *testing.T) {
	f := newFixture()
	f.campaignRepo.campaigns["c-3"] = domain.Campaign{ID: "c-3", Segment: 2}
	f.engine.err = errors.New("assignment store down")

	if _, err := f.svc.Launch(context.Background(), "c-3"); err == nil {
		t.Fatal("Launch should propagate scan failure")
	}

	// A retry is rejected rather than risking double-appended assignments.
	_, err := f.svc.Launch(context.Background(), "c-3")
	if !errors.Is(err, ErrAlreadyLaunched) {
		t.Fatalf("retry error = %v, want ErrAlreadyLaunched", err)
	}
}

func TestLaunchGuardErrorAborts(t *testing.T) {
	f := newFixture()
	f.campaignRepo.campaigns["c-4"] = domain.Campaign{ID: "c-4", Segment: 0}
	f.guard.err = errors.New("redis unavailable")

	if _, err := f.svc.Launch(context.Background(), "c-4"); err == nil {
		t.Fatal("Launch should fail when the guard is unreachable")
	}
	if len(f.engine.scanned) != 0 {
		t.Fatal("scan must not run without the guard")
	}
}

// ---- offers feed ----

func TestOffersForUserReturnsAssignedInOrder(t *testing.T) {
	f := newFixture()
	f.campaignRepo.campaigns["c-a"] = domain.Campaign{ID: "c-a", Name: "First"}
	f.campaignRepo.campaigns["c-b"] = domain.Campaign{ID: "c-b", Name: "Second"}
	f.assignmentRepo.byUser[3] = []string{"c-a", "c-b"}

	offers, err := f.svc.OffersForUser(context.Background(), 3)
	if err != nil {
		t.Fatalf("OffersForUser returned error: %v", err)
	}

	if len(offers) != 2 || offers[0].ID != "c-a" || offers[1].ID != "c-b" {
		t.Fatalf("offers = %+v, want [c-a c-b] in assignment order", offers)
	}

	if len(f.recorder.visits) != 1 || f.recorder.visits[0] != 3 {
		t.Fatalf("visits = %v, want one visit for user 3", f.recorder.visits)
	}
	if len(f.recorder.offersShown) != 1 || f.recorder.offersShown[0] != 2 {
		t.Fatalf("offersShown = %v, want [2]", f.recorder.offersShown)
	}
}

func TestOffersForUserSkipsMissingCampaigns(t *testing.T) {
	f := newFixture()
	f.campaignRepo.campaigns["c-a"] = domain.Campaign{ID: "c-a"}
	f.assignmentRepo.byUser[5] = []string{"c-a", "c-gone"}

	offers, err := f.svc.OffersForUser(context.Background(), 5)
	if err != nil {
		t.Fatalf("OffersForUser returned error: %v", err)
	}

	if len(offers) != 1 || offers[0].ID != "c-a" {
		t.Fatalf("offers = %+v, want just c-a", offers)
	}

	// Only the campaigns actually rendered count as shown.
	if f.recorder.offersShown[0] != 1 {
		t.Fatalf("offersShown = %v, want [1]", f.recorder.offersShown)
	}
}

func TestOffersForUserEmptyFeed(t *testing.T) {
	f := newFixture()

	offers, err := f.svc.OffersForUser(context.Background(), 8)
	if err != nil {
		t.Fatalf("OffersForUser returned error: %v", err)
	}
	if len(offers) != 0 {
		t.Fatalf("offers = %+v, want empty", offers)
	}

	// The visit still counts even when nothing is assigned.
	if len(f.recorder.visits) != 1 {
		t.Fatalf("visits = %v, want one", f.recorder.visits)
	}
}

// ---- click ----

func TestClickCampaignRecordsClick(t *testing.T) {
	f := newFixture()
	f.campaignRepo.campaigns["c-a"] = domain.Campaign{ID: "c-a", Offer: "/sale"}

	clicked, err := f.svc.ClickCampaign(context.Background(), 2, "c-a")
	if err != nil {
		t.Fatalf("ClickCampaign returned error: %v", err)
	}
	if clicked.Offer != "/sale" {
		t.Fatalf("clicked = %+v, want the stored campaign", clicked)
	}

	if len(f.recorder.clicks) != 1 || f.recorder.clicks[0] != 2 {
		t.Fatalf("clicks = %v, want one click for user 2", f.recorder.clicks)
	}
}

func TestClickUnknownCampaignDoesNotRecord(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.ClickCampaign(context.Background(), 2, "missing"); err == nil {
		t.Fatal("ClickCampaign of an unknown campaign should fail")
	}
	if len(f.recorder.clicks) != 0 {
		t.Fatalf("clicks = %v, want none", f.recorder.clicks)
	}
}
