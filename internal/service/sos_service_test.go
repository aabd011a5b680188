package service

import (
	"context"
	"testing"

	"github.com/campuspool/campuspool/internal/models"
)

type sosEnv struct {
	*testEnv
	sosRepo *fakeSosRepo
	sos     SosService
}

func newSosEnv() *sosEnv {
	env := newTestEnv()
	sosRepo := newFakeSosRepo()
	return &sosEnv{
		testEnv: env,
		sosRepo: sosRepo,
		sos:     NewSosService(sosRepo, env.requestRepo, env.rideRepo),
	}
}

// startTrip walks a request to ongoing and returns it.
func (e *sosEnv) startTrip(t *testing.T, driver, rider *models.User) *models.RideRequest {
	t.Helper()
	ctx := context.Background()

	ride := e.postRide(t, driver, 2, 300)
	request, err := e.requests.CreateRequest(ctx, rider, ride.ID)
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}
	accepted, err := e.requests.AcceptRequest(ctx, driver, request.ID)
	if err != nil {
		t.Fatalf("AcceptRequest: %v", err)
	}
	started, err := e.requests.StartRide(ctx, driver, request.ID, *accepted.PIN)
	if err != nil {
		t.Fatalf("StartRide: %v", err)
	}
	return started
}

func TestTriggerSos(t *testing.T) {
	env := newSosEnv()
	ctx := context.Background()

	driver := env.addUser(t, testDriver())
	rider := env.addUser(t, testRider())
	trip := env.startTrip(t, driver, rider)

	lat, lng := 12.9716, 77.5946
	event, err := env.sos.Trigger(ctx, rider, &models.TriggerSosRequest{
		RideRequestID: trip.ID,
		Latitude:      &lat,
		Longitude:     &lng,
		Message:       "car stopped on the highway",
	})
	if err != nil {
		t.Fatalf("Trigger: %v", err)
	}
	if event.Status != models.SosStatusActive {
		t.Fatalf("status = %q, want active", event.Status)
	}
	if event.TriggeredBy != rider.ID {
		t.Errorf("triggered_by = %s, want rider", event.TriggeredBy)
	}

	// The driver can raise one too, and duplicates are allowed.
	if _, err := env.sos.Trigger(ctx, driver, &models.TriggerSosRequest{RideRequestID: trip.ID}); err != nil {
		t.Fatalf("driver trigger: %v", err)
	}
	if _, err := env.sos.Trigger(ctx, rider, &models.TriggerSosRequest{RideRequestID: trip.ID}); err != nil {
		t.Fatalf("repeated trigger: %v", err)
	}

	counts, _ := env.sosRepo.CountsByStatus(ctx)
	if counts[models.SosStatusActive] != 3 {
		t.Errorf("active events = %d, want 3", counts[models.SosStatusActive])
	}
}

func TestTriggerSosRequiresOngoingTrip(t *testing.T) {
	env := newSosEnv()
	ctx := context.Background()

	driver := env.addUser(t, testDriver())
	rider := env.addUser(t, testRider())
	ride := env.postRide(t, driver, 2, 300)

	request, err := env.requests.CreateRequest(ctx, rider, ride.ID)
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}

	_, err = env.sos.Trigger(ctx, rider, &models.TriggerSosRequest{RideRequestID: request.ID})
	if code := statusCode(t, err); code != 409 {
		t.Fatalf("sos on requested trip status = %d, want 409", code)
	}
}

func TestTriggerSosRequiresParticipant(t *testing.T) {
	env := newSosEnv()
	ctx := context.Background()

	driver := env.addUser(t, testDriver())
	rider := env.addUser(t, testRider())
	trip := env.startTrip(t, driver, rider)

	stranger := testRider()
	stranger.Email = "stranger@rvce.edu.in"
	env.addUser(t, stranger)

	_, err := env.sos.Trigger(ctx, stranger, &models.TriggerSosRequest{RideRequestID: trip.ID})
	if code := statusCode(t, err); code != 403 {
		t.Fatalf("status = %d, want 403", code)
	}
}

func TestSosReviewFlow(t *testing.T) {
	env := newSosEnv()
	ctx := context.Background()

	driver := env.addUser(t, testDriver())
	rider := env.addUser(t, testRider())
	admin := env.addUser(t, testAdmin())
	trip := env.startTrip(t, driver, rider)

	event, err := env.sos.Trigger(ctx, rider, &models.TriggerSosRequest{RideRequestID: trip.ID})
	if err != nil {
		t.Fatalf("Trigger: %v", err)
	}

	// Non-admins cannot triage.
	if _, err := env.sos.Review(ctx, driver, event.ID, ""); err == nil {
		t.Error("expected a driver's review to fail")
	}

	reviewed, err := env.sos.Review(ctx, admin, event.ID, "called the rider")
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if reviewed.Status != models.SosStatusReviewed {
		t.Fatalf("status = %q, want reviewed", reviewed.Status)
	}

	// Review is not repeatable.
	if _, err := env.sos.Review(ctx, admin, event.ID, ""); err == nil {
		t.Error("expected a second review to fail")
	}

	resolved, err := env.sos.Resolve(ctx, admin, event.ID, "false alarm")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.Status != models.SosStatusResolved {
		t.Fatalf("status = %q, want resolved", resolved.Status)
	}
	if resolved.ResolvedAt == nil {
		t.Fatal("expected resolved_at to be set")
	}

	// Resolved is terminal.
	if _, err := env.sos.Review(ctx, admin, event.ID, ""); err == nil {
		t.Error("expected review after resolution to fail")
	}
	if _, err := env.sos.Resolve(ctx, admin, event.ID, ""); err == nil {
		t.Error("expected a second resolution to fail")
	}
}

func TestSosResolveDirectlyFromActive(t *testing.T) {
	env := newSosEnv()
	ctx := context.Background()

	driver := env.addUser(t, testDriver())
	rider := env.addUser(t, testRider())
	admin := env.addUser(t, testAdmin())
	trip := env.startTrip(t, driver, rider)

	event, err := env.sos.Trigger(ctx, rider, &models.TriggerSosRequest{RideRequestID: trip.ID})
	if err != nil {
		t.Fatalf("Trigger: %v", err)
	}

	// The review step may be skipped.
	resolved, err := env.sos.Resolve(ctx, admin, event.ID, "handled by campus security")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.Status != models.SosStatusResolved {
		t.Fatalf("status = %q, want resolved", resolved.Status)
	}
}

func TestSosListCounts(t *testing.T) {
	env := newSosEnv()
	ctx := context.Background()

	driver := env.addUser(t, testDriver())
	rider := env.addUser(t, testRider())
	admin := env.addUser(t, testAdmin())
	trip := env.startTrip(t, driver, rider)

	first, _ := env.sos.Trigger(ctx, rider, &models.TriggerSosRequest{RideRequestID: trip.ID})
	env.sos.Trigger(ctx, driver, &models.TriggerSosRequest{RideRequestID: trip.ID})
	if _, err := env.sos.Resolve(ctx, admin, first.ID, ""); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if _, err := env.sos.List(ctx, rider, ""); err == nil {
		t.Error("expected non-admin list to fail")
	}

	resp, err := env.sos.List(ctx, admin, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(resp.Events) != 2 {
		t.Fatalf("got %d events, want 2", len(resp.Events))
	}
	if resp.Counts[models.SosStatusActive] != 1 || resp.Counts[models.SosStatusResolved] != 1 {
		t.Errorf("counts = %v, want 1 active and 1 resolved", resp.Counts)
	}

	active, err := env.sos.List(ctx, admin, models.SosStatusActive)
	if err != nil {
		t.Fatalf("List active: %v", err)
	}
	if len(active.Events) != 1 {
		t.Fatalf("got %d active events, want 1", len(active.Events))
	}
}
