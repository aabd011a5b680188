package service

import (
	"context"
	"sort"
	"sync"
	"time"

	apperrors "github.com/campuspool/campuspool/internal/errors"
	"github.com/campuspool/campuspool/internal/models"
	"github.com/google/uuid"
)

// In-memory repository fakes. The ride-request fake mirrors the transactional
// accept semantics of the real repository: the seat decrement and the status
// change happen under one lock, with the same sentinel errors.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now()
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) UpdateVerificationStatus(ctx context.Context, id, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user, ok := f.users[id]; ok {
		user.VerificationStatus = status
	}
	return nil
}

func (f *fakeUserRepo) List(ctx context.Context) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	users := make([]*models.User, 0, len(f.users))
	for _, user := range f.users {
		copied := *user
		users = append(users, &copied)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

type fakeRideRepo struct {
	mu    sync.Mutex
	rides map[string]*models.Ride
}

func newFakeRideRepo() *fakeRideRepo {
	return &fakeRideRepo{rides: make(map[string]*models.Ride)}
}

func (f *fakeRideRepo) Create(ctx context.Context, ride *models.Ride) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ride.ID == "" {
		ride.ID = uuid.New().String()
	}
	ride.Status = models.RideStatusPosted
	ride.AvailableSeats = ride.TotalSeats
	ride.CreatedAt = time.Now()
	copied := *ride
	f.rides[ride.ID] = &copied
	return nil
}

func (f *fakeRideRepo) GetByID(ctx context.Context, id string) (*models.Ride, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ride, ok := f.rides[id]
	if !ok {
		return nil, nil
	}
	copied := *ride
	return &copied, nil
}

func (f *fakeRideRepo) List(ctx context.Context, destination, date string) ([]*models.RideDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var details []*models.RideDetail
	for _, ride := range f.rides {
		if ride.Status != models.RideStatusPosted || ride.AvailableSeats <= 0 {
			continue
		}
		details = append(details, &models.RideDetail{Ride: *ride})
	}
	return details, nil
}

func (f *fakeRideRepo) ListByDriver(ctx context.Context, driverID string) ([]*models.Ride, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var rides []*models.Ride
	for _, ride := range f.rides {
		if ride.DriverID == driverID {
			copied := *ride
			rides = append(rides, &copied)
		}
	}
	return rides, nil
}

func (f *fakeRideRepo) ListAll(ctx context.Context) ([]*models.RideDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var details []*models.RideDetail
	for _, ride := range f.rides {
		details = append(details, &models.RideDetail{Ride: *ride})
	}
	return details, nil
}

func (f *fakeRideRepo) Update(ctx context.Context, ride *models.Ride) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *ride
	f.rides[ride.ID] = &copied
	return nil
}

func (f *fakeRideRepo) UpdateStatus(ctx context.Context, id, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ride, ok := f.rides[id]; ok {
		ride.Status = status
	}
	return nil
}

func (f *fakeRideRepo) UpdateStatusFrom(ctx context.Context, id, from, to string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ride, ok := f.rides[id]; ok && ride.Status == from {
		ride.Status = to
	}
	return nil
}

func (f *fakeRideRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rides, id)
	return nil
}

type fakeRequestRepo struct {
	mu       sync.Mutex
	requests map[string]*models.RideRequest
	rideRepo *fakeRideRepo
}

func newFakeRequestRepo(rideRepo *fakeRideRepo) *fakeRequestRepo {
	return &fakeRequestRepo{
		requests: make(map[string]*models.RideRequest),
		rideRepo: rideRepo,
	}
}

func (f *fakeRequestRepo) Create(ctx context.Context, request *models.RideRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if request.ID == "" {
		request.ID = uuid.New().String()
	}
	request.Status = models.RequestStatusRequested
	request.CreatedAt = time.Now()
	copied := *request
	f.requests[request.ID] = &copied
	return nil
}

func (f *fakeRequestRepo) GetByID(ctx context.Context, id string) (*models.RideRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	request, ok := f.requests[id]
	if !ok {
		return nil, nil
	}
	copied := *request
	return &copied, nil
}

func (f *fakeRequestRepo) GetNonRejectedByRideAndRider(ctx context.Context, rideID, riderID string) (*models.RideRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, request := range f.requests {
		if request.RideID == rideID && request.RiderID == riderID && request.Status != models.RequestStatusRejected {
			copied := *request
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeRequestRepo) Accept(ctx context.Context, requestID, pin string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rideRepo.mu.Lock()
	defer f.rideRepo.mu.Unlock()

	request, ok := f.requests[requestID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if request.Status != models.RequestStatusRequested {
		return apperrors.ErrInvalidTransition
	}

	ride, ok := f.rideRepo.rides[request.RideID]
	if !ok || ride.AvailableSeats <= 0 {
		return apperrors.ErrSeatsExhausted
	}
	ride.AvailableSeats--

	request.Status = models.RequestStatusAccepted
	request.PIN = &pin
	return nil
}

func (f *fakeRequestRepo) Reject(ctx context.Context, requestID string) error {
	return f.guarded(requestID, models.RequestStatusRequested, models.RequestStatusRejected, nil)
}

func (f *fakeRequestRepo) Start(ctx context.Context, requestID string, at time.Time) error {
	return f.guarded(requestID, models.RequestStatusAccepted, models.RequestStatusOngoing, func(r *models.RideRequest) {
		r.RideStartedAt = &at
	})
}

func (f *fakeRequestRepo) Complete(ctx context.Context, requestID string, at time.Time) error {
	return f.guarded(requestID, models.RequestStatusOngoing, models.RequestStatusCompleted, func(r *models.RideRequest) {
		r.ReachedSafelyAt = &at
	})
}

func (f *fakeRequestRepo) CompleteOngoingByRide(ctx context.Context, rideID string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, request := range f.requests {
		if request.RideID == rideID && request.Status == models.RequestStatusOngoing {
			request.Status = models.RequestStatusCompleted
			request.ReachedSafelyAt = &at
		}
	}
	return nil
}

func (f *fakeRequestRepo) ListByRider(ctx context.Context, riderID string) ([]*models.RideRequestDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var details []*models.RideRequestDetail
	for _, request := range f.requests {
		if request.RiderID == riderID {
			details = append(details, &models.RideRequestDetail{RideRequest: *request})
		}
	}
	return details, nil
}

func (f *fakeRequestRepo) ListByRide(ctx context.Context, rideID string) ([]*models.RideRequestDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var details []*models.RideRequestDetail
	for _, request := range f.requests {
		if request.RideID == rideID {
			details = append(details, &models.RideRequestDetail{RideRequest: *request})
		}
	}
	return details, nil
}

func (f *fakeRequestRepo) ListPendingByDriver(ctx context.Context, driverID string) ([]*models.RideRequestDetail, error) {
	return f.listByDriverInStatus(driverID, []string{models.RequestStatusRequested})
}

func (f *fakeRequestRepo) ListAcceptedByDriver(ctx context.Context, driverID string) ([]*models.RideRequestDetail, error) {
	return f.listByDriverInStatus(driverID, []string{
		models.RequestStatusAccepted, models.RequestStatusOngoing, models.RequestStatusCompleted,
	})
}

func (f *fakeRequestRepo) CountByRideInStatus(ctx context.Context, rideID string, statuses []string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, request := range f.requests {
		if request.RideID == rideID && contains(statuses, request.Status) {
			count++
		}
	}
	return count, nil
}

func (f *fakeRequestRepo) guarded(requestID, from, to string, apply func(*models.RideRequest)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	request, ok := f.requests[requestID]
	if !ok || request.Status != from {
		return apperrors.ErrInvalidTransition
	}
	request.Status = to
	if apply != nil {
		apply(request)
	}
	return nil
}

func (f *fakeRequestRepo) listByDriverInStatus(driverID string, statuses []string) ([]*models.RideRequestDetail, error) {
	rides, _ := f.rideRepo.ListByDriver(context.Background(), driverID)
	rideIDs := make(map[string]bool, len(rides))
	for _, ride := range rides {
		rideIDs[ride.ID] = true
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	var details []*models.RideRequestDetail
	for _, request := range f.requests {
		if rideIDs[request.RideID] && contains(statuses, request.Status) {
			details = append(details, &models.RideRequestDetail{RideRequest: *request})
		}
	}
	return details, nil
}

type fakeSosRepo struct {
	mu     sync.Mutex
	events map[string]*models.SosEvent
}

func newFakeSosRepo() *fakeSosRepo {
	return &fakeSosRepo{events: make(map[string]*models.SosEvent)}
}

func (f *fakeSosRepo) Create(ctx context.Context, event *models.SosEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	event.Status = models.SosStatusActive
	event.CreatedAt = time.Now()
	copied := *event
	f.events[event.ID] = &copied
	return nil
}

func (f *fakeSosRepo) GetByID(ctx context.Context, id string) (*models.SosEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	event, ok := f.events[id]
	if !ok {
		return nil, nil
	}
	copied := *event
	return &copied, nil
}

func (f *fakeSosRepo) List(ctx context.Context, status string) ([]*models.SosEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var events []*models.SosEvent
	for _, event := range f.events {
		if status != "" && event.Status != status {
			continue
		}
		copied := *event
		events = append(events, &copied)
	}
	return events, nil
}

func (f *fakeSosRepo) CountsByStatus(ctx context.Context) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[string]int{
		models.SosStatusActive:   0,
		models.SosStatusReviewed: 0,
		models.SosStatusResolved: 0,
	}
	for _, event := range f.events {
		counts[event.Status]++
	}
	return counts, nil
}

func (f *fakeSosRepo) MarkReviewed(ctx context.Context, id, notes string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	event, ok := f.events[id]
	if !ok || event.Status != models.SosStatusActive {
		return apperrors.ErrInvalidTransition
	}
	event.Status = models.SosStatusReviewed
	if notes != "" {
		event.AdminNotes = &notes
	}
	return nil
}

func (f *fakeSosRepo) MarkResolved(ctx context.Context, id, notes string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	event, ok := f.events[id]
	if !ok || event.Status == models.SosStatusResolved {
		return apperrors.ErrInvalidTransition
	}
	event.Status = models.SosStatusResolved
	event.ResolvedAt = &at
	if notes != "" {
		event.AdminNotes = &notes
	}
	return nil
}

type fakeChatRepo struct {
	mu       sync.Mutex
	messages []*models.ChatMessage
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{}
}

func (f *fakeChatRepo) Create(ctx context.Context, message *models.ChatMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	message.CreatedAt = time.Now()
	copied := *message
	f.messages = append(f.messages, &copied)
	return nil
}

func (f *fakeChatRepo) ListByRequest(ctx context.Context, requestID string) ([]*models.ChatMessageDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var details []*models.ChatMessageDetail
	for _, message := range f.messages {
		if message.RideRequestID == requestID {
			details = append(details, &models.ChatMessageDetail{ChatMessage: *message})
		}
	}
	return details, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Test actors.

func testDriver() *models.User {
	return &models.User{
		ID:                 uuid.New().String(),
		Email:              "driver@rvce.edu.in",
		Name:               "Test Driver",
		Role:               models.RoleDriver,
		VerificationStatus: models.VerificationVerified,
	}
}

func testRider() *models.User {
	return &models.User{
		ID:                 uuid.New().String(),
		Email:              "rider@rvce.edu.in",
		Name:               "Test Rider",
		Role:               models.RoleRider,
		VerificationStatus: models.VerificationVerified,
	}
}

func testAdmin() *models.User {
	return &models.User{
		ID:                 uuid.New().String(),
		Email:              "admin@rvce.edu.in",
		Name:               "Admin",
		Role:               models.RoleAdmin,
		IsAdmin:            true,
		VerificationStatus: models.VerificationVerified,
	}
}
