package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/foodbridge-backend/api/middleware"
	"github.com/angelmondragon/foodbridge-backend/internal/donations"
	"github.com/angelmondragon/foodbridge-backend/internal/donors"
	"github.com/angelmondragon/foodbridge-backend/internal/impact"
	"github.com/angelmondragon/foodbridge-backend/internal/pickups"
	"github.com/angelmondragon/foodbridge-backend/internal/zones"
	"github.com/angelmondragon/foodbridge-backend/pkg/db/models"
)

type stubDonationService struct {
	result  *donations.SubmitResult
	err     error
	donorID uuid.UUID
	input   donations.SubmitInput
	calls   int
}

func (s *stubDonationService) Submit(ctx context.Context, donorID uuid.UUID, input donations.SubmitInput) (*donations.SubmitResult, error) {
	s.calls++
	s.donorID = donorID
	s.input = input
	return s.result, s.err
}

type stubPickupService struct {
	queue    []pickups.QueueEntryDTO
	dto      *pickups.PickupDTO
	err      error
	limit    int
	id       uuid.UUID
	ngo      *string
	accepted int
}

func (s *stubPickupService) ListPending(ctx context.Context, limit int) ([]pickups.QueueEntryDTO, error) {
	s.limit = limit
	return s.queue, s.err
}

func (s *stubPickupService) Accept(ctx context.Context, id uuid.UUID, ngo *string) (*pickups.PickupDTO, error) {
	s.accepted++
	s.id = id
	s.ngo = ngo
	return s.dto, s.err
}

func (s *stubPickupService) Complete(ctx context.Context, id uuid.UUID) (*pickups.PickupDTO, error) {
	s.id = id
	return s.dto, s.err
}

type stubZoneService struct {
	list []zones.ZoneDTO
	err  error
}

func (s stubZoneService) List(ctx context.Context) ([]zones.ZoneDTO, error) {
	return s.list, s.err
}

type stubDonorService struct {
	dashboard *donors.DashboardDTO
	err       error
	donorID   uuid.UUID
}

func (s *stubDonorService) Credit(ctx context.Context, donorID uuid.UUID, quantityKg decimal.Decimal) (*models.DonorProfile, error) {
	return nil, nil
}

func (s *stubDonorService) Dashboard(ctx context.Context, donorID uuid.UUID) (*donors.DashboardDTO, error) {
	s.donorID = donorID
	return s.dashboard, s.err
}

func (s *stubDonorService) ResolveByEmail(ctx context.Context, email string) (*models.DonorProfile, error) {
	return nil, nil
}

func (s *stubDonorService) ResyncTiers(ctx context.Context) (int, error) {
	return 0, nil
}

type stubImpactService struct {
	stats *impact.StatsDTO
	err   error
}

func (s stubImpactService) Get(ctx context.Context) (*impact.StatsDTO, error) {
	return s.stats, s.err
}

func (s stubImpactService) Reconcile(ctx context.Context) (int64, error) {
	return 0, nil
}

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error {
	return s.err
}

func newDonorRequest(method, target, body string, donorID uuid.UUID) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if donorID != uuid.Nil {
		req = req.WithContext(middleware.WithDonorID(req.Context(), donorID.String()))
	}
	return req
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rc := chi.NewRouteContext()
	rc.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}
