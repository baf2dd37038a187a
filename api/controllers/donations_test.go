package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/foodbridge-backend/internal/donations"
	"github.com/angelmondragon/foodbridge-backend/internal/donors"
	"github.com/angelmondragon/foodbridge-backend/pkg/db/models"
	"github.com/angelmondragon/foodbridge-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/foodbridge-backend/pkg/errors"
)

type errorEnvelope struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return env
}

func acceptedResult(donorID uuid.UUID) *donations.SubmitResult {
	cooked := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	zoneID := uuid.New()
	return &donations.SubmitResult{
		Accepted: true,
		Donation: &models.Donation{
			ID:               uuid.New(),
			DonorID:          donorID,
			FoodType:         "Rice",
			Category:         enums.FoodCategoryCooked,
			QuantityKg:       decimal.NewFromInt(5),
			CookingTime:      &cooked,
			StorageCondition: enums.StorageConditionHot,
			Status:           enums.DonationStatusValid,
		},
		Tier: donors.ComputeTier(20),
		Zone: &models.HungerZone{ID: zoneID, AreaName: "Dharavi North", HungerScore: 92},
		Pickup: &models.PickupRequest{
			ID:           uuid.New(),
			ZoneID:       zoneID,
			UrgencyScore: 92,
			DistanceKm:   4,
			Status:       enums.PickupStatusPending,
		},
	}
}

func TestSubmitDonationCreated(t *testing.T) {
	donorID := uuid.New()
	svc := &stubDonationService{result: acceptedResult(donorID)}
	body := `{"food_type":" Rice ","category":"cooked","quantity_kg":"5","cooking_time":"2026-01-01T10:00:00Z","storage_condition":"Hot"}`

	rec := httptest.NewRecorder()
	SubmitDonation(svc, nil).ServeHTTP(rec, newDonorRequest(http.MethodPost, "/api/v1/donations", body, donorID))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.donorID != donorID {
		t.Fatalf("expected donor %s got %s", donorID, svc.donorID)
	}
	if svc.input.FoodType != "Rice" || svc.input.Category != enums.FoodCategoryCooked {
		t.Fatalf("unexpected input %+v", svc.input)
	}
	if !svc.input.QuantityKg.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("unexpected quantity %s", svc.input.QuantityKg)
	}

	var env struct {
		Data donations.SubmitResponseDTO `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if env.Data.Pickup == nil || env.Data.Pickup.ZoneName != "Dharavi North" {
		t.Fatalf("expected pickup routed to Dharavi North, got %+v", env.Data.Pickup)
	}
	if env.Data.Tier.Tier != donors.TierBronze {
		t.Fatalf("unexpected tier %+v", env.Data.Tier)
	}
}

func TestSubmitDonationRejected(t *testing.T) {
	svc := &stubDonationService{result: &donations.SubmitResult{Reason: "Too old for non-refrigerated storage"}}
	body := `{"food_type":"Curry","category":"cooked","quantity_kg":2,"cooking_time":"2026-01-01T00:00:00Z","storage_condition":"RoomTemperature"}`

	rec := httptest.NewRecorder()
	SubmitDonation(svc, nil).ServeHTTP(rec, newDonorRequest(http.MethodPost, "/api/v1/donations", body, uuid.New()))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", rec.Code)
	}
	env := decodeError(t, rec)
	if env.Error.Code != string(pkgerrors.CodeRejected) {
		t.Fatalf("unexpected code %s", env.Error.Code)
	}
	if env.Error.Message != "Too old for non-refrigerated storage" {
		t.Fatalf("unexpected message %q", env.Error.Message)
	}
}

func TestSubmitDonationValidation(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		field string
	}{
		{"missing food type", `{"category":"raw","quantity_kg":1,"expiry_date":"2026-02-01T00:00:00Z","storage_condition":"Hot"}`, "food_type"},
		{"bad category", `{"food_type":"Rice","category":"frozen","quantity_kg":1,"storage_condition":"Hot"}`, "category"},
		{"cooked without cooking time", `{"food_type":"Rice","category":"cooked","quantity_kg":1,"storage_condition":"Hot"}`, "cooking_time"},
		{"raw with cooking time", `{"food_type":"Rice","category":"raw","quantity_kg":1,"cooking_time":"2026-01-01T00:00:00Z","expiry_date":"2026-02-01T00:00:00Z","storage_condition":"Hot"}`, "cooking_time"},
		{"bad storage", `{"food_type":"Rice","category":"raw","quantity_kg":1,"expiry_date":"2026-02-01T00:00:00Z","storage_condition":"Frozen"}`, "storage_condition"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubDonationService{}
			rec := httptest.NewRecorder()
			SubmitDonation(svc, nil).ServeHTTP(rec, newDonorRequest(http.MethodPost, "/api/v1/donations", tc.body, uuid.New()))

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 got %d", rec.Code)
			}
			env := decodeError(t, rec)
			if _, ok := env.Error.Details[tc.field]; !ok {
				t.Fatalf("expected details for %s, got %+v", tc.field, env.Error.Details)
			}
			if svc.calls != 0 {
				t.Fatal("service should not be called for invalid input")
			}
		})
	}
}

func TestSubmitDonationUnknownFieldRejected(t *testing.T) {
	svc := &stubDonationService{}
	body := `{"food_type":"Rice","category":"raw","quantity_kg":1,"expiry_date":"2026-02-01T00:00:00Z","storage_condition":"Hot","donor":"x"}`
	rec := httptest.NewRecorder()
	SubmitDonation(svc, nil).ServeHTTP(rec, newDonorRequest(http.MethodPost, "/api/v1/donations", body, uuid.New()))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestSubmitDonationRequiresDonorContext(t *testing.T) {
	svc := &stubDonationService{}
	rec := httptest.NewRecorder()
	SubmitDonation(svc, nil).ServeHTTP(rec, newDonorRequest(http.MethodPost, "/api/v1/donations", `{}`, uuid.Nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestSubmitDonationServiceErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{pkgerrors.New(pkgerrors.CodeNotFound, "donor not found"), http.StatusNotFound},
		{pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("db down"), "persist donation"), pkgerrors.MetadataFor(pkgerrors.CodeDependency).HTTPStatus},
	}
	body := `{"food_type":"Rice","category":"raw","quantity_kg":1,"expiry_date":"2026-02-01T00:00:00Z","storage_condition":"Hot"}`
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		SubmitDonation(&stubDonationService{err: tc.err}, nil).ServeHTTP(rec, newDonorRequest(http.MethodPost, "/api/v1/donations", body, uuid.New()))
		if rec.Code != tc.status {
			t.Fatalf("expected %d got %d", tc.status, rec.Code)
		}
	}
}
