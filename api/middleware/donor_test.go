package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/foodbridge-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/foodbridge-backend/pkg/errors"
)

type stubResolver struct {
	id    uuid.UUID
	err   error
	calls int
}

func (s *stubResolver) ResolveByEmail(ctx context.Context, email string) (*models.DonorProfile, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &models.DonorProfile{ID: s.id, Email: email}, nil
}

func serveDonor(t *testing.T, mw func(http.Handler) http.Handler, header string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	var seen string
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = DonorIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/donors/me/dashboard", nil)
	if header != "" {
		req.Header.Set(DonorIDHeader, header)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, seen
}

func TestDonorContextUsesHeader(t *testing.T) {
	resolver := &stubResolver{id: uuid.New()}
	explicit := uuid.New()

	rec, seen := serveDonor(t, DonorContext(resolver, "demo@foodbridge.org", nil), "  "+explicit.String()+" ")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, explicit.String(), seen)
	assert.Zero(t, resolver.calls)
}

func TestDonorContextFallsBackToDemoDonorOnce(t *testing.T) {
	resolver := &stubResolver{id: uuid.New()}
	mw := DonorContext(resolver, "demo@foodbridge.org", nil)

	for i := 0; i < 3; i++ {
		rec, seen := serveDonor(t, mw, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, resolver.id.String(), seen)
	}
	assert.Equal(t, 1, resolver.calls)
}

func TestDonorContextRejectsMalformedHeader(t *testing.T) {
	rec, seen := serveDonor(t, DonorContext(&stubResolver{id: uuid.New()}, "demo@foodbridge.org", nil), "not-a-uuid")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, seen)
	assert.Contains(t, rec.Body.String(), string(pkgerrors.CodeValidation))
}

func TestDonorContextRetriesFailedFallback(t *testing.T) {
	resolver := &stubResolver{err: pkgerrors.Wrap(pkgerrors.CodeNotFound, errors.New("missing"), "donor not found")}
	mw := DonorContext(resolver, "demo@foodbridge.org", nil)

	rec, _ := serveDonor(t, mw, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	resolver.err = nil
	resolver.id = uuid.New()
	rec, seen := serveDonor(t, mw, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, resolver.id.String(), seen)
	assert.Equal(t, 2, resolver.calls)
}

func TestDonorContextWithoutFallbackRequiresHeader(t *testing.T) {
	rec, _ := serveDonor(t, DonorContext(nil, "", nil), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
