package middleware

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/angelmondragon/foodbridge-backend/api/responses"
	"github.com/angelmondragon/foodbridge-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/foodbridge-backend/pkg/errors"
	"github.com/angelmondragon/foodbridge-backend/pkg/logger"
)

// DonorIDHeader carries the caller-supplied donor identity.
const DonorIDHeader = "X-Donor-Id"

type donorResolver interface {
	ResolveByEmail(ctx context.Context, email string) (*models.DonorProfile, error)
}

// DonorContext resolves the acting donor from X-Donor-Id, falling back to the
// configured demo donor when the header is absent. The fallback is looked up
// once and then reused.
func DonorContext(resolver donorResolver, defaultEmail string, logg *logger.Logger) func(http.Handler) http.Handler {
	var (
		mu       sync.Mutex
		fallback string
	)
	resolveDefault := func(ctx context.Context) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		if fallback != "" {
			return fallback, nil
		}
		if resolver == nil || defaultEmail == "" {
			return "", pkgerrors.New(pkgerrors.CodeValidation, DonorIDHeader+" header required")
		}
		profile, err := resolver.ResolveByEmail(ctx, defaultEmail)
		if err != nil {
			return "", err
		}
		fallback = profile.ID.String()
		return fallback, nil
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			donorID := strings.TrimSpace(r.Header.Get(DonorIDHeader))
			if donorID != "" {
				parsed, err := uuid.Parse(donorID)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+DonorIDHeader+" header"))
					return
				}
				donorID = parsed.String()
			} else {
				resolved, err := resolveDefault(ctx)
				if err != nil {
					responses.WriteError(ctx, logg, w, err)
					return
				}
				donorID = resolved
			}

			ctx = WithDonorID(ctx, donorID)
			if logg != nil {
				ctx = logg.WithDonorID(ctx, donorID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
