package middleware

import "context"

type contextKey string

const ctxDonorID contextKey = "donor_id"

// DonorIDFromContext returns the donor id resolved for the request, if any.
func DonorIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxDonorID).(string); ok {
		return v
	}
	return ""
}

// WithDonorID injects the donor identifier into the context for downstream handlers.
func WithDonorID(ctx context.Context, donorID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxDonorID, donorID)
}
