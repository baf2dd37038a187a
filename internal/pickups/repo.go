package pickups

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/foodbridge-backend/internal/repo"
	"github.com/angelmondragon/foodbridge-backend/pkg/db/models"
	"github.com/angelmondragon/foodbridge-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var errUnboundTx = errors.New("pickup transition must run inside a transaction")

// Repository persists pickup requests.
type Repository struct {
	repo.Base
}

// NewRepository constructs a pickup repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

// Create inserts a pickup request, assigning an id when missing.
func (r *Repository) Create(ctx context.Context, pickup *models.PickupRequest) error {
	if pickup.ID == uuid.Nil {
		pickup.ID = uuid.New()
	}
	return r.DB(ctx).Create(pickup).Error
}

// FindByID loads a pickup request.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.PickupRequest, error) {
	var pickup models.PickupRequest
	if err := r.DB(ctx).Where("id = ?", id).First(&pickup).Error; err != nil {
		return nil, err
	}
	return &pickup, nil
}

// QueueRow is one pending pickup joined with its donation and zone.
type QueueRow struct {
	ID               uuid.UUID
	UrgencyScore     float64
	DistanceKm       int
	Status           enums.PickupStatus
	CreatedAt        time.Time
	DonationID       uuid.UUID
	FoodType         string
	Category         enums.FoodCategory
	QuantityKg       decimal.Decimal
	CookingTime      *time.Time
	ExpiryDate       *time.Time
	StorageCondition enums.StorageCondition
	ZoneID           uuid.UUID
	AreaName         string
	HungerScore      int
	PriorityLevel    enums.PriorityLevel
	Lat              float64
	Lng              float64
}

const queueSelect = `p.id, p.urgency_score, p.distance_km, p.status, p.created_at,
	d.id AS donation_id, d.food_type, d.category, d.quantity_kg, d.cooking_time, d.expiry_date, d.storage_condition,
	z.id AS zone_id, z.area_name, z.hunger_score, z.priority_level, z.lat, z.lng`

// ListPending returns pending requests, most urgent first and oldest first on ties.
func (r *Repository) ListPending(ctx context.Context, limit int) ([]QueueRow, error) {
	q := r.DB(ctx).
		Table("pickup_requests AS p").
		Select(queueSelect).
		Joins("JOIN donations AS d ON d.id = p.donation_id").
		Joins("JOIN hunger_zones AS z ON z.id = p.zone_id").
		Where("p.status = ?", enums.PickupStatusPending).
		Order("p.urgency_score DESC").
		Order("p.created_at ASC").
		Order("p.id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []QueueRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkAccepted moves a Pending request to Accepted. It reports false when the
// request is missing or was already taken.
func (r *Repository) MarkAccepted(ctx context.Context, id uuid.UUID, ngo *string, at time.Time) (bool, error) {
	if !r.Bound() {
		return false, errUnboundTx
	}
	return r.Transition(ctx, &models.PickupRequest{}, map[string]any{
		"status":       enums.PickupStatusAccepted,
		"assigned_ngo": ngo,
		"accepted_at":  at,
		"updated_at":   at,
	}, "id = ? AND status = ?", id, enums.PickupStatusPending)
}

// MarkCompleted moves an Accepted request to Completed.
func (r *Repository) MarkCompleted(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	if !r.Bound() {
		return false, errUnboundTx
	}
	return r.Transition(ctx, &models.PickupRequest{}, map[string]any{
		"status":       enums.PickupStatusCompleted,
		"completed_at": at,
		"updated_at":   at,
	}, "id = ? AND status = ?", id, enums.PickupStatusAccepted)
}
