package zones

import (
	"context"
	"testing"

	"github.com/angelmondragon/foodbridge-backend/internal/testdb"
	"github.com/angelmondragon/foodbridge-backend/pkg/enums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceListReturnsSeededZonesNeediestFirst(t *testing.T) {
	conn := testdb.New(t)
	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)

	zones, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, zones, 6)

	assert.Equal(t, testdb.DharaviZoneID, zones[0].ID)
	assert.Equal(t, 92, zones[0].HungerScore)
	assert.Equal(t, enums.PriorityLevelHigh, zones[0].PriorityLevel)
	assert.NotZero(t, zones[0].Coordinates.Lat)
	for i := 1; i < len(zones); i++ {
		assert.GreaterOrEqual(t, zones[i-1].HungerScore, zones[i].HungerScore)
	}
}

func TestSeededZonesRouteToDharavi(t *testing.T) {
	conn := testdb.New(t)
	zones, err := NewRepository(conn).List(context.Background())
	require.NoError(t, err)

	chosen, ok := NewPriorityStrategy().Select(zones)
	require.True(t, ok)
	assert.Equal(t, testdb.DharaviZoneID, chosen.ID)
}

func TestNewServiceRequiresRepo(t *testing.T) {
	_, err := NewService(nil)
	require.Error(t, err)
}
