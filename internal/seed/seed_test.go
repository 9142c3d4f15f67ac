package seed

import (
	"context"
	"testing"

	"github.com/Domenick1991/mataju/internal/domain"
	"github.com/Domenick1991/mataju/internal/repository/memory"
	"github.com/stretchr/testify/assert"
)

func TestSeeder_Run(t *testing.T) {
	houses := memory.NewHouseStore()
	units := memory.NewUnitStore()
	users := memory.NewUserStore()
	seeder := NewSeeder(houses, units, users, 1)

	ctx := context.Background()
	err := seeder.Run(ctx)
	assert.NoError(t, err)

	seeded, err := houses.List(ctx)
	assert.NoError(t, err)
	assert.Len(t, seeded, len(SampleHouses()))

	for _, house := range seeded {
		list, err := units.ListByHouse(ctx, house.ID)
		assert.NoError(t, err)

		counts := map[domain.UnitSize]int{}
		for _, u := range list {
			assert.Equal(t, domain.UnitStatusAvailable, u.Status)
			assert.Nil(t, u.UserID)
			counts[u.Size]++
		}
		assert.GreaterOrEqual(t, counts[domain.UnitSizeL], minUnitsL)
		assert.LessOrEqual(t, counts[domain.UnitSizeL], maxUnitsL)
		assert.GreaterOrEqual(t, counts[domain.UnitSizeM], minUnitsM)
		assert.LessOrEqual(t, counts[domain.UnitSizeM], maxUnitsM)
		assert.GreaterOrEqual(t, counts[domain.UnitSizeS], minUnitsS)
		assert.LessOrEqual(t, counts[domain.UnitSizeS], maxUnitsS)
	}

	admin, err := users.GetByName(ctx, "admin")
	assert.NoError(t, err)
	assert.NotNil(t, admin)
	assert.True(t, admin.HasRole(domain.RoleAdmin))
}

func TestSeeder_Run_Idempotent(t *testing.T) {
	houses := memory.NewHouseStore()
	units := memory.NewUnitStore()
	users := memory.NewUserStore()
	seeder := NewSeeder(houses, units, users, 1)

	ctx := context.Background()
	assert.NoError(t, seeder.Run(ctx))

	first, err := houses.Count(ctx)
	assert.NoError(t, err)

	// second run must not touch anything
	assert.NoError(t, seeder.Run(ctx))

	second, err := houses.Count(ctx)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSampleHouses_PricesSet(t *testing.T) {
	for _, house := range SampleHouses() {
		assert.NotEmpty(t, house.Province)
		assert.Greater(t, house.PriceS, int64(0))
		assert.Greater(t, house.PriceM, house.PriceS)
		assert.Greater(t, house.PriceL, house.PriceM)
	}
}
