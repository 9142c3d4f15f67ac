// Package seed populates an empty deployment with the initial site
// catalog, a batch of available units per site and a default admin
// account.
package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand"

	"github.com/Domenick1991/mataju/internal/auth"
	"github.com/Domenick1991/mataju/internal/domain"
	"github.com/Domenick1991/mataju/internal/repository"
)

// Unit counts generated per house, per size.
const (
	minUnitsL, maxUnitsL = 5, 8
	minUnitsM, maxUnitsM = 10, 20
	minUnitsS, maxUnitsS = 10, 15
)

type Seeder struct {
	houses repository.HouseRepository
	units  repository.UnitRepository
	users  repository.UserRepository
	rng    *rand.Rand
}

func NewSeeder(houses repository.HouseRepository, units repository.UnitRepository, users repository.UserRepository, seed int64) *Seeder {
	return &Seeder{houses: houses, units: units, users: users, rng: rand.New(rand.NewSource(seed))}
}

// Run seeds houses, units and the default admin. It is a no-op when
// houses already exist, so restarting the service never duplicates data.
func (s *Seeder) Run(ctx context.Context) error {
	count, err := s.houses.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	houses, err := s.SeedHouses(ctx)
	if err != nil {
		return err
	}
	if _, err := s.SeedUnits(ctx, houses); err != nil {
		return err
	}
	return s.seedAdmin(ctx)
}

// SeedHouses inserts the initial site catalog and returns it with
// assigned ids.
func (s *Seeder) SeedHouses(ctx context.Context) ([]domain.House, error) {
	return s.houses.CreateBatch(ctx, SampleHouses())
}

// SeedUnits creates a random number of available units per house and
// size and returns how many were created.
func (s *Seeder) SeedUnits(ctx context.Context, houses []domain.House) (int, error) {
	units := make([]domain.Unit, 0)
	for _, house := range houses {
		units = append(units, s.generateUnits(house.ID, domain.UnitSizeL, s.intn(minUnitsL, maxUnitsL))...)
		units = append(units, s.generateUnits(house.ID, domain.UnitSizeM, s.intn(minUnitsM, maxUnitsM))...)
		units = append(units, s.generateUnits(house.ID, domain.UnitSizeS, s.intn(minUnitsS, maxUnitsS))...)
	}
	if err := s.units.CreateBatch(ctx, units); err != nil {
		return 0, err
	}
	log.Printf("seeded %d units across %d houses", len(units), len(houses))
	return len(units), nil
}

func (s *Seeder) seedAdmin(ctx context.Context) error {
	hash, err := auth.HashPassword("admin")
	if err != nil {
		return err
	}
	admin := &domain.User{
		Name:         "admin",
		PasswordHash: hash,
		Nickname:     "Administrator",
		Roles:        fmt.Sprintf("%s,%s", domain.RoleUser, domain.RoleAdmin),
	}
	return s.users.Create(ctx, admin)
}

func (s *Seeder) generateUnits(houseID int64, size domain.UnitSize, count int) []domain.Unit {
	units := make([]domain.Unit, 0, count)
	for i := 0; i < count; i++ {
		units = append(units, domain.Unit{
			HouseID: houseID,
			Size:    size,
			Status:  domain.UnitStatusAvailable,
		})
	}
	return units
}

func (s *Seeder) intn(min, max int) int {
	return min + s.rng.Intn(max-min+1)
}

// SampleHouses is the initial site catalog, one house per province.
func SampleHouses() []domain.House {
	return []domain.House{
		{Address: "1 Sejong-ro, Jongno-gu", Province: "Seoul", PriceS: 60000, PriceM: 120000, PriceL: 299900},
		{Address: "15 Haeundae-ro 620beon-gil", Province: "Busan", PriceS: 55000, PriceM: 99000, PriceL: 250000},
		{Address: "12 Dongdaegu-ro 85beon-gil", Province: "Daegu", PriceS: 55000, PriceM: 99000, PriceL: 250000},
		{Address: "23-1 Songdo-dong, Yeonsu-gu", Province: "Incheon", PriceS: 46000, PriceM: 88000, PriceL: 200000},
		{Address: "5 Uchi-ro 200beon-gil, Buk-gu", Province: "Gwangju", PriceS: 46000, PriceM: 88000, PriceL: 200000},
		{Address: "10 Dunsan-daero 100beon-gil", Province: "Daejeon", PriceS: 46000, PriceM: 88000, PriceL: 200000},
		{Address: "20 Samsan-ro 95beon-gil, Nam-gu", Province: "Ulsan", PriceS: 42000, PriceM: 70000, PriceL: 160000},
		{Address: "18 Maetan-ro 33beon-gil, Suwon", Province: "Gyeonggi", PriceS: 46000, PriceM: 88000, PriceL: 200000},
		{Address: "7 Jungang-ro 50beon-gil, Chuncheon", Province: "Gangwon", PriceS: 55000, PriceM: 99000, PriceL: 250000},
		{Address: "5 Seowon-ro 17beon-gil, Cheongju", Province: "Chungbuk", PriceS: 35000, PriceM: 65000, PriceL: 160000},
		{Address: "9 Baekseok-ro 25beon-gil, Cheonan", Province: "Chungnam", PriceS: 55000, PriceM: 99000, PriceL: 250000},
		{Address: "23-10 Hyoja-dong 3-ga, Jeonju", Province: "Jeonbuk", PriceS: 35000, PriceM: 65000, PriceL: 160000},
		{Address: "8 Hak-dong 20beon-gil, Yeosu", Province: "Jeonnam", PriceS: 35000, PriceM: 65000, PriceL: 160000},
		{Address: "11 Yangdeok-ro 12beon-gil, Pohang", Province: "Gyeongbuk", PriceS: 35000, PriceM: 65000, PriceL: 160000},
		{Address: "15 Jungang-daero 30beon-gil, Changwon", Province: "Gyeongnam", PriceS: 35000, PriceM: 65000, PriceL: 160000},
	}
}
