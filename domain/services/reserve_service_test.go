package services

import (
	"context"
	"testing"

	"superfan/domain/entities"
	"superfan/domain/testhelpers"

	"github.com/stretchr/testify/assert"
)

func TestReserveCalculator_CalculateReserveTarget(t *testing.T) {
	calc := NewReserveCalculator()

	tests := []struct {
		name        string
		outstanding int64
		settleCents int64
		want        int64
	}{
		{
			name:        "round figures",
			outstanding: 1000,
			settleCents: 100,
			want:        95000,
		},
		{
			name:        "single point rounds up to a cent",
			outstanding: 1,
			settleCents: 1,
			want:        1,
		},
		{
			name:        "fractional cents round up",
			outstanding: 3,
			settleCents: 33,
			// 99 cents of liability * 0.95 = 94.05
			want: 95,
		},
		{
			name:        "zero outstanding needs no reserve",
			outstanding: 0,
			settleCents: 100,
			want:        0,
		},
		{
			name:        "zero settle price needs no reserve",
			outstanding: 1000,
			settleCents: 0,
			want:        0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calc.CalculateReserveTarget(tt.outstanding, tt.settleCents))
		})
	}
}

func TestReserveCalculator_CalculateReserveDelta(t *testing.T) {
	calc := NewReserveCalculator()

	// The delta applies the same per-point factor as the target, so topping
	// up per purchase keeps pace with the target as liability grows
	assert.Equal(t, calc.CalculateReserveTarget(500, 100), calc.CalculateReserveDelta(500, 100))
	assert.Equal(t, int64(47500), calc.CalculateReserveDelta(500, 100))
}

func TestReserveCalculator_CalculateUpfrontAmount(t *testing.T) {
	calc := NewReserveCalculator()

	tests := []struct {
		name         string
		grossCents   int64
		reserveCents int64
		want         int64
	}{
		{
			name:         "fee and reserve come off the top",
			grossCents:   10000,
			reserveCents: 950,
			want:         8050,
		},
		{
			name:         "fractional fee rounds up",
			grossCents:   105,
			reserveCents: 0,
			want:         94,
		},
		{
			name:         "upfront never goes negative",
			grossCents:   100,
			reserveCents: 95,
			want:         0,
		},
		{
			name:         "zero gross",
			grossCents:   0,
			reserveCents: 0,
			want:         0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calc.CalculateUpfrontAmount(tt.grossCents, tt.reserveCents))
		})
	}
}

func TestReserveCalculator_CalculateCoverageRatio(t *testing.T) {
	calc := NewReserveCalculator()

	assert.Equal(t, 1.0, calc.CalculateCoverageRatio(0))
	assert.Equal(t, 1.0, calc.CalculateCoverageRatio(95000))
}

func TestReserveService_GetReserveSummary(t *testing.T) {
	ctx := context.Background()

	t.Run("reports position against outstanding liability", func(t *testing.T) {
		mockClubRepo := new(testhelpers.MockClubRepository)
		mockWalletRepo := new(testhelpers.MockPointWalletRepository)
		service := NewReserveService(mockClubRepo, mockWalletRepo)

		club := &entities.Club{
			ID:               7,
			PointSettleCents: 100,
			ReserveCents:     50000,
		}
		mockClubRepo.On("GetByID", ctx, int64(7)).Return(club, nil)
		mockWalletRepo.On("TotalOutstandingByClub", ctx).Return(int64(1000), nil)

		summary, err := service.GetReserveSummary(ctx, 7)
		assert.NoError(t, err)
		assert.Equal(t, int64(7), summary.ClubID)
		assert.Equal(t, int64(1000), summary.OutstandingPts)
		assert.Equal(t, int64(95000), summary.TargetCents)
		assert.Equal(t, int64(50000), summary.ReserveCents)
		assert.Equal(t, 1.0, summary.CoverageRatio)

		mockClubRepo.AssertExpectations(t)
		mockWalletRepo.AssertExpectations(t)
	})

	t.Run("unknown club", func(t *testing.T) {
		mockClubRepo := new(testhelpers.MockClubRepository)
		mockWalletRepo := new(testhelpers.MockPointWalletRepository)
		service := NewReserveService(mockClubRepo, mockWalletRepo)

		mockClubRepo.On("GetByID", ctx, int64(99)).Return(nil, nil)

		_, err := service.GetReserveSummary(ctx, 99)
		assert.ErrorIs(t, err, entities.ErrClubNotFound)
	})
}
