package affiliate

import (
	"context"
	"errors"
	"testing"

	"ms-checkout/internal/logger"
	"ms-checkout/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) GetAffiliateByCode(ctx context.Context, code string) (*models.Affiliate, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Affiliate), args.Error(1)
}

func (m *MockStore) GetCommissionSettings(ctx context.Context, eventID string) (*models.CommissionSettings, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CommissionSettings), args.Error(1)
}

func (m *MockStore) CreateAffiliateSale(ctx context.Context, sale models.AffiliateSale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockStore) IncrementTotals(ctx context.Context, affiliateID string, saleCents, commissionCents int64) error {
	args := m.Called(ctx, affiliateID, saleCents, commissionCents)
	return args.Error(0)
}

func activeAffiliate() *models.Affiliate {
	return &models.Affiliate{ID: "aff-1", AffiliateCode: "PROMO10", Status: models.AffiliateActive}
}

func TestResolveActiveAffiliate(t *testing.T) {
	store := new(MockStore)
	store.On("GetAffiliateByCode", mock.Anything, "PROMO10").Return(activeAffiliate(), nil)

	aff, err := NewAttributor(store, logger.NewLogger()).Resolve(context.Background(), "PROMO10")
	require.NoError(t, err)
	require.NotNil(t, aff)
	assert.Equal(t, "aff-1", aff.ID)
}

func TestResolveInactiveStatusesReturnNil(t *testing.T) {
	for _, status := range []models.AffiliateStatus{models.AffiliatePending, models.AffiliateSuspended, models.AffiliateRejected} {
		store := new(MockStore)
		a := activeAffiliate()
		a.Status = status
		store.On("GetAffiliateByCode", mock.Anything, "PROMO10").Return(a, nil)

		aff, err := NewAttributor(store, logger.NewLogger()).Resolve(context.Background(), "PROMO10")
		require.NoError(t, err)
		assert.Nil(t, aff, "status %s should not resolve", status)
	}
}

func TestResolveEmptyCode(t *testing.T) {
	store := new(MockStore)
	aff, err := NewAttributor(store, logger.NewLogger()).Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, aff)
	store.AssertNotCalled(t, "GetAffiliateByCode")
}

func TestCommissionCappedAtMax(t *testing.T) {
	// R$100 sale at 10% with a R$5 cap pays R$5, not R$10.
	settings := &models.CommissionSettings{
		Type:               models.CommissionPercentage,
		Value:              10,
		MaxCommissionCents: 500,
		IsActive:           true,
	}
	assert.Equal(t, int64(500), Commission(settings, 10000))
}

func TestCommissionUncapped(t *testing.T) {
	settings := &models.CommissionSettings{Type: models.CommissionPercentage, Value: 10, IsActive: true}
	assert.Equal(t, int64(1000), Commission(settings, 10000))
}

func TestCommissionFixed(t *testing.T) {
	settings := &models.CommissionSettings{Type: models.CommissionFixed, Value: 250, IsActive: true}
	assert.Equal(t, int64(250), Commission(settings, 10000))
}

func TestRecordSaleUsesPlatformDefaultWhenSettingsMissing(t *testing.T) {
	store := new(MockStore)
	store.On("GetCommissionSettings", mock.Anything, "event-1").Return(nil, nil)
	store.On("CreateAffiliateSale", mock.Anything, mock.MatchedBy(func(s models.AffiliateSale) bool {
		return s.CommissionCents == 1000 && s.CommissionStatus == models.CommissionPending
	})).Return(nil)
	store.On("IncrementTotals", mock.Anything, "aff-1", int64(10000), int64(1000)).Return(nil)

	ok := NewAttributor(store, logger.NewLogger()).RecordSale(context.Background(), activeAffiliate(), "event-1", 10000, SaleRefs{OrderID: "order-1"})
	assert.True(t, ok)
	store.AssertExpectations(t)
}

func TestRecordSaleFailureIsNonFatal(t *testing.T) {
	store := new(MockStore)
	store.On("GetCommissionSettings", mock.Anything, "event-1").Return(nil, nil)
	store.On("CreateAffiliateSale", mock.Anything, mock.Anything).Return(errors.New("insert failed"))

	ok := NewAttributor(store, logger.NewLogger()).RecordSale(context.Background(), activeAffiliate(), "event-1", 10000, SaleRefs{OrderID: "order-1"})
	assert.False(t, ok)
	store.AssertNotCalled(t, "IncrementTotals")
}

func TestRecordSaleIncrementFailureStillNonFatal(t *testing.T) {
	store := new(MockStore)
	store.On("GetCommissionSettings", mock.Anything, "event-1").Return(nil, nil)
	store.On("CreateAffiliateSale", mock.Anything, mock.Anything).Return(nil)
	store.On("IncrementTotals", mock.Anything, "aff-1", int64(10000), int64(1000)).Return(errors.New("conflict"))

	ok := NewAttributor(store, logger.NewLogger()).RecordSale(context.Background(), activeAffiliate(), "event-1", 10000, SaleRefs{OrderID: "order-1"})
	assert.False(t, ok)
}
