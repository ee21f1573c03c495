package vendors_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"procurement/internal/apperr"
	"procurement/internal/vendors"
	"procurement/models"
)

// --- Mocks ---

type MockStore struct {
	mock.Mock
}

func (m *MockStore) InTx(ctx context.Context, fn func(vendors.Store) error) error {
	m.Called(ctx)
	return fn(m)
}

func (m *MockStore) ListVendors(ctx context.Context, f models.VendorFilter) ([]models.Vendor, int, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Vendor), args.Int(1), args.Error(2)
}

func (m *MockStore) GetVendorByCode(ctx context.Context, code string) (*models.Vendor, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vendor), args.Error(1)
}

func (m *MockStore) UpdateVendorStatus(ctx context.Context, id int64, status models.VendorStatus) (*models.Vendor, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vendor), args.Error(1)
}

func (m *MockStore) SetUserVerified(ctx context.Context, userID int64, verified bool) error {
	args := m.Called(ctx, userID, verified)
	return args.Error(0)
}

func (m *MockStore) MiniVendors(ctx context.Context, search string) ([]models.VendorMini, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.VendorMini), args.Error(1)
}

func (m *MockStore) ContractorExists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) AddCredit(ctx context.Context, contractorID, vendorID int64, amount decimal.Decimal) (*models.Credit, error) {
	args := m.Called(ctx, contractorID, vendorID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Credit), args.Error(1)
}

// --- Tests ---

func TestGetVendors_DefaultPage(t *testing.T) {
	store := new(MockStore)
	dir := vendors.NewDirectory(store, 8, nil)

	rows := []models.Vendor{{ID: 12, VendorCode: "VEN1012"}, {ID: 11, VendorCode: "VEN1011"}}
	store.On("ListVendors", mock.Anything, models.VendorFilter{Page: 2, PerPage: 8, Search: "steel"}).Return(rows, 10, nil)

	page, err := dir.GetVendors(context.Background(), models.VendorFilter{Page: 2, Search: "steel"})

	require.NoError(t, err)
	assert.Equal(t, rows, page.Data)
	assert.Equal(t, 10, page.Meta.Total)
	assert.Equal(t, 2, page.Meta.LastPage)
	assert.Nil(t, page.Meta.Next)
	store.AssertExpectations(t)
}

func TestGetVendors_StoreError(t *testing.T) {
	store := new(MockStore)
	dir := vendors.NewDirectory(store, 8, nil)
	store.On("ListVendors", mock.Anything, mock.Anything).Return(nil, 0, errors.New("boom"))

	_, err := dir.GetVendors(context.Background(), models.VendorFilter{})

	appErr := apperr.From(err)
	assert.Equal(t, apperr.KindInternal, appErr.Kind)
	assert.Equal(t, "Cannot get Vendors", appErr.Message)
}

func TestGetVendorDetail_NotFound(t *testing.T) {
	store := new(MockStore)
	dir := vendors.NewDirectory(store, 8, nil)
	store.On("GetVendorByCode", mock.Anything, "VEN404").Return(nil, models.ErrNotFound)

	_, err := dir.GetVendorDetail(context.Background(), "VEN404")

	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestUpdateVendorStatus_Approved(t *testing.T) {
	store := new(MockStore)
	dir := vendors.NewDirectory(store, 8, nil)
	vendor := &models.Vendor{ID: 3, UserID: 30, Status: models.VendorApproved}

	store.On("InTx", mock.Anything).Return()
	store.On("UpdateVendorStatus", mock.Anything, int64(3), models.VendorApproved).Return(vendor, nil)
	store.On("SetUserVerified", mock.Anything, int64(30), true).Return(nil)

	got, err := dir.UpdateVendorStatus(context.Background(), 3, models.VendorApproved)

	require.NoError(t, err)
	assert.Equal(t, vendor, got)
	store.AssertExpectations(t)
}

func TestUpdateVendorStatus_RejectedUnverifies(t *testing.T) {
	store := new(MockStore)
	dir := vendors.NewDirectory(store, 8, nil)
	vendor := &models.Vendor{ID: 3, UserID: 30, Status: models.VendorRejected}

	store.On("InTx", mock.Anything).Return()
	store.On("UpdateVendorStatus", mock.Anything, int64(3), models.VendorRejected).Return(vendor, nil)
	store.On("SetUserVerified", mock.Anything, int64(30), false).Return(nil)

	_, err := dir.UpdateVendorStatus(context.Background(), 3, models.VendorRejected)

	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestUpdateVendorStatus_InvalidStatus(t *testing.T) {
	store := new(MockStore)
	dir := vendors.NewDirectory(store, 8, nil)

	_, err := dir.UpdateVendorStatus(context.Background(), 3, models.VendorStatus("Archived"))

	assert.True(t, apperr.IsKind(err, apperr.KindInvalid))
	store.AssertNotCalled(t, "UpdateVendorStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateVendorStatus_UserUpdateFails(t *testing.T) {
	store := new(MockStore)
	dir := vendors.NewDirectory(store, 8, nil)

	store.On("InTx", mock.Anything).Return()
	store.On("UpdateVendorStatus", mock.Anything, int64(3), models.VendorApproved).Return(&models.Vendor{ID: 3, UserID: 30}, nil)
	store.On("SetUserVerified", mock.Anything, int64(30), true).Return(errors.New("deadlock"))

	_, err := dir.UpdateVendorStatus(context.Background(), 3, models.VendorApproved)

	appErr := apperr.From(err)
	assert.Equal(t, apperr.KindInternal, appErr.Kind)
	assert.Equal(t, "Cannot update Status", appErr.Message)
}

func TestGetMiniList(t *testing.T) {
	store := new(MockStore)
	dir := vendors.NewDirectory(store, 8, nil)
	list := []models.VendorMini{{ID: 1, VendorCode: "VEN1001", CompanyName: "Alpha Steel"}}
	store.On("MiniVendors", mock.Anything, "alp").Return(list, nil)

	got, err := dir.GetMiniList(context.Background(), "alp")

	require.NoError(t, err)
	assert.Equal(t, list, got)
}

func TestUpdateCreditLimit(t *testing.T) {
	store := new(MockStore)
	dir := vendors.NewDirectory(store, 8, nil)
	actor := models.Actor{UserID: 20, Role: models.RoleVendor, VendorID: 2}
	amount := decimal.NewFromInt(5000)
	credit := &models.Credit{ID: 1, ContractorID: 4, VendorID: 2, Amount: decimal.NewFromInt(15000)}

	store.On("ContractorExists", mock.Anything, int64(4)).Return(true, nil)
	store.On("AddCredit", mock.Anything, int64(4), int64(2), amount).Return(credit, nil)

	got, err := dir.UpdateCreditLimit(context.Background(), actor, 4, amount)

	require.NoError(t, err)
	assert.Equal(t, credit, got)
	store.AssertExpectations(t)
}

func TestUpdateCreditLimit_Rejections(t *testing.T) {
	store := new(MockStore)
	dir := vendors.NewDirectory(store, 8, nil)
	vendor := models.Actor{UserID: 20, Role: models.RoleVendor, VendorID: 2}
	contractor := models.Actor{UserID: 10, Role: models.RoleContractor, ContractorID: 4}

	_, err := dir.UpdateCreditLimit(context.Background(), contractor, 4, decimal.NewFromInt(10))
	assert.Equal(t, http.StatusForbidden, apperr.From(err).Status)

	_, err = dir.UpdateCreditLimit(context.Background(), vendor, 4, decimal.Zero)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalid))

	_, err = dir.UpdateCreditLimit(context.Background(), vendor, 4, decimal.RequireFromString("10.005"))
	assert.True(t, apperr.IsKind(err, apperr.KindInvalid))

	_, err = dir.UpdateCreditLimit(context.Background(), vendor, 4, decimal.New(1, 12))
	assert.True(t, apperr.IsKind(err, apperr.KindInvalid))

	store.On("ContractorExists", mock.Anything, int64(99)).Return(false, nil)
	_, err = dir.UpdateCreditLimit(context.Background(), vendor, 99, decimal.NewFromInt(10))
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	store.AssertNotCalled(t, "AddCredit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
