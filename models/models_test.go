package models_test

import (
	"math"
	"testing"

	"procurement/models"

	"github.com/shopspring/decimal"

	"github.com/stretchr/testify/require"
)

func TestDisplayCodes(t *testing.T) {
	require.Equal(t, "ENQ1001", models.EnquiryCode(1))
	require.Equal(t, "ENQ1042", models.EnquiryCode(42))
	require.Equal(t, "OID1001", models.OrderCode(1))
	require.Equal(t, "OID10999", models.OrderCode(9999))
}

func TestValidRole(t *testing.T) {
	require.True(t, models.ValidRole(models.RoleVendor))
	require.True(t, models.ValidRole(models.RoleContractor))
	require.False(t, models.ValidRole(models.Role("GUEST")))
}

func TestNegotiationAccepted(t *testing.T) {
	n := models.Negotiation{StatusFromContractor: models.StatusReplied, StatusFromVendor: models.StatusPending}
	require.False(t, n.Accepted())

	n.StatusFromVendor = models.StatusAccepted
	require.True(t, n.Accepted())
}

func TestNewPage(t *testing.T) {
	p := models.NewPage([]int{1, 2, 3}, 17, 2, 8)
	require.Equal(t, 3, p.Meta.LastPage)
	require.Equal(t, 2, p.Meta.CurrentPage)
	require.NotNil(t, p.Meta.Prev)
	require.Equal(t, 1, *p.Meta.Prev)
	require.NotNil(t, p.Meta.Next)
	require.Equal(t, 3, *p.Meta.Next)

	empty := models.NewPage[int](nil, 0, 1, 8)
	require.NotNil(t, empty.Data)
	require.Nil(t, empty.Meta.Prev)
	require.Nil(t, empty.Meta.Next)
}

func TestNormalizePage(t *testing.T) {
	page, perPage := models.NormalizePage(0, 0, 8)
	require.Equal(t, 1, page)
	require.Equal(t, 8, perPage)
	require.Equal(t, 16, models.Offset(3, 8))
	require.Equal(t, 0, models.Offset(0, 8))

	_, perPage = models.NormalizePage(1, 5000, 8)
	require.Equal(t, models.MaxPerPage, perPage)
}

func TestOffsetSaturates(t *testing.T) {
	require.Equal(t, math.MaxInt, models.Offset(math.MaxInt, 8))
	require.Equal(t, math.MaxInt, models.Offset(math.MaxInt/4, 8))
	require.Equal(t, 0, models.Offset(5, 0))

	page := models.NewPage[int](nil, 3, math.MaxInt, 8)
	require.Empty(t, page.Data)
	require.Nil(t, page.Meta.Next)
}

func TestFitsMoney(t *testing.T) {
	require.True(t, models.FitsMoney(decimal.RequireFromString("90.55")))
	require.True(t, models.FitsMoney(decimal.RequireFromString("90.500")))
	require.True(t, models.FitsMoney(decimal.RequireFromString("999999999999.99")))
	require.False(t, models.FitsMoney(decimal.RequireFromString("90.555")))
	require.False(t, models.FitsMoney(decimal.RequireFromString("1000000000000")))
	require.False(t, models.FitsMoney(decimal.RequireFromString("-1000000000000")))
}
