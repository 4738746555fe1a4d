package paymentapimodels

import (
	"jobmarket-backend/models"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func share(role models.PaymentRole, percentage string) Share {
	return Share{
		RecipientType: models.RecipientTypeUser,
		RecipientID:   "user-1",
		Role:          role,
		Percentage:    decimal.RequireFromString(percentage),
	}
}

func TestDistributeRequestValidate(t *testing.T) {
	req := DistributeRequest{Shares: []Share{
		share(models.PaymentRoleReferrer, "60"),
		share(models.PaymentRoleCandidate, "30.5"),
		{RecipientType: models.RecipientTypePlatform, Role: models.PaymentRolePlatformFee, Percentage: decimal.RequireFromString("9.5")},
	}}
	require.NoError(t, req.Validate())

	req.Shares = append(req.Shares, share(models.PaymentRoleHiringManager, "0.01"))
	require.Error(t, req.Validate())

	require.Error(t, DistributeRequest{}.Validate())
	require.Error(t, DistributeRequest{Shares: []Share{share(models.PaymentRoleReferrer, "0")}}.Validate())
	require.Error(t, DistributeRequest{Shares: []Share{share(models.PaymentRoleReferrer, "100.01")}}.Validate())
	require.Error(t, DistributeRequest{Shares: []Share{share(models.PaymentRoleReferrer, "10.005")}}.Validate())
	require.Error(t, DistributeRequest{Shares: []Share{share("stranger", "10")}}.Validate())

	noRecipient := share(models.PaymentRoleCandidate, "10")
	noRecipient.RecipientID = ""
	require.Error(t, DistributeRequest{Shares: []Share{noRecipient}}.Validate())
}

func TestShareAmount(t *testing.T) {
	require.EqualValues(t, 3050, ShareAmount(10000, decimal.RequireFromString("30.5")))
	require.EqualValues(t, 33, ShareAmount(100, decimal.RequireFromString("33.33")))
	require.EqualValues(t, 0, ShareAmount(0, decimal.RequireFromString("50")))
}

func TestNormalizeTransactionHash(t *testing.T) {
	hash, err := NormalizeTransactionHash("0x88DF016429689C079F3B2F6AD39FA052532C56795B733DA78A91EBE6A713944B")
	require.NoError(t, err)
	require.Equal(t, "0x88df016429689c079f3b2f6ad39fa052532c56795b733da78a91ebe6a713944b", hash)

	_, err = NormalizeTransactionHash("0x1234")
	require.Error(t, err)
	_, err = NormalizeTransactionHash("88df016429689c079f3b2f6ad39fa052532c56795b733da78a91ebe6a713944b")
	require.Error(t, err)
}
