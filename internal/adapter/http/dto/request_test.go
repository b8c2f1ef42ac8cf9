package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/ledgerdash/internal/domain"
)

func TestParseDate(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{"calendar date in location", "2024-05-01", time.Date(2024, time.May, 1, 0, 0, 0, 0, paris), false},
		{"rfc3339", "2024-05-01T10:30:00Z", time.Date(2024, time.May, 1, 10, 30, 0, 0, time.UTC), false},
		{"garbage", "01/05/2024", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input, paris)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
		})
	}
}

func TestCreateTransactionRequest_ToUseCaseInput(t *testing.T) {
	var req CreateTransactionRequest
	require.NoError(t, json.Unmarshal([]byte(`{
		"account_id": "acc-1",
		"type": "transfer",
		"amount": "25.40",
		"date": "2024-05-10",
		"transfer_to_account_id": "acc-2"
	}`), &req))

	input, err := req.ToUseCaseInput(time.UTC)
	require.NoError(t, err)

	assert.Equal(t, domain.TransactionTypeTransfer, input.Type)
	assert.True(t, input.Amount.Equal(decimal.RequireFromString("25.4")))
	assert.Equal(t, time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC), input.Date)
	assert.Equal(t, "acc-2", input.TransferToAccountID)
}

func TestCreateTransactionRequest_NumericAmountAndNoDate(t *testing.T) {
	var req CreateTransactionRequest
	require.NoError(t, json.Unmarshal([]byte(`{"account_id":"a","type":"expense","amount":12.5}`), &req))

	input, err := req.ToUseCaseInput(time.UTC)
	require.NoError(t, err)
	assert.True(t, input.Date.IsZero())
	assert.Equal(t, "12.5", input.Amount.String())
}

func TestCreateTransactionRequest_BadDate(t *testing.T) {
	req := CreateTransactionRequest{Date: "yesterday"}
	_, err := req.ToUseCaseInput(time.UTC)
	assert.Error(t, err)
}

func TestUpdateTransactionRequest_OnlySetFields(t *testing.T) {
	var req UpdateTransactionRequest
	require.NoError(t, json.Unmarshal([]byte(`{"amount":"40","type":"income","date":"2024-06-01"}`), &req))

	input, err := req.ToUseCaseInput(time.UTC)
	require.NoError(t, err)

	require.NotNil(t, input.Amount)
	assert.Equal(t, "40", input.Amount.String())
	require.NotNil(t, input.Type)
	assert.Equal(t, domain.TransactionTypeIncome, *input.Type)
	require.NotNil(t, input.Date)
	assert.Equal(t, time.June, input.Date.Month())

	assert.Nil(t, input.AccountID)
	assert.Nil(t, input.CategoryID)
	assert.Nil(t, input.Description)
}

func TestUpdateAccountRequest_ToUseCaseInput(t *testing.T) {
	var req UpdateAccountRequest
	require.NoError(t, json.Unmarshal([]byte(`{"type":"wallet","is_active":false}`), &req))

	input := req.ToUseCaseInput()
	require.NotNil(t, input.Type)
	assert.Equal(t, domain.AccountTypeWallet, *input.Type)
	require.NotNil(t, input.IsActive)
	assert.False(t, *input.IsActive)
	assert.Nil(t, input.Name)
	assert.Nil(t, input.InitialBalance)
}

func TestUpdateSettingsRequest_ClearsDefaultAccount(t *testing.T) {
	var req UpdateSettingsRequest
	require.NoError(t, json.Unmarshal([]byte(`{"default_account_id":"","theme":"dark"}`), &req))

	input := req.ToUseCaseInput()
	require.NotNil(t, input.DefaultAccountID)
	assert.Equal(t, "", *input.DefaultAccountID)
	require.NotNil(t, input.Theme)
	assert.Equal(t, domain.ThemeDark, *input.Theme)
}
