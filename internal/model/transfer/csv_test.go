package transfer

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"max.ks1230/expense-tracker/internal/entity/ledger"
	"max.ks1230/expense-tracker/internal/model/customerr"
)

type sourceStub []ledger.Transaction

func (s sourceStub) TransactionsBetween(context.Context, ledger.Date, ledger.Date, ledger.TransactionType) ([]ledger.Transaction, error) {
	return s, nil
}

type importerStub struct {
	got []ledger.Transaction
}

func (i *importerStub) ImportTransactions(_ context.Context, items []ledger.Transaction) (int, error) {
	i.got = items
	return len(items), nil
}

func Test_ExportThenImport(t *testing.T) {
	src := sourceStub{{
		ID: 7, Name: "Coffee, large", Amount: 4.25, AccountID: 1, CategoryID: 2,
		Date: ledger.NewDate(2024, time.March, 3), Type: ledger.Expense, Interval: ledger.Once,
		Description: `said "thanks"`,
	}}

	var buf bytes.Buffer
	n, err := Export(context.Background(), &buf, src, ledger.Date{}, ledger.Date{})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, strings.HasPrefix(buf.String(), "id,name,amount,"))

	dst := &importerStub{}
	n, err = Import(context.Background(), &buf, dst)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	want := src[0]
	want.ID = 0
	assert.Equal(t, []ledger.Transaction{want}, dst.got)
}

func Test_Read_ColumnsByName(t *testing.T) {
	in := "type,date,amount,name,category_id,account_id\nincome,2024-01-31,1000,Salary,3,1\n"
	txs, err := Read(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, ledger.Income, txs[0].Type)
	assert.Equal(t, ledger.Once, txs[0].Interval)
	assert.Equal(t, ledger.NewDate(2024, time.January, 31), txs[0].Date)
}

func Test_Read_Errors(t *testing.T) {
	_, err := Read(strings.NewReader(""))
	assert.True(t, customerr.IsValidation(err))

	_, err = Read(strings.NewReader("name,amount\nx,1\n"))
	assert.True(t, customerr.IsValidation(err))

	in := "name,amount,account_id,category_id,date,type\n" +
		"ok,1,1,1,2024-01-01,EXPENSE\n" +
		"bad,-1,1,1,2024-01-01,EXPENSE\n"
	_, err = Read(strings.NewReader(in))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 3")
	assert.True(t, customerr.IsValidation(err))
}
