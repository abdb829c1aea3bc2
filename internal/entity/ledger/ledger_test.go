package ledger

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"max.ks1230/expense-tracker/internal/model/customerr"
)

func Test_Date_JSON(t *testing.T) {
	b := Budget{Amount: 10, CategoryID: 1, StartDate: NewDate(2024, time.March, 5)}

	raw, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"start_date":"2024-03-05"`)
	assert.Contains(t, string(raw), `"end_date":null`)

	var decoded Budget
	require.NoError(t, json.Unmarshal([]byte(`{"start_date":"2024-01-31","end_date":null}`), &decoded))
	assert.Equal(t, NewDate(2024, time.January, 31), decoded.StartDate)
	assert.True(t, decoded.EndDate.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`{"start_date":"31.01.2024"}`), &decoded))
}

func Test_Date_Scan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan("2023-12-24"))
	assert.Equal(t, "2023-12-24", d.String())

	require.NoError(t, d.Scan([]byte("2023-12-25T00:00:00Z")))
	assert.Equal(t, "2023-12-25", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	v, err := d.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func Test_IntervalNext(t *testing.T) {
	jan31 := NewDate(2024, time.January, 31)

	assert.Equal(t, NewDate(2024, time.February, 1), Daily.Next(jan31))
	assert.Equal(t, NewDate(2024, time.February, 7), Weekly.Next(jan31))
	assert.Equal(t, NewDate(2024, time.February, 14), BiWeekly.Next(jan31))
	assert.Equal(t, NewDate(2024, time.February, 29), Monthly.Next(jan31))
	assert.Equal(t, NewDate(2024, time.April, 30), Quarterly.Next(jan31))
	assert.Equal(t, NewDate(2024, time.July, 31), SemiAnnually.Next(jan31))
	assert.Equal(t, NewDate(2025, time.January, 31), Annually.Next(jan31))
	assert.Equal(t, jan31, Once.Next(jan31))
}

func Test_Transaction_Validate(t *testing.T) {
	valid := func() Transaction {
		return Transaction{
			Name:       "Coffee",
			Amount:     3.5,
			AccountID:  1,
			CategoryID: 2,
			Date:       NewDate(2024, time.May, 1),
			Type:       Expense,
		}
	}

	tx := valid()
	require.NoError(t, tx.Validate())
	assert.Equal(t, Once, tx.Interval)

	cases := map[string]func(*Transaction){
		"name":        func(t *Transaction) { t.Name = "" },
		"amount":      func(t *Transaction) { t.Amount = 0 },
		"account_id":  func(t *Transaction) { t.AccountID = 0 },
		"category_id": func(t *Transaction) { t.CategoryID = -1 },
		"date":        func(t *Transaction) { t.Date = Date{} },
		"type":        func(t *Transaction) { t.Type = "GIFT" },
		"interval":    func(t *Transaction) { t.Interval = "HOURLY" },
		"description": func(t *Transaction) { t.Description = strings.Repeat("x", 1001) },
	}
	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			tx := valid()
			mutate(&tx)
			err := tx.Validate()
			var verr *customerr.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, field, verr.Field)
		})
	}
}

func Test_RecurringExpense_RejectsOnce(t *testing.T) {
	r := RecurringExpense{
		Name:        "Netflix",
		Amount:      15.99,
		Interval:    Once,
		BillingDate: NewDate(2024, time.June, 1),
		AccountID:   1,
		CategoryID:  1,
	}
	assert.True(t, customerr.IsValidation(r.Validate()))

	r.Interval = Monthly
	assert.NoError(t, r.Validate())
}

func Test_Budget_Validate_DateOrder(t *testing.T) {
	b := Budget{
		Amount:     100,
		CategoryID: 1,
		StartDate:  NewDate(2024, time.June, 30),
		EndDate:    NewDate(2024, time.June, 1),
	}
	assert.True(t, customerr.IsValidation(b.Validate()))
}

func Test_IntervalNextOn_ReturnsToBillingDay(t *testing.T) {
	feb29 := NewDate(2024, time.February, 29)

	assert.Equal(t, NewDate(2024, time.March, 31), Monthly.NextOn(feb29, 31))
	assert.Equal(t, NewDate(2024, time.April, 30), Monthly.NextOn(NewDate(2024, time.March, 31), 31))
	assert.Equal(t, NewDate(2024, time.May, 31), Quarterly.NextOn(feb29, 31))
	assert.Equal(t, NewDate(2024, time.March, 29), Monthly.NextOn(feb29, 0))
	assert.Equal(t, NewDate(2024, time.March, 7), Weekly.NextOn(feb29, 31))
}

func Test_RecurringExpense_Advance_KeepsBillingDay(t *testing.T) {
	r := RecurringExpense{
		Name:        "Rent",
		Amount:      900,
		Interval:    Monthly,
		BillingDate: NewDate(2024, time.January, 31),
		AccountID:   1,
		CategoryID:  1,
	}
	require.NoError(t, r.Validate())
	assert.Equal(t, 31, r.BillingDay)

	var dates []string
	for i := 0; i < 4; i++ {
		r.Advance()
		require.NoError(t, r.Validate())
		dates = append(dates, r.BillingDate.String())
	}
	assert.Equal(t, []string{"2024-02-29", "2024-03-31", "2024-04-30", "2024-05-31"}, dates)
	assert.Equal(t, 31, r.BillingDay)
}

func Test_RecurringExpense_Validate_ResetsBillingDay(t *testing.T) {
	r := RecurringExpense{
		Name:        "Gym",
		Amount:      30,
		Interval:    Monthly,
		BillingDate: NewDate(2024, time.February, 29),
		BillingDay:  31,
		AccountID:   1,
		CategoryID:  1,
	}
	require.NoError(t, r.Validate())
	assert.Equal(t, 31, r.BillingDay)

	r.BillingDate = NewDate(2024, time.March, 15)
	require.NoError(t, r.Validate())
	assert.Equal(t, 15, r.BillingDay)

	r.BillingDate = NewDate(2024, time.April, 30)
	r.BillingDay = 40
	require.NoError(t, r.Validate())
	assert.Equal(t, 30, r.BillingDay)
}

func Test_TextLimits_MatchValidation(t *testing.T) {
	longName := strings.Repeat("n", 256)
	longDescription := strings.Repeat("d", 1001)

	assert.False(t, NameLimits.Contains(len(longName)))
	assert.True(t, NameLimits.Contains(255))
	assert.False(t, DescriptionLimits.Contains(len(longDescription)))
	assert.True(t, OptionalNameLimits.Contains(0))

	c := Category{Name: longName}
	assert.True(t, customerr.IsValidation(c.Validate()))
	c = Category{Name: "Food", Description: longDescription}
	assert.True(t, customerr.IsValidation(c.Validate()))
}
