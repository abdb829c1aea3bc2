package ledger

type TransactionType string

const (
	Expense  TransactionType = "EXPENSE"
	Income   TransactionType = "INCOME"
	Transfer TransactionType = "TRANSFER"
)

var TransactionTypes = []TransactionType{Expense, Income, Transfer}

func (t TransactionType) Valid() bool {
	for _, known := range TransactionTypes {
		if t == known {
			return true
		}
	}
	return false
}

type IntervalType string

const (
	Once         IntervalType = "ONCE"
	Daily        IntervalType = "DAILY"
	Weekly       IntervalType = "WEEKLY"
	BiWeekly     IntervalType = "BI_WEEKLY"
	Monthly      IntervalType = "MONTHLY"
	Quarterly    IntervalType = "QUARTERLY"
	SemiAnnually IntervalType = "SEMI_ANNUALLY"
	Annually     IntervalType = "YEARLY"
)

var IntervalTypes = []IntervalType{Once, Daily, Weekly, BiWeekly, Monthly, Quarterly, SemiAnnually, Annually}

func (i IntervalType) Valid() bool {
	for _, known := range IntervalTypes {
		if i == known {
			return true
		}
	}
	return false
}

// Next returns the occurrence following d. Once has no successor and
// returns d unchanged.
func (i IntervalType) Next(d Date) Date {
	return i.NextOn(d, d.Day())
}

// NextOn is Next for a schedule billed on day of the month. Month based
// intervals land on day again once the month is long enough.
func (i IntervalType) NextOn(d Date, day int) Date {
	if day <= 0 {
		day = d.Day()
	}
	switch i {
	case Daily:
		return d.AddDays(1)
	case Weekly:
		return d.AddDays(7)
	case BiWeekly:
		return d.AddDays(14)
	case Monthly:
		return d.AddMonthsOnDay(1, day)
	case Quarterly:
		return d.AddMonthsOnDay(3, day)
	case SemiAnnually:
		return d.AddMonthsOnDay(6, day)
	case Annually:
		return d.AddMonthsOnDay(12, day)
	default:
		return d
	}
}
