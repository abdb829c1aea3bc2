package currency

import "time"

const (
	USD = "USD"
	EUR = "EUR"
	GBP = "GBP"
	RUB = "RUB"
	CNY = "CNY"
)

// Currencies is used when the config does not list its own.
var Currencies = []string{USD, EUR, GBP, RUB, CNY}

// Rate is how many units of Name one unit of the base currency buys.
type Rate struct {
	Name      string
	BaseRate  float64
	Set       bool
	UpdatedAt time.Time
}

func Contains(list []string, name string) bool {
	for _, c := range list {
		if c == name {
			return true
		}
	}
	return false
}
