package viewmodel

import (
	"fmt"
	"strings"
)

// FormatAmount renders an amount in minor currency units, e.g. 1500 usd as
// "15.00 USD".
func FormatAmount(unitAmount int64, currency string) string {
	sign := ""
	if unitAmount < 0 {
		sign = "-"
		unitAmount = -unitAmount
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, unitAmount/100, unitAmount%100, strings.ToUpper(currency))
}

// FormatPrice renders "amount/interval" for recurring prices and the bare
// amount otherwise.
func FormatPrice(unitAmount int64, currency, interval string) string {
	amount := FormatAmount(unitAmount, currency)
	if interval == "" {
		return amount
	}
	return amount + "/" + interval
}
