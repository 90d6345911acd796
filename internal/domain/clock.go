package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// the dashboard reads prices and totals as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// Now is the clock used for every timestamp the domain assigns.
var Now = func() time.Time { return time.Now().UTC() }
