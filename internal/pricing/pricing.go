package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/rasoilink/rasoilink-backend/pkg/errors"
)

// DiscountRate is the flat group-buy discount applied to every order.
var DiscountRate = decimal.NewFromFloat(0.15)

// Line is one priced order line.
type Line struct {
	ItemID          uuid.UUID
	Name            string
	PricePerKgPaise int64
	QuantityKg      int
}

// QuotedLine is a line with its computed amounts.
type QuotedLine struct {
	ItemID              uuid.UUID `json:"item_id"`
	Name                string    `json:"name"`
	PricePerKgPaise     int64     `json:"price_per_kg_paise"`
	QuantityKg          int       `json:"quantity_kg"`
	OriginalPaise       int64     `json:"original_paise"`
	DiscountedPaise     int64     `json:"discounted_paise"`
	SavingsPaise        int64     `json:"savings_paise"`
	DiscountRatePercent int64     `json:"discount_rate_percent"`
}

// Quote is the full price breakdown for a set of lines.
type Quote struct {
	Lines                []QuotedLine `json:"lines"`
	OriginalTotalPaise   int64        `json:"original_total_paise"`
	DiscountedTotalPaise int64        `json:"discounted_total_paise"`
	SavingsPaise         int64        `json:"savings_paise"`
}

// DiscountedAmount applies the flat discount to an amount in paise,
// rounding half away from zero so ₹3.33 becomes ₹2.83, not ₹2.84.
func DiscountedAmount(originalPaise int64) int64 {
	original := decimal.NewFromInt(originalPaise)
	discounted := original.Mul(decimal.NewFromInt(1).Sub(DiscountRate))
	return discounted.Round(0).IntPart()
}

// BuildQuote prices each line and totals the order.
func BuildQuote(lines []Line) (Quote, error) {
	if len(lines) == 0 {
		return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "at least one line is required")
	}

	ratePercent := DiscountRate.Mul(decimal.NewFromInt(100)).IntPart()

	quote := Quote{Lines: make([]QuotedLine, 0, len(lines))}
	for _, line := range lines {
		if line.QuantityKg <= 0 {
			return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
		}
		if line.PricePerKgPaise <= 0 {
			return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
		}

		original := line.PricePerKgPaise * int64(line.QuantityKg)
		discounted := DiscountedAmount(original)

		quote.Lines = append(quote.Lines, QuotedLine{
			ItemID:              line.ItemID,
			Name:                line.Name,
			PricePerKgPaise:     line.PricePerKgPaise,
			QuantityKg:          line.QuantityKg,
			OriginalPaise:       original,
			DiscountedPaise:     discounted,
			SavingsPaise:        original - discounted,
			DiscountRatePercent: ratePercent,
		})
		quote.OriginalTotalPaise += original
	}

	// The discount is taken on the cart total. Summing per-line rounded
	// amounts can come up a paisa short on multi-line carts; the line
	// figures are display only.
	quote.DiscountedTotalPaise = DiscountedAmount(quote.OriginalTotalPaise)
	quote.SavingsPaise = quote.OriginalTotalPaise - quote.DiscountedTotalPaise
	return quote, nil
}
