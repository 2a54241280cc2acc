package domain

// QuotedTotalCents prices a booking from the garments' list prices with the
// discount applied. Garments rent at a flat price per booking regardless of
// its length. Discounts outside [0, 100] are clamped; the discounted total
// is truncated to whole cents.
func QuotedTotalCents(rentalPriceCents []int32, discountPercent int32) int32 {
	if discountPercent < 0 {
		discountPercent = 0
	}
	if discountPercent > 100 {
		discountPercent = 100
	}

	var total int64
	for _, price := range rentalPriceCents {
		total += int64(price)
	}
	return int32(total * int64(100-discountPercent) / 100)
}
