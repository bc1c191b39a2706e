package utils

import "math"

// RoundCents rounds an amount to two decimal places.
func RoundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// ToMinorUnits converts an amount to integer cents for payment gateways.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
