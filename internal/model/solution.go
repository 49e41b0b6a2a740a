package model

// Solution is a chosen subsequence of bet options and its sum
type Solution struct {
	Bets  []int // in option order
	Total int
}
