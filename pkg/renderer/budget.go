package renderer

import "fmt"

// Budget counts how many workers may run at once. Take hands out as much of
// the request as is available rather than waiting for all of it.
//
// A Budget is owned by a single goroutine and is not safe for concurrent use.
type Budget struct {
	total int
	inUse int
}

// NewBudget creates a budget of total permits. Totals below 1 are raised to 1.
func NewBudget(total int) *Budget {
	return &Budget{total: max(1, total)}
}

// Take claims up to n permits and returns how many were granted
func (b *Budget) Take(n int) int {
	granted := max(0, min(n, b.total-b.inUse))
	b.inUse += granted
	return granted
}

// Return gives back n previously taken permits
func (b *Budget) Return(n int) {
	if n < 0 || n > b.inUse {
		panic(fmt.Sprintf("renderer: returning %d permits with %d in use", n, b.inUse))
	}
	b.inUse -= n
}

// Available returns the number of permits that can still be taken
func (b *Budget) Available() int { return b.total - b.inUse }

// InUse returns the number of permits currently taken
func (b *Budget) InUse() int { return b.inUse }

// Total returns the size of the budget
func (b *Budget) Total() int { return b.total }
