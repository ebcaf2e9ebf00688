package repositories

import "context"

// SequenceRepository hands out monotonically increasing counter values.
// Next atomically increments the counter named by scope and returns the
// new value; seed is the value the counter starts from when the scope
// does not exist yet (the first call returns seed+1).
type SequenceRepository interface {
	Next(ctx context.Context, scope string, seed int64) (int64, error)
}
