// Package time contains time related helpers
package time

import "time"

// Ptr returns a pointer to t or nil if t is zero
func Ptr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// Deref returns the zero time if pt is nil, else *pt
func Deref(pt *time.Time) time.Time {
	if pt == nil {
		return time.Time{}
	}
	return *pt
}

// DaysSince returns the whole days elapsed between then and now.
// Negative when then is in the future
func DaysSince(now, then time.Time) int {
	return int(now.Sub(then).Hours() / 24)
}
