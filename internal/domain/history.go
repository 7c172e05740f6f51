package domain

// HistoryCapacity bounds the recent-bookings buffer.
const HistoryCapacity = 1000

// History is a bounded FIFO of created bookings. Every booking ever
// created is appended, regardless of later cancellation; when full, the
// oldest entry is evicted.
type History struct {
	capacity int
	entries  []*Booking
}

func NewHistory(capacity int) *History {
	return &History{capacity: capacity}
}

func (h *History) Append(b *Booking) {
	if len(h.entries) == h.capacity {
		copy(h.entries, h.entries[1:])
		h.entries[len(h.entries)-1] = b
		return
	}
	h.entries = append(h.entries, b)
}

// Recent returns the last n entries, most recent last. If n exceeds the
// buffer size, all entries are returned.
func (h *History) Recent(n int) []*Booking {
	if n > len(h.entries) {
		n = len(h.entries)
	}
	if n <= 0 {
		return nil
	}
	out := make([]*Booking, n)
	copy(out, h.entries[len(h.entries)-n:])
	return out
}

func (h *History) Len() int {
	return len(h.entries)
}
