package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/robertarktes/capsule-hotel/internal/domain"
	"github.com/robertarktes/capsule-hotel/internal/idempotency"
	"github.com/robertarktes/capsule-hotel/internal/service"
)

type Handlers struct {
	svc   *service.Service
	idemp *idempotency.Idempotency
}

// NewHandlers builds the admin API handlers. idemp may be nil when no
// redis is configured; booking creation then runs without replay.
func NewHandlers(svc *service.Service, idemp *idempotency.Idempotency) *Handlers {
	return &Handlers{svc: svc, idemp: idemp}
}

type guestView struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Passport     string  `json:"passport"`
	Phone        string  `json:"phone"`
	DiscountRate float64 `json:"discount_rate,omitempty"`
}

type capsuleView struct {
	ID            int     `json:"id"`
	Type          string  `json:"type"`
	PricePerNight float64 `json:"price_per_night"`
	Available     bool    `json:"available"`
}

type bookingView struct {
	ID        int     `json:"id"`
	GuestID   int     `json:"guest_id"`
	CapsuleID int     `json:"capsule_id"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Nights    int     `json:"nights"`
	Total     float64 `json:"total"`
	Paid      bool    `json:"paid"`
}

func viewGuest(g *domain.Guest) guestView {
	return guestView{ID: g.ID, Name: g.Name, Passport: g.Passport, Phone: g.Phone, DiscountRate: g.DiscountRate}
}

func viewCapsule(c *domain.Capsule) capsuleView {
	return capsuleView{ID: c.ID, Type: string(c.Type), PricePerNight: c.PricePerNight, Available: c.IsAvailable()}
}

func viewBooking(b *domain.Booking) bookingView {
	return bookingView{
		ID:        b.ID,
		GuestID:   b.Guest.ID,
		CapsuleID: b.Capsule.ID,
		StartDate: b.StartDate.Format(domain.DateFormat),
		EndDate:   b.EndDate.Format(domain.DateFormat),
		Nights:    b.Nights(),
		Total:     b.Total(),
		Paid:      b.IsPaid(),
	}
}

// statusFor maps the domain error taxonomy to HTTP codes: validation to
// 400, missing references to 404, state conflicts to 409.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrGuestNotFound),
		errors.Is(err, domain.ErrCapsuleNotFound),
		errors.Is(err, domain.ErrBookingNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrCapsuleUnavailable),
		errors.Is(err, domain.ErrAlreadyPaid),
		errors.Is(err, domain.ErrPaymentLocked):
		return http.StatusConflict
	case errors.Is(err, domain.ErrDuplicatePassport),
		errors.Is(err, domain.ErrDateRangeInvalid),
		errors.Is(err, domain.ErrDateInPast),
		errors.Is(err, domain.ErrDurationTooLong),
		errors.Is(err, domain.ErrInvalidDiscount):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

func urlID(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "id"))
}

func (h *Handlers) RegisterGuest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Passport string `json:"passport"`
		Phone    string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	g, err := h.svc.RegisterGuest(r.Context(), req.Name, req.Passport, req.Phone)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewGuest(g))
}

func (h *Handlers) GrantDiscount(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	var req struct {
		Rate float64 `json:"rate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	g, err := h.svc.GrantDiscount(r.Context(), id, req.Rate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewGuest(g))
}

func (h *Handlers) ListGuests(w http.ResponseWriter, r *http.Request) {
	guests := h.svc.Guests()
	out := make([]guestView, 0, len(guests))
	for _, g := range guests {
		out = append(out, viewGuest(g))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) GetGuest(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	g, err := h.svc.Guest(id)
	if err != nil {
		writeError(w, err)
		return
	}

	active := g.ActiveBookings(time.Time{})
	bookings := make([]bookingView, 0, len(active))
	for _, b := range active {
		bookings = append(bookings, viewBooking(b))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"guest":           viewGuest(g),
		"active_bookings": bookings,
	})
}

func (h *Handlers) AddCapsule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c, err := h.svc.AddCapsule(r.Context(), domain.CapsuleType(req.Type))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewCapsule(c))
}

func (h *Handlers) ListCapsules(w http.ResponseWriter, r *http.Request) {
	capsules := h.svc.Capsules()
	out := make([]capsuleView, 0, len(capsules))
	for _, c := range capsules {
		out = append(out, viewCapsule(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) AvailableCapsules(w http.ResponseWriter, r *http.Request) {
	var asOf time.Time
	if s := r.URL.Query().Get("date"); s != "" {
		parsed, err := domain.ParseDate(s)
		if err != nil {
			http.Error(w, "invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		asOf = parsed
	}

	capsules := h.svc.AvailableCapsules(asOf)
	out := make([]capsuleView, 0, len(capsules))
	for _, c := range capsules {
		out = append(out, viewCapsule(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) CreateBooking(w http.ResponseWriter, r *http.Request) {
	key := r.Header.Get("Idempotency-Key")
	if h.idemp != nil && key != "" {
		existing, err := h.idemp.Get(r.Context(), key)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if existing != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(existing.Status)
			w.Write(existing.Result)
			return
		}
	}

	var req struct {
		GuestID   int    `json:"guest_id"`
		CapsuleID int    `json:"capsule_id"`
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	start, err := domain.ParseDate(req.StartDate)
	if err != nil {
		http.Error(w, "invalid start_date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	end, err := domain.ParseDate(req.EndDate)
	if err != nil {
		http.Error(w, "invalid end_date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	b, err := h.svc.CreateBooking(r.Context(), req.GuestID, req.CapsuleID, start, end)
	if err != nil {
		writeError(w, err)
		return
	}

	data, _ := json.Marshal(viewBooking(b))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	w.Write(data)

	if h.idemp != nil && key != "" {
		h.idemp.Set(r.Context(), key, idempotency.Response{Status: http.StatusCreated, Result: data})
	}
}

func (h *Handlers) ListBookings(w http.ResponseWriter, r *http.Request) {
	bookings := h.svc.Bookings()
	out := make([]bookingView, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, viewBooking(b))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) RecentBookings(w http.ResponseWriter, r *http.Request) {
	count := 0
	if s := r.URL.Query().Get("count"); s != "" {
		parsed, err := strconv.Atoi(s)
		if err != nil {
			http.Error(w, "invalid count", http.StatusBadRequest)
			return
		}
		count = parsed
	}

	recent := h.svc.RecentBookings(count)
	out := make([]bookingView, 0, len(recent))
	for _, b := range recent {
		out = append(out, viewBooking(b))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) MarkPaid(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	b, err := h.svc.MarkPaid(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewBooking(b))
}

func (h *Handlers) CheckOut(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.CheckOut(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) GuestStatistics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.GuestStatistics(r.Context()))
}

func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
