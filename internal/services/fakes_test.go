package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"eventbooking/internal/domain"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

const testTimeout = 5 * time.Second

// lockingTx serializes transactions the way the event row lock does and restores
// the stores it snapshots when fn fails.
type lockingTx struct {
	mu        sync.Mutex
	rollbacks []func() func()
	calls     int
}

func (t *lockingTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls++
	var restores []func()
	for _, snap := range t.rollbacks {
		restores = append(restores, snap())
	}
	if err := fn(ctx); err != nil {
		for _, restore := range restores {
			restore()
		}
		return err
	}
	return nil
}

type fakeEventRepo struct {
	mu     sync.Mutex
	byID   map[string]*domain.Event
	locked []string
	err    error
}

func newFakeEventRepo(events ...*domain.Event) *fakeEventRepo {
	f := &fakeEventRepo{byID: make(map[string]*domain.Event)}
	for _, e := range events {
		f.byID[e.ID] = e
	}
	return f
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.byID[e.ID] = e
	return nil
}

func (f *fakeEventRepo) get(id string) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	return f.get(id)
}

func (f *fakeEventRepo) GetForUpdate(ctx context.Context, id string) (*domain.Event, error) {
	f.mu.Lock()
	f.locked = append(f.locked, id)
	f.mu.Unlock()
	return f.get(id)
}

func (f *fakeEventRepo) Update(ctx context.Context, e *domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[e.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *e
	f.byID[e.ID] = &cp
	return nil
}

func (f *fakeEventRepo) ListByOrganizer(ctx context.Context, organizerID string) ([]*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Event
	for _, e := range f.byID {
		if e.OrganizerID == organizerID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (f *fakeEventRepo) ListPublicUpcoming(ctx context.Context, now time.Time, params domain.PaginationParams) ([]*domain.Event, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Event
	for _, e := range f.byID {
		if e.Status == domain.EventStatusPublished && e.StartTime.After(now) {
			out = append(out, e)
		}
	}
	return out, len(out), nil
}

type fakeVenueRepo struct {
	byID map[string]*domain.Venue
	err  error
}

func newFakeVenueRepo(venues ...*domain.Venue) *fakeVenueRepo {
	f := &fakeVenueRepo{byID: make(map[string]*domain.Venue)}
	for _, v := range venues {
		f.byID[v.ID] = v
	}
	return f
}

func (f *fakeVenueRepo) Create(ctx context.Context, v *domain.Venue) error {
	if f.err != nil {
		return f.err
	}
	f.byID[v.ID] = v
	return nil
}

func (f *fakeVenueRepo) GetByID(ctx context.Context, id string) (*domain.Venue, error) {
	v, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return v, nil
}

func (f *fakeVenueRepo) Update(ctx context.Context, v *domain.Venue) error {
	if _, ok := f.byID[v.ID]; !ok {
		return domain.ErrNotFound
	}
	f.byID[v.ID] = v
	return nil
}

func (f *fakeVenueRepo) ListByOrganizer(ctx context.Context, organizerID string) ([]*domain.Venue, error) {
	var out []*domain.Venue
	for _, v := range f.byID {
		if v.OrganizerID == organizerID {
			out = append(out, v)
		}
	}
	return out, nil
}

type fakeBookingRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.Booking
	order     []string
	customers *fakeCustomerRepo
	events    *fakeEventRepo
	createErr error
}

func newFakeBookingRepo(customers *fakeCustomerRepo) *fakeBookingRepo {
	return &fakeBookingRepo{byID: make(map[string]*domain.Booking), customers: customers}
}

// snapshot is registered with lockingTx so failed transactions drop their inserts.
func (f *fakeBookingRepo) snapshot() func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	byID := make(map[string]*domain.Booking, len(f.byID))
	for k, v := range f.byID {
		cp := *v
		byID[k] = &cp
	}
	order := append([]string(nil), f.order...)
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.byID = byID
		f.order = order
	}
}

func (f *fakeBookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	cp := *b
	f.byID[b.ID] = &cp
	f.order = append(f.order, b.ID)
	return nil
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookingRepo) SumActiveQuantity(ctx context.Context, eventID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, b := range f.byID {
		if b.EventID == eventID && b.Status == domain.BookingActive {
			total += b.Quantity
		}
	}
	return total, nil
}

func (f *fakeBookingRepo) HasActiveBooking(ctx context.Context, customerID, eventID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.byID {
		if b.CustomerID == customerID && b.EventID == eventID && b.Status == domain.BookingActive {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBookingRepo) Cancel(ctx context.Context, id string, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.byID[id]
	if !ok || b.Status != domain.BookingActive {
		return false, nil
	}
	b.Status = domain.BookingCancelled
	b.CancelledAt = &at
	return true, nil
}

func (f *fakeBookingRepo) ListByCustomer(ctx context.Context, customerID string) ([]*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Booking
	for _, id := range f.order {
		if b := f.byID[id]; b.CustomerID == customerID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) ListAttendees(ctx context.Context, eventID string) ([]*domain.Attendee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Attendee
	for _, id := range f.order {
		b := f.byID[id]
		if b.EventID != eventID {
			continue
		}
		c := f.customers.byID[b.CustomerID]
		out = append(out, &domain.Attendee{
			BookingID:     b.ID,
			CustomerName:  c.Name,
			CustomerEmail: c.Email,
			Quantity:      b.Quantity,
			Status:        b.Status,
			TotalPrice:    b.TotalPrice,
			SelectedDay:   b.SelectedDay,
			BookedAt:      b.BookedAt,
		})
	}
	return out, nil
}

func (f *fakeBookingRepo) ListForOrganizer(ctx context.Context, organizerID, eventID string) ([]*domain.OrganizerBooking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*domain.OrganizerBooking{}
	for i := len(f.order) - 1; i >= 0; i-- {
		b := f.byID[f.order[i]]
		if eventID != "" && b.EventID != eventID {
			continue
		}
		ev, err := f.events.GetByID(ctx, b.EventID)
		if err != nil || ev.OrganizerID != organizerID {
			continue
		}
		c := f.customers.byID[b.CustomerID]
		out = append(out, &domain.OrganizerBooking{
			BookingID:     b.ID,
			EventID:       b.EventID,
			EventTitle:    ev.Title,
			CustomerName:  c.Name,
			CustomerEmail: c.Email,
			Quantity:      b.Quantity,
			Status:        b.Status,
			TotalPrice:    b.TotalPrice,
			SelectedDay:   b.SelectedDay,
			BookedAt:      b.BookedAt,
		})
	}
	return out, nil
}

func (f *fakeBookingRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID)
}

type fakePaymentRepo struct {
	mu        sync.Mutex
	byBooking map[string]*domain.Payment
	err       error
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{byBooking: make(map[string]*domain.Payment)}
}

func (f *fakePaymentRepo) snapshot() func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	saved := make(map[string]*domain.Payment, len(f.byBooking))
	for k, v := range f.byBooking {
		saved[k] = v
	}
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.byBooking = saved
	}
}

func (f *fakePaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.byBooking[p.BookingID] = p
	return nil
}

func (f *fakePaymentRepo) GetByBookingID(ctx context.Context, bookingID string) (*domain.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byBooking[bookingID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

type fakeUserRepo struct {
	byID map[string]*domain.User
	err  error
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	f := &fakeUserRepo{byID: make(map[string]*domain.User)}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	if f.err != nil {
		return f.err
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return domain.ErrDuplicateEmail
		}
	}
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

type fakeProfileRepo struct {
	mu     sync.Mutex
	byUser map[string]*domain.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{byUser: make(map[string]*domain.Profile)}
}

func (f *fakeProfileRepo) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byUser[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfileRepo) GetByCustomerID(ctx context.Context, customerID string) (*domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.byUser {
		if p.CustomerID != nil && *p.CustomerID == customerID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeProfileRepo) row(userID string) *domain.Profile {
	p, ok := f.byUser[userID]
	if !ok {
		p = &domain.Profile{UserID: userID}
		f.byUser[userID] = p
	}
	return p
}

func (f *fakeProfileRepo) SetCustomer(ctx context.Context, userID, customerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for uid, p := range f.byUser {
		if uid != userID && p.CustomerID != nil && *p.CustomerID == customerID {
			return domain.ErrDuplicateEmail
		}
	}
	f.row(userID).CustomerID = &customerID
	return nil
}

func (f *fakeProfileRepo) SetOrganizer(ctx context.Context, userID string, organizerID *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.row(userID).OrganizerID = organizerID
	return nil
}

type fakeCustomerRepo struct {
	mu   sync.Mutex
	byID map[string]*domain.Customer
}

func newFakeCustomerRepo(customers ...*domain.Customer) *fakeCustomerRepo {
	f := &fakeCustomerRepo{byID: make(map[string]*domain.Customer)}
	for _, c := range customers {
		f.byID[c.ID] = c
	}
	return f
}

func (f *fakeCustomerRepo) Create(ctx context.Context, c *domain.Customer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.Email == c.Email {
			return domain.ErrDuplicateEmail
		}
	}
	f.byID[c.ID] = c
	return nil
}

func (f *fakeCustomerRepo) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (f *fakeCustomerRepo) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.byID {
		if c.Email == email {
			return c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCustomerRepo) Update(ctx context.Context, c *domain.Customer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[c.ID]; !ok {
		return domain.ErrNotFound
	}
	for _, existing := range f.byID {
		if existing.ID != c.ID && existing.Email == c.Email {
			return domain.ErrDuplicateEmail
		}
	}
	f.byID[c.ID] = c
	return nil
}

type fakeOrganizerRepo struct {
	byID map[string]*domain.Organizer
}

func newFakeOrganizerRepo(orgs ...*domain.Organizer) *fakeOrganizerRepo {
	f := &fakeOrganizerRepo{byID: make(map[string]*domain.Organizer)}
	for _, o := range orgs {
		f.byID[o.ID] = o
	}
	return f
}

func (f *fakeOrganizerRepo) Create(ctx context.Context, o *domain.Organizer) error {
	f.byID[o.ID] = o
	return nil
}

func (f *fakeOrganizerRepo) GetByID(ctx context.Context, id string) (*domain.Organizer, error) {
	o, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrganizerRepo) GetByEmail(ctx context.Context, email string) (*domain.Organizer, error) {
	for _, o := range f.byID {
		if o.Email == email {
			cp := *o
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeOrganizerRepo) UpdateStatus(ctx context.Context, id string, status domain.OrganizerStatus, at time.Time) error {
	o, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = at
	return nil
}

func (f *fakeOrganizerRepo) ListByStatus(ctx context.Context, status domain.OrganizerStatus) ([]*domain.Organizer, error) {
	var out []*domain.Organizer
	for _, o := range f.byID {
		if status == "" || o.Status == status {
			out = append(out, o)
		}
	}
	return out, nil
}

type fakeCache struct {
	mu          sync.Mutex
	stored      map[string]*domain.OrganizerSummary
	invalidated []string
	getErr      error
}

func newFakeCache() *fakeCache {
	return &fakeCache{stored: make(map[string]*domain.OrganizerSummary)}
}

func (f *fakeCache) Get(ctx context.Context, organizerID string) (*domain.OrganizerSummary, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	s, ok := f.stored[organizerID]
	return s, ok, nil
}

func (f *fakeCache) Set(ctx context.Context, s *domain.OrganizerSummary) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stored[s.OrganizerID] = s
	return nil
}

func (f *fakeCache) Invalidate(ctx context.Context, organizerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.stored, organizerID)
	f.invalidated = append(f.invalidated, organizerID)
	return nil
}

type fakeEmailService struct {
	mu        sync.Mutex
	receipts  []*domain.BookingReceiptEmailData
	decisions []*domain.OrganizerDecisionEmailData
	err       error
}

func (f *fakeEmailService) SendBookingReceipt(ctx context.Context, data *domain.BookingReceiptEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.receipts = append(f.receipts, data)
	return f.err
}

func (f *fakeEmailService) SendOrganizerDecision(ctx context.Context, data *domain.OrganizerDecisionEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.decisions = append(f.decisions, data)
	return f.err
}

var errDB = errors.New("db down")
