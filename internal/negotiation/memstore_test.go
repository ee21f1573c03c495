package negotiation_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"procurement/internal/negotiation"
	"procurement/models"
)

// memStore is an in-memory Store. InTx snapshots the state and restores it
// when fn fails, which is enough to observe rollback in tests.
type memStore struct {
	enquiries    map[int64]models.Enquiry
	negotiations map[int64]models.Negotiation
	orders       map[int64]models.Order
	contractors  map[int64]string
	products     map[int64]models.Product
	rates        []models.DailyRate

	nextEnquiry, nextNegotiation, nextOrder int64

	failUpdate error
	clock      time.Time

	// onListContractors runs after the contractor names are read.
	onListContractors func()
}

func newMemStore() *memStore {
	return &memStore{
		enquiries:    map[int64]models.Enquiry{},
		negotiations: map[int64]models.Negotiation{},
		orders:       map[int64]models.Order{},
		contractors:  map[int64]string{},
		products:     map[int64]models.Product{},
		clock:        time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

type snapshot struct {
	enquiries    map[int64]models.Enquiry
	negotiations map[int64]models.Negotiation
	orders       map[int64]models.Order
	ids          [3]int64
}

func copyMap[K comparable, V any](src map[K]V) map[K]V {
	dst := make(map[K]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func (m *memStore) InTx(ctx context.Context, fn func(negotiation.Store) error) error {
	snap := snapshot{
		enquiries:    copyMap(m.enquiries),
		negotiations: copyMap(m.negotiations),
		orders:       copyMap(m.orders),
		ids:          [3]int64{m.nextEnquiry, m.nextNegotiation, m.nextOrder},
	}
	if err := fn(m); err != nil {
		m.enquiries = snap.enquiries
		m.negotiations = snap.negotiations
		m.orders = snap.orders
		m.nextEnquiry, m.nextNegotiation, m.nextOrder = snap.ids[0], snap.ids[1], snap.ids[2]
		return err
	}
	return nil
}

func (m *memStore) CreateEnquiry(ctx context.Context, e *models.Enquiry) error {
	m.nextEnquiry++
	e.ID = m.nextEnquiry
	e.CreatedAt = m.tick()
	m.enquiries[e.ID] = *e
	return nil
}

func (m *memStore) SetEnquiryCode(ctx context.Context, id int64, code string) error {
	e, ok := m.enquiries[id]
	if !ok {
		return models.ErrNotFound
	}
	e.EnquiryCode = code
	m.enquiries[id] = e
	return nil
}

func (m *memStore) GetEnquiry(ctx context.Context, id int64) (*models.Enquiry, error) {
	e, ok := m.enquiries[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &e, nil
}

func (m *memStore) MarkEnquiryRead(ctx context.Context, id int64) (*models.Enquiry, error) {
	e, ok := m.enquiries[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	e.IsRead = true
	m.enquiries[id] = e
	return &e, nil
}

func (m *memStore) history(enquiryID int64) []models.Negotiation {
	var out []models.Negotiation
	for _, n := range m.negotiations {
		if n.EnquiryID == enquiryID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (m *memStore) ListEnquiries(ctx context.Context, vendorID int64, f models.EnquiryFilter) ([]models.EnquirySummary, int, error) {
	var all []models.EnquirySummary
	for _, e := range m.enquiries {
		if e.VendorID != vendorID {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(e.EnquiryCode), strings.ToLower(f.Search)) {
			continue
		}
		if f.Contractor != "" && m.contractors[e.ContractorID] != f.Contractor {
			continue
		}
		h := m.history(e.ID)
		if f.Status != "" && (len(h) == 0 || !inStatusBucket(h[0], f.Status)) {
			continue
		}
		var latest []models.Negotiation
		if len(h) > 0 {
			latest = h[:1]
		}
		all = append(all, models.EnquirySummary{
			ID:           e.ID,
			EnquiryCode:  e.EnquiryCode,
			Quantity:     e.Quantity,
			IsRead:       e.IsRead,
			CreatedAt:    e.CreatedAt,
			Contractor:   models.ContractorRef{ID: e.ContractorID, Name: m.contractors[e.ContractorID]},
			Negotiations: latest,
		})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	total := len(all)
	start := models.Offset(f.Page, f.PerPage)
	if start > total {
		start = total
	}
	end := start + f.PerPage
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

// inStatusBucket mirrors the SQL listing filter on the latest round.
func inStatusBucket(n models.Negotiation, status string) bool {
	switch models.NegotiationStatus(status) {
	case models.StatusPending:
		return n.StatusFromVendor == models.StatusPending && !n.PriceFromVendor.Valid
	case models.StatusReplied:
		return n.StatusFromVendor == models.StatusReplied && n.PriceFromVendor.Valid
	default:
		return string(n.StatusFromVendor) == status
	}
}

func (m *memStore) GetEnquiryDetail(ctx context.Context, code string, vendorID int64) (*models.EnquiryDetail, error) {
	for _, e := range m.enquiries {
		if e.EnquiryCode != code || e.VendorID != vendorID {
			continue
		}
		d := &models.EnquiryDetail{
			ID:           e.ID,
			EnquiryCode:  e.EnquiryCode,
			Quantity:     e.Quantity,
			IsRead:       e.IsRead,
			CreatedAt:    e.CreatedAt,
			Product:      models.ProductDetail{Product: m.products[e.ProductID], DailyRates: []models.DailyRate{}},
			Contractor:   models.ContractorRef{ID: e.ContractorID, Name: m.contractors[e.ContractorID]},
			Negotiations: m.history(e.ID),
		}
		for i := len(m.rates) - 1; i >= 0; i-- {
			if m.rates[i].ProductID == e.ProductID {
				d.Product.DailyRates = append(d.Product.DailyRates, m.rates[i])
				break
			}
		}
		return d, nil
	}
	return nil, models.ErrNotFound
}

func (m *memStore) ListContractorNames(ctx context.Context, vendorID int64) ([]string, error) {
	seen := map[string]bool{}
	var names []string
	for _, e := range m.enquiries {
		name := m.contractors[e.ContractorID]
		if e.VendorID != vendorID || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)
	if m.onListContractors != nil {
		m.onListContractors()
	}
	return names, nil
}

func (m *memStore) CreateNegotiation(ctx context.Context, n *models.Negotiation) error {
	m.nextNegotiation++
	n.ID = m.nextNegotiation
	n.CreatedAt = m.tick()
	n.UpdatedAt = n.CreatedAt
	m.negotiations[n.ID] = *n
	return nil
}

func (m *memStore) GetNegotiation(ctx context.Context, id int64) (*models.Negotiation, error) {
	n, ok := m.negotiations[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &n, nil
}

func (m *memStore) UpdateNegotiation(ctx context.Context, n *models.Negotiation) error {
	if m.failUpdate != nil {
		return m.failUpdate
	}
	if _, ok := m.negotiations[n.ID]; !ok {
		return models.ErrNotFound
	}
	n.UpdatedAt = m.tick()
	m.negotiations[n.ID] = *n
	return nil
}

func (m *memStore) CreateOrder(ctx context.Context, o *models.Order) error {
	for _, existing := range m.orders {
		if existing.NegotiationID == o.NegotiationID {
			return errors.Join(models.ErrDuplicate, errors.New("orders_negotiation_id_key"))
		}
	}
	m.nextOrder++
	o.ID = m.nextOrder
	o.CreatedAt = m.tick()
	m.orders[o.ID] = *o
	return nil
}

func (m *memStore) SetOrderCode(ctx context.Context, id int64, code string) error {
	o, ok := m.orders[id]
	if !ok {
		return models.ErrNotFound
	}
	o.OrderCode = code
	m.orders[id] = o
	return nil
}

func (m *memStore) ordersFor(negotiationID int64) []models.Order {
	var out []models.Order
	for _, o := range m.orders {
		if o.NegotiationID == negotiationID {
			out = append(out, o)
		}
	}
	return out
}

type recordingPublisher struct {
	events []negotiation.Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, evt negotiation.Event) error {
	p.events = append(p.events, evt)
	return p.err
}

type cacheKey struct {
	vendorID, version int64
}

type mapCache struct {
	entries     map[cacheKey][]string
	versions    map[int64]int64
	invalidated []int64
}

func newMapCache() *mapCache {
	return &mapCache{entries: map[cacheKey][]string{}, versions: map[int64]int64{}}
}

// current returns the list served for the vendor right now.
func (c *mapCache) current(vendorID int64) ([]string, bool) {
	names, ok := c.entries[cacheKey{vendorID, c.versions[vendorID]}]
	return names, ok
}

func (c *mapCache) Contractors(ctx context.Context, vendorID int64) ([]string, int64, bool, error) {
	version := c.versions[vendorID]
	names, ok := c.entries[cacheKey{vendorID, version}]
	return names, version, ok, nil
}

func (c *mapCache) StoreContractors(ctx context.Context, vendorID, version int64, names []string) error {
	c.entries[cacheKey{vendorID, version}] = names
	return nil
}

func (c *mapCache) InvalidateContractors(ctx context.Context, vendorID int64) error {
	c.versions[vendorID]++
	c.invalidated = append(c.invalidated, vendorID)
	return nil
}
