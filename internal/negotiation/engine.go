// Package negotiation runs the enquiry lifecycle between contractors and
// vendors: opening an enquiry, the rounds of price offers and the acceptance
// that turns a round into an order.
package negotiation

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"procurement/internal/apperr"
	"procurement/models"
)

const defaultPageSize = 8

type Engine struct {
	store     Store
	publisher Publisher
	cache     ContractorCache
	pageSize  int
	log       logrus.FieldLogger
}

type Option func(*Engine)

func WithPublisher(p Publisher) Option {
	return func(e *Engine) {
		if p != nil {
			e.publisher = p
		}
	}
}

func WithContractorCache(c ContractorCache) Option {
	return func(e *Engine) {
		if c != nil {
			e.cache = c
		}
	}
}

func WithPageSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.pageSize = n
		}
	}
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

func NewEngine(store Store, opts ...Option) *Engine {
	e := &Engine{
		store:     store,
		publisher: nopPublisher{},
		cache:     nopCache{},
		pageSize:  defaultPageSize,
		log:       logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CreateEnquiry opens an enquiry for the calling contractor together with its
// first negotiation round carrying the contractor's price.
func (e *Engine) CreateEnquiry(ctx context.Context, actor models.Actor, req CreateEnquiryRequest) (*models.Enquiry, error) {
	if actor.Role != models.RoleContractor || actor.ContractorID == 0 {
		return nil, accessDenied()
	}
	if !req.PriceFromContractor.IsPositive() {
		return nil, apperr.Invalid("price_from_contractor must be greater than zero", nil)
	}
	if !models.FitsMoney(req.PriceFromContractor) {
		return nil, invalidMoney("price_from_contractor")
	}

	enq := models.Enquiry{
		ProductID:    req.ProductID,
		VendorID:     req.VendorID,
		ContractorID: actor.ContractorID,
		Quantity:     req.Quantity,
	}
	var first models.Negotiation
	err := e.store.InTx(ctx, func(s Store) error {
		if err := s.CreateEnquiry(ctx, &enq); err != nil {
			return fmt.Errorf("create enquiry: %w", err)
		}
		first = models.Negotiation{
			EnquiryID:            enq.ID,
			PriceFromContractor:  nullDecimal(req.PriceFromContractor),
			StatusFromContractor: models.StatusReplied,
			StatusFromVendor:     models.StatusPending,
		}
		if err := s.CreateNegotiation(ctx, &first); err != nil {
			return fmt.Errorf("create first negotiation: %w", err)
		}
		enq.EnquiryCode = models.EnquiryCode(enq.ID)
		if err := s.SetEnquiryCode(ctx, enq.ID, enq.EnquiryCode); err != nil {
			return fmt.Errorf("set enquiry code: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, apperr.Internal(msgCreateFailure, err)
	}

	if err := e.cache.InvalidateContractors(ctx, enq.VendorID); err != nil {
		e.log.WithError(err).WithField("vendor_id", enq.VendorID).Warn("contractor cache invalidation failed")
	}
	e.publish(ctx, Event{
		Type:          EventEnquiryCreated,
		ActorRole:     actor.Role,
		EnquiryID:     enq.ID,
		EnquiryCode:   enq.EnquiryCode,
		NegotiationID: first.ID,
		VendorID:      enq.VendorID,
		ContractorID:  enq.ContractorID,
	})
	return &enq, nil
}

// UpdateNegotiation dispatches an update on the caller's role. A vendor
// answers the round in place; a contractor either accepts the vendor's price
// or proposes a new round.
func (e *Engine) UpdateNegotiation(ctx context.Context, actor models.Actor, negotiationID int64, req UpdateNegotiationRequest) (*models.Negotiation, error) {
	switch actor.Role {
	case models.RoleVendor:
		return e.Respond(ctx, actor, negotiationID, req)
	case models.RoleContractor:
		if req.Status == models.StatusAccepted {
			return e.Accept(ctx, actor, negotiationID)
		}
		var price decimal.Decimal
		if req.PriceFromContractor != nil {
			price = *req.PriceFromContractor
		}
		return e.ProposeCounterOffer(ctx, actor, negotiationID, price)
	case models.RoleAdmin, models.RoleEmployee:
		return nil, accessDenied()
	default:
		e.log.WithField("role", actor.Role).Warn("negotiation update with unknown role")
		return nil, accessDenied()
	}
}

// Respond applies a vendor's answer to a round. A positive price moves the
// round to REPLIED on the vendor side and back to PENDING on the contractor
// side; an explicit status overrides the vendor status afterwards. Accepting
// places the order at the contractor's price.
func (e *Engine) Respond(ctx context.Context, actor models.Actor, negotiationID int64, req UpdateNegotiationRequest) (*models.Negotiation, error) {
	if actor.Role != models.RoleVendor || actor.VendorID == 0 {
		return nil, accessDenied()
	}
	if req.PriceFromVendor != nil && req.PriceFromVendor.IsNegative() {
		return nil, apperr.Invalid("price_from_vendor must not be negative", nil)
	}
	if req.PriceFromVendor != nil && !models.FitsMoney(*req.PriceFromVendor) {
		return nil, invalidMoney("price_from_vendor")
	}
	if req.Status != "" && !models.ValidNegotiationStatus(req.Status) {
		return nil, apperr.Invalid("Invalid status", nil)
	}

	var (
		n     *models.Negotiation
		enq   *models.Enquiry
		order *models.Order
	)
	err := e.store.InTx(ctx, func(s Store) error {
		var err error
		if n, enq, err = e.loadRound(ctx, s, negotiationID); err != nil {
			return err
		}
		if enq.VendorID != actor.VendorID {
			return accessDenied()
		}
		if n.Accepted() {
			return apperr.Conflict("Negotiation already accepted", nil)
		}

		// A zero price is treated as absent.
		if req.PriceFromVendor != nil && req.PriceFromVendor.IsPositive() {
			n.PriceFromVendor = nullDecimal(*req.PriceFromVendor)
			n.StatusFromVendor = models.StatusReplied
			n.StatusFromContractor = models.StatusPending
		}
		if req.Status != "" {
			n.StatusFromVendor = req.Status
		}

		if _, err := s.MarkEnquiryRead(ctx, enq.ID); err != nil {
			return fmt.Errorf("mark enquiry read: %w", err)
		}
		if req.Status == models.StatusAccepted {
			if !n.PriceFromContractor.Valid {
				return apperr.Conflict("There is no contractor offer to accept", nil)
			}
			if order, err = placeOrder(ctx, s, n, enq, n.PriceFromContractor.Decimal); err != nil {
				return err
			}
		}
		if err := s.UpdateNegotiation(ctx, n); err != nil {
			return fmt.Errorf("update negotiation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, negotiationFailure(err)
	}

	if order != nil {
		e.publishOrder(ctx, actor, enq, n, order)
	} else if n.StatusFromVendor == models.StatusReplied {
		e.publish(ctx, Event{
			Type:          EventVendorReplied,
			ActorRole:     actor.Role,
			EnquiryID:     enq.ID,
			EnquiryCode:   enq.EnquiryCode,
			NegotiationID: n.ID,
			VendorID:      enq.VendorID,
			ContractorID:  enq.ContractorID,
		})
	}
	return n, nil
}

// ProposeCounterOffer appends a new round carrying the contractor's price and
// leaves the referenced round untouched.
func (e *Engine) ProposeCounterOffer(ctx context.Context, actor models.Actor, negotiationID int64, price decimal.Decimal) (*models.Negotiation, error) {
	if actor.Role != models.RoleContractor || actor.ContractorID == 0 {
		return nil, accessDenied()
	}
	if !price.IsPositive() {
		return nil, apperr.Invalid("price_from_contractor must be greater than zero", nil)
	}
	if !models.FitsMoney(price) {
		return nil, invalidMoney("price_from_contractor")
	}

	var (
		next models.Negotiation
		enq  *models.Enquiry
	)
	err := e.store.InTx(ctx, func(s Store) error {
		n, loaded, err := e.loadRound(ctx, s, negotiationID)
		if err != nil {
			return err
		}
		enq = loaded
		if enq.ContractorID != actor.ContractorID {
			return accessDenied()
		}
		if n.Accepted() {
			return apperr.Conflict("Negotiation already accepted", nil)
		}
		next = models.Negotiation{
			EnquiryID:            enq.ID,
			PriceFromContractor:  nullDecimal(price),
			StatusFromContractor: models.StatusReplied,
			StatusFromVendor:     models.StatusPending,
		}
		if err := s.CreateNegotiation(ctx, &next); err != nil {
			return fmt.Errorf("create negotiation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, negotiationFailure(err)
	}

	e.publish(ctx, Event{
		Type:          EventCounterOffer,
		ActorRole:     actor.Role,
		EnquiryID:     enq.ID,
		EnquiryCode:   enq.EnquiryCode,
		NegotiationID: next.ID,
		VendorID:      enq.VendorID,
		ContractorID:  enq.ContractorID,
	})
	return &next, nil
}

// Accept records the contractor's acceptance of the vendor's price on a round
// and places the order at that price.
func (e *Engine) Accept(ctx context.Context, actor models.Actor, negotiationID int64) (*models.Negotiation, error) {
	if actor.Role != models.RoleContractor || actor.ContractorID == 0 {
		return nil, accessDenied()
	}

	var (
		n     *models.Negotiation
		enq   *models.Enquiry
		order *models.Order
	)
	err := e.store.InTx(ctx, func(s Store) error {
		var err error
		if n, enq, err = e.loadRound(ctx, s, negotiationID); err != nil {
			return err
		}
		if enq.ContractorID != actor.ContractorID {
			return accessDenied()
		}
		if n.Accepted() {
			return apperr.Conflict("Negotiation already accepted", nil)
		}
		if !n.PriceFromVendor.Valid {
			return apperr.Conflict("There is no vendor offer to accept", nil)
		}
		n.StatusFromContractor = models.StatusAccepted
		if order, err = placeOrder(ctx, s, n, enq, n.PriceFromVendor.Decimal); err != nil {
			return err
		}
		if err := s.UpdateNegotiation(ctx, n); err != nil {
			return fmt.Errorf("update negotiation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, negotiationFailure(err)
	}

	e.publishOrder(ctx, actor, enq, n, order)
	return n, nil
}

// GetEnquiries lists the vendor's enquiries, each with its latest round only.
func (e *Engine) GetEnquiries(ctx context.Context, vendorID int64, f models.EnquiryFilter) (models.Page[models.EnquirySummary], error) {
	f.Page, f.PerPage = models.NormalizePage(f.Page, f.PerPage, e.pageSize)
	rows, total, err := e.store.ListEnquiries(ctx, vendorID, f)
	if err != nil {
		return models.Page[models.EnquirySummary]{}, apperr.Internal(msgListFailure, err)
	}
	return models.NewPage(rows, total, f.Page, f.PerPage), nil
}

// GetEnquiryDetails returns one of the calling vendor's enquiries by display
// identifier with the full round history and the product's latest rate.
func (e *Engine) GetEnquiryDetails(ctx context.Context, actor models.Actor, code string) (*models.EnquiryDetail, error) {
	if actor.Role != models.RoleVendor || actor.VendorID == 0 {
		return nil, accessDenied()
	}
	detail, err := e.store.GetEnquiryDetail(ctx, code, actor.VendorID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, apperr.NotFound("Enquiry not found", err)
	}
	if err != nil {
		return nil, readFailure(err)
	}
	return detail, nil
}

// GetContractors returns the distinct names of contractors that sent the
// calling vendor an enquiry.
func (e *Engine) GetContractors(ctx context.Context, actor models.Actor) ([]ContractorName, error) {
	if actor.Role != models.RoleVendor || actor.VendorID == 0 {
		return nil, accessDenied()
	}

	names, version, ok, cacheErr := e.cache.Contractors(ctx, actor.VendorID)
	if cacheErr != nil {
		e.log.WithError(cacheErr).WithField("vendor_id", actor.VendorID).Warn("contractor cache read failed")
	}
	if !ok {
		var err error
		names, err = e.store.ListContractorNames(ctx, actor.VendorID)
		if err != nil {
			return nil, readFailure(err)
		}
		// Without a known version the list is not cached.
		if cacheErr == nil {
			if err := e.cache.StoreContractors(ctx, actor.VendorID, version, names); err != nil {
				e.log.WithError(err).WithField("vendor_id", actor.VendorID).Warn("contractor cache write failed")
			}
		}
	}

	out := make([]ContractorName, 0, len(names))
	for _, name := range names {
		out = append(out, ContractorName{Name: name})
	}
	return out, nil
}

func (e *Engine) loadRound(ctx context.Context, s Store, negotiationID int64) (*models.Negotiation, *models.Enquiry, error) {
	n, err := s.GetNegotiation(ctx, negotiationID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, nil, apperr.NotFound("Negotiation not found", err)
		}
		return nil, nil, fmt.Errorf("get negotiation %d: %w", negotiationID, err)
	}
	enq, err := s.GetEnquiry(ctx, n.EnquiryID)
	if err != nil {
		return nil, nil, fmt.Errorf("get enquiry %d: %w", n.EnquiryID, err)
	}
	return n, enq, nil
}

func placeOrder(ctx context.Context, s Store, n *models.Negotiation, enq *models.Enquiry, price decimal.Decimal) (*models.Order, error) {
	o := &models.Order{
		NegotiationID: n.ID,
		ProductID:     enq.ProductID,
		VendorID:      enq.VendorID,
		ContractorID:  enq.ContractorID,
		Quantity:      enq.Quantity,
		ProposedPrice: price,
		Status:        models.OrderAccepted,
	}
	if err := s.CreateOrder(ctx, o); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	o.OrderCode = models.OrderCode(o.ID)
	if err := s.SetOrderCode(ctx, o.ID, o.OrderCode); err != nil {
		return nil, fmt.Errorf("set order code: %w", err)
	}
	return o, nil
}

func (e *Engine) publishOrder(ctx context.Context, actor models.Actor, enq *models.Enquiry, n *models.Negotiation, o *models.Order) {
	e.publish(ctx, Event{
		Type:          EventOrderPlaced,
		ActorRole:     actor.Role,
		EnquiryID:     enq.ID,
		EnquiryCode:   enq.EnquiryCode,
		NegotiationID: n.ID,
		OrderID:       o.ID,
		OrderCode:     o.OrderCode,
		VendorID:      enq.VendorID,
		ContractorID:  enq.ContractorID,
	})
}

func (e *Engine) publish(ctx context.Context, evt Event) {
	if err := e.publisher.Publish(ctx, evt); err != nil {
		e.log.WithError(err).WithFields(logrus.Fields{
			"event":      evt.Type,
			"enquiry_id": evt.EnquiryID,
		}).Error("publish event failed")
	}
}

func nullDecimal(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
