package service

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	cartdomain "github.com/tastybites/ordering/internal/cart/domain"
	cartstore "github.com/tastybites/ordering/internal/cart/store"
	"github.com/tastybites/ordering/internal/checkout/domain"
	"github.com/tastybites/ordering/internal/checkout/journal"
	"github.com/tastybites/ordering/internal/events"
	"github.com/tastybites/ordering/internal/notify"
	o "github.com/tastybites/ordering/internal/orders/domain"
	"github.com/tastybites/ordering/internal/orders/repository"
	"github.com/tastybites/ordering/internal/session"
)

// Pipeline turns a cart into a persisted order: create the order row, create
// its lines, clear the cart. Steps run in that order, none is retried
// internally, and only one submission per cart may be in flight.
type Pipeline struct {
	mu       sync.Mutex
	inflight map[session.Principal]domain.SubmissionStatus

	session session.Session
	carts   *cartstore.Manager
	repo    repository.OrderRepository
	journal journal.Journal  // optional
	events  events.Publisher // optional
	hub     *notify.Hub
}

func NewPipeline(
	ses session.Session,
	carts *cartstore.Manager,
	repo repository.OrderRepository,
	jrnl journal.Journal,
	pub events.Publisher,
	hub *notify.Hub,
) *Pipeline {
	return &Pipeline{
		inflight: make(map[session.Principal]domain.SubmissionStatus),
		session:  ses,
		carts:    carts,
		repo:     repo,
		journal:  jrnl,
		events:   pub,
		hub:      hub,
	}
}

// Status reports the submission state for a principal. Terminal states
// return to idle before the next submission may start, so observable values
// are idle and submitting.
func (p *Pipeline) Status(principal session.Principal) domain.SubmissionStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.inflight[principal]; ok {
		return s
	}
	return domain.SubmissionIdle
}

// Submit runs the full submission sequence and returns the created order id.
// Precondition failures (ErrUnauthenticated, ErrEmptyCart, ErrInvalidInput)
// make no remote calls. A failure after order creation leaves the cart
// untouched so the customer can retry.
func (p *Pipeline) Submit(ctx context.Context, details domain.DeliveryDetails) (int64, error) {
	principal, ok := p.session.Principal(ctx)
	if !ok {
		p.fail("You must be logged in to place an order")
		return 0, ErrUnauthenticated
	}

	if !p.begin(principal) {
		return 0, ErrSubmissionInFlight
	}

	status := domain.SubmissionFailed
	defer func() { p.end(principal, status) }()

	cart := p.carts.For(ctx, principal)
	snapshot := cart.Snapshot()
	if snapshot.Empty() {
		p.fail("Your cart is empty")
		return 0, ErrEmptyCart
	}

	if err := details.Validate(); err != nil {
		p.fail(err.Error())
		return 0, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	token := uuid.NewString()
	p.journalBegin(ctx, token, principal, snapshot)

	order := &o.Order{
		Owner:           string(principal),
		Status:          o.OrderStatusPending,
		TotalAmount:     snapshot.Subtotal,
		Address:         details.Address,
		Phone:           details.Phone,
		PaymentMethod:   string(details.PaymentMethod),
		SubmissionToken: token,
	}

	orderID, err := p.repo.InsertOrder(ctx, order)
	if err != nil {
		p.journalComplete(ctx, token, domain.SubmissionFailed, 0, err.Error())
		p.fail("Failed to place order")
		return 0, fmt.Errorf("%w: %w", ErrOrderCreateFailed, err)
	}

	lines := make([]o.OrderLine, 0, len(snapshot.Lines))
	for _, l := range snapshot.Lines {
		lines = append(lines, o.OrderLine{
			OrderID:   orderID,
			ItemID:    l.ItemID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Note:      l.Note,
		})
	}

	if err := p.repo.InsertOrderLines(ctx, lines); err != nil {
		// The order row now exists without lines. The cart is kept so the
		// customer can retry; retrying creates a second incomplete order
		// because the store does not deduplicate on the submission token.
		p.journalComplete(ctx, token, domain.SubmissionFailed, orderID, err.Error())
		p.fail("Failed to place order")
		return 0, fmt.Errorf("%w: %w", ErrOrderLinesFailed, err)
	}

	cart.Clear(ctx)
	p.journalComplete(ctx, token, domain.SubmissionSucceeded, orderID, "")
	p.publishPlaced(ctx, orderID, principal, snapshot)

	p.hub.Publish(notify.Notification{
		Kind:    notify.KindOrderPlaced,
		Message: "Order placed successfully!",
	})

	status = domain.SubmissionSucceeded
	return orderID, nil
}

// begin claims the submission slot for a principal. Returns false when a
// submission is already in flight.
func (p *Pipeline) begin(principal session.Principal) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.inflight[principal] == domain.SubmissionSubmitting {
		return false
	}
	p.inflight[principal] = domain.SubmissionSubmitting
	return true
}

// end records the terminal state and immediately returns the slot to idle.
func (p *Pipeline) end(principal session.Principal, terminal domain.SubmissionStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inflight[principal] = terminal
	delete(p.inflight, principal)
}

func (p *Pipeline) fail(reason string) {
	p.hub.Publish(notify.Notification{
		Kind:    notify.KindOrderFailed,
		Message: reason,
	})
}

func (p *Pipeline) journalBegin(ctx context.Context, token string, principal session.Principal, snapshot cartdomain.Snapshot) {
	if p.journal == nil {
		return
	}
	rec := &journal.Record{
		Token:     token,
		Principal: string(principal),
		Snapshot:  snapshot,
	}
	if err := p.journal.Begin(ctx, rec); err != nil {
		log.Printf("submission journal begin error: %v", err)
	}
}

func (p *Pipeline) journalComplete(ctx context.Context, token string, status domain.SubmissionStatus, orderID int64, reason string) {
	if p.journal == nil {
		return
	}
	if err := p.journal.Complete(ctx, token, status, orderID, reason); err != nil {
		log.Printf("submission journal complete error: %v", err)
	}
}

func (p *Pipeline) publishPlaced(ctx context.Context, orderID int64, principal session.Principal, snapshot cartdomain.Snapshot) {
	if p.events == nil {
		return
	}
	event := events.OrderPlaced{
		OrderID:     orderID,
		Principal:   string(principal),
		TotalAmount: snapshot.Subtotal,
		Lines:       snapshot.Lines,
		PlacedAt:    snapshot.CapturedAt,
	}
	if err := p.events.PublishOrderPlaced(ctx, event); err != nil {
		log.Printf("order placed event publish error: %v", err)
	}
}
