package journal

import (
	"context"
	"errors"
	"time"

	cartdomain "github.com/tastybites/ordering/internal/cart/domain"
	"github.com/tastybites/ordering/internal/checkout/domain"
)

var ErrRecordNotFound = errors.New("submission record not found")

// Record is the client-side trace of one submission attempt: the token, the
// snapshot it was computed from, and its terminal outcome. The remote store
// does not deduplicate on the token; the record exists so a caller can tell
// retries from duplicates after a partial failure.
type Record struct {
	Token     string                  `bson:"_id"`
	Principal string                  `bson:"principal"`
	Snapshot  cartdomain.Snapshot     `bson:"snapshot"`
	Status    domain.SubmissionStatus `bson:"status"`
	OrderID   int64                   `bson:"order_id,omitempty"`
	Reason    string                  `bson:"reason,omitempty"`
	CreatedAt time.Time               `bson:"created_at"`
	UpdatedAt time.Time               `bson:"updated_at"`
}

// Journal records submission attempts. Writes are advisory; the pipeline
// logs journal failures and carries on.
type Journal interface {
	Begin(ctx context.Context, rec *Record) error
	Complete(ctx context.Context, token string, status domain.SubmissionStatus, orderID int64, reason string) error
	Find(ctx context.Context, token string) (*Record, error)
}
