package receipt

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vestahome/designer-hub/internal/model"
	"github.com/vestahome/designer-hub/internal/submission"
	"github.com/vestahome/designer-hub/pkg/postmark"
)

// DefaultOperationsAddress receives a copy of every receipt.
const DefaultOperationsAddress = "project-closings@vestahome.com"

var (
	// ErrMissingFields is returned when a receipt has no submitter email or
	// project id.
	ErrMissingFields = eris.New("receipt: missing required fields")
	// ErrAllFailed is returned when no recipient could be sent to.
	ErrAllFailed = eris.New("receipt: all emails failed to send")
)

// Sender is the email transport. postmark.Client satisfies it.
type Sender interface {
	Send(ctx context.Context, email postmark.Email) (*postmark.SendResponse, error)
}

// Delivery is the outcome for one recipient.
type Delivery struct {
	To        string `json:"to"`
	MessageID string `json:"message_id,omitempty"`
	Err       error  `json:"-"`
}

// Result lists deliveries in recipient order.
type Result struct {
	Deliveries []Delivery
}

// Sent counts successful deliveries.
func (r Result) Sent() int {
	n := 0
	for _, d := range r.Deliveries {
		if d.Err == nil {
			n++
		}
	}
	return n
}

// Config configures a Notifier.
type Config struct {
	From          string
	MessageStream string
	Operations    string
	SiteURL       string
	Location      *time.Location
}

// Notifier sends a receipt to the submitter and the operations inbox.
type Notifier struct {
	sender Sender
	cfg    Config
}

// NewNotifier creates a Notifier. An empty Operations address falls back to
// DefaultOperationsAddress.
func NewNotifier(sender Sender, cfg Config) *Notifier {
	if cfg.Operations == "" {
		cfg.Operations = DefaultOperationsAddress
	}
	return &Notifier{sender: sender, cfg: cfg}
}

// Recipients returns who a receipt is delivered to.
func (n *Notifier) Recipients(r model.Receipt) []string {
	return []string{r.SubmitterEmail, n.cfg.Operations}
}

// Notify sends r to every recipient concurrently. It succeeds if at least one
// send succeeded.
func (n *Notifier) Notify(ctx context.Context, r model.Receipt) (Result, error) {
	if r.SubmitterEmail == "" || r.ProjectID == "" {
		return Result{}, ErrMissingFields
	}

	msg, err := Render(r, n.cfg.SiteURL, n.cfg.Location)
	if err != nil {
		return Result{}, err
	}

	recipients := n.Recipients(r)
	res := Result{Deliveries: make([]Delivery, len(recipients))}
	var sent atomic.Int32

	// Sends never return an error to the group so one failure does not
	// cancel the others.
	g, gctx := errgroup.WithContext(ctx)
	for i, to := range recipients {
		g.Go(func() error {
			d := Delivery{To: to}
			resp, err := n.sender.Send(gctx, postmark.Email{
				From:          n.cfg.From,
				To:            to,
				Subject:       msg.Subject,
				HtmlBody:      msg.HTMLBody,
				TextBody:      msg.TextBody,
				MessageStream: n.cfg.MessageStream,
			})
			if err != nil {
				d.Err = err
				zap.L().Warn("receipt send failed",
					zap.String("to", to),
					zap.String("project_id", r.ProjectID),
					zap.Error(err),
				)
			} else {
				sent.Add(1)
				if resp != nil {
					d.MessageID = resp.MessageID
				}
			}
			res.Deliveries[i] = d
			return nil
		})
	}
	_ = g.Wait()

	if sent.Load() == 0 {
		return res, ErrAllFailed
	}
	return res, nil
}

// Hook adapts the notifier as a post-commit hook. Failures are logged only.
func (n *Notifier) Hook() submission.Hook {
	return func(ctx context.Context, r model.Receipt) {
		res, err := n.Notify(ctx, r)
		if err != nil {
			zap.L().Error("receipt not delivered",
				zap.String("project_id", r.ProjectID),
				zap.Error(err),
			)
			return
		}
		zap.L().Info("receipt delivered",
			zap.String("project_id", r.ProjectID),
			zap.Int("sent", res.Sent()),
			zap.Int("recipients", len(res.Deliveries)),
		)
	}
}
