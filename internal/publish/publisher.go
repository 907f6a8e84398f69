package publish

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/renderinc/product-publisher/internal/product"
	"github.com/renderinc/product-publisher/internal/storage"
)

// State is a step of the publish workflow
type State int

const (
	Received State = iota
	Validated
	Enriched
	Persisted
	Responded
	Failed
)

func (s State) String() string {
	switch s {
	case Received:
		return "received"
	case Validated:
		return "validated"
	case Enriched:
		return "enriched"
	case Persisted:
		return "persisted"
	case Responded:
		return "responded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ValidationError is returned when a submission cannot be published
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return "Invalid product data"
}

// Indexer receives every published product for secondary search
type Indexer interface {
	IndexProduct(p *product.Published) error
}

// Result is the outcome of a successful publish
type Result struct {
	Product *product.Published
	Body    string // Rendered response
}

// Publisher turns raw submissions into stored publications
type Publisher struct {
	store  storage.Store
	audit  storage.AuditLog
	index  Indexer
	urls   product.URLs
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Publisher
type Option func(*Publisher)

// WithIndex mirrors every publication into idx
func WithIndex(idx Indexer) Option {
	return func(p *Publisher) { p.index = idx }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(p *Publisher) { p.now = now }
}

// WithLogger sets the logger used for persistence failures and publication events
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) { p.logger = logger }
}

// New creates a Publisher writing to store and audit
func New(store storage.Store, audit storage.AuditLog, urls product.URLs, opts ...Option) *Publisher {
	p := &Publisher{
		store:  store,
		audit:  audit,
		urls:   urls,
		now:    time.Now,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish runs a request body through validation, pricing, ID assignment and
// persistence. Persistence is best-effort: write failures are logged and the
// publication still succeeds. A *ValidationError means the body has no title;
// any other error is internal.
func (p *Publisher) Publish(ctx context.Context, body string) (*Result, error) {
	p.logger.DebugContext(ctx, "publish request", "state", Received, "bytes", len(body))

	published, err := p.enrich(ctx, body)
	if err != nil {
		p.logger.DebugContext(ctx, "publish rejected", "state", Failed, "error", err)
		return nil, err
	}

	p.persist(ctx, published)

	result := &Result{
		Product: published,
		Body:    product.PublishResponse(published, p.urls),
	}

	p.logger.InfoContext(ctx, "product published",
		"state", Responded,
		"product_id", published.PublishedID,
		"title", published.Title,
		"price", published.Price,
	)
	return result, nil
}

// enrich covers Validated and Enriched; a panic in either becomes an error
func (p *Publisher) enrich(ctx context.Context, body string) (published *product.Published, err error) {
	defer func() {
		if r := recover(); r != nil {
			published = nil
			err = fmt.Errorf("%v", r)
		}
	}()

	sub := product.ParseSubmission(body)
	if sub.Title == "" {
		return nil, &ValidationError{Field: "title"}
	}
	p.logger.DebugContext(ctx, "submission parsed", "state", Validated, "title", sub.Title, "tags", len(sub.Tags))

	now := p.now()
	published = &product.Published{
		PublishedID: product.GenerateID(sub.Title, now),
		OriginalID:  sub.ID,
		Title:       sub.Title,
		Description: sub.Description,
		Tags:        sub.Tags,
		ImageFile:   sub.ImageFile,
		Price:       product.ComputePrice(sub.Tags),
		PublishedAt: now,
	}
	p.logger.DebugContext(ctx, "product priced", "state", Enriched, "product_id", published.PublishedID, "price", published.Price)

	return published, nil
}

// persist writes the store record, the audit line and the index entry.
// None of these failures reach the caller.
func (p *Publisher) persist(ctx context.Context, published *product.Published) {
	if err := p.store.Append(product.StoreRecord(published)); err != nil {
		p.logger.ErrorContext(ctx, "error saving to store", "product_id", published.PublishedID, "error", err)
	}

	if err := p.audit.Append(product.LogLine(published, p.now())); err != nil {
		p.logger.ErrorContext(ctx, "error writing audit log", "product_id", published.PublishedID, "error", err)
	}

	if p.index != nil {
		if err := p.index.IndexProduct(published); err != nil {
			p.logger.WarnContext(ctx, "error indexing product", "product_id", published.PublishedID, "error", err)
		}
	}

	p.logger.DebugContext(ctx, "product persisted", "state", Persisted, "product_id", published.PublishedID)
}
