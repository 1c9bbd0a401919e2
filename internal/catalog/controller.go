// Package catalog orchestrates permission-gated CRUD over the shared product
// list.
//
// The in-memory list is a read-through cache of the server's state, never a
// source of truth: every successful mutation is confirmed by an authoritative
// re-fetch instead of merging the response locally.
package catalog

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/explooosion/catalog-console/internal/api"
	"github.com/explooosion/catalog-console/internal/models"
	"github.com/explooosion/catalog-console/internal/policy"
	"go.uber.org/zap"
)

// ProductAPI is the interface that wraps the remote product endpoints.
type ProductAPI interface {
	// Method ListProducts fetches the full product list without
	// authentication.
	ListProducts(ctx context.Context) ([]models.Product, error)
	// Method CreateProduct creates a product using the bearer token.
	//
	// The returned record is only an echo; callers reconcile with
	// ListProducts instead of trusting it.
	CreateProduct(ctx context.Context, token string, input models.ProductInput) (*models.Product, error)
	// Method UpdateProduct replaces the product identified by id using the
	// bearer token.
	UpdateProduct(ctx context.Context, token string, id int, input models.ProductInput) (*models.Product, error)
	// Method DeleteProduct removes the product identified by id using the
	// bearer token.
	DeleteProduct(ctx context.Context, token string, id int) error
}

// SessionSource provides the current session for permission decisions
type SessionSource interface {
	Current() models.Session
}

// Draft holds product fields as entered by the user. Price stays text until
// validation so invalid input can be handed back for correction.
type Draft struct {
	Name  string
	Price string
}

// EditDraft is the single product copy under local edit, uncommitted until an
// update succeeds.
type EditDraft struct {
	ID    int
	Draft Draft
}

// Controller owns the product cache and the draft state.
//
// Controller is not safe for concurrent use; like the session manager it has
// one logical owner, and cache updates are atomic replacements.
type Controller struct {
	api      ProductAPI
	sessions SessionSource
	policy   policy.Policy
	logger   *zap.Logger

	products    []models.Product
	createDraft Draft
	editing     *EditDraft
}

// NewController creates a new catalog controller
func NewController(productAPI ProductAPI, sessions SessionSource, pol policy.Policy, logger *zap.Logger) *Controller {
	return &Controller{
		api:      productAPI,
		sessions: sessions,
		policy:   pol,
		logger:   logger,
	}
}

// Products returns the last known server state of the product list
func (c *Controller) Products() []models.Product {
	return c.products
}

// CreateDraft returns the pending creation fields
func (c *Controller) CreateDraft() Draft {
	return c.createDraft
}

// Editing returns the active edit draft, if any
func (c *Controller) Editing() (EditDraft, bool) {
	if c.editing == nil {
		return EditDraft{}, false
	}
	return *c.editing, true
}

// List fetches the product list and replaces the cache wholesale. On failure
// the previous cache is kept (stale but available) and the error is surfaced.
func (c *Controller) List(ctx context.Context) error {
	products, err := c.api.ListProducts(ctx)
	if err != nil {
		c.logger.Warn("failed to fetch products", zap.Error(err))
		return err
	}

	c.products = products
	c.pruneEditDraft()
	return nil
}

// Create validates draft and creates a product. The draft is remembered: a
// failure of any kind leaves it intact for correction, success clears it
// after the reconciling fetch.
func (c *Controller) Create(ctx context.Context, draft Draft) error {
	c.createDraft = draft

	session := c.sessions.Current()
	if !c.policy.CanCreate(session) {
		return ErrUnauthorized
	}

	input, err := parseDraft(draft)
	if err != nil {
		return err
	}

	if _, err := c.api.CreateProduct(ctx, session.Token, input); err != nil {
		c.logger.Warn("failed to create product", zap.String("name", input.Name), zap.Error(err))
		return err
	}

	c.logger.Info("product created", zap.String("name", input.Name))
	c.reconcile(ctx)
	c.createDraft = Draft{}
	return nil
}

// BeginEdit starts editing product, overwriting any prior draft. At most one
// product is under edit at a time.
func (c *Controller) BeginEdit(product models.Product) {
	c.editing = &EditDraft{
		ID: product.ID,
		Draft: Draft{
			Name:  product.Name,
			Price: strconv.FormatFloat(product.Price, 'f', -1, 64),
		},
	}
}

// CancelEdit discards the edit draft unconditionally
func (c *Controller) CancelEdit() {
	c.editing = nil
}

// Update validates draft and replaces the product identified by id. On
// success the edit draft is discarded after the reconciling fetch; on any
// failure it stays active, holding the submitted text.
func (c *Controller) Update(ctx context.Context, id int, draft Draft) error {
	if c.editing != nil && c.editing.ID == id {
		c.editing.Draft = draft
	}

	session := c.sessions.Current()
	if !c.policy.CanUpdate(session) {
		return ErrUnauthorized
	}

	input, err := parseDraft(draft)
	if err != nil {
		return err
	}

	if _, err := c.api.UpdateProduct(ctx, session.Token, id, input); err != nil {
		c.logger.Warn("failed to update product", zap.Int("id", id), zap.Error(err))
		return err
	}

	c.logger.Info("product updated", zap.Int("id", id))
	if c.editing != nil && c.editing.ID == id {
		c.editing = nil
	}
	c.reconcile(ctx)
	return nil
}

// Delete removes the product identified by id. A not-found rejection is
// treated as success: the end state matches the caller's intent.
func (c *Controller) Delete(ctx context.Context, id int) error {
	session := c.sessions.Current()
	if !c.policy.CanDelete(session) {
		return ErrUnauthorized
	}

	if err := c.api.DeleteProduct(ctx, session.Token, id); err != nil {
		var remoteErr *api.RemoteError
		if errors.As(err, &remoteErr) && remoteErr.NotFound() {
			c.logger.Info("product already absent", zap.Int("id", id))
		} else {
			c.logger.Warn("failed to delete product", zap.Int("id", id), zap.Error(err))
			return err
		}
	} else {
		c.logger.Info("product deleted", zap.Int("id", id))
	}

	c.reconcile(ctx)
	return nil
}

// reconcile re-fetches the authoritative list after a successful mutation.
// A failed reconcile does not fail the mutation; the cache simply stays stale
// until the next fetch.
func (c *Controller) reconcile(ctx context.Context) {
	if err := c.List(ctx); err != nil {
		c.logger.Warn("reconciling fetch failed", zap.Error(err))
	}
}

// pruneEditDraft drops the edit draft when its product has vanished from the
// list, e.g. after a concurrent delete.
func (c *Controller) pruneEditDraft() {
	if c.editing == nil {
		return
	}
	for _, p := range c.products {
		if p.ID == c.editing.ID {
			return
		}
	}
	c.logger.Info("edited product vanished, discarding draft", zap.Int("id", c.editing.ID))
	c.editing = nil
}

// parseDraft validates the user-entered fields and produces the wire payload
func parseDraft(draft Draft) (models.ProductInput, error) {
	name := strings.TrimSpace(draft.Name)
	if name == "" {
		return models.ProductInput{}, &ValidationError{Field: "name", Reason: "name cannot be empty"}
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(draft.Price), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return models.ProductInput{}, &ValidationError{Field: "price", Reason: "price must be a number"}
	}
	if price < 0 {
		return models.ProductInput{}, &ValidationError{Field: "price", Reason: "price cannot be negative"}
	}

	return models.ProductInput{Name: name, Price: price}, nil
}
