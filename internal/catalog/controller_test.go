package catalog

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/explooosion/catalog-console/internal/api"
	"github.com/explooosion/catalog-console/internal/models"
	"github.com/explooosion/catalog-console/internal/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockProductAPI is a mock implementation of ProductAPI that counts requests
type mockProductAPI struct {
	products  []models.Product
	listErr   error
	createErr error
	updateErr error
	deleteErr error

	listCalls   int
	createCalls int
	updateCalls int
	deleteCalls int

	lastToken string
}

func (m *mockProductAPI) ListProducts(ctx context.Context) ([]models.Product, error) {
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.products, nil
}

func (m *mockProductAPI) CreateProduct(ctx context.Context, token string, input models.ProductInput) (*models.Product, error) {
	m.createCalls++
	m.lastToken = token
	if m.createErr != nil {
		return nil, m.createErr
	}
	created := models.Product{ID: 99, Name: input.Name, Price: input.Price}
	m.products = append(m.products, created)
	return &created, nil
}

func (m *mockProductAPI) UpdateProduct(ctx context.Context, token string, id int, input models.ProductInput) (*models.Product, error) {
	m.updateCalls++
	m.lastToken = token
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	updated := models.Product{ID: id, Name: input.Name, Price: input.Price}
	for i, p := range m.products {
		if p.ID == id {
			m.products[i] = updated
		}
	}
	return &updated, nil
}

func (m *mockProductAPI) DeleteProduct(ctx context.Context, token string, id int) error {
	m.deleteCalls++
	m.lastToken = token
	if m.deleteErr != nil {
		return m.deleteErr
	}
	remaining := make([]models.Product, 0, len(m.products))
	for _, p := range m.products {
		if p.ID != id {
			remaining = append(remaining, p)
		}
	}
	m.products = remaining
	return nil
}

func (m *mockProductAPI) networkCalls() int {
	return m.listCalls + m.createCalls + m.updateCalls + m.deleteCalls
}

// fixedSession is a SessionSource returning a constant session
type fixedSession struct {
	session models.Session
}

func (f *fixedSession) Current() models.Session {
	return f.session
}

var (
	anonymous = &fixedSession{}
	member    = &fixedSession{session: models.Session{Token: "member-token", Username: "alice", Role: models.RoleMember}}
	admin     = &fixedSession{session: models.Session{Token: "admin-token", Username: "robby", Role: models.RoleAdmin}}
)

func newTestController(productAPI ProductAPI, sessions SessionSource) *Controller {
	return NewController(productAPI, sessions, policy.Policy{}, zap.NewNop())
}

func TestController_ListReplacesCache(t *testing.T) {
	productAPI := &mockProductAPI{products: []models.Product{{ID: 1, Name: "Widget", Price: 9.99}}}
	controller := newTestController(productAPI, anonymous)

	require.NoError(t, controller.List(context.Background()))
	assert.Equal(t, []models.Product{{ID: 1, Name: "Widget", Price: 9.99}}, controller.Products())

	productAPI.products = []models.Product{{ID: 2, Name: "Gadget", Price: 5}}
	require.NoError(t, controller.List(context.Background()))
	assert.Equal(t, []models.Product{{ID: 2, Name: "Gadget", Price: 5}}, controller.Products())
}

func TestController_ListFailureKeepsCache(t *testing.T) {
	productAPI := &mockProductAPI{products: []models.Product{{ID: 1, Name: "Widget", Price: 9.99}}}
	controller := newTestController(productAPI, anonymous)
	require.NoError(t, controller.List(context.Background()))

	productAPI.listErr = &api.TransportError{Err: errors.New("connection refused")}
	err := controller.List(context.Background())

	require.Error(t, err)
	// Stale but available
	assert.Equal(t, []models.Product{{ID: 1, Name: "Widget", Price: 9.99}}, controller.Products())
}

func TestController_CreateUnauthorizedSendsNothing(t *testing.T) {
	productAPI := &mockProductAPI{}
	controller := newTestController(productAPI, anonymous)

	err := controller.Create(context.Background(), Draft{Name: "Widget", Price: "9.99"})

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Zero(t, productAPI.networkCalls(), "unauthorized mutations must not reach the network")
	assert.Equal(t, Draft{Name: "Widget", Price: "9.99"}, controller.CreateDraft())
}

func TestController_CreateValidation(t *testing.T) {
	tests := []struct {
		name  string
		draft Draft
		field string
	}{
		{name: "empty name", draft: Draft{Name: "  ", Price: "9.99"}, field: "name"},
		{name: "non-numeric price", draft: Draft{Name: "Widget", Price: "abc"}, field: "price"},
		{name: "empty price", draft: Draft{Name: "Widget", Price: ""}, field: "price"},
		{name: "negative price", draft: Draft{Name: "Widget", Price: "-1"}, field: "price"},
		{name: "NaN price", draft: Draft{Name: "Widget", Price: "NaN"}, field: "price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			productAPI := &mockProductAPI{}
			controller := newTestController(productAPI, member)

			err := controller.Create(context.Background(), tt.draft)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.field, validationErr.Field)
			assert.Zero(t, productAPI.networkCalls(), "validation failures must precede any network call")
			// Draft preserved for correction
			assert.Equal(t, tt.draft, controller.CreateDraft())
		})
	}
}

func TestController_CreateSuccessReconcilesAndClearsDraft(t *testing.T) {
	productAPI := &mockProductAPI{}
	controller := newTestController(productAPI, member)

	require.NoError(t, controller.Create(context.Background(), Draft{Name: "Widget", Price: "9.99"}))

	assert.Equal(t, 1, productAPI.createCalls)
	assert.Equal(t, 1, productAPI.listCalls, "a successful create reconciles with a fetch")
	assert.Equal(t, "member-token", productAPI.lastToken)
	assert.Empty(t, controller.CreateDraft())

	// The cache reflects the server list including the new record
	require.Len(t, controller.Products(), 1)
	assert.Equal(t, "Widget", controller.Products()[0].Name)
	assert.Equal(t, 9.99, controller.Products()[0].Price)
	assert.NotZero(t, controller.Products()[0].ID)
}

func TestController_CreateRemoteFailureKeepsDraft(t *testing.T) {
	productAPI := &mockProductAPI{createErr: &api.RemoteError{StatusCode: http.StatusConflict, Message: "duplicate"}}
	controller := newTestController(productAPI, member)

	err := controller.Create(context.Background(), Draft{Name: "Widget", Price: "9.99"})

	require.Error(t, err)
	assert.Equal(t, Draft{Name: "Widget", Price: "9.99"}, controller.CreateDraft())
	assert.Zero(t, productAPI.listCalls, "no reconcile after a failed create")
}

func TestController_CreateRequiresAdminPolicy(t *testing.T) {
	productAPI := &mockProductAPI{}
	controller := NewController(productAPI, member, policy.Policy{CreateRequiresAdmin: true}, zap.NewNop())

	err := controller.Create(context.Background(), Draft{Name: "Widget", Price: "9.99"})

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Zero(t, productAPI.networkCalls())
}

func TestController_UpdateRequiresAdmin(t *testing.T) {
	for _, sessions := range []SessionSource{anonymous, member} {
		productAPI := &mockProductAPI{}
		controller := newTestController(productAPI, sessions)

		err := controller.Update(context.Background(), 1, Draft{Name: "Widget", Price: "9.99"})

		assert.ErrorIs(t, err, ErrUnauthorized)
		assert.Zero(t, productAPI.networkCalls())
	}
}

func TestController_UpdateValidationKeepsEditDraft(t *testing.T) {
	productAPI := &mockProductAPI{}
	controller := newTestController(productAPI, admin)
	controller.BeginEdit(models.Product{ID: 5, Name: "Widget", Price: 9.99})

	err := controller.Update(context.Background(), 5, Draft{Name: "Widget", Price: "abc"})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Zero(t, productAPI.networkCalls())

	// The draft stays active, holding the invalid text for correction
	editing, ok := controller.Editing()
	require.True(t, ok)
	assert.Equal(t, 5, editing.ID)
	assert.Equal(t, "abc", editing.Draft.Price)
}

func TestController_UpdateSuccessDiscardsEditDraft(t *testing.T) {
	productAPI := &mockProductAPI{products: []models.Product{{ID: 5, Name: "Widget", Price: 9.99}}}
	controller := newTestController(productAPI, admin)
	require.NoError(t, controller.List(context.Background()))
	controller.BeginEdit(models.Product{ID: 5, Name: "Widget", Price: 9.99})

	require.NoError(t, controller.Update(context.Background(), 5, Draft{Name: "Widget Pro", Price: "19.99"}))

	assert.Equal(t, 1, productAPI.updateCalls)
	assert.Equal(t, "admin-token", productAPI.lastToken)
	_, ok := controller.Editing()
	assert.False(t, ok)
	assert.Equal(t, "Widget Pro", controller.Products()[0].Name)
}

func TestController_UpdateRemoteFailureKeepsEditDraft(t *testing.T) {
	productAPI := &mockProductAPI{updateErr: &api.RemoteError{StatusCode: http.StatusNotFound, Message: "product not found"}}
	controller := newTestController(productAPI, admin)
	controller.BeginEdit(models.Product{ID: 5, Name: "Widget", Price: 9.99})

	err := controller.Update(context.Background(), 5, Draft{Name: "Widget Pro", Price: "19.99"})

	require.Error(t, err)
	editing, ok := controller.Editing()
	require.True(t, ok)
	assert.Equal(t, "Widget Pro", editing.Draft.Name)
}

func TestController_DeleteRequiresAdmin(t *testing.T) {
	productAPI := &mockProductAPI{}
	controller := newTestController(productAPI, member)

	err := controller.Delete(context.Background(), 1)

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Zero(t, productAPI.networkCalls())
}

func TestController_DeleteSuccess(t *testing.T) {
	productAPI := &mockProductAPI{products: []models.Product{{ID: 1, Name: "Widget", Price: 9.99}}}
	controller := newTestController(productAPI, admin)
	require.NoError(t, controller.List(context.Background()))

	require.NoError(t, controller.Delete(context.Background(), 1))

	assert.Equal(t, 1, productAPI.deleteCalls)
	assert.Empty(t, controller.Products())
}

func TestController_DeleteAbsentProductIsSuccess(t *testing.T) {
	productAPI := &mockProductAPI{deleteErr: &api.RemoteError{StatusCode: http.StatusNotFound, Message: "product not found"}}
	controller := newTestController(productAPI, admin)

	err := controller.Delete(context.Background(), 42)

	// Idempotent intent: the resource is absent either way
	require.NoError(t, err)
	assert.Equal(t, 1, productAPI.listCalls, "reconcile still happens")
}

func TestController_DeleteRemoteFailure(t *testing.T) {
	productAPI := &mockProductAPI{deleteErr: &api.RemoteError{StatusCode: http.StatusInternalServerError}}
	controller := newTestController(productAPI, admin)

	err := controller.Delete(context.Background(), 1)

	require.Error(t, err)
	assert.Zero(t, productAPI.listCalls)
}

func TestController_BeginEditOverwritesPriorDraft(t *testing.T) {
	controller := newTestController(&mockProductAPI{}, admin)

	controller.BeginEdit(models.Product{ID: 1, Name: "Widget", Price: 9.99})
	controller.BeginEdit(models.Product{ID: 2, Name: "Gadget", Price: 5})

	editing, ok := controller.Editing()
	require.True(t, ok)
	assert.Equal(t, 2, editing.ID)
	assert.Equal(t, "Gadget", editing.Draft.Name)
	assert.Equal(t, "5", editing.Draft.Price)
}

func TestController_CancelEdit(t *testing.T) {
	controller := newTestController(&mockProductAPI{}, admin)
	controller.BeginEdit(models.Product{ID: 1, Name: "Widget", Price: 9.99})

	controller.CancelEdit()

	_, ok := controller.Editing()
	assert.False(t, ok)
}

func TestController_EditDraftDiscardedWhenProductVanishes(t *testing.T) {
	productAPI := &mockProductAPI{products: []models.Product{{ID: 5, Name: "Widget", Price: 9.99}}}
	controller := newTestController(productAPI, admin)
	require.NoError(t, controller.List(context.Background()))
	controller.BeginEdit(models.Product{ID: 5, Name: "Widget", Price: 9.99})

	// The product disappears server-side, e.g. deleted concurrently
	productAPI.products = nil
	require.NoError(t, controller.List(context.Background()))

	_, ok := controller.Editing()
	assert.False(t, ok, "a draft must not reference a vanished product")
}
