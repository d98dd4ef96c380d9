package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/order-service/internal/domain"
)

func TestOrderServiceCreate(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewOrderService(repo, nil)
	customer := &domain.Principal{ID: 5, Role: domain.RoleCustomer}

	order, err := svc.Create(context.Background(), customer, 99.50)
	require.NoError(t, err)
	assert.Equal(t, int64(5), order.UserID)
	assert.Equal(t, domain.OrderStatusPending, order.Status)

	_, err = svc.Create(context.Background(), customer, 0)
	assertStatus(t, err, http.StatusBadRequest)

	_, err = svc.Create(context.Background(), customer, -1)
	assertStatus(t, err, http.StatusBadRequest)
}

func TestOrderServiceGetEnforcesOwnership(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewOrderService(repo, nil)
	owner := &domain.Principal{ID: 5, Role: domain.RoleCustomer}
	other := &domain.Principal{ID: 6, Role: domain.RoleCustomer}
	admin := &domain.Principal{ID: 1, Role: domain.RoleAdmin}

	order, err := svc.Create(context.Background(), owner, 10)
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), owner, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, err = svc.Get(context.Background(), other, order.ID)
	assertStatus(t, err, http.StatusForbidden)

	_, err = svc.Get(context.Background(), admin, order.ID)
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), admin, 999)
	assertStatus(t, err, http.StatusNotFound)
}

func TestOrderServiceListMine(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewOrderService(repo, nil)
	alice := &domain.Principal{ID: 5, Role: domain.RoleCustomer}
	bob := &domain.Principal{ID: 6, Role: domain.RoleCustomer}

	_, err := svc.Create(context.Background(), alice, 10)
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), bob, 20)
	require.NoError(t, err)

	orders, err := svc.ListMine(context.Background(), alice, 50, 0)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, alice.ID, orders[0].UserID)
}

func TestOrderServiceListAll(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewOrderService(repo, nil)
	customer := &domain.Principal{ID: 5, Role: domain.RoleCustomer}
	admin := &domain.Principal{ID: 1, Role: domain.RoleAdmin}

	_, err := svc.Create(context.Background(), customer, 10)
	require.NoError(t, err)

	_, err = svc.ListAll(context.Background(), customer, 50, 0)
	assertStatus(t, err, http.StatusForbidden)

	orders, err := svc.ListAll(context.Background(), admin, 50, 0)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestOrderServiceUpdateStatus(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := NewOrderService(repo, nil)
	customer := &domain.Principal{ID: 5, Role: domain.RoleCustomer}
	admin := &domain.Principal{ID: 1, Role: domain.RoleAdmin}

	order, err := svc.Create(context.Background(), customer, 10)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), customer, order.ID, domain.OrderStatusPaid)
	assertStatus(t, err, http.StatusForbidden)

	_, err = svc.UpdateStatus(context.Background(), admin, order.ID, domain.OrderStatus("lost"))
	assertStatus(t, err, http.StatusBadRequest)

	updated, err := svc.UpdateStatus(context.Background(), admin, order.ID, domain.OrderStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPaid, updated.Status)

	_, err = svc.UpdateStatus(context.Background(), admin, 999, domain.OrderStatusPaid)
	assertStatus(t, err, http.StatusNotFound)
}
