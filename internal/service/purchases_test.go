package service

import (
	"testing"

	"marketplace-api/pkg/apierror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurchaseFlow(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "alice", "alice@example.com")
	env.signup(t, "bob", "bob@example.com")

	items := NewItemService(env.store, env.logger)
	purchases := NewPurchaseService(env.store, env.logger)

	item, err := items.Create("Widget", 5, 10.0, nil, "alice", "")
	require.NoError(t, err)
	assert.Equal(t, 1, item.ID)
	assert.Equal(t, 5, item.Quantity)

	t.Run("insufficient stock leaves quantity unchanged", func(t *testing.T) {
		_, err := purchases.Purchase(1, 6, "bob", "bob", "")
		require.Error(t, err)
		apiErr := &apierror.Error{}
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 400, apiErr.StatusCode)
		assert.Equal(t, "Not enough stock", apiErr.Detail)

		stored := env.store.Items.Load()
		require.Len(t, stored, 1)
		assert.Equal(t, 5, stored[0].Quantity)

		entry := env.lastActivity(t)
		assert.Equal(t, "purchase_failed_insufficient_stock", entry.Action)
		assert.EqualValues(t, 5, entry.Detail["available_quantity"])
		assert.Equal(t, "bob", entry.Username)
	})

	t.Run("unknown item", func(t *testing.T) {
		_, err := purchases.Purchase(42, 1, "bob", "bob", "")
		apiErr := &apierror.Error{}
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 404, apiErr.StatusCode)
		assert.Equal(t, "Item not found", apiErr.Detail)

		assert.Equal(t, "purchase_failed_item_not_found", env.lastActivity(t).Action)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := purchases.Purchase(1, 1, "mallory", "mallory", "")
		apiErr := &apierror.Error{}
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 404, apiErr.StatusCode)
		assert.Equal(t, "User not found", apiErr.Detail)
	})

	t.Run("successful purchase decrements stock exactly", func(t *testing.T) {
		purchase, err := purchases.Purchase(1, 5, "bob", "bob", "")
		require.NoError(t, err)
		assert.Equal(t, 1, purchase.ID)
		assert.Equal(t, 5, purchase.Quantity)
		assert.Equal(t, 50.0, purchase.TotalPrice)
		require.NotNil(t, purchase.UserID)

		stored := env.store.Items.Load()
		require.Len(t, stored, 1)
		assert.Equal(t, 0, stored[0].Quantity)

		assert.Equal(t, "purchase_item", env.lastActivity(t).Action)
	})

	t.Run("zero stock rejects further purchases", func(t *testing.T) {
		_, err := purchases.Purchase(1, 1, "bob", "bob", "")
		apiErr := &apierror.Error{}
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 400, apiErr.StatusCode)
	})
}

func TestPurchaseTotalPriceRounding(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "alice", "alice@example.com")

	items := NewItemService(env.store, env.logger)
	purchases := NewPurchaseService(env.store, env.logger)

	_, err := items.Create("Odd", 10, 3.333, nil, "alice", "")
	require.NoError(t, err)

	purchase, err := purchases.Purchase(1, 3, "alice", "alice", "")
	require.NoError(t, err)
	// 3.333 * 3 = 9.999 -> 10.00
	assert.Equal(t, 10.0, purchase.TotalPrice)
}

func TestListPurchases(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "alice", "alice@example.com")
	env.signup(t, "bob", "bob@example.com")

	items := NewItemService(env.store, env.logger)
	purchases := NewPurchaseService(env.store, env.logger)

	_, err := items.Create("Widget", 10, 2.5, nil, "alice", "")
	require.NoError(t, err)
	_, err = purchases.Purchase(1, 2, "alice", "alice", "")
	require.NoError(t, err)
	_, err = purchases.Purchase(1, 3, "bob", "bob", "")
	require.NoError(t, err)

	t.Run("unfiltered returns everything", func(t *testing.T) {
		all, err := purchases.List("", "")
		require.NoError(t, err)
		assert.Len(t, all, 2)
		assert.Equal(t, "list_purchases", env.lastActivity(t).Action)
	})

	t.Run("filtered by user", func(t *testing.T) {
		mine, err := purchases.List("bob", "")
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, "bob", mine[0].Buyer)
		assert.Equal(t, "list_purchases_user", env.lastActivity(t).Action)
	})

	t.Run("unknown user is 404", func(t *testing.T) {
		_, err := purchases.List("nobody", "")
		apiErr := &apierror.Error{}
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 404, apiErr.StatusCode)
	})
}
