package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"goflare.io/marketplace"
	"goflare.io/marketplace/models"
	"goflare.io/marketplace/models/enum"
)

func setupFileStorage(t *testing.T) {
	t.Setenv("CART_STORAGE_DRIVER", "file")
	t.Setenv("CART_FILE", filepath.Join(t.TempDir(), "cart.json"))
	t.Setenv("LOG_LEVEL", "error")
}

func runCart(t *testing.T, args ...string) []models.Product {
	t.Helper()

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), "", args, &out))

	var products []models.Product
	require.NoError(t, json.Unmarshal(out.Bytes(), &products))
	return products
}

func TestRun_PersistsAcrossInvocations(t *testing.T) {
	setupFileStorage(t)

	products := runCart(t, "add", "a", "Camiseta", "49.90", "https://example.com/a.png")
	require.Len(t, products, 1)
	assert.Equal(t, 1, products[0].Quantity)
	assert.Equal(t, "https://example.com/a.png", products[0].ImageURL)

	runCart(t, "add", "a", "Camiseta", "49.90")
	products = runCart(t, "inc", "a")
	assert.Equal(t, 3, products[0].Quantity)

	products = runCart(t, "list")
	require.Len(t, products, 1)
	assert.Equal(t, 3, products[0].Quantity)

	runCart(t, "dec", "a")
	runCart(t, "dec", "a")
	products = runCart(t, "dec", "a")
	assert.Empty(t, products)
}

func TestRun_Summary(t *testing.T) {
	setupFileStorage(t)
	runCart(t, "add", "a", "Camiseta", "10")
	runCart(t, "add", "a", "Camiseta", "10")

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), "", []string{"summary"}, &out))

	var summary models.Summary
	require.NoError(t, json.Unmarshal(out.Bytes(), &summary))
	assert.Equal(t, 2, summary.Items)
	assert.Equal(t, int64(2000), summary.AmountMinor)
}

func TestRun_Clear(t *testing.T) {
	setupFileStorage(t)
	runCart(t, "add", "a", "Camiseta", "10")

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), "", []string{"clear"}, &out))

	var products []models.Product
	require.NoError(t, json.Unmarshal(out.Bytes(), &products))
	assert.Empty(t, products, "clear prints the emptied cart")
	assert.Empty(t, runCart(t, "list"))
}

func TestRun_UsageErrors(t *testing.T) {
	setupFileStorage(t)

	for _, args := range [][]string{
		nil,
		{"bogus"},
		{"inc"},
		{"dec", "a", "b"},
		{"add", "a"},
	} {
		err := run(context.Background(), "", args, &bytes.Buffer{})
		assert.ErrorIs(t, err, errUsage, "args %v", args)
	}

	err := run(context.Background(), "", []string{"add", "a", "A", "cheap"}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "invalid price")
}

func TestRun_InvalidPrice(t *testing.T) {
	setupFileStorage(t)

	for _, price := range []string{"NaN", "Inf", "-Inf", "-3"} {
		err := run(context.Background(), "", []string{"add", "a", "A", price}, &bytes.Buffer{})
		assert.ErrorIs(t, err, marketplace.ErrInvalidPrice, "price %s", price)
	}
	assert.Empty(t, runCart(t, "list"))
}

// busConn hands published messages straight back to the subscriber.
type busConn struct {
	handler nats.MsgHandler
}

func (c *busConn) Publish(subj string, data []byte) error {
	if c.handler != nil {
		c.handler(&nats.Msg{Subject: subj, Data: data})
	}
	return nil
}

func (c *busConn) Subscribe(_ string, cb nats.MsgHandler) (*nats.Subscription, error) {
	c.handler = cb
	return &nats.Subscription{}, nil
}

func TestWatchEvents_LogsEveryEventType(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)
	em := marketplace.NewEventManager(&busConn{}, logger)

	require.NoError(t, watchEvents(em, logger))

	for _, eventType := range enum.CartEventTypes() {
		require.NoError(t, em.Publish(models.NewCartEvent(eventType, "a", 1, 1)))
	}

	entries := logs.FilterMessage("Cart event").All()
	require.Len(t, entries, len(enum.CartEventTypes()))
	assert.Equal(t, string(enum.CartEventTypeCleared), entries[len(entries)-1].ContextMap()["event_type"])
}
