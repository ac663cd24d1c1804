package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"

	"goflare.io/marketplace/driver"
)

func TestMongo(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping mongo container test in short mode")
	}
	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := driver.ConnectMongo(ctx, uri, "testdb")
	require.NoError(t, err)

	s := NewMongo(db)
	t.Cleanup(func() { _ = s.Close(ctx) })

	exerciseStorage(t, s)
}
