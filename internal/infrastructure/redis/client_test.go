package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientConnects(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	client, err := NewClient(ctx, "redis://"+mr.Addr()+"/0", time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Set(ctx, "ledgerdash:probe", "1", 0).Err())
	assert.True(t, mr.Exists("ledgerdash:probe"))
}

func TestNewClientErrors(t *testing.T) {
	down := miniredis.RunT(t)
	downURL := "redis://" + down.Addr()
	down.Close()

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name    string
		ctx     context.Context
		url     string
		wantMsg string
	}{
		{name: "malformed url", ctx: context.Background(), url: "://bad-url", wantMsg: "parse redis URL"},
		{name: "server down", ctx: context.Background(), url: downURL, wantMsg: "ping redis"},
		{name: "context cancelled", ctx: cancelled, url: downURL, wantMsg: "ping redis"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.ctx, tt.url, 200*time.Millisecond)
			require.Error(t, err)
			assert.Nil(t, client)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
