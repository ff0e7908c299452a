package redis

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	up := miniredis.RunT(t)
	down := miniredis.RunT(t)
	downAddr := down.Addr()
	down.Close()

	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "reachable server", url: "redis://" + up.Addr()},
		{name: "malformed url", url: "://bad-url", wantErr: true},
		{name: "unsupported scheme", url: "http://" + up.Addr(), wantErr: true},
		{name: "server down", url: "redis://" + downAddr, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(context.Background(), tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, client)
				return
			}

			require.NoError(t, err)
			t.Cleanup(func() { _ = client.Close() })
			assert.NoError(t, client.Ping(context.Background()).Err())
		})
	}
}

func TestNewClientUsesDatabaseFromURL(t *testing.T) {
	s := miniredis.RunT(t)
	ctx := context.Background()

	client, err := NewClient(ctx, "redis://"+s.Addr()+"/2")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Set(ctx, "gospend:expenses", "[]", 0).Err())

	got, err := s.DB(2).Get("gospend:expenses")
	require.NoError(t, err)
	assert.Equal(t, "[]", got)
	assert.False(t, s.DB(0).Exists("gospend:expenses"))
}
