package server

import (
	"bytes"
	"context"
	"log/slog"
	"net"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/magabrotheeeer/stadium-auth/internal/grpc/authrpc"
	"github.com/magabrotheeeer/stadium-auth/internal/models"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestServerOptions_RecoversAndLogs(t *testing.T) {
	var logs syncBuffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	svc := new(MockAuthService)
	svc.On("Authenticate", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		panic("boom")
	}).Return(models.AuthResult{}, nil)

	lis := bufconn.Listen(1024 * 1024)
	srv := grpc.NewServer(ServerOptions(logger)...)
	authrpc.RegisterAuthServiceServer(srv, NewAuthServer(svc, new(MockPublisher), logger))
	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	client := authrpc.NewAuthServiceClient(conn)
	_, err = client.Authenticate(context.Background(), &authrpc.AuthenticateRequest{
		Identifier: "admin@club.org",
		Pin:        "8642",
	})
	require.Error(t, err)
	assert.Equal(t, codes.Internal, status.Code(err))

	out := logs.String()
	assert.Contains(t, out, "panic in grpc handler")
	assert.Contains(t, out, "finished call")
	assert.Contains(t, out, "Authenticate")
	assert.NotContains(t, out, "8642")
}
