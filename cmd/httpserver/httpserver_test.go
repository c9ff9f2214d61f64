package httpserver

import (
	"bytes"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/go-petr/wallet-ledger/pkg/configpkg"
)

func TestNewRecoversPanicsOnce(t *testing.T) {
	config, err := configpkg.Load(t.TempDir())
	require.NoError(t, err)

	// sql.Open does not connect, the routes under test never touch the database.
	conn, err := sql.Open("postgres", "postgres://localhost:1/none?sslmode=disable")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	var buf bytes.Buffer

	server, err := New(conn, zerolog.New(&buf), config)
	require.NoError(t, err)
	t.Cleanup(func() { server.Close() })

	// Only the request logger sits in front of the routes.
	require.Len(t, server.Engine.Handlers, 1)

	server.Engine.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Contains(t, buf.String(), "panic message: boom")
}
