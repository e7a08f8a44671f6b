package handler_test

import (
	"context"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/lifelink/lifelink-web/internal/api"
	"github.com/lifelink/lifelink-web/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testSID = "test-session"

// fakeAPI implements the unexported apiCaller interface via method matching.
type fakeAPI struct {
	call func(ctx context.Context, endpoint string, opts api.CallOptions) (*api.Envelope, error)
}

func (f *fakeAPI) Call(ctx context.Context, endpoint string, opts api.CallOptions) (*api.Envelope, error) {
	return f.call(ctx, endpoint, opts)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func testStore() (*session.Store, context.Context) {
	store := session.NewStore(session.NewMemory(), testLogger())
	return store, session.WithID(context.Background(), testSID)
}

// withSession pins the fixed test session ID onto every request, standing
// in for the cookie middleware.
func withSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(session.WithID(c.Request.Context(), testSID))
		c.Next()
	}
}

func newEngine(register func(r *gin.Engine)) *gin.Engine {
	r := gin.New()
	r.Use(withSession())
	register(r)
	return r
}
