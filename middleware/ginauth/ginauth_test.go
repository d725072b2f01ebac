package ginauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	campusAuth "github.com/MrEthical07/campusAuth"
	"github.com/MrEthical07/campusAuth/middleware"
)

type stubResolver map[string]*campusAuth.Principal

func (s stubResolver) ResolvePrincipal(_ context.Context, token string) (*campusAuth.Principal, error) {
	p, ok := s[token]
	if !ok {
		return nil, campusAuth.ErrMalformedToken
	}
	return p, nil
}

func (stubResolver) Logger() zerolog.Logger { return zerolog.Nop() }

func newRouter(calls *int) *gin.Engine {
	gin.SetMode(gin.TestMode)

	resolver := stubResolver{
		"edu-token": {Username: "erin", Role: campusAuth.RoleEducator, GrantedAuthorities: []string{"ROLE_EDUCATOR"}},
		"stu-token": {Username: "sam", Role: campusAuth.RoleStudent, GrantedAuthorities: []string{"ROLE_STUDENT"}},
	}
	table := middleware.NewRouteTable().
		Allow(http.MethodGet, "/api/educator/classes/:id", middleware.Only(campusAuth.RoleEducator)).
		Allow(http.MethodGet, "/api/me", middleware.AnyAuthenticated).
		Allow(http.MethodGet, "/healthz", middleware.Public)

	handler := Handle(func(c *gin.Context, p *campusAuth.Principal) {
		*calls++
		name := "anonymous"
		if p != nil {
			name = p.Username
		}
		c.JSON(http.StatusOK, gin.H{"user": name, "id": c.Param("id")})
	})

	r := gin.New()
	r.Use(Authenticate(resolver), Require(table))
	r.GET("/api/educator/classes/:id", handler)
	r.GET("/api/me", handler)
	r.GET("/healthz", handler)
	r.GET("/api/unlisted", handler)
	return r
}

func serve(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRequireUsesRoutePattern(t *testing.T) {
	calls := 0
	r := newRouter(&calls)

	if rec := serve(r, "/api/educator/classes/42", "edu-token"); rec.Code != http.StatusOK {
		t.Fatalf("educator: %d %s", rec.Code, rec.Body.String())
	}
	if rec := serve(r, "/api/educator/classes/42", "stu-token"); rec.Code != http.StatusForbidden {
		t.Fatalf("student on educator route: %d", rec.Code)
	}
	if rec := serve(r, "/api/educator/classes/42", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous on educator route: %d", rec.Code)
	}
	if calls != 1 {
		t.Fatalf("handler ran %d times, want 1", calls)
	}
}

func TestBadTokenIsAnonymous(t *testing.T) {
	calls := 0
	r := newRouter(&calls)

	if rec := serve(r, "/healthz", "garbage"); rec.Code != http.StatusOK {
		t.Fatalf("public route with bad token: %d", rec.Code)
	}
	if rec := serve(r, "/api/me", "garbage"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("me with bad token: %d", rec.Code)
	}
}

func TestUnlistedRouteForbidden(t *testing.T) {
	calls := 0
	r := newRouter(&calls)

	rec := serve(r, "/api/unlisted", "edu-token")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("unlisted route: %d", rec.Code)
	}
	if rec := serve(r, "/no/such/route", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown path should 404, got %d", rec.Code)
	}
	if calls != 0 {
		t.Fatal("handler must not run")
	}
}
