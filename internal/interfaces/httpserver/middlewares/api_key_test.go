package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"cg-server/internal/config"
	"cg-server/internal/domain/apikey"
)

type stubKeyRepo struct {
	keys []apikey.Key
}

func (s *stubKeyRepo) CreateRevokingActive(ctx context.Context, key *apikey.Key) (*apikey.Key, error) {
	s.keys = append(s.keys, *key)
	return key, nil
}
func (s *stubKeyRepo) FindActiveByPrefix(ctx context.Context, prefix string) ([]apikey.Key, error) {
	var out []apikey.Key
	for _, k := range s.keys {
		if k.IsActive() && k.KeyPrefix == prefix {
			out = append(out, k)
		}
	}
	return out, nil
}
func (s *stubKeyRepo) FindActiveByUser(ctx context.Context, userID uint) (*apikey.Key, error) {
	return nil, nil
}
func (s *stubKeyRepo) RevokeAllForUser(ctx context.Context, userID uint, revokedAt time.Time) error {
	return nil
}
func (s *stubKeyRepo) RevokeAllForCustomer(ctx context.Context, customerID string, revokedAt time.Time) error {
	return nil
}

func apiKeyTestRouter(t *testing.T, cfg *config.Config) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := &stubKeyRepo{}
	svc := apikey.NewService(repo, apikey.Config{HashRounds: bcrypt.MinCost}, zerolog.Nop())
	userID := uint(1)
	raw, _, err := svc.Issue(context.Background(), apikey.IssueParams{UserID: &userID, Plan: apikey.PlanPro})
	require.NoError(t, err)

	engine := gin.New()
	group := engine.Group("/v1", APIKeyAuthMiddleware(svc, cfg, zerolog.Nop()), RequireSubscriber())
	group.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"tenant": TenantFromContext(c),
			"plan":   c.GetString(ContextPlanKey),
		})
	})
	return engine, raw
}

func doGet(engine *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/v1/ping", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestAPIKeyAuth_ValidKey(t *testing.T) {
	engine, raw := apiKeyTestRouter(t, &config.Config{})

	rec := doGet(engine, "Bearer "+raw)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"tenant":"1","plan":"pro"}`, rec.Body.String())
}

func TestAPIKeyAuth_MissingHeader(t *testing.T) {
	engine, _ := apiKeyTestRouter(t, &config.Config{})

	rec := doGet(engine, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPIKeyAuth_InvalidKey(t *testing.T) {
	engine, _ := apiKeyTestRouter(t, &config.Config{})

	rec := doGet(engine, "Bearer cg_live_definitely_not_issued_token_aaaa")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid or inactive key")
}

func TestAPIKeyAuth_TestKeyIsDemoPlan(t *testing.T) {
	engine, _ := apiKeyTestRouter(t, &config.Config{TestAPIKey: "TEST_KEY"})

	// demo plan authenticates but is blocked by the subscriber gate
	rec := doGet(engine, "Bearer TEST_KEY")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "subscription required")
}

func TestRequireSubscriber_AllowsPaidPlans(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for _, plan := range []string{apikey.PlanPro, apikey.PlanTeam} {
		engine := gin.New()
		engine.GET("/gated", func(c *gin.Context) {
			c.Set(ContextPlanKey, plan)
		}, RequireSubscriber(), func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})

		req := httptest.NewRequest(http.MethodGet, "/gated", nil)
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code, "plan %s", plan)
	}
}
