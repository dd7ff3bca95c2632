package dto

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func bindGenerateRequest(t *testing.T, body string) error {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if err := RegisterValidations(); err != nil {
		t.Fatalf("RegisterValidations failed: %v", err)
	}

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/v1/generate/content", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var req GenerateRequest
	return c.ShouldBindJSON(&req)
}

func TestGenerateModeBinding(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"no options", `{"prompt":"hi"}`, false},
		{"empty mode", `{"prompt":"hi","options":{"mode":""}}`, false},
		{"replacer", `{"prompt":"hi","options":{"mode":"replacer"}}`, false},
		{"blog uppercased", `{"prompt":"hi","options":{"mode":"Blog"}}`, false},
		{"elementor", `{"prompt":"hi","options":{"mode":"elementor"}}`, false},
		{"unknown mode", `{"prompt":"hi","options":{"mode":"poem"}}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := bindGenerateRequest(t, tt.body)
			if tt.wantErr && err == nil {
				t.Error("expected binding error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected binding error: %v", err)
			}
		})
	}
}
