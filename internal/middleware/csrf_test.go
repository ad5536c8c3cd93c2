// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

var testAuthKey = []byte("12345678901234567890123456789012") // 32-byte key

func TestDefaultCSRFConfig_Development(t *testing.T) {
	cfg := DefaultCSRFConfig(testAuthKey, true)

	if len(cfg.AuthKey) != 32 {
		t.Errorf("expected 32-byte AuthKey, got %d bytes", len(cfg.AuthKey))
	}
	if len(cfg.TrustedOrigins) != 2 {
		t.Fatalf("expected 2 TrustedOrigins in dev mode, got %d", len(cfg.TrustedOrigins))
	}
	for _, origin := range cfg.TrustedOrigins {
		// The csrf library expects host:port, not full URLs.
		if strings.HasPrefix(origin, "http") {
			t.Errorf("TrustedOrigin should be host:port, not full URL: %s", origin)
		}
	}
}

func TestDefaultCSRFConfig_Production(t *testing.T) {
	cfg := DefaultCSRFConfig(testAuthKey, false)

	if len(cfg.TrustedOrigins) != 0 {
		t.Errorf("expected no TrustedOrigins in production, got %v", cfg.TrustedOrigins)
	}
}

func TestCSRF(t *testing.T) {
	handler := CSRF(DefaultCSRFConfig(testAuthKey, false))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name     string
		method   string
		headers  map[string]string
		wantCode int
	}{
		{name: "safe method", method: http.MethodGet, headers: map[string]string{"Sec-Fetch-Site": "cross-site"}, wantCode: http.StatusOK},
		{name: "same origin post", method: http.MethodPost, headers: map[string]string{"Sec-Fetch-Site": "same-origin"}, wantCode: http.StatusOK},
		{name: "non-browser post", method: http.MethodPost, wantCode: http.StatusOK},
		{name: "cross-site post", method: http.MethodPost, headers: map[string]string{"Sec-Fetch-Site": "cross-site"}, wantCode: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/projects", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.wantCode == http.StatusForbidden {
				var body APIError
				if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
					t.Fatalf("decoding error body: %v", err)
				}
				if body.Error.Code != "forbidden" {
					t.Errorf("error code = %q, want forbidden", body.Error.Code)
				}
			}
		})
	}
}
