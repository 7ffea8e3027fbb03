// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/workshop-qa/internal/utils"
	"github.com/MKhiriev/workshop-qa/models"
)

func TestCheckHash(t *testing.T) {
	const key = "shared-secret"
	body := `["What is Go?"]`

	tests := []struct {
		name       string
		hash       string
		wantStatus int
	}{
		{name: "matching hash", hash: utils.HashString(body, key), wantStatus: http.StatusOK},
		{name: "missing hash", hash: "", wantStatus: http.StatusBadRequest},
		{name: "hash over other body", hash: utils.HashString(`[]`, key), wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newTestConfig()
			cfg.App.HashKey = key
			h, mocks := newMockedHandler(t, cfg)
			mocks.auth.EXPECT().Enabled().Return(false)
			if tt.wantStatus == http.StatusOK {
				mocks.kv.EXPECT().Set(gomock.Any(), models.QuestionsKey, json.RawMessage(body)).
					Return(models.Entry{Key: models.QuestionsKey, Version: 1}, nil)
			}

			req := httptest.NewRequest(http.MethodPut, "/api/kv/workshop-questions", strings.NewReader(body))
			if tt.hash != "" {
				req.Header.Set(utils.HashHeader, tt.hash)
			}
			rec := httptest.NewRecorder()
			h.Init().ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestCheckHash_DisabledWithoutKey(t *testing.T) {
	h, _ := newMockedHandler(t, newTestConfig())

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`1`))
	req.Header.Set(utils.HashHeader, "garbage")
	h.checkHash(next).ServeHTTP(httptest.NewRecorder(), req)

	assert.True(t, called)
}
