package crm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rapid-steno/crm-sync/models"
)

func testLead() *models.Lead {
	return &models.Lead{
		Email:            "a@x.com",
		Name:             "A",
		SubscriptionPlan: models.PlanTrial,
	}
}

func TestUpsertLead(t *testing.T) {
	var gotAuth, gotPath string
	var gotLead models.Lead
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotLead))
		json.NewEncoder(w).Encode(map[string]any{"success": true, "id": "lead-123"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret-token")
	id, err := client.UpsertLead(context.Background(), testLead())
	require.NoError(t, err)

	assert.Equal(t, "lead-123", id)
	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, "/api/leads", gotPath)
	assert.Equal(t, "a@x.com", gotLead.Email)
}

func TestUpsertLeadRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "boom"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "token")
	_, err := client.UpsertLead(context.Background(), testLead())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.False(t, models.IsConflict(err))
}

func TestInsertActivityConflict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/activities", r.URL.Path)
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"error":   "activity already exists",
			"code":    models.UniqueViolationCode,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "token")
	err := client.InsertActivity(context.Background(), &models.ActivityRecord{
		LeadID:    "lead-123",
		PageName:  "Dictations",
		TimeSpent: 10,
		VisitDate: time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC),
	})

	require.Error(t, err)
	assert.True(t, models.IsConflict(err), "duplicate key must classify as conflict, not failure")
}

func TestInsertActivity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	defer server.Close()

	client := NewClient(server.URL, "token")
	err := client.InsertActivity(context.Background(), &models.ActivityRecord{
		LeadID:   "lead-123",
		PageName: "Dictations",
	})
	assert.NoError(t, err)
}

func TestUpsertLeadUnreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "token")
	_, err := client.UpsertLead(context.Background(), testLead())
	assert.Error(t, err)
}
