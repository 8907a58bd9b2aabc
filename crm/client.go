// Package crm is the HTTP client for the CRM ingest API. It speaks the same
// wire contract the dashboard's own importers use: one POST per record, upsert
// decided server-side by email, duplicates reported with the Postgres unique
// violation code.
package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"rapid-steno/crm-sync/models"
)

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// apiResponse is the ingest API's envelope for both endpoints.
type apiResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// UpsertLead posts one lead and returns the CRM id of the created or updated
// record.
func (c *Client) UpsertLead(ctx context.Context, lead *models.Lead) (string, error) {
	resp, err := c.post(ctx, "/api/leads", lead)
	if err != nil {
		return "", err
	}
	if resp.Code == models.UniqueViolationCode {
		return "", &models.ConflictError{Resource: "lead", Key: lead.Email}
	}
	if !resp.Success {
		return "", fmt.Errorf("CRM rejected lead %s: %s", lead.Email, resp.Error)
	}
	return resp.ID, nil
}

// InsertActivity posts one activity row. A duplicate of the natural key comes
// back as a ConflictError so the caller can classify it as already synced.
func (c *Client) InsertActivity(ctx context.Context, rec *models.ActivityRecord) error {
	resp, err := c.post(ctx, "/api/activities", rec)
	if err != nil {
		return err
	}
	if resp.Code == models.UniqueViolationCode {
		return &models.ConflictError{
			Resource: "activity",
			Key:      fmt.Sprintf("%s/%s", rec.PageName, rec.VisitDate.Format("2006-01-02")),
		}
	}
	if !resp.Success {
		return fmt.Errorf("CRM rejected activity %s: %s", rec.PageName, resp.Error)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, payload any) (*apiResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("error marshaling request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("error building request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	httpResp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error calling CRM API: %v", err)
	}
	defer httpResp.Body.Close()

	var resp apiResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("error decoding CRM response (status %d): %v", httpResp.StatusCode, err)
	}

	// Conflicts come back 409 with the code set; let the caller see the
	// envelope rather than turning the status into an opaque error.
	if httpResp.StatusCode >= http.StatusBadRequest && resp.Code != models.UniqueViolationCode {
		return nil, fmt.Errorf("CRM API returned status %d: %s", httpResp.StatusCode, resp.Error)
	}

	return &resp, nil
}
