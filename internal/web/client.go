package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jmylchreest/toastd/internal/toast"
)

// Client calls the JSON API of a running "toastd serve".
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for addr, either host:port or a full URL.
func NewClient(addr string) *Client {
	base := strings.TrimRight(addr, "/")
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// List returns the current toasts, oldest first.
func (c *Client) List(ctx context.Context) ([]ToastResponse, error) {
	var out []ToastResponse
	if err := c.do(ctx, http.MethodGet, "/toasts", nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Show raises a toast and returns its handle.
func (c *Client) Show(ctx context.Context, req ShowRequest) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/toasts", req, http.StatusCreated, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// Dismiss dismisses one toast.
func (c *Client) Dismiss(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/toasts/"+id+"/dismiss", nil, http.StatusNoContent, nil)
}

// DismissAll dismisses every active toast and returns how many there were.
func (c *Client) DismissAll(ctx context.Context) (int, error) {
	var out struct {
		Dismissed int `json:"dismissed"`
	}
	if err := c.do(ctx, http.MethodDelete, "/toasts", nil, http.StatusOK, &out); err != nil {
		return 0, err
	}
	return out.Dismissed, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, want int, out any) error {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		r = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s", method, path, apiErr.Error)
		}
		return fmt.Errorf("%s %s: unexpected status %s", method, path, resp.Status)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Entry converts the response back into a toast.Entry.
func (r ToastResponse) Entry() toast.Entry {
	state, _ := toast.ParseState(r.State)
	return toast.Entry{
		Handle:    toast.Handle(r.ID),
		Title:     r.Title,
		Message:   r.Message,
		Severity:  toast.ParseSeverity(r.Severity),
		State:     state,
		Duration:  time.Duration(r.DurationMs) * time.Millisecond,
		CreatedAt: r.CreatedAt,
	}
}

// Entries converts a list response.
func Entries(list []ToastResponse) []toast.Entry {
	out := make([]toast.Entry, len(list))
	for i, r := range list {
		out[i] = r.Entry()
	}
	return out
}
