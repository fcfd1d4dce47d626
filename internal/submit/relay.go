package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/Geniuskaa/hackathon_registration/internal/registration"
	"io"
	"net/http"
	"strings"
)

const SHEETS_PATH = "/sheets"

// relayResponse covers both the success and the error body.
type relayResponse struct {
	OK           bool   `json:"ok"`
	Appended     int    `json:"appended"`
	SubmissionID string `json:"submissionId"`
	Error        string `json:"error"`
	Code         string `json:"code"`
}

type RelayClient struct {
	baseURL string
	client  *http.Client
}

func NewRelayClient(baseURL string, client *http.Client) *RelayClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &RelayClient{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (c *RelayClient) Submit(ctx context.Context, p registration.Payload) (Result, error) {
	if c.baseURL == "" {
		return Result{}, NewError(KindMissingEndpoint, errors.New("relay url is empty"))
	}

	body, err := json.Marshal(p)
	if err != nil {
		return Result{}, NewError(KindInvalid, fmt.Errorf("json.Marshal failed: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+SHEETS_PATH, bytes.NewReader(body))
	if err != nil {
		return Result{}, NewError(KindMissingEndpoint, fmt.Errorf("http.NewRequest failed: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Result{}, NewError(KindTransport, err)
	}
	defer resp.Body.Close()

	var out relayResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil && resp.StatusCode == http.StatusOK {
		return Result{}, NewError(KindUpstream, fmt.Errorf("decoding relay response failed: %w", err))
	}

	if resp.StatusCode == http.StatusOK && out.OK {
		return Result{Status: Confirmed, Appended: out.Appended, SubmissionID: out.SubmissionID}, nil
	}

	cause := fmt.Errorf("relay responded %d: %s", resp.StatusCode, out.Error)

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return Result{}, NewError(KindInvalid, cause)
	case out.Code == KindNotConfigured.String():
		return Result{}, NewError(KindNotConfigured, cause)
	case out.Code == KindAuth.String():
		return Result{}, NewError(KindAuth, cause)
	default:
		return Result{}, NewError(KindUpstream, cause)
	}
}
