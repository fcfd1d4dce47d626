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
)

// ScriptClient is the legacy path: a cross-origin post to a hosted script
// whose answer is never inspected. Kept for deployments without a relay.
type ScriptClient struct {
	url    string
	client *http.Client
}

func NewScriptClient(url string, client *http.Client) *ScriptClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &ScriptClient{url: url, client: client}
}

// Submit reports Unconfirmed whenever the request went out. Status code and
// body are discarded on purpose.
func (c *ScriptClient) Submit(ctx context.Context, p registration.Payload) (Result, error) {
	if c.url == "" {
		return Result{}, NewError(KindMissingEndpoint, errors.New("script url is empty"))
	}

	body, err := json.Marshal(p)
	if err != nil {
		return Result{}, NewError(KindInvalid, fmt.Errorf("json.Marshal failed: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return Result{}, NewError(KindMissingEndpoint, fmt.Errorf("http.NewRequest failed: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Result{}, NewError(KindTransport, err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	return Result{Status: Unconfirmed}, nil
}
