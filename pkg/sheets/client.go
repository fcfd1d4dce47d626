package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	SCOPE             = "https://www.googleapis.com/auth/spreadsheets"
	GRANT_TYPE        = "urn:ietf:params:oauth:grant-type:jwt-bearer"
	DEFAULT_TOKEN_URL = "https://oauth2.googleapis.com/token"
	DEFAULT_ENDPOINT  = "https://sheets.googleapis.com/"
	DEFAULT_SHEET     = "Sheet1"

	VALUE_INPUT_OPTION = "USER_ENTERED"
	ASSERTION_TTL      = time.Hour
)

var (
	ErrNotConfigured = errors.New("spreadsheet credentials are not configured")
	ErrAuth          = errors.New("spreadsheet authentication failed")
	ErrUpstream      = errors.New("spreadsheet append failed")
)

type Config struct {
	SpreadsheetID string
	SheetName     string
	ClientEmail   string
	PrivateKey    string
	TokenURL      string
	Endpoint      string
}

// Client appends rows using a service account. It keeps no token between
// calls: every Append authenticates again.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *zap.Logger
	now        func() time.Time
}

func NewClient(cfg Config, httpClient *http.Client, logger *zap.Logger) *Client {
	if cfg.SheetName == "" {
		cfg.SheetName = DEFAULT_SHEET
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = DEFAULT_TOKEN_URL
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DEFAULT_ENDPOINT
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{cfg: cfg, httpClient: httpClient, logger: logger, now: time.Now}
}

// Ready fails when any of the three credential values is absent.
func (c *Client) Ready() error {
	var missing []string
	if c.cfg.SpreadsheetID == "" {
		missing = append(missing, "spreadsheet id")
	}
	if c.cfg.ClientEmail == "" {
		missing = append(missing, "client email")
	}
	if c.cfg.PrivateKey == "" {
		missing = append(missing, "private key")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrNotConfigured, strings.Join(missing, ", "))
	}
	return nil
}

func (c *Client) Range() string {
	return fmt.Sprintf("%s!A:Z", c.cfg.SheetName)
}

type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	TokenType        string `json:"token_type"`
	ExpiresIn        int64  `json:"expires_in"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// Authorize exchanges a signed service account assertion for a bearer token.
func (c *Client) Authorize(ctx context.Context) (*oauth2.Token, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "sheets.Authorize")
	defer span.End()

	tok, err := c.authorize(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return tok, err
}

func (c *Client) authorize(ctx context.Context) (*oauth2.Token, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(c.cfg.PrivateKey))
	if err != nil {
		return nil, fmt.Errorf("%w: parsing private key: %v", ErrAuth, err)
	}

	now := c.now()
	assertion, err := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"iss":   c.cfg.ClientEmail,
		"scope": SCOPE,
		"aud":   c.cfg.TokenURL,
		"iat":   now.Unix(),
		"exp":   now.Add(ASSERTION_TTL).Unix(),
	}).SignedString(key)
	if err != nil {
		return nil, fmt.Errorf("%w: signing assertion: %v", ErrAuth, err)
	}

	form := url.Values{"grant_type": {GRANT_TYPE}, "assertion": {assertion}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuth, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuth, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: reading token response: %v", ErrAuth, err)
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil && resp.StatusCode == http.StatusOK {
		return nil, fmt.Errorf("%w: decoding token response: %v", ErrAuth, err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := tr.ErrorDescription
		if msg == "" {
			msg = tr.Error
		}
		if msg == "" {
			msg = strings.TrimSpace(string(body))
		}
		return nil, fmt.Errorf("%w: token endpoint responded %d: %s", ErrAuth, resp.StatusCode, msg)
	}
	if tr.AccessToken == "" {
		return nil, fmt.Errorf("%w: token endpoint returned no access token", ErrAuth)
	}

	tok := &oauth2.Token{AccessToken: tr.AccessToken, TokenType: tr.TokenType}
	if tr.ExpiresIn > 0 {
		tok.Expiry = now.Add(time.Duration(tr.ExpiresIn) * time.Second)
	}
	return tok, nil
}

// Append authenticates and appends rows after the existing sheet content.
// Identical rows sent twice are stored twice.
func (c *Client) Append(ctx context.Context, submissionID string, rows [][]interface{}) (int, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "sheets.Append")
	defer span.End()
	span.SetAttributes(attribute.String("submission.id", submissionID), attribute.Int("rows", len(rows)))

	if err := c.Ready(); err != nil {
		return 0, err
	}

	tok, err := c.Authorize(ctx)
	if err != nil {
		return 0, err
	}

	authCtx := context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	svc, err := gsheets.NewService(ctx,
		option.WithHTTPClient(oauth2.NewClient(authCtx, oauth2.StaticTokenSource(tok))),
		option.WithEndpoint(c.cfg.Endpoint),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: creating sheets service: %v", ErrUpstream, err)
	}

	_, err = svc.Spreadsheets.Values.Append(c.cfg.SpreadsheetID, c.Range(), &gsheets.ValueRange{Values: rows}).
		ValueInputOption(VALUE_INPUT_OPTION).
		Context(ctx).
		Do()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	c.logger.Debug("rows appended to spreadsheet",
		zap.String("submission_id", submissionID),
		zap.String("range", c.Range()),
		zap.Int("rows", len(rows)))

	return len(rows), nil
}

const tracerName = "github.com/Geniuskaa/hackathon_registration/pkg/sheets"
