package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Client talks to the provider's REST API with a bearer API key. Session
// tokens are HS256 JWTs verified locally with the shared signing secret,
// so token verification never needs a network round trip.
type Client struct {
	baseURL       string
	apiKey        string
	signingSecret string
	httpClient    *http.Client
}

func NewClient(baseURL, apiKey, signingSecret string) *Client {
	return &Client{
		baseURL:       baseURL,
		apiKey:        apiKey,
		signingSecret: signingSecret,
		httpClient:    &http.Client{Timeout: 10 * time.Second},
	}
}

type accountResponse struct {
	ID string `json:"id"`
}

type signInResponse struct {
	Status           string `json:"status"`
	CreatedSessionID string `json:"created_session_id"`
	SessionToken     string `json:"session_token"`
}

func (c *Client) CreateAccount(ctx context.Context, identifier, password string) (string, error) {
	body := map[string]string{
		"identifier": identifier,
		"password":   password,
	}

	var resp accountResponse
	if err := c.do(ctx, http.MethodPost, "/accounts", body, &resp); err != nil {
		return "", fmt.Errorf("create account: %w", err)
	}
	if resp.ID == "" {
		return "", errors.New("create account: provider returned no account id")
	}
	return resp.ID, nil
}

func (c *Client) SignIn(ctx context.Context, identifier, password string) (*SignInResult, error) {
	body := map[string]string{
		"identifier": identifier,
		"password":   password,
	}

	var resp signInResponse
	if err := c.do(ctx, http.MethodPost, "/sign_ins", body, &resp); err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}

	return &SignInResult{
		Status:           SignInStatus(resp.Status),
		CreatedSessionID: resp.CreatedSessionID,
		SessionToken:     resp.SessionToken,
	}, nil
}

func (c *Client) DeleteAccount(ctx context.Context, accountID string) error {
	if err := c.do(ctx, http.MethodDelete, "/accounts/"+accountID, nil, nil); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}

func (c *Client) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(c.signingSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	accountID, _ := mapClaims["sub"].(string)
	if accountID == "" {
		return nil, ErrInvalidToken
	}
	sessionID, _ := mapClaims["sid"].(string)

	claims := &Claims{AccountID: accountID, SessionID: sessionID}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	return claims, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusUnprocessableEntity:
		return ErrInvalidCredentials
	case resp.StatusCode >= 400:
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("provider returned %d: %s", resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
