// Package client is the Go consumer of the bookstock API, mirroring the
// data behavior of the dashboard frontend: an explicit session from login,
// a local cache of the full product list for search and filtering, and
// mutations that trigger a full refetch instead of patching locally.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	fluent "github.com/nkhandel/bookstock/pkg/http"
)

// Product is the wire shape of one inventory record.
type Product struct {
	ID          uint    `json:"ID"`
	Barcode     string  `json:"barcode"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Category    string  `json:"category"`
}

// ProductInput is the body sent on create and update. All fields are sent
// every time; updates are full-field replacement.
type ProductInput struct {
	Barcode     string  `json:"barcode"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Category    string  `json:"category"`
}

// Identity is the authenticated caller as reported by GET /api/user.
type Identity struct {
	ID    uint   `json:"ID"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session holds the bearer token for one authenticated user. It is created
// by Login and passed explicitly into every call; there is no package-level
// token state.
type Session struct {
	token string
}

// Token returns the opaque bearer token.
func (s *Session) Token() string {
	if s == nil {
		return ""
	}
	return s.token
}

// Valid reports whether the session still carries a token.
func (s *Session) Valid() bool { return s.Token() != "" }

// APIError is the server's error payload, surfaced verbatim.
type APIError struct {
	Status  int                 `json:"status"`
	Message string              `json:"message"`
	Fields  map[string][]string `json:"errors"`
}

func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("api: %d %s", e.Status, e.Message)
	}

	var msgs []string
	for _, field := range sortedFields(e.Fields) {
		msgs = append(msgs, e.Fields[field]...)
	}
	return fmt.Sprintf("api: %d %s: %s", e.Status, e.Message, strings.Join(msgs, ", "))
}

// sortedFields fixes the field order so error text is stable across calls.
func sortedFields(fields map[string][]string) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// envelope is the server's standard JSON wrapper.
type envelope struct {
	Status  int                 `json:"status"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data"`
	Errors  map[string][]string `json:"errors"`
}

// Client talks to one bookstock server.
type Client struct {
	baseURL string
}

// New creates a client for the server at baseURL, e.g.
// "http://127.0.0.1:8080".
func New(baseURL string) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/")}
}

// Login exchanges credentials for a session. On invalid credentials the
// server's error payload is returned and no session is created.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	resp, err := fluent.Post(c.baseURL+"/api/login").
		WithContext(ctx).
		Body(map[string]string{"email": email, "password": password}).
		Send()
	if err != nil {
		return nil, err
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := decode(resp, &out); err != nil {
		return nil, err
	}

	return &Session{token: out.Token}, nil
}

// Logout tears the session down. The server keeps no session state, so
// this only clears the client-held token.
func (c *Client) Logout(s *Session) {
	if s != nil {
		s.token = ""
	}
}

// User returns the identity behind the session.
func (c *Client) User(ctx context.Context, s *Session) (Identity, error) {
	var out Identity
	resp, err := fluent.Get(c.baseURL+"/api/user").
		WithContext(ctx).
		Bearer(s.Token()).
		Send()
	if err != nil {
		return out, err
	}
	return out, decode(resp, &out)
}

// Products fetches the entire product list.
func (c *Client) Products(ctx context.Context, s *Session) ([]Product, error) {
	resp, err := fluent.Get(c.baseURL+"/api/products").
		WithContext(ctx).
		Bearer(s.Token()).
		Send()
	if err != nil {
		return nil, err
	}

	var out []Product
	return out, decode(resp, &out)
}

// CreateProduct creates a product and returns the stored record.
func (c *Client) CreateProduct(ctx context.Context, s *Session, in ProductInput) (Product, error) {
	var out Product
	resp, err := fluent.Post(c.baseURL+"/api/products").
		WithContext(ctx).
		Bearer(s.Token()).
		Body(in).
		Send()
	if err != nil {
		return out, err
	}
	return out, decode(resp, &out)
}

// UpdateProduct replaces all fields of the product at barcode.
func (c *Client) UpdateProduct(ctx context.Context, s *Session, barcode string, in ProductInput) (Product, error) {
	var out Product
	resp, err := fluent.Put(c.baseURL+"/api/products/"+barcode).
		WithContext(ctx).
		Bearer(s.Token()).
		Body(in).
		Send()
	if err != nil {
		return out, err
	}
	return out, decode(resp, &out)
}

// DeleteProduct removes the product at barcode.
func (c *Client) DeleteProduct(ctx context.Context, s *Session, barcode string) error {
	resp, err := fluent.Delete(c.baseURL+"/api/products/"+barcode).
		WithContext(ctx).
		Bearer(s.Token()).
		Send()
	if err != nil {
		return err
	}
	return decode(resp, nil)
}

// decode unwraps the envelope into dest, converting non-2xx responses into
// *APIError with the server's payload intact.
func decode(resp *fluent.Response, dest interface{}) error {
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var env envelope
	if err := resp.JSON(&env); err != nil {
		if resp.OK() {
			return err
		}
		// Error response with an unparseable body; keep the status.
		return &APIError{Status: resp.StatusCode, Message: resp.Text()}
	}

	if !resp.OK() {
		return &APIError{Status: resp.StatusCode, Message: env.Message, Fields: env.Errors}
	}

	if dest == nil || len(env.Data) == 0 {
		return nil
	}
	return json.Unmarshal(env.Data, dest)
}
