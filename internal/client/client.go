// Package client talks to a StayVista server over HTTP. A Client keeps the
// credential cookie from Login in its jar and sends it on later calls.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"stayvista/internal/shared"
)

// Room is the wire form of a listing: any JSON object, identity under "_id".
type Room map[string]any

func (r Room) ID() string {
	id, _ := r["_id"].(string)
	return id
}

type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("stayvista: %d %s", e.Status, e.Message)
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 20 * time.Second, Jar: jar},
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e shared.ErrorResponse
		_ = json.Unmarshal(data, &e)
		if e.Message == "" {
			e.Message = strings.TrimSpace(string(data))
		}
		return &APIError{Status: resp.StatusCode, Message: e.Message}
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

// Login exchanges payload for a credential cookie.
func (c *Client) Login(ctx context.Context, payload map[string]any) error {
	var res shared.SuccessResponse
	return c.do(ctx, http.MethodPost, "/jwt", nil, payload, &res)
}

func (c *Client) Logout(ctx context.Context) error {
	var res shared.SuccessResponse
	return c.do(ctx, http.MethodGet, "/logout", nil, nil, &res)
}

func (c *Client) CreateRoom(ctx context.Context, room Room) (shared.InsertResult, error) {
	var res shared.InsertResult
	err := c.do(ctx, http.MethodPost, "/rooms", nil, room, &res)
	return res, err
}

// ListRooms lists every room when category is empty.
func (c *Client) ListRooms(ctx context.Context, category string) ([]Room, error) {
	q := url.Values{}
	if category != "" {
		q.Set("category", category)
	}
	var rooms []Room
	err := c.do(ctx, http.MethodGet, "/rooms", q, nil, &rooms)
	return rooms, err
}

func (c *Client) GetRoom(ctx context.Context, id string) (Room, error) {
	var room Room
	err := c.do(ctx, http.MethodGet, "/rooms/"+url.PathEscape(id), nil, nil, &room)
	return room, err
}

func (c *Client) MyListings(ctx context.Context, email string) ([]Room, error) {
	var rooms []Room
	err := c.do(ctx, http.MethodGet, "/my-listings", url.Values{"email": {email}}, nil, &rooms)
	return rooms, err
}

func (c *Client) DeleteRoom(ctx context.Context, id string) (shared.DeleteResult, error) {
	var res shared.DeleteResult
	err := c.do(ctx, http.MethodDelete, "/rooms/"+url.PathEscape(id), nil, nil, &res)
	return res, err
}
