package users

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultBaseURL = "http://users-service:3003"
	DefaultTimeout = 5 * time.Second
)

// User is a player record held by the users service.
type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Rank    int    `json:"rank"`
	InQueue bool   `json:"inQueue,omitempty"`
}

// Service is the part of the users service the game backend talks to.
type Service interface {
	GetQueue(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id string) (*User, error)
	SetInQueue(ctx context.Context, id string, inQueue bool) error
	SetInGame(ctx context.Context, id string, inGame bool) error
	SetRank(ctx context.Context, id string, rank int) error
}

// RequestError is returned for every failed call to the users service.
type RequestError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("users service %s returned status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("users service %s failed: %v", e.Endpoint, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Client is a Service backed by the users service REST API. Every endpoint
// is a JSON POST and is attempted once.
type Client struct {
	rest *resty.Client
}

type NewClientOptions struct {
	BaseURL string
	Timeout time.Duration
}

func NewClient(opts NewClientOptions) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	rest := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	return &Client{rest: rest}
}

type idRequest struct {
	ID string `json:"id"`
}

type setInQueueRequest struct {
	ID      string `json:"id"`
	InQueue bool   `json:"inQueue"`
}

type setInGameRequest struct {
	ID     string `json:"id"`
	InGame bool   `json:"inGame"`
}

type setRankRequest struct {
	ID   string `json:"id"`
	Rank int    `json:"rank"`
}

func (c *Client) GetQueue(ctx context.Context) ([]User, error) {
	var queue []User
	if err := c.post(ctx, "getQueue", struct{}{}, &queue); err != nil {
		return nil, err
	}
	return queue, nil
}

func (c *Client) GetUser(ctx context.Context, id string) (*User, error) {
	user := &User{}
	if err := c.post(ctx, "getUser", idRequest{ID: id}, user); err != nil {
		return nil, err
	}
	if user.ID == "" {
		user.ID = id
	}
	return user, nil
}

func (c *Client) SetInQueue(ctx context.Context, id string, inQueue bool) error {
	return c.post(ctx, "setInQueue", setInQueueRequest{ID: id, InQueue: inQueue}, nil)
}

func (c *Client) SetInGame(ctx context.Context, id string, inGame bool) error {
	return c.post(ctx, "setInGame", setInGameRequest{ID: id, InGame: inGame}, nil)
}

func (c *Client) SetRank(ctx context.Context, id string, rank int) error {
	return c.post(ctx, "setRank", setRankRequest{ID: id, Rank: rank}, nil)
}

func (c *Client) post(ctx context.Context, endpoint string, body, result interface{}) error {
	req := c.rest.R().SetContext(ctx).SetBody(body)
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Post("/" + endpoint)
	if err != nil {
		return &RequestError{Endpoint: endpoint, Err: err}
	}
	if resp.StatusCode() != http.StatusOK {
		return &RequestError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode(),
			Err:        fmt.Errorf("unexpected response: %s", strings.TrimSpace(resp.String())),
		}
	}
	return nil
}

// NextRank applies a ranked result to rank. Ranks never drop below zero.
func NextRank(rank int, won bool, delta int) int {
	if won {
		return rank + delta
	}
	if rank -= delta; rank < 0 {
		return 0
	}
	return rank
}
