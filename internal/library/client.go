package library

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

	"github.com/EgehanKilicarslan/noted/backend-go/internal/dto"
)

var listPaths = map[string]string{
	ListUserBooks:      "/api/v1/books/mine",
	ListFavoriteBooks:  "/api/v1/books/favorites",
	ListSuggestedBooks: "/api/v1/books/suggested",
}

// Client calls the Noted HTTP API. It keeps the session cookie between
// calls.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ Actions = (*Client)(nil)

// APIError represents an error response without a usable action result
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// NewClient constructs a client with its own cookie jar
func NewClient(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return NewClientWithHTTP(baseURL, &http.Client{Timeout: 10 * time.Second, Jar: jar}), nil
}

// NewClientWithHTTP constructs a client around an existing http.Client
func NewClientWithHTTP(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Login signs in and stores the session cookie in the jar
func (c *Client) Login(ctx context.Context, email, password string, rememberMe bool) (*dto.AuthState, error) {
	body := map[string]any{"email": email, "password": password, "rememberMe": rememberMe}
	var state dto.AuthState
	if err := c.call(ctx, http.MethodPost, "/api/v1/auth/login", body, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// ListBooks fetches one of the library lists
func (c *Client) ListBooks(ctx context.Context, list string) ([]dto.Book, error) {
	path, ok := listPaths[list]
	if !ok {
		return nil, fmt.Errorf("unknown list %q", list)
	}

	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, decodeError(resp)
	}
	var books []dto.Book
	if err := json.NewDecoder(resp.Body).Decode(&books); err != nil {
		return nil, fmt.Errorf("decode books: %w", err)
	}
	return books, nil
}

// UpdateFavorite calls the favorite action
func (c *Client) UpdateFavorite(ctx context.Context, bookID string, isFavorite bool) (*dto.UpdateResult, error) {
	var result dto.UpdateResult
	path := "/api/v1/books/" + url.PathEscape(bookID) + "/favorite"
	if err := c.call(ctx, http.MethodPatch, path, map[string]bool{"isFavorite": isFavorite}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteBook calls the soft-delete action
func (c *Client) DeleteBook(ctx context.Context, bookID string) (*dto.UpdateResult, error) {
	var result dto.UpdateResult
	if err := c.call(ctx, http.MethodDelete, "/api/v1/books/"+url.PathEscape(bookID), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// call sends an action request. Action responses carry a result body on
// failure statuses too, so those decode into out instead of an error.
func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := c.newRequest(ctx, method, path, reader)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(data))}
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func decodeError(resp *http.Response) error {
	var errResp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&errResp)
	msg := errResp.Error
	if msg == "" {
		msg = errResp.Message
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}
