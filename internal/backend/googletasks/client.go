// Package googletasks implements store.Store on top of the Google Tasks API.
//
// The value for a key lives in the notes of a task whose title is the key,
// inside a dedicated task list. The list and the task are created on first
// write.
package googletasks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"tasklist/internal/config"
	"tasklist/internal/store"
)

const (
	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	// MaxValueSize is the largest value that fits in a task's notes.
	MaxValueSize = 8192

	// TasksScope is the OAuth scope for Google Tasks.
	TasksScope = "https://www.googleapis.com/auth/tasks"
)

// Client implements store.Store using the Google Tasks API.
type Client struct {
	svc       *tasks.Service
	listTitle string

	mu      sync.Mutex
	listID  string
	taskIDs map[string]string // key -> task ID
}

// New creates a new Google Tasks client.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}

	oauthConfig, err := google.ConfigFromJSON(clientJSON, TasksScope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}

	tokenData, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read token.json: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}

	// Token source refreshes the access token as needed
	tokenSource := oauthConfig.TokenSource(ctx, &token)
	httpClient := oauth2.NewClient(ctx, tokenSource)

	svc, err := tasks.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}

	return newClient(svc, cfg.GoogleList), nil
}

// NewWithHTTPClient creates a client with a custom HTTP client and API
// endpoint (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, endpoint, listTitle string) (*Client, error) {
	svc, err := tasks.NewService(ctx,
		option.WithHTTPClient(httpClient),
		option.WithEndpoint(endpoint),
	)
	if err != nil {
		return nil, err
	}
	return newClient(svc, listTitle), nil
}

func newClient(svc *tasks.Service, listTitle string) *Client {
	if listTitle == "" {
		listTitle = config.DefaultGoogleList
	}
	return &Client{
		svc:       svc,
		listTitle: listTitle,
		taskIDs:   make(map[string]string),
	}
}

// Get implements store.Store.
func (c *Client) Get(ctx context.Context, key string) ([]byte, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	listID, err := c.findList(ctx)
	if err != nil {
		return nil, false, err
	}
	if listID == "" {
		return nil, false, nil
	}

	t, err := c.findTask(ctx, listID, key)
	if err != nil {
		return nil, false, err
	}
	if t == nil {
		return nil, false, nil
	}
	return []byte(t.Notes), true, nil
}

// Set implements store.Store.
func (c *Client) Set(ctx context.Context, key string, value []byte) error {
	if len(value) > MaxValueSize {
		return fmt.Errorf("value too large for google tasks: %d bytes (max %d)", len(value), MaxValueSize)
	}

	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	listID, err := c.ensureList(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	taskID := c.taskIDs[key]
	c.mu.Unlock()

	if taskID == "" {
		t, err := c.findTask(ctx, listID, key)
		if err != nil {
			return err
		}
		if t != nil {
			taskID = t.Id
		}
	}

	if taskID == "" {
		created, err := c.svc.Tasks.Insert(listID, &tasks.Task{
			Title: key,
			Notes: string(value),
		}).Context(ctx).Do()
		if err != nil {
			return wrapError(err)
		}
		c.rememberTask(key, created.Id)
		return nil
	}

	_, err = c.svc.Tasks.Patch(listID, taskID, &tasks.Task{
		Notes: string(value),
	}).Context(ctx).Do()
	if err != nil {
		return wrapError(err)
	}
	return nil
}

// Close implements store.Store. The HTTP client holds no resources to free.
func (c *Client) Close() error {
	return nil
}

// findList returns the ID of the storage list, or "" when it does not exist.
func (c *Client) findList(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.listID != "" {
		id := c.listID
		c.mu.Unlock()
		return id, nil
	}
	c.mu.Unlock()

	want := strings.ToLower(strings.TrimSpace(c.listTitle))
	var found string
	err := c.svc.Tasklists.List().MaxResults(100).Pages(ctx, func(resp *tasks.TaskLists) error {
		for _, list := range resp.Items {
			if found == "" && strings.ToLower(strings.TrimSpace(list.Title)) == want {
				found = list.Id
			}
		}
		return nil
	})
	if err != nil {
		return "", wrapError(err)
	}

	if found != "" {
		c.mu.Lock()
		c.listID = found
		c.mu.Unlock()
	}
	return found, nil
}

// ensureList returns the ID of the storage list, creating it if needed.
func (c *Client) ensureList(ctx context.Context) (string, error) {
	id, err := c.findList(ctx)
	if err != nil || id != "" {
		return id, err
	}

	list, err := c.svc.Tasklists.Insert(&tasks.TaskList{Title: c.listTitle}).Context(ctx).Do()
	if err != nil {
		return "", wrapError(err)
	}

	c.mu.Lock()
	c.listID = list.Id
	c.mu.Unlock()
	return list.Id, nil
}

// findTask returns the task titled key in listID, or nil.
func (c *Client) findTask(ctx context.Context, listID, key string) (*tasks.Task, error) {
	var found *tasks.Task
	err := c.svc.Tasks.List(listID).
		MaxResults(100).
		ShowHidden(true).
		ShowDeleted(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, t := range resp.Items {
				if found == nil && t.Title == key {
					found = t
				}
			}
			return nil
		})
	if err != nil {
		return nil, wrapError(err)
	}
	if found != nil {
		c.rememberTask(key, found.Id)
	}
	return found, nil
}

func (c *Client) rememberTask(key, id string) {
	c.mu.Lock()
	c.taskIDs[key] = id
	c.mu.Unlock()
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	errStr := err.Error()

	if strings.Contains(errStr, "context deadline exceeded") {
		return fmt.Errorf("%w: request timed out", store.ErrUnavailable)
	}

	if strings.Contains(errStr, "401") || strings.Contains(errStr, "403") {
		return fmt.Errorf("token expired or revoked (run: tasklist login)")
	}

	if strings.Contains(errStr, "404") {
		return fmt.Errorf("not found")
	}

	return err
}
