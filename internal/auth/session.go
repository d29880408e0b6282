package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const DefaultSessionURL = "https://sessionserver.mojang.com/session/minecraft/join"

var ErrSessionRejected = errors.New("session server rejected join")

// Profile is the authenticated identity used for online-mode servers.
type Profile struct {
	AccessToken string
	ID          uuid.UUID
	Name        string
}

// Joiner announces a login to the session server before the encryption
// response is sent.
type Joiner interface {
	Join(ctx context.Context, p Profile, serverHash string) error
}

type joinRequest struct {
	AccessToken     string `json:"accessToken"`
	SelectedProfile string `json:"selectedProfile"`
	ServerID        string `json:"serverId"`
}

// SessionClient talks to the session server over HTTP.
type SessionClient struct {
	client   *http.Client
	endpoint string
	timeout  time.Duration
	logger   *slog.Logger
}

// NewSessionClient posts joins to endpoint. A nil logger means slog.Default().
func NewSessionClient(endpoint string, timeout time.Duration, logger *slog.Logger) *SessionClient {
	if endpoint == "" {
		endpoint = DefaultSessionURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionClient{
		client:   &http.Client{},
		endpoint: endpoint,
		timeout:  timeout,
		logger:   logger,
	}
}

func (c *SessionClient) Join(ctx context.Context, p Profile, serverHash string) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	reqData := joinRequest{
		AccessToken:     p.AccessToken,
		SelectedProfile: strings.ReplaceAll(p.ID.String(), "-", ""),
		ServerID:        serverHash,
	}
	jsonData, err := json.Marshal(reqData)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusOK {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	c.logger.Error("Session join failed", "status", resp.StatusCode, "body", string(body))
	return fmt.Errorf("%w: status %d", ErrSessionRejected, resp.StatusCode)
}
