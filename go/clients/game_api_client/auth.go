package game_api_client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is the signed-in identity returned by the login endpoint.
type AuthResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Login exchanges credentials for the user's identity. The backend keeps
// no token; identity is carried explicitly on every write.
func (c *GameApiClient) Login(ctx context.Context, username, password string) (*AuthResponse, error) {
	payload, err := json.Marshal(loginRequest{Username: username, Password: password})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal login request: %w", err)
	}

	body, err := c.Post(ctx, LoginEndpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	var auth AuthResponse
	if err := json.Unmarshal(body, &auth); err != nil {
		return nil, fmt.Errorf("failed to unmarshal login response: %w, raw response: %s", err, string(body))
	}

	return &auth, nil
}
