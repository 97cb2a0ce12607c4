package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/detectabb/detectago/constants"
	"github.com/detectabb/detectago/internal/common"
	"github.com/detectabb/detectago/internal/session"
)

type authResponse struct {
	AccessToken string        `json:"access_token"`
	User        *session.User `json:"user"`
}

// Login exchanges credentials for a token and installs it on the
// session, persisting it across runs.
func (c *Client) Login(ctx context.Context, email, senha string) (*session.User, error) {
	resp, err := c.postAuth(ctx, "/auth/login", map[string]string{
		"email": email,
		"senha": senha,
	}, "Email ou senha incorretos")
	if err != nil {
		return nil, err
	}
	if err := c.sess.SetCredentials(resp.AccessToken, resp.User); err != nil {
		return nil, common.WrapError(err, "persist credentials")
	}
	c.logger.Info("client.auth.login_ok", "email", email)
	return resp.User, nil
}

// Register creates an account and signs the session in with the
// returned token.
func (c *Client) Register(ctx context.Context, nome, email, senha string) (*session.User, error) {
	resp, err := c.postAuth(ctx, "/auth/register", map[string]string{
		"nome":  nome,
		"email": email,
		"senha": senha,
	}, "Este email já está cadastrado")
	if err != nil {
		return nil, err
	}
	if err := c.sess.SetCredentials(resp.AccessToken, resp.User); err != nil {
		return nil, common.WrapError(err, "persist credentials")
	}
	c.logger.Info("client.auth.register_ok", "email", email)
	return resp.User, nil
}

// Me fetches the account behind the session token and refreshes the
// cached user.
func (c *Client) Me(ctx context.Context) (*session.User, error) {
	raw, status, err := c.do(ctx, http.MethodGet, "/auth/me", nil, "")
	if err != nil {
		if status == http.StatusUnauthorized {
			return nil, common.NewAppError("UNAUTHORIZED", constants.MsgUnauthorized, common.ErrUnauthorized)
		}
		return nil, common.WrapError(err, "fetch current user")
	}

	var user session.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	c.sess.SetUser(&user)
	return &user, nil
}

func (c *Client) postAuth(ctx context.Context, path string, body map[string]string, rejectMsg string) (*authResponse, error) {
	bs, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode auth request: %w", err)
	}

	raw, status, err := c.do(ctx, http.MethodPost, path, bytes.NewReader(bs), "application/json")
	if err != nil {
		switch {
		case status == 0:
			return nil, common.NewAppError("NETWORK_ERROR", constants.MsgNetworkError, err)
		case status == http.StatusUnauthorized || status == http.StatusBadRequest || status == http.StatusConflict:
			if detail := parseDetail(raw); detail != "" {
				rejectMsg = detail
			}
			return nil, common.NewAppError("AUTH_REJECTED", rejectMsg, common.ErrUnauthorized)
		default:
			return nil, common.NewAppError("SERVER_ERROR", constants.MsgServerError, common.ErrServer)
		}
	}

	var resp authResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode auth response: %w", err)
	}
	if resp.AccessToken == "" {
		return nil, common.NewAppError("AUTH_REJECTED", rejectMsg, common.ErrUnauthorized)
	}
	return &resp, nil
}
