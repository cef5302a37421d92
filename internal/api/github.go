package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Repo is a GitHub repository visible to the signed-in user
type Repo struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Owner struct {
		Login string `json:"login"`
	} `json:"owner"`
}

// FullName returns owner/name
func (r Repo) FullName() string {
	if r.Owner.Login == "" {
		return r.Name
	}
	return r.Owner.Login + "/" + r.Name
}

// Branch is a branch of a repository
type Branch struct {
	Name string `json:"name"`
}

type loginResponse struct {
	AuthURL string `json:"auth_url"`
}

type reposResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	Repos   []Repo `json:"repos"`
}

type branchesResponse struct {
	OK       bool     `json:"ok"`
	Message  string   `json:"message"`
	Branches []Branch `json:"branches"`
}

// LoginURL asks the backend where to send the user for GitHub OAuth.
// redirectURI, when set, is forwarded so the provider returns to the CLI.
func (c *Client) LoginURL(ctx context.Context, redirectURI string) (string, error) {
	u := c.endpoint("/auth/github/login")
	if redirectURI != "" {
		u += "?" + url.Values{"redirect_uri": {redirectURI}}.Encode()
	}

	var resp loginResponse
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return "", err
	}
	if resp.AuthURL == "" {
		return "", fmt.Errorf("login response carried no auth_url")
	}
	return resp.AuthURL, nil
}

// ListRepos lists the repositories of username
func (c *Client) ListRepos(ctx context.Context, username string) ([]Repo, error) {
	token, err := c.githubToken()
	if err != nil {
		return nil, err
	}

	u := c.endpoint("/auth/github/repos") + "?" + url.Values{"username": {username}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "token "+token)

	var resp reposResponse
	if err := c.doJSON(req, &resp); err != nil {
		return nil, err
	}
	if !resp.OK {
		return nil, proxyError("list repositories", resp.Message)
	}
	return resp.Repos, nil
}

// ListBranches lists the branches of username/repo
func (c *Client) ListBranches(ctx context.Context, username, repo string) ([]Branch, error) {
	token, err := c.githubToken()
	if err != nil {
		return nil, err
	}

	q := url.Values{"username": {username}, "repo": {repo}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/auth/github/branches")+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "token "+token)

	var resp branchesResponse
	if err := c.doJSON(req, &resp); err != nil {
		return nil, err
	}
	if !resp.OK {
		return nil, proxyError("list branches", resp.Message)
	}
	return resp.Branches, nil
}

func proxyError(action, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		message = "GitHub proxy reported failure"
	}
	return fmt.Errorf("failed to %s: %s", action, message)
}
