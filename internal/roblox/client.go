// Package roblox implements an authenticated session against the Roblox web
// API: username resolution and group rank mutations on behalf of a single
// account identified by its .ROBLOSECURITY cookie.
package roblox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"
)

const (
	defaultUsersURL  = "https://users.roblox.com"
	defaultGroupsURL = "https://groups.roblox.com"

	securityCookie = ".ROBLOSECURITY"
	csrfHeader     = "X-CSRF-TOKEN"
)

// Client is a session against the Roblox web API. It is constructed once at
// startup and shared by all requests; all fields are read-only after NewClient,
// so concurrent use needs no locking.
type Client struct {
	// UsersURL and GroupsURL point at the users and groups API hosts. They
	// exist as fields so tests can redirect the client at a local server.
	UsersURL  string
	GroupsURL string

	cookie  string
	httpCli *http.Client
}

// NewClient creates a session client for the account behind the given
// .ROBLOSECURITY cookie. The cookie is not validated here; call Authenticate
// before serving traffic.
func NewClient(cookie string) *Client {
	return &Client{
		UsersURL:  defaultUsersURL,
		GroupsURL: defaultGroupsURL,
		cookie:    cookie,
		httpCli:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Authenticate verifies the session cookie by fetching the account it belongs
// to. It must succeed before the gateway starts serving.
func (c *Client) Authenticate(ctx context.Context) (*AuthenticatedUser, error) {
	var user AuthenticatedUser
	if err := c.do(ctx, http.MethodGet, c.UsersURL+"/v1/users/authenticated", nil, &user); err != nil {
		return nil, fmt.Errorf("authenticating roblox session: %w", err)
	}
	return &user, nil
}

// ResolveUserID looks up the numeric id for a username. The result is never
// cached; every request re-resolves.
func (c *Client) ResolveUserID(ctx context.Context, username string) (int64, error) {
	payload := map[string]any{
		"usernames":          []string{username},
		"excludeBannedUsers": false,
	}
	var resp struct {
		Data []struct {
			ID int64 `json:"id"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, c.UsersURL+"/v1/usernames/users", payload, &resp); err != nil {
		return 0, fmt.Errorf("resolving user %q: %w", username, err)
	}
	if len(resp.Data) == 0 {
		return 0, fmt.Errorf("%q: %w", username, ErrUserNotFound)
	}
	return resp.Data[0].ID, nil
}

// GroupRoles returns the group's role hierarchy ordered by ascending rank.
func (c *Client) GroupRoles(ctx context.Context, groupID int64) ([]Role, error) {
	var resp struct {
		Roles []Role `json:"roles"`
	}
	url := fmt.Sprintf("%s/v1/groups/%d/roles", c.GroupsURL, groupID)
	if err := c.do(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return nil, fmt.Errorf("listing roles of group %d: %w", groupID, err)
	}
	sort.Slice(resp.Roles, func(i, j int) bool {
		return resp.Roles[i].Rank < resp.Roles[j].Rank
	})
	return resp.Roles, nil
}

// UserRole returns the user's current role within the group.
func (c *Client) UserRole(ctx context.Context, groupID, userID int64) (Role, error) {
	var resp struct {
		Data []struct {
			Group struct {
				ID int64 `json:"id"`
			} `json:"group"`
			Role Role `json:"role"`
		} `json:"data"`
	}
	url := fmt.Sprintf("%s/v2/users/%d/groups/roles", c.GroupsURL, userID)
	if err := c.do(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return Role{}, fmt.Errorf("fetching group memberships of user %d: %w", userID, err)
	}
	for _, membership := range resp.Data {
		if membership.Group.ID == groupID {
			return membership.Role, nil
		}
	}
	return Role{}, fmt.Errorf("user %d, group %d: %w", userID, groupID, ErrNotInGroup)
}

// SetRank assigns the role matching the selector (numeric rank level or role
// name) to the user and returns the role that was applied.
func (c *Client) SetRank(ctx context.Context, groupID, userID int64, sel Selector) (Role, error) {
	roles, err := c.GroupRoles(ctx, groupID)
	if err != nil {
		return Role{}, err
	}
	var target *Role
	for i := range roles {
		if sel.Matches(roles[i]) {
			target = &roles[i]
			break
		}
	}
	if target == nil {
		return Role{}, fmt.Errorf("group %d, selector %q: %w", groupID, sel.String(), ErrNoSuchRole)
	}
	if err := c.setRole(ctx, groupID, userID, target.ID); err != nil {
		return Role{}, fmt.Errorf("setting rank of user %d: %w", userID, err)
	}
	return *target, nil
}

// ChangeRank moves the user one step up (delta +1) or down (delta -1) the
// role hierarchy and returns the old and new roles. The rank-0 Guest role is
// not a membership tier and is never stepped into.
func (c *Client) ChangeRank(ctx context.Context, groupID, userID int64, delta int) (*RankChange, error) {
	current, err := c.UserRole(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	roles, err := c.GroupRoles(ctx, groupID)
	if err != nil {
		return nil, err
	}

	ladder := make([]Role, 0, len(roles))
	for _, r := range roles {
		if r.Rank > 0 {
			ladder = append(ladder, r)
		}
	}

	idx := -1
	for i, r := range ladder {
		if r.ID == current.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("user %d, group %d: %w", userID, groupID, ErrNotInGroup)
	}

	next := idx + delta
	if next < 0 || next >= len(ladder) {
		return nil, fmt.Errorf("user %d is at rank %d: %w", userID, current.Rank, ErrRankBoundary)
	}

	newRole := ladder[next]
	if err := c.setRole(ctx, groupID, userID, newRole.ID); err != nil {
		return nil, fmt.Errorf("changing rank of user %d: %w", userID, err)
	}
	return &RankChange{OldRole: current, NewRole: newRole}, nil
}

func (c *Client) setRole(ctx context.Context, groupID, userID, roleID int64) error {
	payload := map[string]int64{"roleId": roleID}
	url := fmt.Sprintf("%s/v1/groups/%d/users/%d", c.GroupsURL, groupID, userID)
	return c.do(ctx, http.MethodPatch, url, payload, nil)
}

// do executes one API call. Mutating endpoints require an X-CSRF-TOKEN; the
// token is handed out via a 403 response, so such a call is replayed exactly
// once with the fresh token. That replay is part of the Roblox protocol
// handshake, not a retry policy: a call that fails after it is terminal.
func (c *Client) do(ctx context.Context, method, url string, payload, out any) error {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
	}

	resp, err := c.send(ctx, method, url, body, "")
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusForbidden {
		token := resp.Header.Get(csrfHeader)
		resp.Body.Close()
		if token == "" {
			return &APIError{StatusCode: http.StatusForbidden}
		}
		resp, err = c.send(ctx, method, url, body, token)
		if err != nil {
			return err
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response from %s: %w", url, err)
		}
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, url string, body []byte, csrfToken string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.AddCookie(&http.Cookie{Name: securityCookie, Value: c.cookie})
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if csrfToken != "" {
		req.Header.Set(csrfHeader, csrfToken)
	}

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling %s %s: %w", method, url, err)
	}
	return resp, nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var body struct {
		Errors []struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && len(body.Errors) > 0 {
		apiErr.Code = body.Errors[0].Code
		apiErr.Message = body.Errors[0].Message
	}
	return apiErr
}
