// Package github posts analysis results back to pull requests. It rides on
// the gh CLI's stored authentication via go-gh.
package github

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/cli/go-gh/v2/pkg/api"
)

// commentMarker identifies bot comments so re-runs update in place instead
// of stacking new comments on every push.
const commentMarker = "<!-- iac-guardian-analysis -->"

type Client struct {
	rest  *api.RESTClient
	owner string
	repo  string
}

// NewClient builds a client for owner/repo using gh's ambient auth.
func NewClient(repo string) (*Client, error) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" {
		return nil, fmt.Errorf("repository must be in owner/name form, got %q", repo)
	}
	rest, err := api.DefaultRESTClient()
	if err != nil {
		return nil, fmt.Errorf("create GitHub API client: %w", err)
	}
	return &Client{rest: rest, owner: owner, repo: name}, nil
}

// PullRequestDiff fetches the unified diff of a pull request by asking the
// pulls endpoint for the diff media type.
func (c *Client) PullRequestDiff(number int) (string, error) {
	diffClient, err := api.NewRESTClient(api.ClientOptions{
		Headers: map[string]string{"Accept": "application/vnd.github.v3.diff"},
	})
	if err != nil {
		return "", fmt.Errorf("create GitHub API client: %w", err)
	}

	resp, err := diffClient.Request("GET",
		fmt.Sprintf("repos/%s/%s/pulls/%d", c.owner, c.repo, number), nil)
	if err != nil {
		return "", fmt.Errorf("fetch diff for PR #%d: %w", number, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// UpsertComment posts the analysis comment, replacing a previous bot
// comment on the same PR when one exists.
func (c *Client) UpsertComment(number int, body string) error {
	marked := commentMarker + "\n" + body

	existing, err := c.findBotComment(number)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(map[string]string{"body": marked})
	if err != nil {
		return err
	}

	if existing > 0 {
		err = c.rest.Patch(
			fmt.Sprintf("repos/%s/%s/issues/comments/%d", c.owner, c.repo, existing),
			bytes.NewReader(payload), nil)
		if err != nil {
			return fmt.Errorf("update comment on PR #%d: %w", number, err)
		}
		return nil
	}

	err = c.rest.Post(
		fmt.Sprintf("repos/%s/%s/issues/%d/comments", c.owner, c.repo, number),
		bytes.NewReader(payload), nil)
	if err != nil {
		return fmt.Errorf("comment on PR #%d: %w", number, err)
	}
	return nil
}

func (c *Client) findBotComment(number int) (int64, error) {
	var comments []struct {
		ID   int64  `json:"id"`
		Body string `json:"body"`
	}
	err := c.rest.Get(
		fmt.Sprintf("repos/%s/%s/issues/%d/comments?per_page=100", c.owner, c.repo, number),
		&comments)
	if err != nil {
		return 0, fmt.Errorf("list comments on PR #%d: %w", number, err)
	}
	for _, comment := range comments {
		if strings.Contains(comment.Body, commentMarker) {
			return comment.ID, nil
		}
	}
	return 0, nil
}
