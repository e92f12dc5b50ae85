// Package gateway talks to the remote repository's contents API.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v66/github"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/the-drafts/internal/config"
)

var gatewayLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	gatewayLogger = l
}

// PutFileRequest creates a file, or updates it when SHA is set.
type PutFileRequest struct {
	Path    string
	Message string
	Content []byte
	Branch  string
	SHA     string
}

type PutFileResult struct {
	Path   string
	Commit string
}

type Client struct {
	gh    *github.Client
	owner string
	repo  string
}

// New builds a client for cfg's repository. A nil httpClient uses
// http.DefaultClient. The token, when present, is sent as a bearer token.
func New(cfg config.GitHubConfig, httpClient *http.Client) (*Client, error) {
	gh := github.NewClient(httpClient)
	if cfg.Token != "" {
		gh = gh.WithAuthToken(cfg.Token)
	}

	if cfg.APIURL != "" {
		base := cfg.APIURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("invalid github api url %q: %w", cfg.APIURL, err)
		}
		gh.BaseURL = u
	}

	return &Client{gh: gh, owner: cfg.Owner, repo: cfg.Repo}, nil
}

// PutFile base64 encodes req.Content and writes it at req.Path.
func (c *Client) PutFile(ctx context.Context, req PutFileRequest) (PutFileResult, error) {
	opts := &github.RepositoryContentFileOptions{
		Message: github.String(req.Message),
		Content: req.Content,
	}
	if req.Branch != "" {
		opts.Branch = github.String(req.Branch)
	}
	if req.SHA != "" {
		opts.SHA = github.String(req.SHA)
	}

	var (
		res *github.RepositoryContentResponse
		err error
	)
	if req.SHA == "" {
		res, _, err = c.gh.Repositories.CreateFile(ctx, c.owner, c.repo, req.Path, opts)
	} else {
		res, _, err = c.gh.Repositories.UpdateFile(ctx, c.owner, c.repo, req.Path, opts)
	}
	if err != nil {
		return PutFileResult{}, normalize(err)
	}

	out := PutFileResult{Path: req.Path, Commit: res.Commit.GetSHA()}
	if p := res.GetContent().GetPath(); p != "" {
		out.Path = p
	}

	gatewayLogger.Debug().
		Str("path", out.Path).
		Str("commit", out.Commit).
		Msg("File written")

	return out, nil
}

// FileSHA returns the blob sha of the file at path on ref.
func (c *Client) FileSHA(ctx context.Context, path, ref string) (string, error) {
	file, err := c.getFile(ctx, path, ref)
	if err != nil {
		return "", err
	}
	return file.GetSHA(), nil
}

// GetFile returns the decoded content of the file at path on ref.
func (c *Client) GetFile(ctx context.Context, path, ref string) (string, error) {
	file, err := c.getFile(ctx, path, ref)
	if err != nil {
		return "", err
	}

	content, err := file.GetContent()
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", path, err)
	}
	return content, nil
}

func (c *Client) getFile(ctx context.Context, path, ref string) (*github.RepositoryContent, error) {
	var opts *github.RepositoryContentGetOptions
	if ref != "" {
		opts = &github.RepositoryContentGetOptions{Ref: ref}
	}

	file, _, _, err := c.gh.Repositories.GetContents(ctx, c.owner, c.repo, path, opts)
	if err != nil {
		return nil, normalize(err)
	}
	if file == nil {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return file, nil
}

// Error is a non-2xx answer from the contents API.
type Error struct {
	Status           int
	Message          string
	DocumentationURL string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("github: status %d", e.Status)
	}
	return fmt.Sprintf("github: status %d: %s", e.Status, e.Message)
}

// IsConflict reports whether err is the 422 returned when a file already
// exists and no sha was supplied.
func IsConflict(err error) bool {
	var ge *Error
	return errors.As(err, &ge) && ge.Status == http.StatusUnprocessableEntity
}

// normalize converts go-github's response errors into *Error. Anything else
// is a transport failure and is returned as is.
func normalize(err error) error {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return &Error{Status: statusOf(rateErr.Response), Message: rateErr.Message}
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return &Error{Status: statusOf(abuseErr.Response), Message: abuseErr.Message}
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) {
		return &Error{
			Status:           statusOf(respErr.Response),
			Message:          respErr.Message,
			DocumentationURL: respErr.DocumentationURL,
		}
	}

	return err
}

func statusOf(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}
