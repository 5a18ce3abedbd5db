// Package graph implements the outbound Microsoft Graph REST clients for
// calendar, contacts, and mail, including the translation between the
// Graph wire schema and the local domain schema.
package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/exweb/exweb-backend/pkg/errs"
)

const graphTimeLayout = "2006-01-02T15:04:05"

// TokenProvider resolves a downstream access token for a user, or reports
// that none is available.
type TokenProvider interface {
	AccessToken(ctx context.Context, username string) (string, bool)
}

// Client carries the pieces shared by the per-resource Graph APIs.
type Client struct {
	c       *http.Client
	baseURL string
	tokens  TokenProvider
	opErrs  *prometheus.CounterVec
	log     zerolog.Logger
}

func NewClient(baseURL string, tokens TokenProvider, opErrs *prometheus.CounterVec, log zerolog.Logger) *Client {
	return &Client{
		c: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: strings.TrimSuffix(baseURL, "/"),
		tokens:  tokens,
		opErrs:  opErrs,
		log:     log,
	}
}

// request performs a single Graph call on behalf of user and decodes the
// response into v when v is non-nil. A missing downstream credential fails
// fast with errs.Unavailable; a non-2xx response becomes errs.IO carrying
// the upstream error message when one was supplied.
func (c *Client) request(ctx context.Context, op errs.Op, user, method, path string, query url.Values, headers http.Header, body, v interface{}) error {
	token, ok := c.tokens.AccessToken(ctx, user)
	if !ok {
		c.countErr(op)

		return errs.E(op, errs.Unavailable, errs.Str("no downstream credential available"))
	}

	var buf io.Reader
	if body != nil {
		b := &bytes.Buffer{}
		if err := json.NewEncoder(b).Encode(body); err != nil {
			c.countErr(op)

			return errs.E(op, errs.Internal, err, errs.Parameter("request_body"))
		}
		buf = b
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, buf)
	if err != nil {
		c.countErr(op)

		return errs.E(op, errs.IO, err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	for key, values := range headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	res, err := c.c.Do(req)
	if err != nil {
		c.countErr(op)

		return errs.E(op, errs.IO, err)
	}
	defer res.Body.Close()

	if res.StatusCode > 299 {
		c.countErr(op)

		c.log.Error().
			Str("method", method).
			Str("path", path).
			Int("status_code", res.StatusCode).
			Msg("graph_request")

		return errs.E(op, errs.IO, errs.Str(upstreamMessage(res)))
	}

	if v == nil {
		return nil
	}

	if err := json.NewDecoder(res.Body).Decode(v); err != nil {
		c.countErr(op)

		return errs.E(op, errs.IO, err, errs.Parameter("response_body"))
	}

	return nil
}

func (c *Client) countErr(op errs.Op) {
	if c.opErrs != nil {
		c.opErrs.WithLabelValues(string(op)).Inc()
	}
}

// graphError is the Graph API error envelope.
type graphError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func upstreamMessage(res *http.Response) string {
	raw, err := io.ReadAll(res.Body)
	if err == nil {
		var ge graphError
		if err := json.Unmarshal(raw, &ge); err == nil && ge.Error.Message != "" {
			return ge.Error.Message
		}
	}

	return fmt.Sprintf("%v: non 2xx status code", res.Status)
}

// pageToken extracts the opaque continuation token from an @odata.nextLink.
// The link's query string is parsed properly; the historical
// substring-after-"skiptoken=" split only remains as a fallback for links
// that do not parse as URLs.
func pageToken(nextLink string) string {
	if nextLink == "" {
		return ""
	}

	if u, err := url.Parse(nextLink); err == nil {
		query := u.Query()
		for _, key := range []string{"$skiptoken", "$skipToken", "skiptoken"} {
			if token := query.Get(key); token != "" {
				return token
			}
		}
	}

	if i := strings.LastIndex(nextLink, "skiptoken="); i >= 0 {
		return nextLink[i+len("skiptoken="):]
	}

	return ""
}

// parseGraphTime parses the ISO-8601 timestamps Graph returns with the
// trailing UTC marker stripped, yielding a naive UTC time.
func parseGraphTime(op errs.Op, field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errs.E(op, errs.Validation, errs.Parameter(field), errs.Str("missing required timestamp"))
	}

	t, err := time.Parse(graphTimeLayout, strings.TrimSuffix(value, "Z"))
	if err != nil {
		return time.Time{}, errs.E(op, errs.Validation, err, errs.Parameter(field))
	}

	return t, nil
}

func formatGraphTime(t time.Time) string {
	return t.UTC().Format(graphTimeLayout)
}

// Shared wire fragments.

type emailAddress struct {
	Address string `json:"address"`
	Name    string `json:"name,omitempty"`
}

type recipient struct {
	EmailAddress emailAddress `json:"emailAddress"`
}

type itemBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}
