package github

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v80/github"

	"github.com/branchseek/branchseek/internal/core/domain"
)

// wrapError converts go-github errors into the domain taxonomy.
// The mapping follows the remote host's semantics: 401 is an
// authentication failure, 403 is rate limiting when the quota headers
// say so and forbidden otherwise, 404 is not found, any other non-2xx
// is an APIError, and transport failures (timeouts included) are
// NetworkErrors.
func (c *Client) wrapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return &domain.RateLimitError{
			ResetAt:   rateLimitErr.Rate.Reset.Time,
			Remaining: rateLimitErr.Rate.Remaining,
			Limit:     rateLimitErr.Rate.Limit,
		}
	}

	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		quota := c.rateLimiter.Quota()
		return &domain.RateLimitError{
			ResetAt:   quota.ResetAt,
			Remaining: quota.Remaining,
			Limit:     quota.Limit,
		}
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		status := ghErr.Response.StatusCode
		switch {
		case status == 401:
			return fmt.Errorf("%s: %w: %s", operation, domain.ErrAuthFailed, ghErr.Message)
		case status == 403 && strings.Contains(strings.ToLower(ghErr.Message), "rate limit"):
			quota := c.rateLimiter.Quota()
			return &domain.RateLimitError{
				ResetAt:   quota.ResetAt,
				Remaining: quota.Remaining,
				Limit:     quota.Limit,
			}
		case status == 403:
			return fmt.Errorf("%s: %w: %s", operation, domain.ErrForbidden, ghErr.Message)
		case status == 404:
			return fmt.Errorf("%s: %w", operation, domain.ErrNotFound)
		default:
			return fmt.Errorf("%s: %w", operation, &domain.APIError{
				StatusCode: status,
				Message:    ghErr.Message,
			})
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", operation, &domain.NetworkError{Err: err})
	}

	return fmt.Errorf("%s: %w", operation, err)
}
