package health

import (
	"context"
	"net/http"

	"github.com/go-faster/errors"
)

// EndpointCheck returns a CheckFunc that performs a GET against url and
// reports unreachable on transport errors or 5xx responses. 4xx responses
// count as reachable: the server answered, it just disliked the request.
func EndpointCheck(client *http.Client, url string) CheckFunc {
	if client == nil {
		client = http.DefaultClient
	}
	return func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return errors.Wrap(err, "build request")
		}
		resp, err := client.Do(req)
		if err != nil {
			return errors.Wrap(err, "request")
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			return errors.Errorf("endpoint returned %d", resp.StatusCode)
		}
		return nil
	}
}
