package anytype

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// BatchResult is the outcome of one item in a bulk operation. Exactly one of
// Response and Err is set.
type BatchResult struct {
	Index    int
	Key      string
	Response Response
	Err      error
}

// Failed reports whether the item failed.
func (r BatchResult) Failed() bool {
	return r.Err != nil
}

// Marker returns the response for a successful item, or an error marker
// of the form {"error": <message>, "object": <key>} for a failed one.
func (r BatchResult) Marker() map[string]any {
	if r.Err != nil {
		return map[string]any{
			"error":  r.Err.Error(),
			"object": r.Key,
		}
	}
	return r.Response
}

// BatchErrors aggregates the failures in results. It returns nil when every
// item succeeded.
func BatchErrors(results []BatchResult) error {
	var result *multierror.Error
	for _, r := range results {
		if r.Err != nil {
			result = multierror.Append(result, fmt.Errorf("item %d (%s): %w", r.Index, r.Key, r.Err))
		}
	}
	return result.ErrorOrNil()
}
