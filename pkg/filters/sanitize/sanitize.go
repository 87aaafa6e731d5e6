// Package sanitize strips unsafe markup from HTML content with bluemonday.
package sanitize

import (
	"fmt"

	"github.com/microcosm-cc/bluemonday"

	"github.com/mmichie/sitefilter/pkg/filters"
)

// Policy names accepted by the "policy" param.
const (
	PolicyUGC    = "ugc"
	PolicyStrict = "strict"
)

// Filter sanitizes HTML.
type Filter struct {
	filters.Base
}

// New creates a sanitize filter.
func New(assigns filters.Assigns) filters.Filter {
	return &Filter{Base: filters.NewBase(assigns)}
}

// Register declares the sanitize filter on r.
func Register(r *filters.Registry) {
	r.Register(New, "sanitize", "bluemonday")
}

// Run sanitizes content using the policy named by the "policy" param,
// "ugc" by default.
func (f *Filter) Run(content string, params filters.Params) (string, error) {
	var policy *bluemonday.Policy
	switch name := params.String("policy", PolicyUGC); name {
	case PolicyUGC:
		policy = bluemonday.UGCPolicy()
	case PolicyStrict:
		policy = bluemonday.StrictPolicy()
	default:
		return "", fmt.Errorf("%w: unknown policy %q", filters.ErrInvalidParam, name)
	}

	return policy.Sanitize(content), nil
}
