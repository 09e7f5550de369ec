package endpoint

import (
	"strings"

	"github.com/griffnb/core-endpoints/internal/domain"
)

// Groups is the partition of a method's parameters into request locations.
// Concatenating Path, Query and Body yields the original parameter order.
type Groups struct {
	Path  []domain.ParameterDescriptor
	Query []domain.ParameterDescriptor
	Body  []domain.ParameterDescriptor
}

// SplitAlias splits a route alias into its non-empty segments.
func SplitAlias(alias string) []string {
	var segments []string
	for _, s := range strings.Split(alias, "/") {
		if s = strings.TrimSpace(s); s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

// Classify partitions params with a prefix scan:
//  1. one path parameter per alias segment while the parameter is simple and
//     not the one named by queryTag;
//  2. query parameters while the remaining parameters are simple;
//  3. everything left goes to the body.
//
// Each phase stops at the first parameter that fails its test.
func Classify(alias string, params []domain.ParameterDescriptor, queryTag string) Groups {
	var g Groups
	segments := len(SplitAlias(alias))

	i := 0
	for ; i < segments && i < len(params); i++ {
		p := params[i]
		if !p.Type.IsSimple() || (queryTag != "" && p.Name == queryTag) {
			break
		}
		g.Path = append(g.Path, p)
	}

	for ; i < len(params); i++ {
		if !params[i].Type.IsSimple() {
			break
		}
		g.Query = append(g.Query, params[i])
	}

	g.Body = append(g.Body, params[i:]...)
	return g
}
