package driving

import "context"

// TagResolver collapses an open vocabulary of free-form topic and hashtag
// strings into a canonical tag set.
type TagResolver interface {
	// Resolve maps every normalized raw tag to a canonical tag. The mapping
	// is total over the normalized input set and the call never fails: when
	// the collaborator is unreachable or returns garbage, every candidate
	// maps to itself, title-cased (identity fallback).
	Resolve(ctx context.Context, rawTags []string) map[string]string
}
