package domain

// Corpus is the single in-memory representation of a post dataset.
// Both accepted wire shapes (a bare post array, or an envelope with a
// dataset_info block) collapse to this structure at the boundary.
//
// Once enriched a Corpus is treated as an immutable value: it may be read
// concurrently without locking, and rebuilds produce a fresh Corpus that is
// atomically published, never patched in place.
type Corpus struct {
	Posts []*Post

	// Categories are seed tags contributed by the dataset itself
	// (dataset_info.categories), independent of any single post.
	Categories []string

	// Wrapped records whether the source document used the envelope shape,
	// so the save path can restore the original top-level structure.
	Wrapped bool
}

// Len returns the number of posts in the corpus.
func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Posts)
}
