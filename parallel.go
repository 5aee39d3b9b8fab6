package pagelang

import "golang.org/x/sync/errgroup"

// maxLookupWorkers bounds the goroutines of one ParallelCacheLookup.
const maxLookupWorkers = 16

// ParallelCacheLookup performs cache lookups concurrently. Texts must
// already be unique. Returns the hits keyed by text and the misses in their
// original order.
func ParallelCacheLookup(cache TranslationCache, texts []string, sourceLang, targetLang string) (map[string]string, []string) {
	if cache == nil || len(texts) == 0 {
		return make(map[string]string), texts
	}

	values := make([]string, len(texts))
	found := make([]bool, len(texts))

	var g errgroup.Group
	g.SetLimit(maxLookupWorkers)
	for i, text := range texts {
		g.Go(func() error {
			values[i], found[i] = cache.Get(CacheKey(HashText(text), sourceLang, targetLang))
			return nil
		})
	}
	_ = g.Wait() // lookups never fail; a cache error is a miss

	hits := make(map[string]string)
	var misses []string
	for i, text := range texts {
		if found[i] {
			hits[text] = values[i]
		} else {
			misses = append(misses, text)
		}
	}
	return hits, misses
}
