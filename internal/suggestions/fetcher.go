// Package suggestions implements the recommendation fan-out: query the
// search index by cuisine, sample a handful of candidates, hydrate them
// from the record store, and mail the result to the requester.
package suggestions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"dining-concierge/internal/common/errors"
	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/common/metrics"

	"github.com/elastic/go-elasticsearch/v8"
)

// Fetcher queries the search index for restaurants of a cuisine and
// uniformly samples a small subset. Sampling, not top-N: index relevance
// is irrelevant here, variety across repeated requests is the point.
type Fetcher struct {
	es            *elasticsearch.Client
	index         string
	maxCandidates int
	sampleSize    int
	logger        logger.Logger
}

func NewFetcher(es *elasticsearch.Client, index string, maxCandidates, sampleSize int, log logger.Logger) *Fetcher {
	return &Fetcher{
		es:            es,
		index:         index,
		maxCandidates: maxCandidates,
		sampleSize:    sampleSize,
		logger:        log.WithFields(map[string]interface{}{"component": "fetcher"}),
	}
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source struct {
				BusinessID string `json:"business_id"`
			} `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Fetch returns up to sampleSize business IDs matching cuisine. Zero hits
// is an empty result, not an error; an index-communication failure is a
// typed error so the caller can tell the two apart.
func (f *Fetcher) Fetch(ctx context.Context, cuisine string) ([]string, error) {
	start := time.Now()
	defer func() {
		metrics.SearchDuration.Observe(time.Since(start).Seconds())
	}()

	query := map[string]interface{}{
		"size": f.maxCandidates,
		"query": map[string]interface{}{
			"match": map[string]interface{}{
				"cuisine": cuisine,
			},
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, errors.NewSearchQueryFailedError(cuisine, err)
	}

	res, err := f.es.Search(
		f.es.Search.WithContext(ctx),
		f.es.Search.WithIndex(f.index),
		f.es.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, errors.NewSearchQueryFailedError(cuisine, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, errors.NewSearchQueryFailedError(cuisine, fmt.Errorf("search returned %s", res.Status()))
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, errors.NewSearchQueryFailedError(cuisine, err)
	}

	candidates := make([]string, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		if hit.Source.BusinessID != "" {
			candidates = append(candidates, hit.Source.BusinessID)
		}
	}

	if len(candidates) == 0 {
		f.logger.Warn("no restaurants found", map[string]interface{}{"cuisine": cuisine})
		return nil, nil
	}

	selected := sample(candidates, f.sampleSize)
	f.logger.Info("search returned candidates", map[string]interface{}{
		"cuisine":    cuisine,
		"candidates": len(candidates),
		"selected":   len(selected),
	})
	return selected, nil
}

// sample picks min(k, len(ids)) distinct elements uniformly at random.
func sample(ids []string, k int) []string {
	if k > len(ids) {
		k = len(ids)
	}
	selected := make([]string, 0, k)
	for _, i := range rand.Perm(len(ids))[:k] {
		selected = append(selected, ids[i])
	}
	return selected
}
