// Command bench is a throughput probe comparing the Precompute and Ngram
// indexing strategies for search, and measuring searchSimilar latency
// over a synthetic query set.
package main

import (
	"fmt"
	"time"

	"hangul-fuzzy-search/pkg/ranking"
	"hangul-fuzzy-search/pkg/searchindex"
)

type item struct{ Key string }

func demoCatalog(n int) []item {
	base := []string{"프론트엔드", "백엔드", "데이터", "검색", "개발", "결제", "검사", "search", "service", "season"}
	out := make([]item, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, item{Key: base[i%len(base)]})
	}
	return out
}

func main() {
	catalog := demoCatalog(5000)
	keyFn := func(it item) string { return it.Key }
	now := time.Now()

	precompute := searchindex.New(catalog, keyFn, withStrategy(searchindex.Precompute, 0), now)
	ngram := searchindex.New(catalog, keyFn, withStrategy(searchindex.Ngram, 2), now)

	queries := []string{"ㅍㄹㅌ", "ㅂㅇㄷ", "ㄷㅇㅌ", "ㄱㅅ", "srch"}
	iterations := 2000

	fmt.Println("=== Search strategy comparison ===")
	fmt.Printf("catalog size: %d, iterations per strategy: %d\n\n", len(catalog), iterations)

	precomputeDur := benchSearch(precompute, queries, iterations)
	ngramDur := benchSearch(ngram, queries, iterations)

	fmt.Printf("Precompute: %v total, %v/op\n", precomputeDur, precomputeDur/time.Duration(iterations))
	fmt.Printf("Ngram(2):   %v total, %v/op\n", ngramDur, ngramDur/time.Duration(iterations))

	fmt.Println("\n=== searchSimilar latency ===")
	opts := ranking.DefaultOptions()
	start := time.Now()
	for i := 0; i < 200; i++ {
		precompute.SearchSimilar(queries[i%len(queries)], opts)
	}
	similarDur := time.Since(start)
	fmt.Printf("200 calls: %v total, %v/op\n", similarDur, similarDur/200)
}

func withStrategy(kind searchindex.StrategyKind, ngramK int) searchindex.SearchPolicy {
	policy := searchindex.DefaultPolicy()
	policy.IndexStrategy = searchindex.Strategy{Kind: kind, NgramK: ngramK}
	return policy
}

func benchSearch(idx *searchindex.Index[item], queries []string, iterations int) time.Duration {
	start := time.Now()
	for i := 0; i < iterations; i++ {
		idx.Search(queries[i%len(queries)], searchindex.Contains)
	}
	return time.Since(start)
}
