// Package postgres implements the content repository, ranker, and context
// store on PostgreSQL using github.com/lib/pq.
//
// Ranking uses ts_rank over a weighted tsvector (title 'A', body 'B')
// matched with websearch_to_tsquery, so query syntax is native web-search
// style. Raw ts_rank scores are comparable across queries and the minimum
// rank threshold applies to them directly.
package postgres
