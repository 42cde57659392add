// Package normalisers turns author-supplied markup from the website export
// into plain text suitable for indexing.
package normalisers
