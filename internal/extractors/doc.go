// Package extractors maps each content type's source records to the
// normalised fields the indexer stores.
//
// Every extractor owns one content type: its eligibility predicate, how the
// title, body text, summary and keywords are derived, and where the content
// lives on the site. Types whose pages are built into the product rather
// than managed by staff (services, pricing, car sales forms) are served by
// StaticExtractor from the embedded seed pages.
package extractors
