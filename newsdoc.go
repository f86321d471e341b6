// Package newsdoc turns a news search term into a list of readable articles.
// It queries a news search provider, fetches every result's source page,
// recovers the page encoding, strips boilerplate, extracts the main article
// text and representative images, and caches the aggregate per search term.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, readability/, redis/).
package newsdoc
