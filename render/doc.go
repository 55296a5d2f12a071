// Package render formats index query results as plain text for display.
//
// Records render at two tiers. DetailSummary produces one line per
// function (signature, deprecation marker, shortened description).
// DetailFull adds parameters, returns, flavors, links and the source
// location. List helpers render a single result in full.
//
// Not-found results are rendered with NoMatch rather than an error.
package render
