// Package aggregate reduces a vehicle collection to the values a dashboard
// renders: filter options, dataset bounds, grouped counts, scalar statistics
// and range distributions.
//
// Every function is a pure reduction. Inputs are never modified and results
// are freshly allocated; nothing is cached between calls.
package aggregate
