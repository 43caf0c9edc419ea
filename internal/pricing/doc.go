// Package pricing implements the price-synchronization decision core.
//
// Both functions are pure: no I/O, no clocks, no shared state. Target
// computes the undercut listing price from a market quote; ShouldUpdate
// decides whether repositioning a listing to that price is warranted.
package pricing
