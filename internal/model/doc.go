// Package model defines shared data types used across the floorsync bot.
//
// Conventions:
//   - Amounts: float64 base asset units (ETH-style decimals, not wei).
//     Conversion to integer wei happens only at the relay boundary.
//   - Optional amounts: *float64, nil meaning "no signal".
//   - Timestamps: int64 microseconds since Unix epoch.
//   - IDs: string for collection slugs and listing ids, uuid.UUID for
//     poll cycles.
package model
