// Package relay implements the optional on-chain snapshot publisher,
// consumed through the relay service's HTTP API. The contract itself and
// its deployment live behind that service.
//
// This is the only place amounts leave base-unit decimals: the service
// expects integer wei, and the conversion is owned here so pricing never
// sees subunits.
package relay
