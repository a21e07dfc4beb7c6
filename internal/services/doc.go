// Package services defines the shared error taxonomy for external provider
// calls. Sentinel markers classify failures (timeout, not found, external
// tool, validation) so the resolver can convert any provider error into a
// recorded attempt with a stable error kind instead of propagating it.
package services
