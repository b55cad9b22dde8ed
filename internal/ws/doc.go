// Package ws implements the WebSocket hub that pushes live wellness
// snapshots to connected dashboard clients on a fixed interval and after
// each dataset upload.
package ws
