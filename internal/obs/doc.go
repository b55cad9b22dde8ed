// Package obs exposes the service's operational counters in Prometheus
// text exposition format.
package obs
