// Package api handles incoming HTTP requests, request decoding, and response
// formatting. It translates HTTP concerns into calls on the application
// services and maps their errors to status codes and client-safe bodies.
package api
