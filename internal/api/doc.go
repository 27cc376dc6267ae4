// Package api handles incoming HTTP requests, request validation and
// response formatting. Handlers translate HTTP concerns into calls on the
// batch service; errors are mapped to status codes and safe messages in
// errors.go and never expose wrapped details to the client.
package api
