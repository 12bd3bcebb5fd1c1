// Package dto contains Data Transfer Objects for HTTP responses.
//
// The bridge's request bodies are opaque documents, so there are no request
// DTOs; the types here shape what the API acknowledges back to clients.
package dto
