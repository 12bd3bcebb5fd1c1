// Package repo contains the PostgreSQL implementation of the document
// repository port.
//
// This package implements the ports defined in src/core/ports. The
// repository receives the database pool via constructor injection and maps
// driver errors onto the domain error taxonomy.
package repo
