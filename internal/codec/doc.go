// Package codec converts counter data to and from its external formats:
// the JSON snapshot kept in durable storage and the CSV history files used
// for import and export. Decoding is strict and atomic; callers that treat
// bad input as a no-op check for ErrDecode.
package codec
