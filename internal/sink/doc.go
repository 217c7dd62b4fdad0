// Package sink delivers finished artifacts to their destination: a local
// directory or an S3 bucket prefix.
package sink
