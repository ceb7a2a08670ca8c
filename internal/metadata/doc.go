// Package metadata publishes book metadata documents to content-addressed
// storage and returns the stable ipfs:// reference the mint transaction
// records on-chain.
package metadata
