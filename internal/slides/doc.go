// Package slides turns a word record into a PowerPoint (.pptx) deck.
//
// BuildDeck decides which slides a record produces; WritePPTX serializes a
// Deck as an Office Open XML package. Output is byte-for-byte deterministic
// for a given Deck: zip entries are written in a fixed order with a fixed
// modification time.
package slides
