// Package dataset turns a word list into (context window, next token)
// training pairs for a character-level language model.
//
// Example:
//
//	words, err := dataset.ReadWords(ctx, "names.txt")
//	enc := dataset.NewCharEncoder(words)
//	train, dev, test := dataset.Split(words, 42, 0.8, 0.9)
//	ds, err := dataset.Build(train, 3, enc)
package dataset
