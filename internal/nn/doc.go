// Package nn provides neural network building blocks on top of the matrix
// layer.
//
// Parameter values live outside the graph as plain float64 slices. Each
// training step binds them to a fresh Graph as leaves, runs the forward and
// backward pass, and reads the gradients back. Node values therefore never
// change after construction.
//
// Example:
//
//	emb := nn.NewEmbedding("C", vocab, 8, rng)
//	hidden := nn.NewLinear("hidden", 3*8, 100, rng)
//
//	g := autograd.NewGraph()
//	nn.Bind(g, emb, hidden)
//	x, _ := emb.Forward(batch)
//	h, _ := hidden.Forward(x)
//	loss, _ := nn.CrossEntropy(h.Tanh(), targets)
//	loss.Backward()
//	nn.CollectGrads(emb, hidden)
package nn
