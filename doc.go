// Package gqlsc holds the public contracts shared by the gqlsc compiler
// packages and its command: the sentinel and typed errors reported by a
// compilation, and the Cache interface used to reuse parse results.
//
// The compiler itself lives in the compiler package:
//
//	srcs, err := load.Dir(os.DirFS("."), "schema")
//	res, err := compiler.Compile(ctx, srcs, compiler.WithGenOptions(gen.WithTarget("graph")))
//	if _, err := res.Write(ctx); err != nil { ... }
//	if err := res.Err(); err != nil { ... } // *gqlsc.CompileError
package gqlsc
