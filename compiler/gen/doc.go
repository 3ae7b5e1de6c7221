// Package gen renders Go code from a classified type graph.
//
// # Architecture
//
// The code generation pipeline follows this flow:
//
//	SDL files (*.graphql)
//	        ↓
//	   parse.File (declarations + diagnostics)
//	        ↓
//	   graph.Build + graph.Classify (TypeGraph)
//	        ↓
//	   Generator (Jennifer, one task per file)
//	        ↓
//	   Generated package (graph/)
//
// For every emitted type the Generator produces:
//
//	{type}_model.go      server types: enums, structs, interfaces
//	{type}_schema.go     graphql-go type construction
//	{type}_resolvers.go  resolver interfaces and argument structs
//
// and once per graph:
//
//	types.go        the Types registry, NewTypes and Schema
//	resolvers.go    the ResolverRoot interface
//	schema.graphql  the GraphQL projection as plain SDL
//
// Types with errors are excluded with WithSuppressed; graph-level files
// only reference types that are emitted. Server members of an excluded
// type become any, and GraphQL fields referencing a type without a
// runtime type are left out.
//
// # Error Handling
//
// Problems in the schema are diagnostics and never reach this package as
// errors. The package uses structured error types for the rest:
//
//   - ConfigError: invalid options, matches ErrInvalidOption
//   - GenerationError: render, format or write failures, matches ErrGenerationFailed
//
// Example error handling:
//
//	if _, err := g.Generate(ctx); err != nil {
//	    var genErr *gen.GenerationError
//	    if errors.As(err, &genErr) {
//	        log.Printf("%s failed for %s", genErr.Phase, genErr.File)
//	    }
//	}
//
// # Configuration
//
// Generation is configured with functional options:
//
// NewConfig reports every invalid option, joined into one error.
//
//	cfg, err := gen.NewConfig(
//	    gen.WithPackage("graph"),
//	    gen.WithTarget("./graph"),
//	    gen.WithWorkers(4),
//	)
//	g := gen.NewGenerator(cfg, typeGraph)
package gen
