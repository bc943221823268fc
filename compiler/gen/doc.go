// Package gen generates typed Go code from a SpatialOS schema bundle.
//
// Each schema package becomes one Go package under a configured import
// root. Enums, types and components declared in the package are emitted
// into a single file named after the package.
//
// # Architecture
//
// The generation pipeline follows this flow:
//
//	Schema bundle (bundle.json)
//	        ↓
//	   load.Bundle (parsed and validated)
//	        ↓
//	   emitters (enum, type, component, command)
//	        ↓
//	   ModuleTree (one node per schema package)
//	        ↓
//	   Formatter (best effort)
//	        ↓
//	   Output (files, txtar archive or directory)
//
// # Generated Code
//
// For an enum the generator emits a uint32 type with one constant per
// value and a FromUint32 conversion that panics on undeclared values.
//
// For a type it emits a struct and EncodeObject/DecodeObject methods using
// the codecs of the schema package. Nested types are flattened:
// example.Outer.Inner becomes Outer_Inner.
//
// For a component it additionally emits:
//
//   - An id constant, e.g. PositionComponentID
//   - An Update struct with a pointer per field and a slice per event
//   - Merge methods: data.Merge(update) and update.Merge(other)
//   - Request and response unions when the component has commands
//   - A spatial.VTable and, per package, a Register function
//
// # Configuration
//
// Generation is configured with functional options:
//
//	out, err := gen.GenerateFile(ctx, "schema/bundle.json",
//		gen.WithPackage("example"),
//		gen.WithImportRoot("github.com/acme/game/gen"),
//		gen.WithDependency("improbable", "github.com/acme/spatialstd"),
//	)
//	if err != nil {
//		return err
//	}
//	return out.WriteTo(ctx, "gen")
//
// References to entities outside the generated package are resolved
// through the dependency map; the longest matching package prefix wins.
//
// # Error Handling
//
// The package uses structured error types:
//
//   - ConfigError: invalid options
//   - GenerationError: emission failures, such as colliding Go names
//   - FormatError: formatter failures; logged, never returned
//
// Bundle problems surface as *load.BundleError and unresolved references
// as *load.UnresolvedReferenceError.
package gen
