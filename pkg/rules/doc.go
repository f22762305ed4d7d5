// Package rules binds the resolution primitives together: a Rule
// declares an output pattern, input templates, a parameter block, a
// command template, and a retention class; the Resolver turns a
// requested target path into a fully substituted ResolvedAction ready
// for an external executor.
//
// Rules are evaluated in declaration order and the first rule whose
// output pattern matches the target wins, so more specific rules
// should be declared before catchalls.
//
// Placeholders available in a rule's templates:
//
//   - `{wildcard}` - a slot bound by the output pattern
//   - `{param}` - a rule parameter (params render before everything
//     else and may themselves reference wildcards and config)
//   - `{cfg:dotted.path}` - a value from the configuration store
package rules
