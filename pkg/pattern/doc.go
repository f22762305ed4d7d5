// Package pattern provides wildcard rule patterns for output paths.
//
// A pattern is an ordered sequence of literal segments and named
// wildcard slots:
//
//   - `{prefix}.out` - one slot named "prefix"
//   - `data/{sample}/{lane}.fastq` - two slots
//   - `{sample,[A-Z]+}.txt` - a slot with a regexp constraint
//
// A slot matches one or more non-separator characters unless a
// constraint says otherwise. When several alignments are possible the
// leftmost slot takes the shortest sufficient match, so the same path
// always yields the same binding.
//
// A failed match is an expected outcome, not an error: Match returns
// a false second value and never fails on any candidate string.
package pattern
