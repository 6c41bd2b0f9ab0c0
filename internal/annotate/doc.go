// Package annotate implements the per-line half of the report renderer.
//
// # Purpose
//
//   - Line couples one immutable text string with color spans (possibly
//     overlapping) and underline spans (non-overlapping, with optional arrow
//     tips and hint rows).
//   - Rendering produces plain strings with escape codes injected at span
//     boundaries; the package never interprets the codes themselves.
//
// # Scope
//
// Package annotate knows nothing about line numbering across a document,
// gutters, or skipped-line notices. Sequencing and alignment live in
// internal/report, which calls RenderText / RenderUnderline / RenderHints
// once per line during its single render pass.
//
// # Coordinates
//
// All ranges are half-open [start, end) over the code points of the line's
// text. Underline spans on one line must stay disjoint except that two
// spans may share a single boundary cell; AddUnderline rejects anything
// tighter with *OverlapError and leaves the line untouched.
package annotate
