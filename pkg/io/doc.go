// Package io reads and writes statechart models.
//
// # Formats
//
// A model is a [chart.Chart]: a document name, an optional document
// initial transition, and a flat list of states that point at their
// parent by id. The same structure is accepted in three encodings:
//
//   - JSON (.json), also produced by [WriteJSON]
//   - TOML (.toml)
//   - YAML (.yaml, .yml)
//
// A minimal JSON model:
//
//	{
//	  "name": "door",
//	  "initial": {"targets": ["closed"]},
//	  "states": [
//	    {"id": "closed", "transitions": [{"targets": ["open"], "events": ["push"]}]},
//	    {"id": "open",   "transitions": [{"targets": ["closed"], "events": ["pull"]}]}
//	  ]
//	}
//
// The same model in YAML:
//
//	name: door
//	initial: {targets: [closed]}
//	states:
//	  - id: closed
//	    transitions: [{targets: [open], events: [push]}]
//	  - id: open
//	    transitions: [{targets: [closed], events: [pull]}]
//
// Unknown keys are rejected in every format so that a misspelled field
// fails loudly instead of disappearing from the diagram.
//
// # Import
//
// [Import] picks the decoder from the file extension. [ReadJSON],
// [ReadTOML] and [ReadYAML] decode from any io.Reader. Every reader runs
// [chart.Validate] on the result; decode failures carry
// [errors.ErrCodeInvalidFormat], structural problems
// [errors.ErrCodeInvalidModel].
//
// # Export
//
// [WriteJSON] and [ExportJSON] write the canonical JSON form, which
// [ReadJSON] reads back unchanged.
package io
