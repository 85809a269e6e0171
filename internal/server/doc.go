// Package server exposes an image viewer session over JSON-RPC 2.0.
//
// The server is the presentation layer of the viewer. It owns a
// session.Registry and lets a client list the entries, fetch their displayed
// pixels, adjust thresholds, derive new entries through color conversions
// and remove entries.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Session:
//   - session_list: Entries in display order
//   - session_sweep: Delete entries flagged for removal
//
// Entry queries:
//   - entry_info: Dimensions, channel count, threshold and origin
//   - entry_pixels: Displayed image as base64 PNG
//   - entry_sample: Raw samples of one pixel
//
// Threshold:
//   - entry_set_threshold: Set kind and cutoff of a one-channel entry
//
// Conversions:
//   - entry_conversions: Conversions applicable to an entry
//   - entry_convert: Append the converted image as a new entry
//   - entry_extract_channel: Append one channel as a new entry
//
// Lifecycle:
//   - entry_remove: Flag an entry for removal
//   - entry_export: Write the displayed image to a PNG file
//
// # Frames
//
// Each request is one frame. Entries flagged by entry_remove are swept
// before the next request is dispatched, so a removal never invalidates the
// request that issued it.
//
// # Error Handling
//
// Tool errors are returned as JSON-RPC error responses with:
//   - code: -32602 for malformed or out-of-range arguments, -32000 for any
//     other tool failure (unknown entry, write failure)
//   - message: Human-readable error description
//   - data: The Go error string
//
// A conversion that does not apply to an entry's channel count is not an
// error; the result carries "converted": false.
//
// # Usage
//
//	srv := server.New(session.NewRegistry(images...), logger)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
