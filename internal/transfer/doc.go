// Package transfer moves images from a producer process into a viewer
// process through files.
//
// # Sending
//
// Sender.Send validates the arrays, writes each one as an NPY file named
// imspect_img_<i>.npy into a fresh temporary directory, and starts the viewer
// with the absolute file paths as positional arguments. The viewer's standard
// streams are attached to the null device. The directory path is passed in
// the IMSPECT_HANDOFF_DIR environment variable.
//
// # Handoff
//
// Instead of sleeping for a fixed time, the sender waits for the viewer to
// acknowledge the files by deleting them (see Acknowledge). The wait ends as
// soon as:
//   - every file is gone (success)
//   - the viewer exits first (ErrViewerExited)
//   - the context is done (ctx.Err())
//   - the handoff timeout elapses (logged, returns nil)
//
// The temporary directory is removed when Send returns. The viewer process is
// never waited on beyond that point and never killed.
//
// # Receiving
//
// Load turns command-line paths back into image buffers. NPY files keep their
// channel count; every other file goes through the generic image decoder and
// becomes a three-channel buffer. A single bad file fails the whole load so a
// session never starts with a subset of the requested images.
package transfer
