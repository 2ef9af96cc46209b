// Package progress computes and displays per-pass wipe progress.
//
// A Tracker is created at the start of every pass and turns the running byte
// count into a Snapshot: percentage, throughput in MB/s (MiB based) and the
// time remaining for the current pass. Snapshots are plain values; how they
// are shown is up to a Renderer.
//
// # Output Format
//
//	Pass 1/2:   45.20%  |   312.40 MB/s  |  ETA 00:18:32
//
// TerminalRenderer redraws that line in place at most four times a second.
// LogRenderer writes the same data as structured log entries.
package progress
