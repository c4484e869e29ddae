// Package buffer provides a thread-safe ring buffer for maintaining a
// sliding window of the most recently added elements.
//
// RingBuffer is a fixed-size buffer that overwrites the oldest entry
// once full. It backs cli.LogWriter's bounded event-log tail for
// halocctl watch.
//
// Example usage:
//
//	buf := buffer.RingN[string](100)
//	buf.Add("line 1")
//	lines := buf.Bytes()
package buffer
