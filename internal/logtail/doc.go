// Package logtail reads the tail of the diagnostic log for the in-app
// diagnostics view.
//
// Read keeps a ring buffer of maxLines, so memory stays bounded by the tail
// size no matter how large the file grows. A missing file yields no lines.
//
// Parse decodes the logfmt lines written by the logrus text formatter
// with go-logfmt:
//
//	time="2026-10-19T10:00:00Z" level=error msg="request failed" op=delete_item status=500
//
// time, level and msg become Entry fields; every other pair lands in
// Fields. Anything that does not decode is kept verbatim as the message.
package logtail
