/*
Package transport renders flattened trees and delivers them with their label.

Every transport implements ports.Transport. Script writes a console.log call
wrapped in a <script> tag, ready to be embedded in an HTML page; Collector
buffers those scripts for the duration of one HTTP request; Console prints a
styled label and the encoded tree to a terminal; Slog emits a structured log
record. Multi fans out to several transports.
*/
package transport
