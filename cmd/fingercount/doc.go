// Command fingercount counts raised fingers in a live camera feed and shows
// the annotated video, optionally mirroring the count to HTTP clients and
// the system tray.
package main
