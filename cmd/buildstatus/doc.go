// Command buildstatus works with ninja-style build status streams.
//
// The frontend subcommand is meant to be launched by a build tool with the
// binary status stream on stdin; it prints the familiar progress lines and
// can record every finished edge in a history database. dump decodes a
// captured stream for inspection, replay drives the status layer from a
// YAML trace, and history queries recorded builds.
package main
