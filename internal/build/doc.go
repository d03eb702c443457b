// Package build holds the shapes the build engine hands to the status
// layer: edges, command results and the run configuration. The engine owns
// these values; status code only reads them.
package build
