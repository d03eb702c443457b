// Package trace replays a recorded build from a YAML description.
//
// A trace lists the edges of a build with their start and end times, exit
// status and output, plus free-standing log messages. Replay feeds them to
// a status.Status in time order, which exercises printers and frontends
// without a real build engine.
//
//	parallelism: 4
//	total_edges: 2
//	messages:
//	  - level: warning
//	    text: "disk is slow"
//	    at_ms: 5
//	edges:
//	  - id: 1
//	    outputs: [a.o]
//	    description: CC a.o
//	    command: cc -c a.c
//	    start_ms: 0
//	    end_ms: 40
//	    exit_status: 0
package trace
