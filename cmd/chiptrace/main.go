// Command chiptrace inspects, converts and renders chip-tracer entity files,
// and launches the GUI.
package main

import "chip-tracer/cmd/chiptrace/cmd"

func main() {
	cmd.Execute()
}
