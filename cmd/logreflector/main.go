package main

import "github.com/simons-plugins/logs-over-reflector/internal/cmd"

func main() {
	cmd.Execute()
}
