package main

import "github.com/pfrederiksen/cricket-schedules/internal/cli"

func main() {
	cli.Execute()
}
