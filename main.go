package main

import "robot-maze-server/cmd"

func main() {
	cmd.Execute()
}
