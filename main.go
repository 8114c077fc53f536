package main

import "course-planner/cmd"

func main() {
	cmd.Execute()
}
