package main

import "github.com/gaurav-prasanna/lessonpipe/cmd"

func main() {
	cmd.Execute()
}
