package main

import "github.com/Tiliavir/exam-board/cmd"

func main() {
	cmd.Execute()
}
