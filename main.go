package main

import "github.com/Larhard/library-player/cmd"

func main() {
	cmd.Execute()
}
