package main

import "cafehere/cmd"

func main() {
	cmd.Execute()
}
