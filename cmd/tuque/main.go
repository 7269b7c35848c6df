package main

import "github.com/jonathangreen/tuque-sub001/cmd/tuque/cmd"

func main() {
	cmd.Execute()
}
