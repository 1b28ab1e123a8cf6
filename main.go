package main

import "github.com/kfreiman/wpmd/cmd"

func main() {
	cmd.Execute()
}
