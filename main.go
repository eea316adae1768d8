package main

import "josephlewis.net/jsh/cmd"

func main() {
	cmd.Execute()
}
