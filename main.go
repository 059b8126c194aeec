package main

import "codelens/cmd"

func main() {
	cmd.Execute()
}
