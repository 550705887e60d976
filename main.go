package main

import "github.com/avance-dl/avance/cmd"

func main() {
	cmd.Execute()
}
