package main

import (
	"github.com/fracturedkey/fractured/cmd"
)

func main() {
	cmd.Execute()
}
