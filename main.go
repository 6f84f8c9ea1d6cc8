package main

import (
	"os"

	"VelRecover/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
