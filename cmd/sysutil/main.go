package main

import (
	"os"

	"github.com/Sukhavati-Labs/go-sysutil/cmd/sysutil/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
