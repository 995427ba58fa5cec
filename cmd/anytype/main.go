package main

import (
	"os"

	"github.com/anytype-sdk/anytype_sdk_go/internal/command"
)

func main() {
	os.Exit(command.Main(os.Args))
}
