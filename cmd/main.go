package main

import (
	"log"

	"github.com/BIwashi/canforge/app/gen"
	"github.com/BIwashi/canforge/pkg/cli"
)

func main() {
	c := cli.NewCLI(
		"canforge",
		"Generate Go CAN signal accessors from a DBC file.",
	)

	c.AddCommands(
		gen.NewCommand(),
	)

	if err := c.Run(); err != nil {
		log.Fatal(err)
	}
}
