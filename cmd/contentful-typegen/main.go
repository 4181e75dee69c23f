package main

import (
	"os"

	"github.com/teranos/contentful-typegen/cmd/contentful-typegen/commands"
)

func main() {
	os.Exit(commands.Execute())
}
