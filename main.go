package main

import (
	"github.com/jsonresource/cli/cmd/jr"
)

func main() {
	jr.Main()
}
