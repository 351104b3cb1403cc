package main

import (
	"ocm.software/open-component-model/bindings/go/scene/cli/cmd"
)

func main() {
	cmd.Execute()
}
