package main

import (
	"github.com/yoppiari/tumor-registry-sub011/cmd/registry/command"
)

func main() {
	command.Execute()
}
