package main

import (
	"github.com/yoppiari/tumor-registry-sub011/api"
)

func main() {
	api.MainLoop()
}
