// Package main is the entry point for solotube.
package main

import (
	"github.com/samber/lo"
	"github.com/solotube/solotube/cmd"
	"github.com/solotube/solotube/config"
	"github.com/solotube/solotube/internal/cache"
	"github.com/solotube/solotube/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	go cache.CollectGarbage()

	cmd.Execute()
}
