package main

import (
	"github.com/samber/lo"
	"github.com/tansaku/tansaku/cache"
	"github.com/tansaku/tansaku/cmd"
	"github.com/tansaku/tansaku/config"
	"github.com/tansaku/tansaku/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	go cache.CollectGarbage()

	cmd.Execute()
}
