package version

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/viper"
	"github.com/tansaku/tansaku/constant"
	"github.com/tansaku/tansaku/icon"
	"github.com/tansaku/tansaku/key"
	"github.com/tansaku/tansaku/style"
	"github.com/tansaku/tansaku/util"
)

// Notify prints a notice when a newer release is published.
func Notify() {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	erase := util.PrintErasable(fmt.Sprintf("%s Checking if new version is available...", icon.Get(icon.Progress)))
	latest, err := Latest(ctx)
	erase()
	if err != nil {
		return
	}

	if comp, err := Compare(latest, constant.Version); err != nil || comp <= 0 {
		return
	}

	fmt.Printf(`
%s New version is available %s %s
%s

`,
		style.Fg(style.Green)("▇▇▇"),
		style.Bold(latest),
		style.Faint(fmt.Sprintf("(You're on %s)", constant.Version)),
		style.Faint(constant.Repository+"/releases/tag/v"+latest),
	)
}
