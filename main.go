package main

import (
	"flag"
	"log"
	"os"

	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/crash"
)

type options struct {
	debug        bool
	baseMonitor  bool
	levelName    string
	playerPrefab string
	stats        bool
}

func main() {
	var opts options
	flag.BoolVar(&opts.debug, "debug", false, "enable debug overlay and event logging")
	flag.BoolVar(&opts.baseMonitor, "m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.StringVar(&opts.levelName, "level", "", "level name in levels/ (basename, .json optional)")
	flag.StringVar(&opts.playerPrefab, "player", "", "player prefab in prefabs/ (default player.yaml)")
	flag.BoolVar(&opts.stats, "stats", false, "serve runtime stats on localhost:8080")
	flag.Parse()

	crash.Init(os.Getenv("SENTRY_DSN"))
	if err := run(opts); err != nil {
		crash.Capture(sentry.CurrentHub(), err)
		log.Fatal(err)
	}
	sentry.Flush(crash.FlushTimeout)
}

func run(opts options) error {
	defer func() {
		if r := recover(); r != nil {
			crash.Repanic(sentry.CurrentHub(), r)
		}
	}()

	if opts.stats {
		// set configurations before calling `statsview.New()` method
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr("localhost:8080"))
		mgr := statsview.New()
		go mgr.Start()
		defer mgr.Stop()
	}

	if opts.baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(common.BaseWidth, common.BaseHeight)
	ebiten.SetWindowTitle("platformer")

	game, err := NewGame(opts.levelName, opts.playerPrefab, opts.debug)
	if err != nil {
		return err
	}
	defer game.Close()

	return ebiten.RunGame(game)
}
