// Command graphsynthd wires configuration, the command thread, the render
// thread, and the audio device together into a running synthesis engine
// (spec §5's three-thread architecture, §4.7's boundary).
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/cbegin/graphsynth/internal/audio"
	"github.com/cbegin/graphsynth/internal/command"
	"github.com/cbegin/graphsynth/internal/config"
	"github.com/cbegin/graphsynth/internal/engine"
	"github.com/cbegin/graphsynth/internal/instrument"
)

func main() {
	var (
		configPath = pflag.StringP("config", "c", "", "path to a YAML config file")
		voices     = pflag.IntP("voices", "n", 8, "polyphony per instrument row")
		help       = pflag.BoolP("help", "h", false, "display help text")
	)
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: graphsynthd [options]\n\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()
	if *help {
		pflag.Usage()
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	shared := engine.NewSharedAtomics(cfg.SampleRate)
	shared.SetMasterVolume(cfg.MasterVolume)
	msgRing := engine.NewMessageRing(cfg.MessageRingBufferSize)
	audioRing := engine.NewAudioRing(cfg.AudioRingBufferSize)

	rack := instrument.NewRack(cfg.SampleRate,
		instrument.NewDefaultLead(*voices),
		instrument.NewDefaultPad(*voices),
	)

	sys := newDefaultSystem(cfg.RenderChunkSize, cfg.SampleRate, rack)

	events := make(chan engine.BackendEvent, 64)
	renderThread := engine.NewRenderThread(sys, shared, msgRing, audioRing, rack, events, logger)

	commands := make(chan command.Command, 64)
	commandThread := command.NewCommandThread(commands, msgRing, events, logger, cfg.RenderChunkSize, cfg.SampleRate)

	go renderThread.Run()
	go commandThread.Run()
	go logBackendEvents(events, logger)

	source := engine.NewCallbackAdapter(audioRing, shared)
	player, err := audio.NewPlayer(cfg.SampleRate, source)
	if err != nil {
		logger.Fatal("failed to start audio player", "error", err)
	}
	player.Play()

	logger.Info("graphsynthd running", "sample_rate", cfg.SampleRate, "block_size", cfg.RenderChunkSize)
	select {}
}

func logBackendEvents(events <-chan engine.BackendEvent, logger *log.Logger) {
	for ev := range events {
		switch ev.Tag {
		case engine.EventCommandError, engine.EventGraphError:
			logger.Error("backend event", "tag", ev.Tag, "command", ev.Command, "error", ev.Error, "description", ev.Description)
		case engine.EventBufferUnderrun:
			logger.Warn("buffer underrun", "count", ev.UnderrunCount)
		}
	}
}
