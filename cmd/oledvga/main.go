// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// oledvga streams a test pattern to a SSD1331 OLED panel.
//
// With -sim the bus is decoded by an emulated panel which is drawn on the
// terminal instead.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/GermanBionicSystems/oledvga/oledsim"
	"github.com/GermanBionicSystems/oledvga/ssd1331"
	"github.com/GermanBionicSystems/oledvga/vga"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

func openPins(names [5]string) (*ssd1331.Pins, error) {
	var p [5]gpio.PinOut
	for i, n := range names {
		pin := gpioreg.ByName(n)
		if pin == nil {
			return nil, fmt.Errorf("unknown pin %q", n)
		}
		p[i] = pin
	}
	return &ssd1331.Pins{RES: p[0], CS: p[1], SCK: p[2], DC: p[3], MOSI: p[4]}, nil
}

func mainImpl() error {
	res := flag.String("res", "GPIO25", "reset pin")
	cs := flag.String("cs", "GPIO8", "chip-select pin")
	sck := flag.String("sck", "GPIO11", "clock pin")
	dc := flag.String("dc", "GPIO24", "data/command pin")
	mosi := flag.String("mosi", "GPIO10", "data pin")
	rate := flag.Int("rate", 0, "base tick rate in Hz, 0 for as fast as possible")
	div := flag.Int("div", 2, "base ticks per serial clock enable")
	caption := flag.String("caption", "periph", "test pattern caption")
	sim := flag.Bool("sim", false, "emulate the panel on the terminal")
	refresh := flag.Duration("refresh", 200*time.Millisecond, "terminal refresh period with -sim")
	flag.Parse()
	if flag.NArg() != 0 {
		return fmt.Errorf("unexpected argument: %s", flag.Args())
	}

	opts := ssd1331.DefaultOpts
	tm := vga.DefaultTiming
	fb := vga.NewFramebuffer(tm.ResolutionX, tm.ResolutionY)
	img, err := vga.ColorBars(tm.ResolutionX, tm.ResolutionY, *caption)
	if err != nil {
		return err
	}
	if err := fb.DrawScaled(img); err != nil {
		return err
	}
	gen, err := vga.New(&tm, fb)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	var pins *ssd1331.Pins
	var panel *oledsim.Panel
	if *sim {
		panel = oledsim.NewPanel(opts.W, opts.H)
		pins = oledsim.NewBus(panel).Pins()
	} else {
		if _, err := host.Init(); err != nil {
			return err
		}
		if pins, err = openPins([5]string{*res, *cs, *sck, *dc, *mosi}); err != nil {
			return err
		}
	}
	dev, err := ssd1331.New(pins, &opts)
	if err != nil {
		return err
	}
	defer dev.Halt()
	log.Printf("%s: %s", dev, dev.Script())

	if panel != nil {
		term := oledsim.NewTerminal(&oledsim.TerminalOpts{})
		defer term.Halt()
		go func() {
			t := time.NewTicker(*refresh)
			defer t.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-t.C:
					_ = term.Refresh(panel.Image())
				}
			}
		}()
	}

	src := &vga.Source{Gen: gen, Serial: vga.Divider{N: *div}}
	err = dev.Run(ctx, src, physic.Frequency(*rate)*physic.Hertz)
	if err == context.Canceled {
		st := dev.State()
		log.Printf("stopped after %d ticks, %d samples sent", st.Tick, st.Consumed)
		return nil
	}
	return err
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "oledvga: %s.\n", err)
		os.Exit(1)
	}
}
