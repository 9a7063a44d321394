package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rapidmidiex/rmxpiano"
	"github.com/rapidmidiex/rmxpiano/keyboard"
)

var (
	widthVar     string
	heightVar    string
	lowVar       int
	highVar      int
	ratioVar     float64
	soundFontVar string
	optionsVar   string
	narrowVar    int
	debugVar     string
)

func init() {
	flag.StringVar(&widthVar, "width", "100%", "Keyboard width, ex: 100%, 80px, 50vw")
	flag.StringVar(&heightVar, "height", "100%", "Keyboard height")
	flag.IntVar(&lowVar, "low", 36, "Lowest note")
	flag.IntVar(&highVar, "high", 60, "Highest note")
	flag.Float64Var(&ratioVar, "ratio", 0.75, "Black key width, relative to a white key")
	flag.StringVar(&soundFontVar, "soundfont", "", "SoundFont (.sf2) to play notes with")
	flag.StringVar(&optionsVar, "options", "", "JSON file with keyboard options")
	flag.IntVar(&narrowVar, "narrow", 60, "Show one octave below this many columns")
	flag.StringVar(&debugVar, "debug", "", "Log to this file")

	flag.Parse()
}

func main() {
	if debugVar != "" {
		f, err := tea.LogToFile(debugVar, "rmxpiano")
		if err != nil {
			fmt.Printf("could not open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
	} else {
		rmxpiano.DiscardLogs()
	}

	opts, err := loadOptions(optionsVar)
	if err != nil {
		fmt.Printf("could not read options: %v\n", err)
		os.Exit(1)
	}

	rmxpiano.Run(rmxpiano.Config{
		Options:     opts,
		SoundFont:   soundFontVar,
		NarrowWidth: narrowVar,
	})
}

// loadOptions reads the options file, then applies the flags given on the
// command line over it.
func loadOptions(path string) (keyboard.Options, error) {
	opts := keyboard.Options{}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(b, &opts); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if opts == nil {
			opts = keyboard.Options{}
		}
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if path == "" || set["width"] || set["height"] {
		opts[keyboard.OptSize] = []string{widthVar, heightVar}
	}
	if path == "" || set["low"] || set["high"] {
		opts[keyboard.OptRange] = []int{lowVar, highVar}
	}
	if path == "" || set["ratio"] {
		opts[keyboard.OptBlackKeyWidthRatio] = ratioVar
	}
	return opts, nil
}
