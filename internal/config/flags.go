package config

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/iburimskiy/galaxy/internal/galaxy"
)

// Options is the startup configuration.
type Options struct {
	Params galaxy.Parameters
	Seed   uint64 // 0 picks a seed from the clock
	Debug  bool
}

// ParseFlags reads startup options from args (without the program name).
// DEBUG in the environment turns on debug logging as well.
func ParseFlags(name string, args []string, output io.Writer) (Options, error) {
	opts := Options{
		Params: DefaultParameters(),
		Debug:  os.Getenv("DEBUG") != "",
	}
	p := &opts.Params

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)
	fs.IntVar(&p.Count, "count", p.Count, "number of particles")
	fs.Float64Var(&p.Size, "size", p.Size, "point size in world units")
	fs.Float64Var(&p.Radius, "radius", p.Radius, "galaxy radius")
	fs.IntVar(&p.Branches, "branches", p.Branches, "number of spiral arms")
	fs.Float64Var(&p.Spin, "spin", p.Spin, "arm twist in radians per unit radius")
	fs.Float64Var(&p.Randomness, "randomness", p.Randomness, "jitter amplitude")
	fs.Float64Var(&p.RandomnessPower, "power", p.RandomnessPower, "jitter falloff exponent")
	fs.Float64Var(&p.SpeedRotation, "speed", p.SpeedRotation, "rotation speed in radians per second")
	inside := fs.String("inside", DefaultInsideColor, "inside color as #rrggbb")
	outside := fs.String("outside", DefaultOutsideColor, "outside color as #rrggbb")
	fs.Uint64Var(&opts.Seed, "seed", 0, "random seed, 0 for time based")
	fs.BoolVar(&opts.Debug, "debug", opts.Debug, "enable debug logging")

	if err := fs.Parse(args); err != nil {
		return Options{}, err
	}
	if fs.NArg() > 0 {
		return Options{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	var err error
	if p.InsideColor, err = colorful.Hex(*inside); err != nil {
		return Options{}, fmt.Errorf("parse -inside %q: %w", *inside, err)
	}
	if p.OutsideColor, err = colorful.Hex(*outside); err != nil {
		return Options{}, fmt.Errorf("parse -outside %q: %w", *outside, err)
	}
	return opts, nil
}
