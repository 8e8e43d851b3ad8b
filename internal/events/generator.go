package events

import (
	"fmt"
	"math/rand/v2"
)

const DefaultEventCount = 200

// EventTypes are the interaction types produced by Generate.
var EventTypes = []string{"login", "payment", "access"}

type GeneratorOptions struct {
	Users   int
	Devices int
	IPs     int
	Seed    uint64
}

func DefaultGeneratorOptions() GeneratorOptions {
	return GeneratorOptions{
		Users:   50,
		Devices: 30,
		IPs:     20,
	}
}

// Generate returns n random events drawn uniformly from fixed pools of users, devices and IPs.
// The same options always yield the same events. Non-positive pool sizes use the defaults.
func Generate(n int, opts GeneratorOptions) []Event {
	defaults := DefaultGeneratorOptions()
	if opts.Users <= 0 {
		opts.Users = defaults.Users
	}
	if opts.Devices <= 0 {
		opts.Devices = defaults.Devices
	}
	if opts.IPs <= 0 {
		opts.IPs = defaults.IPs
	}
	if n < 0 {
		n = 0
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	events := make([]Event, n)
	for i := range events {
		events[i] = Event{
			User:   fmt.Sprintf("U%03d", rng.IntN(opts.Users)),
			Device: fmt.Sprintf("D%03d", rng.IntN(opts.Devices)),
			IP:     fmt.Sprintf("IP%03d", rng.IntN(opts.IPs)),
			Event:  EventTypes[rng.IntN(len(EventTypes))],
		}
	}
	return events
}
