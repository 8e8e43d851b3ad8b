// Package events turns user/device/IP interaction events into the typed graph the detector
// works on, and moves them between CSV files and Neo4j.
package events

import (
	"fmt"

	"github.com/mkd-neo4j/neo4j-mcp-fraud-rings/internal/graph"
)

// Node categories assigned when events are turned into a graph.
const (
	CategoryUser   = "user"
	CategoryDevice = "device"
	CategoryIP     = "ip"
)

// AccessType labels every device-IP edge.
const AccessType = "access"

// Event is one observed interaction: a user acting on a device from an IP address.
type Event struct {
	User   string `json:"user"`
	Device string `json:"device"`
	IP     string `json:"ip"`
	Event  string `json:"event"`
}

func (e Event) Validate() error {
	switch {
	case e.User == "":
		return fmt.Errorf("event has no user")
	case e.Device == "":
		return fmt.Errorf("event has no device")
	case e.IP == "":
		return fmt.Errorf("event has no ip")
	}
	return nil
}

// BuildGraph links each user to its device with an edge typed by the event, and each device to
// its IP with an access edge. Later events overwrite the type of an existing user-device edge.
// Events failing Validate are ignored.
func BuildGraph(events []Event) *graph.Store {
	g := graph.NewStore()
	for _, e := range events {
		if e.Validate() != nil || e.User == e.Device || e.Device == e.IP {
			continue
		}
		_ = g.AddNode(e.User, CategoryUser)
		_ = g.AddNode(e.Device, CategoryDevice)
		_ = g.AddNode(e.IP, CategoryIP)
		_ = g.AddEdge(e.User, e.Device, e.Event)
		_ = g.AddEdge(e.Device, e.IP, AccessType)
	}
	return g
}
