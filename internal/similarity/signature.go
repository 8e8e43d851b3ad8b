package similarity

// UnknownLabel is counted for nodes or edges that carry no label.
const UnknownLabel = "unknown"

// Histogram maps a label to its number of occurrences.
type Histogram map[string]int

// Labels returns the labels with a nonzero count.
func (h Histogram) Labels() map[string]struct{} {
	labels := make(map[string]struct{}, len(h))
	for label, count := range h {
		if count > 0 {
			labels[label] = struct{}{}
		}
	}
	return labels
}

// Signature summarises one neighborhood. Treat it as immutable once built.
type Signature struct {
	Center     string
	Categories Histogram
	EdgeTypes  Histogram
	Members    map[string]struct{}
}

// BuildSignature derives the category histogram, edge-type histogram and member set of n.
func BuildSignature(n *Neighborhood) Signature {
	sig := Signature{
		Center:     n.Center,
		Categories: make(Histogram),
		EdgeTypes:  make(Histogram),
		Members:    make(map[string]struct{}, len(n.Nodes)),
	}
	for _, id := range n.Nodes {
		sig.Categories[labelOrUnknown(n.Categories[id])]++
		sig.Members[id] = struct{}{}
	}
	for _, e := range n.Edges {
		sig.EdgeTypes[labelOrUnknown(e.Type)]++
	}
	return sig
}

func labelOrUnknown(label string) string {
	if label == "" {
		return UnknownLabel
	}
	return label
}
