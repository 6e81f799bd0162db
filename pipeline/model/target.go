package model

type Target interface {
	Hash() uint64
	Tags() Tags
	TUID() string
}

// Group is the set of targets found in one source. A group with no targets
// means the source is gone or empty.
type Group interface {
	Targets() []Target
	Source() string
}

// Config is the text built for a target. Stale configs withdraw a previously exported one.
type Config struct {
	Tags  Tags
	Conf  string
	Stale bool
}

type Base struct {
	tags Tags
}

func (b *Base) Tags() Tags {
	if b.tags == nil {
		b.tags = NewTags()
	}
	return b.tags
}

type group struct {
	source  string
	targets []Target
}

func NewGroup(source string, targets ...Target) Group {
	return &group{source: source, targets: targets}
}

func (g *group) Source() string    { return g.source }
func (g *group) Targets() []Target { return g.targets }
