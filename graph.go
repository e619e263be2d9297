package mgclient

import "strings"

// Node is a graph vertex: a server-assigned identifier, zero or more
// labels, and a property map. Identifiers are only stable within the
// session that produced them.
type Node struct {
	ID         int64
	Labels     []string
	Properties Map
}

func (Node) Kind() Kind { return KindNode }
func (Node) sealed()    {}

func (n Node) String() string {
	return "(:" + strings.Join(n.Labels, ", ") + " " + n.Properties.String() + ")"
}

// Relationship is a directed edge between two nodes, identified
// together with its endpoints.
type Relationship struct {
	ID         int64
	StartID    int64
	EndID      int64
	Type       string
	Properties Map
}

func (Relationship) Kind() Kind { return KindRelationship }
func (Relationship) sealed()    {}

func (r Relationship) String() string {
	return "[:" + r.Type + " " + r.Properties.String() + "]"
}

// UnboundRelationship is an edge stripped of its endpoints, as it
// appears inside a Path where the walk supplies them.
type UnboundRelationship struct {
	ID         int64
	Type       string
	Properties Map
}

func (UnboundRelationship) Kind() Kind { return KindUnboundRelationship }
func (UnboundRelationship) sealed()    {}

func (r UnboundRelationship) String() string {
	return "[:" + r.Type + " " + r.Properties.String() + "]"
}

// Path is an alternating walk through the graph. For any non-empty path
// len(Nodes) == len(Relationships)+1.
type Path struct {
	Nodes         []Node
	Relationships []UnboundRelationship
}

func (Path) Kind() Kind { return KindPath }
func (Path) sealed()    {}

func (p Path) String() string {
	if len(p.Nodes) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(p.Nodes[0].String())
	for i, rel := range p.Relationships {
		sb.WriteString("-")
		sb.WriteString(rel.String())
		sb.WriteString("-")
		if i+1 < len(p.Nodes) {
			sb.WriteString(p.Nodes[i+1].String())
		}
	}
	return sb.String()
}
