package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

const membersKey = "members"

// TrackConfig is one node of a trackdb configuration tree. Fields holds the
// stanza keys of the track exactly as written in trackDb.txt, Members the
// child tracks keyed by their canonical name. Nodes are shared: a subtrack
// node is reachable both from the tree root and from its parent's Members.
type TrackConfig struct {
	Name    string
	Fields  map[string]string
	Members map[string]*TrackConfig
}

// TrackConfigTree maps top level track names to their configuration.
type TrackConfigTree map[string]*TrackConfig

func NewTrackConfig(name string, fields map[string]string) *TrackConfig {
	copied := make(map[string]string, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	return &TrackConfig{Name: name, Fields: copied}
}

func (c *TrackConfig) AddMember(child *TrackConfig) {
	if c.Members == nil {
		c.Members = map[string]*TrackConfig{}
	}
	c.Members[child.Name] = child
}

func (c *TrackConfig) Member(name string) (*TrackConfig, bool) {
	if c.Members == nil {
		return nil, false
	}
	m, ok := c.Members[name]
	return m, ok
}

// MarshalJSON flattens the scalar fields and adds a "members" object when the
// track has children.
func (c *TrackConfig) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(c.Fields)+1)
	for k, v := range c.Fields {
		out[k] = v
	}
	if len(c.Members) > 0 {
		out[membersKey] = c.Members
	}
	return json.Marshal(out)
}

func (c *TrackConfig) UnmarshalJSON(b []byte) error {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	c.Fields = map[string]string{}
	c.Members = nil
	for k, v := range raw {
		if k == membersKey {
			members := map[string]*TrackConfig{}
			if err := json.Unmarshal(v, &members); err != nil {
				return fmt.Errorf("members: %w", err)
			}
			for name, m := range members {
				if m.Name == "" {
					m.Name = name
				}
			}
			c.Members = members
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return fmt.Errorf("field %s: %w", k, err)
		}
		c.Fields[k] = s
	}
	if fields := strings.Fields(c.Fields["track"]); len(fields) > 0 {
		c.Name = fields[0]
	}
	return nil
}

func (t *TrackConfigTree) UnmarshalJSON(b []byte) error {
	raw := map[string]*TrackConfig{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if *t == nil {
		*t = TrackConfigTree{}
	}
	for name, c := range raw {
		if c.Name == "" {
			c.Name = name
		}
		(*t)[name] = c
	}
	return nil
}
