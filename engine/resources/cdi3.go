package resources

// Cdi3 is the display info file (*.cdi3.json) with editor names.
type Cdi3 struct {
	Version         int             `json:"Version"`
	Parameters      []Cdi3Parameter `json:"Parameters,omitempty"`
	ParameterGroups []Cdi3Parameter `json:"ParameterGroups,omitempty"`
	Parts           []Cdi3Part      `json:"Parts,omitempty"`
}

type Cdi3Parameter struct {
	ID      string `json:"Id"`
	GroupID string `json:"GroupId,omitempty"`
	Name    string `json:"Name"`
}

type Cdi3Part struct {
	ID   string `json:"Id"`
	Name string `json:"Name"`
}

// ParameterName returns the display name of a parameter, or the id.
func (c *Cdi3) ParameterName(id string) string {
	if c != nil {
		for _, p := range c.Parameters {
			if p.ID == id && p.Name != "" {
				return p.Name
			}
		}
	}
	return id
}

// PartName returns the display name of a part, or the id.
func (c *Cdi3) PartName(id string) string {
	if c != nil {
		for _, p := range c.Parts {
			if p.ID == id && p.Name != "" {
				return p.Name
			}
		}
	}
	return id
}
