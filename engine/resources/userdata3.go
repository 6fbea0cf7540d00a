package resources

// UserData3 attaches free form strings to artmeshes (*.userdata3.json).
type UserData3 struct {
	Version  int             `json:"Version"`
	Meta     UserDataMeta    `json:"Meta"`
	UserData []UserDataEntry `json:"UserData,omitempty"`
}

type UserDataMeta struct {
	UserDataCount     int `json:"UserDataCount"`
	TotalUserDataSize int `json:"TotalUserDataSize"`
}

type UserDataEntry struct {
	Target string `json:"Target"`
	ID     string `json:"Id"`
	Value  string `json:"Value"`
}

// Values returns the user data attached to the given id.
func (u *UserData3) Values(id string) []string {
	if u == nil {
		return nil
	}
	var out []string
	for _, e := range u.UserData {
		if e.ID == id {
			out = append(out, e.Value)
		}
	}
	return out
}
