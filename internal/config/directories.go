package config

import "path/filepath"

// DirectoryMap binds the four directory roles the build uses to locate source
// and emit output. Input and Output are relative to the project root;
// Includes and Layouts are relative to Input.
type DirectoryMap struct {
	Input    string `yaml:"input" json:"input"`
	Output   string `yaml:"output" json:"output"`
	Includes string `yaml:"includes" json:"includes"`
	Layouts  string `yaml:"layouts" json:"layouts"`
}

// Roles returns the role/path pairs in a fixed order.
func (d DirectoryMap) Roles() []DirectoryRole {
	return []DirectoryRole{
		{Name: "input", Path: d.Input},
		{Name: "output", Path: d.Output},
		{Name: "includes", Path: d.Includes},
		{Name: "layouts", Path: d.Layouts},
	}
}

// RootRelative returns the roles as paths relative to the project root, with
// Includes and Layouts joined onto Input.
func (d DirectoryMap) RootRelative() []DirectoryRole {
	roles := d.Roles()
	for i := range roles {
		if roles[i].Name == "includes" || roles[i].Name == "layouts" {
			roles[i].Path = filepath.Join(d.Input, roles[i].Path)
		}
	}
	return roles
}

// DirectoryRole is one entry of a DirectoryMap.
type DirectoryRole struct {
	Name string
	Path string
}

// WithOverrides returns a copy of d where every non-empty field of o replaces
// the corresponding role.
func (d DirectoryMap) WithOverrides(o DirectoryMap) DirectoryMap {
	if o.Input != "" {
		d.Input = o.Input
	}
	if o.Output != "" {
		d.Output = o.Output
	}
	if o.Includes != "" {
		d.Includes = o.Includes
	}
	if o.Layouts != "" {
		d.Layouts = o.Layouts
	}
	return d
}
