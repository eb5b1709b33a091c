package task

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultState returns the built-in starting snapshot. Every call returns
// fresh slices so callers may hand it to separate stores.
func DefaultState() State {
	return State{
		Session: Session{UserID: "U1", Authenticated: false},
		Users: []User{
			{ID: "U1", Name: "Dev"},
			{ID: "U2", Name: "C. Eeyo"},
		},
		Groups: []Group{
			{ID: "G1", Name: "To Do", Owner: "U1"},
			{ID: "G2", Name: "Doing", Owner: "U1"},
			{ID: "G3", Name: "Done", Owner: "U1"},
		},
		Tasks: []*Task{
			{ID: "T1", Name: "Refactor tests", Group: "G1", Owner: "U1", IsComplete: false},
			{ID: "T2", Name: "Meet with CTO", Group: "G1", Owner: "U1", IsComplete: true},
			{ID: "T3", Name: "Compile ES6", Group: "G2", Owner: "U2", IsComplete: false},
			{ID: "T4", Name: "Update NPM dependencies", Group: "G3", Owner: "U2", IsComplete: true},
		},
		Comments: []Comment{
			{ID: "C1", Task: "T1", Owner: "U1", Content: "Great work!"},
		},
	}
}

// LoadSnapshot reads a starting state from a YAML file. Collections absent
// from the file are taken from DefaultState; an empty "tasks: []" is kept.
func LoadSnapshot(path string) (State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return State{}, fmt.Errorf("read snapshot: %w", err)
	}

	var raw struct {
		Tasks    *[]*Task   `yaml:"tasks"`
		Groups   *[]Group   `yaml:"groups"`
		Users    *[]User    `yaml:"users"`
		Comments *[]Comment `yaml:"comments"`
		Session  *Session   `yaml:"session"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return State{}, fmt.Errorf("parse snapshot: %w", err)
	}

	st := DefaultState()
	if raw.Tasks != nil {
		st.Tasks = *raw.Tasks
	}
	if raw.Groups != nil {
		st.Groups = *raw.Groups
	}
	if raw.Users != nil {
		st.Users = *raw.Users
	}
	if raw.Comments != nil {
		st.Comments = *raw.Comments
	}
	if raw.Session != nil {
		st.Session = *raw.Session
	}

	return st, nil
}
