package models

import "time"

type Student struct {
	StudentID int64  `json:"-"`
	UserName  string `json:"user_name"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// ModuleEvent is published whenever an AJAX call changes a module's state.
type ModuleEvent struct {
	ID        string    `json:"id"`
	StudentID int64     `json:"student_id"`
	Location  string    `json:"location"`
	Dispatch  string    `json:"dispatch"`
	State     StateData `json:"state"`
	Version   int64     `json:"version"`
	Time      time.Time `json:"time"`
}
