package models

import "strconv"

// Redis keys shared by the services that read and the syncers that write.

func StateKey(studentID int64, location string) string {
	return "state:" + strconv.FormatInt(studentID, 10) + ":" + location
}

func StudentKey(studentID string) string {
	return "student:" + studentID
}

func CourseKey(courseID string) string {
	return "course:" + courseID
}
