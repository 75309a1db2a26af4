package model

// The client spells two status tokens with hyphens where the database
// uses underscores. Every other token is identical on both sides.

func TaskStatusToDB(status string) string {
	if status == TaskStatusInProgress {
		return "in_progress"
	}
	return status
}

func TaskStatusToClient(status string) string {
	if status == "in_progress" {
		return TaskStatusInProgress
	}
	return status
}

func AppStatusToDB(status string) string {
	if status == AppStatusPhoneScreen {
		return "phone_screen"
	}
	return status
}

func AppStatusToClient(status string) string {
	if status == "phone_screen" {
		return AppStatusPhoneScreen
	}
	return status
}
