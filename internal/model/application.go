package model

// Application status values in client spelling. The database stores
// "phone_screen"; see AppStatusToDB / AppStatusToClient.
const (
	AppStatusSaved       = "saved"
	AppStatusApplied     = "applied"
	AppStatusPhoneScreen = "phone-screen"
	AppStatusInterview   = "interview"
	AppStatusOffer       = "offer"
	AppStatusRejected    = "rejected"
	AppStatusWithdrawn   = "withdrawn"
)

type ApplicationPayload struct {
	ID          string `json:"id"`
	Company     string `json:"company"`
	Role        string `json:"role"`
	Status      string `json:"status"`
	DateApplied string `json:"dateApplied"`
	JobURL      string `json:"jobUrl"`
	Notes       string `json:"notes"`
	CreatedAt   string `json:"createdAt"`
}
