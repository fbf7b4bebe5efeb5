package views

import "eaglepark/models"

// SchoolsMsg delivers the school directory (or the fetch failure) to
// whichever view is waiting on it.
type SchoolsMsg struct {
	Schools []models.School
	Err     error
}

// AuthResultMsg is the outcome of a sign-in or sign-up attempt.
type AuthResultMsg struct {
	Email string
	Err   error
}

// SignedOutMsg reports the sign-out outcome.
type SignedOutMsg struct {
	Err error
}

// CreateResultMsg is the outcome of submitting the add-listing form.
type CreateResultMsg struct {
	Err error
}

// DeleteResultMsg is the outcome of removing a listing.
type DeleteResultMsg struct {
	Err error
}
