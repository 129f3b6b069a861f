package fields

// extractPersonalInfo finds the first email address and phone number in the
// text. Name and location are left empty for the recognizer to fill.
func extractPersonalInfo(text string) PersonalInfo {
	return PersonalInfo{
		Email: emailPattern.FindString(text),
		Phone: phonePattern.FindString(text),
	}
}
