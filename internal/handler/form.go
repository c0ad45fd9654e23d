package handler

// parseCheckbox normalizes an HTML checkbox value to a bool.
//
// Browsers submit `published=on` when the box is checked and omit the field
// entirely when it is not, so the form value is "on" or "". Anything else —
// a hand-crafted request sending "true", "1", "yes" — is treated as
// unchecked rather than guessed at.
//
// Shared by the create and update paths so the convention cannot drift
// between them.
func parseCheckbox(value string) bool {
	return value == "on"
}
