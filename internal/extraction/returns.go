package extraction

// ReturnFeedbackSource supplies the return feedback sent with a snapshot.
// Return reasons are not present on product pages.
type ReturnFeedbackSource interface {
	ReturnFeedback() []string
}

// StaticReturnFeedback is a placeholder source returning a fixed list
type StaticReturnFeedback struct{}

// ReturnFeedback returns a fresh copy of the placeholder list
func (StaticReturnFeedback) ReturnFeedback() []string {
	return []string{
		"Item not as described",
		"Wrong product",
		"Looked fake",
	}
}
