package common

const (
	// MaxFeedbackRequestBody limits JSON request bodies for the feedback endpoint.
	MaxFeedbackRequestBody = 1 << 20
)
