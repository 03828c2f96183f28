package domain

type SubmissionStatus string

const (
	SubmissionIdle       SubmissionStatus = "IDLE"
	SubmissionSubmitting SubmissionStatus = "SUBMITTING"
	SubmissionSucceeded  SubmissionStatus = "SUCCEEDED"
	SubmissionFailed     SubmissionStatus = "FAILED"
)

func (s SubmissionStatus) IsTerminal() bool {
	return s == SubmissionSucceeded || s == SubmissionFailed
}

func (s SubmissionStatus) String() string {
	return string(s)
}
