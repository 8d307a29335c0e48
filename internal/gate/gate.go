// Package gate decides whether a viewer can enter an exam directly or must
// first confirm that they want to skip the rest of the prerequisite video.
//
// The gate never blocks: an unmet threshold only interposes a confirmation
// whose outcome is reported back through Resolve.
package gate

import (
	"fmt"
	"math"

	"github.com/japanesestudent/progress-service/internal/models"
)

// Outcome is the result of evaluating the gate
type Outcome string

const (
	// OutcomeProceed allows navigation to the exam without any prompt
	OutcomeProceed Outcome = "proceed"
	// OutcomeConfirm requires the viewer to choose between the video and the exam
	OutcomeConfirm Outcome = "confirm"
)

// Choice is the viewer's answer to a confirmation
type Choice string

const (
	ChoiceBackToVideo   Choice = "back_to_video"
	ChoiceProceedAnyway Choice = "proceed_anyway"
)

// Destination is where the caller navigates after the gate
type Destination string

const (
	DestinationExam  Destination = "exam"
	DestinationVideo Destination = "video"
)

// Snapshot is the prerequisite lesson's progress at the time of the check
type Snapshot struct {
	Percent   float64
	Completed bool
}

// Confirmation describes the prompt the UI renders when the threshold is unmet
type Confirmation struct {
	Title   string   `json:"title"`
	Message string   `json:"message"`
	Choices []Choice `json:"choices"`
}

// Decision is the gate result handed to the UI
type Decision struct {
	Outcome      Outcome         `json:"outcome"`
	Percent      float64         `json:"percent"`
	Completed    bool            `json:"completed"`
	Threshold    float64         `json:"threshold"`
	Exam         models.ExamInfo `json:"exam"`
	Confirmation *Confirmation   `json:"confirmation,omitempty"`
}

// Evaluate returns OutcomeProceed when the lesson is completed or its percent
// reaches threshold, and OutcomeConfirm with a prompt otherwise.
func Evaluate(snapshot Snapshot, exam models.ExamInfo, threshold float64) Decision {
	decision := Decision{
		Outcome:   OutcomeProceed,
		Percent:   snapshot.Percent,
		Completed: snapshot.Completed,
		Threshold: threshold,
		Exam:      exam,
	}
	if snapshot.Completed || snapshot.Percent >= threshold {
		return decision
	}

	title := exam.Title
	if title == "" {
		title = "the exam"
	}
	decision.Outcome = OutcomeConfirm
	decision.Confirmation = &Confirmation{
		Title: "Video not finished",
		Message: fmt.Sprintf("You have watched %d%% of the video. Watch at least %d%% before starting %s, or continue anyway.",
			int(math.Floor(snapshot.Percent)), int(math.Ceil(threshold)), title),
		Choices: []Choice{ChoiceBackToVideo, ChoiceProceedAnyway},
	}
	return decision
}

// Resolve maps a decision and the viewer's choice to a navigation target.
// The choice is ignored when the decision did not ask for confirmation.
func Resolve(decision Decision, choice Choice) (Destination, error) {
	if decision.Outcome == OutcomeProceed {
		return DestinationExam, nil
	}

	switch choice {
	case ChoiceProceedAnyway:
		return DestinationExam, nil
	case ChoiceBackToVideo:
		return DestinationVideo, nil
	default:
		return "", fmt.Errorf("invalid choice: %q", choice)
	}
}
