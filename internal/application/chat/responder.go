package chat

import (
	"context"
	"fmt"

	"go-recruit-sse/internal/domain/recruiting"
)

// ReplyRequest is everything a responder may use to write the next line.
type ReplyRequest struct {
	Role    recruiting.Role
	Job     recruiting.Job
	History []recruiting.Message
	Turn    int
}

// Responder writes the next line of an HR/candidate conversation. A language
// model backed implementation plugs in here; ScriptedResponder is the
// built-in fallback.
type Responder interface {
	Reply(ctx context.Context, req ReplyRequest) (string, error)
}

var hrScript = []string{
	"Hi! Thanks for your interest in the %s role at %s. Could you walk me through your background?",
	"That sounds relevant. Which recent project are you most proud of, and what was your part in it?",
	"How do you usually work with your team when requirements change mid-sprint?",
	"What are your salary expectations for this position?",
	"Are you comfortable with our %s setup, and when could you start?",
	"Great, I think we have a good picture. Anything you'd like to ask us?",
}

var candidateScript = []string{
	"Sure! I have six years of experience building backend services, most recently leading a payments team.",
	"My favourite project was migrating our order pipeline to an event-driven design, which cut latency by 40%.",
	"I keep the team in the loop early, split the work into small slices and pair on the risky parts.",
	"I'm looking for something in the range you posted; the salary band works for me.",
	"Yes, remote or hybrid both work well, and I'm available to start in four weeks.",
	"Only one: how does the team measure success in the first ninety days?",
}

// ScriptedResponder cycles through canned lines.
type ScriptedResponder struct{}

func (ScriptedResponder) Reply(_ context.Context, req ReplyRequest) (string, error) {
	idx := req.Turn / 2

	switch req.Role {
	case recruiting.RoleHR:
		line := hrScript[idx%len(hrScript)]
		switch idx % len(hrScript) {
		case 0:
			return fmt.Sprintf(line, req.Job.Title, req.Job.Company), nil
		case 4:
			return fmt.Sprintf(line, req.Job.Location), nil
		default:
			return line, nil
		}
	case recruiting.RoleCandidate:
		return candidateScript[idx%len(candidateScript)], nil
	default:
		return "", fmt.Errorf("unknown role %q", req.Role)
	}
}
