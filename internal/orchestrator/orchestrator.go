// Package orchestrator drives a full deliberation: it asks the turn manager
// who speaks next, collects that participant's contribution, records the
// turn, then solicits votes and forms a consensus decision.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/darianrosebrook/arbiter/internal/debate"
	"github.com/darianrosebrook/arbiter/internal/debate/consensus"
	"github.com/darianrosebrook/arbiter/internal/debate/turns"
)

// Contribution is one participant's turn content.
type Contribution struct {
	Action   string
	Content  string
	Duration time.Duration
	TimedOut bool
}

// Speaker supplies contributions and votes for participants. Implementations
// may be scripted, interactive, or backed by a model; the orchestrator does
// not care.
type Speaker interface {
	// Contribute produces the participant's content for the given turn.
	Contribute(ctx context.Context, agentID string, turnNumber int) (Contribution, error)
	// Vote returns the participant's vote, or nil if the participant
	// declines to vote.
	Vote(ctx context.Context, agentID string) (*debate.Vote, error)
}

// Result holds the complete output of a debate run.
type Result struct {
	DebateID  string                  `json:"debate_id"`
	Topic     string                  `json:"topic"`
	Turns     []debate.TurnRecord     `json:"turns"`
	Contents  map[int]string          `json:"contents"` // turn number -> content
	Votes     []debate.Vote           `json:"votes"`
	Metrics   debate.FairnessMetrics  `json:"fairness_metrics"`
	Fairness  debate.FairnessReport   `json:"fairness_report"`
	Consensus *debate.ConsensusResult `json:"consensus"`
}

// Engine runs one debate end to end.
type Engine struct {
	topic        string
	participants []debate.Participant
	manager      *turns.Manager
	speaker      Speaker
	consensusCfg consensus.Config
	maxTurns     int
	debateID     string
	log          *logrus.Logger

	OnTurn func(record debate.TurnRecord, content string)
	OnVote func(vote debate.Vote)
}

// New creates an engine for a single debate. maxTurns caps the total turns
// across all participants; the per-agent cap in the manager config still
// applies underneath it.
func New(topic string, participants []debate.Participant, manager *turns.Manager, speaker Speaker, consensusCfg consensus.Config, maxTurns int, log *logrus.Logger) *Engine {
	if log == nil {
		log = logrus.New()
	}
	return &Engine{
		topic:        topic,
		participants: participants,
		manager:      manager,
		speaker:      speaker,
		consensusCfg: consensusCfg,
		maxTurns:     maxTurns,
		debateID:     uuid.New().String(),
		log:          log,
	}
}

// DebateID returns the generated session id for this debate.
func (e *Engine) DebateID() string { return e.debateID }

// Run executes the debate: the turn loop, the fairness audit, and the vote.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	if err := e.manager.InitializeDebate(e.debateID); err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	e.log.WithFields(logrus.Fields{
		"debate_id":    e.debateID,
		"topic":        e.topic,
		"participants": len(e.participants),
	}).Info("debate started")

	contents := make(map[int]string)
	for turn := 0; turn < e.maxTurns; turn++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("orchestrator: %w", err)
		}

		pending, err := e.manager.AllocateNextTurn(e.debateID, e.participants)
		if errors.Is(err, turns.ErrMaxTurnsReached) {
			e.log.WithField("debate_id", e.debateID).Debug("all agents at turn cap, closing the floor")
			break
		}
		if err != nil {
			return nil, fmt.Errorf("orchestrator: allocating turn: %w", err)
		}

		contribution, err := e.speaker.Contribute(ctx, pending.AgentID, pending.TurnNumber)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: agent %s: %w", pending.AgentID, err)
		}
		timedOut := contribution.TimedOut || contribution.Duration > pending.MaxDuration
		if err := e.manager.RecordTurn(e.debateID, pending.AgentID, contribution.Action, contribution.Duration, timedOut); err != nil {
			return nil, fmt.Errorf("orchestrator: recording turn: %w", err)
		}

		history := e.manager.TurnHistory(e.debateID)
		record := history[len(history)-1]
		contents[record.TurnNumber] = contribution.Content
		e.log.WithFields(logrus.Fields{
			"debate_id": e.debateID,
			"turn":      record.TurnNumber,
			"agent":     record.AgentID,
			"timeout":   record.WasTimeout,
		}).Debug("turn recorded")
		if e.OnTurn != nil {
			e.OnTurn(record, contribution.Content)
		}
	}

	metrics, err := e.manager.FairnessMetrics(e.debateID)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	report, err := e.manager.ValidateFairness(e.debateID)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	for _, issue := range report.Issues {
		e.log.WithField("debate_id", e.debateID).Warn("fairness issue: " + issue)
	}

	votes, err := e.collectVotes(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{
		DebateID: e.debateID,
		Topic:    e.topic,
		Turns:    e.manager.TurnHistory(e.debateID),
		Contents: contents,
		Votes:    votes,
		Metrics:  metrics,
		Fairness: report,
	}

	decision, err := consensus.FormConsensus(votes, e.participants, e.consensusCfg)
	var impossible *consensus.ImpossibleError
	if errors.As(err, &impossible) {
		// Not terminal: the caller can solicit more votes and retry.
		e.log.WithField("debate_id", e.debateID).Warn(impossible.Error())
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	result.Consensus = decision
	e.log.WithFields(logrus.Fields{
		"debate_id": e.debateID,
		"reached":   decision.Reached,
		"outcome":   decision.Outcome,
	}).Info(decision.Reasoning)
	return result, nil
}

func (e *Engine) collectVotes(ctx context.Context) ([]debate.Vote, error) {
	votes := make([]debate.Vote, 0, len(e.participants))
	for _, p := range e.participants {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("orchestrator: %w", err)
		}
		v, err := e.speaker.Vote(ctx, p.AgentID)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: vote from %s: %w", p.AgentID, err)
		}
		if v == nil {
			continue
		}
		if v.Timestamp.IsZero() {
			v.Timestamp = time.Now()
		}
		votes = append(votes, *v)
		if e.OnVote != nil {
			e.OnVote(*v)
		}
	}
	return votes, nil
}
