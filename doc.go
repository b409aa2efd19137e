/*
Package maestro is a multi-turn interview engine that converts a short
question-and-answer exchange into a structured design decision for an
external frontend generation backend.

It implements a "decide, then execute" architecture: the interview core is
deterministic and side-effect free, and the only external boundary is the
generation backend call at the very end of a session.

# Concept

A session walks a small state machine (analyzing -> interviewing ->
awaiting_answer -> deciding -> confirming -> executing). The flow
controller decides which questions from the bank are worth asking given
the answers so far; the decision tree converts the accumulated answers
into a generation mode, a confidence score and a parameter set. This
hexagonal layout keeps the core embeddable in any interface: CLI, HTTP
server, or an MCP agent host.

# Key Features

  - Deterministic interviews: the same answers always produce the same
    questions and the same decision.
  - Adaptive flow: skip rules, visibility expressions and follow-up
    queues keep irrelevant questions out of the conversation.
  - Durable sessions: pluggable stores (in-memory, Redis) with idle
    expiry and per-session serialization.
  - Strict validation: answers are checked against the question type and
    options before any state mutates.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/uxforge/maestro"
		"github.com/uxforge/maestro/pkg/domain"
	)

	func main() {
		orch, err := maestro.New()
		if err != nil {
			log.Fatal(err)
		}
		mgr := orch.Manager()

		ctx := context.Background()
		turn, err := mgr.StartSession(ctx, "marketing site for a coffee roaster", "")
		if err != nil {
			log.Fatal(err)
		}

		// Main loop: present question -> collect answer -> next turn
		for turn.Question != nil {
			log.Println("Q:", turn.Question.Text)

			// In a real app the selection comes from the user.
			answer := domain.Answer{
				QuestionID:      turn.Question.ID,
				SelectedOptions: []string{turn.Question.Options[0].ID},
			}
			turn, err = mgr.Answer(ctx, turn.SessionID, answer)
			if err != nil {
				log.Fatal(err)
			}
		}

		log.Printf("decision: %s (confidence %.2f)", turn.Decision.Mode, turn.Decision.Confidence)
	}
*/
package maestro
