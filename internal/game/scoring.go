// internal/game/scoring.go
package game

// Scoring constants shared with the game client. Tactic values are in card
// units; PointScale converts them to displayed points, so a correct tactic
// is worth +100 and a wrong one -50.
const (
	CorrectTacticValue = 2
	WrongTacticValue   = -1
	PointScale         = 50
	StreakBonusPoints  = 50
	StreakThreshold    = 3
)

// Submission is one player's tactic picks for the round, as delivered in an
// endOfRound batch.
type Submission struct {
	PlayerID    string   `json:"id"`
	TacticsUsed []string `json:"tacticUsed"`
}

// BonusMultiplier escalates the streak bonus as the session runs long:
// x1 before round 5, x2 through round 9, x3 from round 10 on.
func BonusMultiplier(round int) int {
	switch {
	case round < 5:
		return 1
	case round < 10:
		return 2
	default:
		return 3
	}
}

// ScoreRound applies one round of submissions against the influencer answer
// key and returns a new snapshot per player. The input snapshots are never
// mutated, and each player is scored at most once per round: duplicate
// batch entries, already-scored players, and players with no submission all
// pass through unchanged.
//
// Per scored player: every submitted tactic contributes correctValue or
// wrongValue (scaled by PointScale), the summed delta is floored so the
// score never drops below zero, and the streak advances only on a round
// that was both correct and strictly score-increasing. A streak of
// StreakThreshold or more earns a bonus after the floor, so the bonus
// itself is never clamped away.
//
// An empty answer key means the round's key was never set: submissions
// still mark players as scored so the round can complete, but no score or
// streak moves.
func ScoreRound(players []*Player, subs []Submission, key InfluencerCard, correctValue, wrongValue, round int) []*Player {
	byID := make(map[string]Submission, len(subs))
	for _, sub := range subs {
		if _, dup := byID[sub.PlayerID]; dup {
			continue
		}
		byID[sub.PlayerID] = sub
	}

	correct := make(map[string]bool, len(key.Tactics))
	for _, t := range key.Tactics {
		correct[t] = true
	}

	updated := make([]*Player, 0, len(players))
	for _, prev := range players {
		sub, ok := byID[prev.ID]
		if !ok || prev.Scored {
			updated = append(updated, prev)
			continue
		}

		next := *prev
		next.TacticsUsed = sub.TacticsUsed
		next.Scored = true

		if len(key.Tactics) == 0 {
			updated = append(updated, &next)
			continue
		}

		delta := 0
		wasCorrect := false
		for _, t := range sub.TacticsUsed {
			if correct[t] {
				delta += correctValue * PointScale
				wasCorrect = true
			} else {
				delta += wrongValue * PointScale
			}
		}
		next.WasCorrect = wasCorrect

		score := prev.Score + delta
		if score < 0 {
			score = 0
		}

		if wasCorrect && score > prev.Score {
			next.Streak = prev.Streak + 1
		} else {
			next.Streak = 0
		}
		next.HasStreak = next.Streak >= StreakThreshold
		if next.HasStreak {
			score += BonusMultiplier(round) * StreakBonusPoints
		}

		next.Score = score
		updated = append(updated, &next)
	}
	return updated
}

// AllScored reports whether every registered player carries this round's
// score. The dispatcher withholds the scoreUpdate broadcast until it does.
func AllScored(players []*Player) bool {
	if len(players) == 0 {
		return false
	}
	for _, p := range players {
		if !p.Scored {
			return false
		}
	}
	return true
}

// ResetRound clears every per-round transient so the next round starts
// clean. Scores and streaks carry over.
func ResetRound(players []*Player) {
	for _, p := range players {
		p.TacticsUsed = nil
		p.Ready = false
		p.Scored = false
		p.WasCorrect = false
	}
}
