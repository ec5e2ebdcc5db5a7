package alloc

// greedy spends budget one term at a time on the highest-cost tap. A tap
// that fails to improve or reaches the term limit is blocked and the step
// is retried on the next candidate without consuming budget.
func (r *runner) greedy(budget int) error {
	limit := r.termLimit()
	for spent := 0; spent < budget; {
		i := r.worst()
		if i < 0 {
			r.log.Debug("no tap can take another term", "unspent", budget-spent)
			return nil
		}

		t := r.taps[i]
		if t.Budget >= limit {
			r.blocked[i] = true
			continue
		}

		ok, err := r.assign(i, t.Budget+1)
		if err != nil {
			return err
		}
		if !ok {
			r.blocked[i] = true
			continue
		}
		spent++
	}
	return nil
}
