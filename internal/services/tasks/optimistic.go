package tasks

import (
	"fmt"

	"github.com/riordanpawley/tasktable/internal/domain"
)

// ApplyOptimistic shows commit locally before the server confirms it.
//
// Updates to one task go to the server one at a time. With nothing in flight
// the commit becomes the in-flight update and send is true. Otherwise it is
// merged into the update queued behind the in-flight one and send is false;
// Resolve hands the queued update back once the in-flight one is confirmed,
// based on the version the server returned.
func (s *Store) ApplyOptimistic(commit domain.Commit) (p Pending, send bool, err error) {
	task, ok := s.tasks[commit.TaskID]
	if !ok {
		return Pending{}, false, fmt.Errorf("apply %s: %w", commit.TaskID, domain.ErrNotFound)
	}
	s.tasks[commit.TaskID] = commit.Update.ApplyTo(task)

	inflight, busy := s.pending[commit.TaskID]
	if !busy {
		p = Pending{
			Token:       s.newToken(),
			TaskID:      commit.TaskID,
			Field:       commit.Field,
			Update:      commit.Update,
			BaseVersion: task.Version,
			Snapshot:    task,
		}
		s.pending[commit.TaskID] = p
		s.tokens[p.Token] = commit.TaskID

		s.logger.Debug("optimistic update", "id", commit.TaskID, "field", commit.Field, "token", p.Token)
		return p, true, nil
	}

	if q, ok := s.queued[commit.TaskID]; ok {
		q.Field = commit.Field
		q.Update = q.Update.Merge(commit.Update)
		p = q
	} else {
		p = Pending{
			Token:    s.newToken(),
			TaskID:   commit.TaskID,
			Field:    commit.Field,
			Update:   commit.Update,
			Snapshot: inflight.Snapshot,
		}
	}
	s.queued[commit.TaskID] = p

	s.logger.Debug("update queued", "id", commit.TaskID, "field", commit.Field, "behind", inflight.Token)
	return p, false, nil
}

// Resolve applies the server's answer to the in-flight update of a task.
//
// Success with nothing queued commits the server copy. Success with a queued
// update promotes it: it is based on the returned version, shown on top of the
// server copy and returned as next for the caller to send. Failure restores the
// last confirmed copy and drops the queued update with it.
func (s *Store) Resolve(token string, server *domain.Task, err error) (res Resolution, next *Pending) {
	taskID, ok := s.tokens[token]
	delete(s.tokens, token)

	inflight, busy := s.pending[taskID]
	if !ok || !busy || inflight.Token != token {
		s.logger.Debug("stale response", "token", token)
		return Stale, nil
	}

	delete(s.pending, taskID)
	queued, hasQueued := s.queued[taskID]
	delete(s.queued, taskID)

	if err != nil {
		s.tasks[taskID] = inflight.Snapshot
		s.logger.Debug("update rolled back", "id", taskID, "error", err, "dropped_queued", hasQueued)
		return RolledBack, nil
	}

	confirmed := inflight.Update.ApplyTo(inflight.Snapshot)
	if server != nil {
		confirmed = *server
	}

	if !hasQueued {
		s.tasks[taskID] = confirmed
		s.logger.Debug("update committed", "id", taskID)
		return Committed, nil
	}

	queued.BaseVersion = confirmed.Version
	queued.Snapshot = confirmed
	s.pending[taskID] = queued
	s.tokens[queued.Token] = taskID
	s.tasks[taskID] = queued.Update.ApplyTo(confirmed)

	s.logger.Debug("update committed, sending queued", "id", taskID, "token", queued.Token, "version", queued.BaseVersion)
	return Chained, &queued
}

// IsPending reports whether a task has an update in flight
func (s *Store) IsPending(id string) bool {
	_, ok := s.pending[id]
	return ok
}

// PendingCount returns how many tasks have an update in flight
func (s *Store) PendingCount() int {
	return len(s.pending)
}

// PendingFor returns the in-flight update of a task
func (s *Store) PendingFor(id string) (Pending, bool) {
	p, ok := s.pending[id]
	return p, ok
}

// QueuedFor returns the update waiting behind the in-flight one
func (s *Store) QueuedFor(id string) (Pending, bool) {
	p, ok := s.queued[id]
	return p, ok
}

// withLocalEdits records t as the confirmed copy of any outstanding updates
// and returns it with those updates shown on top
func (s *Store) withLocalEdits(t domain.Task) domain.Task {
	inflight, ok := s.pending[t.ID]
	if !ok {
		return t
	}
	inflight.Snapshot = t
	s.pending[t.ID] = inflight
	shown := inflight.Update.ApplyTo(t)

	if q, ok := s.queued[t.ID]; ok {
		q.Snapshot = t
		s.queued[t.ID] = q
		shown = q.Update.ApplyTo(shown)
	}
	return shown
}

func (s *Store) dropPending(id string) {
	delete(s.pending, id)
	delete(s.queued, id)
	for token, tid := range s.tokens {
		if tid == id {
			delete(s.tokens, token)
		}
	}
}
