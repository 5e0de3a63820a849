package service

import (
	"context"

	"github.com/syamnaths/Action-cam/internal/domain/model"
)

// The methods below address sessions by id and return snapshots, which is
// the shape the HTTP layer works with.

// CreateSession opens a session and returns its first snapshot.
func (s *Service) CreateSession(ctx context.Context, shotID, effectName string) (model.SessionView, error) {
	sess, err := s.OpenSession(ctx, shotID, effectName)
	if err != nil {
		return model.SessionView{}, err
	}
	return sess.View(), nil
}

// SessionView returns a snapshot of an open session.
func (s *Service) SessionView(ctx context.Context, id string) (model.SessionView, error) {
	sess, err := s.Session(ctx, id)
	if err != nil {
		return model.SessionView{}, err
	}
	return sess.View(), nil
}

// EditStep changes one step of a session's plan.
func (s *Service) EditStep(ctx context.Context, id string, index int, edit model.StepEdit) (model.SessionView, error) {
	sess, err := s.Session(ctx, id)
	if err != nil {
		return model.SessionView{}, err
	}
	if err := sess.EditStep(index, edit); err != nil {
		return model.SessionView{}, err
	}
	return sess.View(), nil
}

// SwitchCamera flips a session's camera.
func (s *Service) SwitchCamera(ctx context.Context, id string) (model.SessionView, error) {
	sess, err := s.Session(ctx, id)
	if err != nil {
		return model.SessionView{}, err
	}
	sess.SwitchCamera()
	return sess.View(), nil
}

// StartRecording starts a take in a session.
func (s *Service) StartRecording(ctx context.Context, id string) (model.SessionView, error) {
	sess, err := s.Session(ctx, id)
	if err != nil {
		return model.SessionView{}, err
	}
	if err := sess.StartRecording(ctx); err != nil {
		return model.SessionView{}, err
	}
	return sess.View(), nil
}

// StopRecording ends a session's take.
func (s *Service) StopRecording(ctx context.Context, id string) (model.Recording, error) {
	sess, err := s.Session(ctx, id)
	if err != nil {
		return model.Recording{}, err
	}
	return sess.StopRecording(ctx)
}
