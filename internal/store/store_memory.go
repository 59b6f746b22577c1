package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/Sundsvallskommun/api-service-postportalservice/internal/domain"
	"github.com/Sundsvallskommun/api-service-postportalservice/pkg/platform/sentinel"
)

// InMemoryStore keeps messages and recipient snapshots in maps. It backs
// tests and local runs and doubles as a call recorder: SaveCounts exposes
// how often each entity was written.
type InMemoryStore struct {
	mu             sync.RWMutex
	messages       map[uuid.UUID]*domain.Message
	recipients     map[uuid.UUID]domain.Recipient
	messageSaves   map[uuid.UUID]int
	recipientSaves map[uuid.UUID]int
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		messages:       make(map[uuid.UUID]*domain.Message),
		recipients:     make(map[uuid.UUID]domain.Recipient),
		messageSaves:   make(map[uuid.UUID]int),
		recipientSaves: make(map[uuid.UUID]int),
	}
}

func (s *InMemoryStore) SaveRecipient(_ context.Context, _ uuid.UUID, rcpt *domain.Recipient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipients[rcpt.ID] = *rcpt
	s.recipientSaves[rcpt.ID]++
	return nil
}

func (s *InMemoryStore) SaveMessage(_ context.Context, msg *domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[msg.ID] = msg
	s.messageSaves[msg.ID]++
	return nil
}

func (s *InMemoryStore) GetMessage(_ context.Context, municipalityID string, id uuid.UUID) (*domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msg, ok := s.messages[id]
	if !ok || msg.MunicipalityID != municipalityID {
		return nil, sentinel.ErrNotFound
	}
	return msg, nil
}

// MessageSaveCount reports how many times the aggregate was persisted.
func (s *InMemoryStore) MessageSaveCount(id uuid.UUID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.messageSaves[id]
}

// RecipientSaveCount reports how many times a recipient was persisted.
func (s *InMemoryStore) RecipientSaveCount(id uuid.UUID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.recipientSaves[id]
}

// Recipient returns the last persisted snapshot of a recipient.
func (s *InMemoryStore) Recipient(id uuid.UUID) (domain.Recipient, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rcpt, ok := s.recipients[id]
	return rcpt, ok
}
